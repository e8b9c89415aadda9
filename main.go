package main

import (
	"fmt"
	"os"

	"xrdpsink/cli"
)

// Application Entry Point
func main() {
	if err := cli.Run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
