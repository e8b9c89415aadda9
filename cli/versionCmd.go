package cli

import (
	"fmt"
	"strings"

	"xrdpsink/audio"
	"xrdpsink/build"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build version and time",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("OS:", build.OS())
		fmt.Println("Architecture:", build.Architecture())
		fmt.Println("Version:", build.Version())
		fmt.Println("Time:", build.TimeStr())
		fmt.Println("Outputs:", strings.Join(audio.Outputs(), ", "))
	},
}
