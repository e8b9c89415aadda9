package cli

import (
	"fmt"

	"xrdpsink/config"
	"xrdpsink/logger"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var sinkCmd = &cobra.Command{
	Use:   "xrdpsink",
	Short: "xrdp audio sink, forwards playback audio to the xrdp channel server",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.Read(configPath); err != nil {
			fmt.Println("unable to read config:", err)
		}
		logger.Setup()
	},
}

func init() {
	sinkCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"Optional absolute path to toml config file")
	sinkCmd.PersistentFlags().StringVarP(
		&logLevel,
		"log-level",
		"l",
		"info",
		"Log level (debug, info, warn, error)")
	logger.BindLogLevelFlag(sinkCmd.PersistentFlags().Lookup("log-level"))
	sinkCmd.AddCommand(runCmd, listenCmd, versionCmd)
}

func Run() error {
	return sinkCmd.Execute()
}
