// Logger Configuration
//
// Example TOML:
// [log]
// level = "debug"
// logfile = "/var/log/xrdpsink.log"
// format = "json"
//
// Environment Variables:
// XRDPSINK_LOG_LEVEL = "info"
// XRDPSINK_LOG_LOGFILE = "/var/log/xrdpsink.log"
// XRDPSINK_LOG_FORMAT = "text"
//
// CLI Flags:
// -l/--log-level info

package logger

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	vLevel   = "log.level"
	vFormat  = "log.format"
	vLogFile = "log.logfile"
	vConsole = "log.console_output"
)

// Set logging configuration defaults
func init() {
	viper.BindEnv(vLevel)
	viper.SetDefault(vLevel, "info")
	viper.BindEnv(vFormat)
	viper.SetDefault(vFormat, "text")
	viper.BindEnv(vLogFile)
	viper.SetDefault(vLogFile, "")
	viper.SetDefault(vConsole, true)
}

// Logger configuration interface
type Configurer interface {
	Level() string
	Format() string
	LogFile() string
	ConsoleOutput() bool
}

// Allows us to bind a cli flag to a viper config option for log.level
func BindLogLevelFlag(flag *pflag.Flag) {
	viper.BindPFlag(vLevel, flag)
}

// A simple type for accessing logging configuration
type Config struct{}

// Returns the logging verbosity level
func (c Config) Level() string {
	return viper.GetString(vLevel)
}

// Returns absolute path to logfile
func (c Config) LogFile() string {
	return viper.GetString(vLogFile)
}

// Returns logging format to use
func (c Config) Format() string {
	return viper.GetString(vFormat)
}

// Returns console log output bool
func (c Config) ConsoleOutput() bool {
	return viper.GetBool(vConsole)
}

// Constructs a Config
func NewConfig() Config {
	return Config{}
}
