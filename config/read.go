package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Configuration defaults
func init() {
	viper.SetTypeByDefaultValue(true)
	viper.SetConfigType("toml")
	viper.SetConfigName("config")
	viper.AddConfigPath("/etc/xrdpsink")
	viper.AddConfigPath("$HOME/.config/xrdpsink")
	viper.SetEnvPrefix("XRDPSINK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// Read configuration, an explicit path overrides the search paths. A
// missing config file in the search paths is not an error.
func Read(path string) error {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return err
		}
		viper.SetConfigFile(path)
	}
	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}
