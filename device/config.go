package device

import "github.com/spf13/viper"

const (
	vSource     = "device.source"
	vLatency    = "device.latency"
	vMaxLatency = "device.max_latency"

	// Default upper bound of the latency range, 2 seconds
	DEFAULT_MAX_LATENCY = 2000000
)

func init() {
	viper.SetDefault(vSource, "silence")
	viper.SetDefault(vLatency, 0)
	viper.SetDefault(vMaxLatency, DEFAULT_MAX_LATENCY)
}

type Configurer interface {
	Source() string
	Latency() uint64
	MaxLatency() uint64
}

// Stand-alone device configuration read from viper
type Config struct{}

// Audio source, "silence", "tone" or a file path
func (c Config) Source() string {
	return viper.GetString(vSource)
}

// Requested latency in microseconds, zero when unset
func (c Config) Latency() uint64 {
	return viper.GetUint64(vLatency)
}

func (c Config) MaxLatency() uint64 {
	return viper.GetUint64(vMaxLatency)
}

func NewConfig() Config {
	return Config{}
}
