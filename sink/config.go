package sink

import (
	"xrdpsink/audio"

	"github.com/spf13/viper"
)

const (
	vName       = "sink.name"
	vFormat     = "sink.format"
	vRate       = "sink.rate"
	vChannels   = "sink.channels"
	vChannelMap = "sink.channel_map"

	DEFAULT_NAME = "xrdp-sink"
)

func init() {
	viper.SetDefault(vName, DEFAULT_NAME)
	viper.SetDefault(vFormat, audio.DEFAULT_FORMAT)
	viper.SetDefault(vRate, audio.DEFAULT_RATE)
	viper.SetDefault(vChannels, audio.DEFAULT_CHANNELS)
	viper.SetDefault(vChannelMap, "")
}

type Configurer interface {
	Name() string
	Format() string
	Rate() int
	Channels() int
	ChannelMap() string
}

// Sink device configuration read from viper
type Config struct{}

func (c Config) Name() string {
	return viper.GetString(vName)
}

func (c Config) Format() string {
	return viper.GetString(vFormat)
}

func (c Config) Rate() int {
	return viper.GetInt(vRate)
}

func (c Config) Channels() int {
	return viper.GetInt(vChannels)
}

// Comma separated channel positions, empty for the default layout
func (c Config) ChannelMap() string {
	return viper.GetString(vChannelMap)
}

func NewConfig() Config {
	return Config{}
}

// Builds the sample spec and channel map described by c
func SpecFrom(c Configurer) (audio.Spec, audio.ChannelMap, error) {
	spec, err := audio.NewSpec(c.Format(), c.Rate(), c.Channels())
	if err != nil {
		return audio.Spec{}, nil, err
	}
	m, err := audio.ParseChannelMap(c.ChannelMap(), spec.Channels)
	if err != nil {
		return audio.Spec{}, nil, err
	}
	return spec, m, nil
}
