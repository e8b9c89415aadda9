package sink

import (
	"testing"

	"xrdpsink/audio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	format     string
	rate       int
	channels   int
	channelMap string
}

func (c testConfig) Name() string       { return DEFAULT_NAME }
func (c testConfig) Format() string     { return c.format }
func (c testConfig) Rate() int          { return c.rate }
func (c testConfig) Channels() int      { return c.channels }
func (c testConfig) ChannelMap() string { return c.channelMap }

func TestConfigDefaults(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, "xrdp-sink", c.Name())
	spec, m, err := SpecFrom(c)
	require.NoError(t, err)
	assert.Equal(t, audio.DefaultSpec(), spec)
	assert.Nil(t, m)
}

func TestSpecFrom(t *testing.T) {
	tt := []struct {
		name   string
		config testConfig
		err    error
	}{
		{"valid", testConfig{"s16le", 48000, 2, "front-left,front-right"}, nil},
		{"mono float", testConfig{"float32le", 22050, 1, ""}, nil},
		{"unknown format", testConfig{"mp3", 44100, 2, ""}, audio.ErrUnknownFormat},
		{"zero rate", testConfig{"s16le", 0, 2, ""}, audio.ErrInvalidSpec},
		{"map mismatch", testConfig{"s16le", 44100, 2, "mono"}, audio.ErrChannelMap},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			spec, _, err := SpecFrom(tc.config)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.config.rate, spec.Rate)
			assert.Equal(t, tc.config.channels, spec.Channels)
		})
	}
}
