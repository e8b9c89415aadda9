package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tt := []struct {
		name     string
		input    string
		expected int
		err      error
	}{
		{"s16le", "s16le", 2, nil},
		{"alias", "s16", 2, nil},
		{"case", "FLOAT32LE", 4, nil},
		{"24 bit packed", "s24le", 3, nil},
		{"unknown", "s48", 0, ErrUnknownFormat},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			f, err := ParseFormat(tc.input)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, f.Size)
		})
	}
}

func TestNewSpec(t *testing.T) {
	tt := []struct {
		name     string
		format   string
		rate     int
		channels int
		err      error
	}{
		{"default", "s16le", 44100, 2, nil},
		{"mono", "u8", 8000, 1, nil},
		{"zero rate", "s16le", 0, 2, ErrInvalidSpec},
		{"rate too high", "s16le", MAX_RATE + 1, 2, ErrInvalidSpec},
		{"no channels", "s16le", 44100, 0, ErrInvalidSpec},
		{"too many channels", "s16le", 44100, MAX_CHANNELS + 1, ErrInvalidSpec},
		{"bad format", "nope", 44100, 2, ErrUnknownFormat},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSpec(tc.format, tc.rate, tc.channels)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	s := DefaultSpec()
	assert.Equal(t, 4, s.FrameSize())
	// 10ms at 44100Hz is 441 frames
	assert.Equal(t, 1764, s.UsecToBytes(10000))
	assert.Equal(t, uint64(10000), s.BytesToUsec(1764))
	// partial frames are dropped
	assert.Equal(t, s.BytesToUsec(1764), s.BytesToUsec(1767))
	assert.Equal(t, uint64(0), s.BytesToUsec(0))
	assert.Equal(t, uint64(0), s.BytesToUsec(-4))
	// 2000 bytes is 500 frames
	assert.Equal(t, uint64(500*1000000/44100), s.BytesToUsec(2000))
	assert.Equal(t, 5292, s.UsecToBytes(30000))
}

func TestConversionsRoundDown(t *testing.T) {
	s := Spec{Format: Format{"s16le", 2}, Rate: 48000, Channels: 2}
	assert.Equal(t, 0, s.UsecToBytes(20))
	assert.Equal(t, 4, s.UsecToBytes(21))
	assert.Equal(t, uint64(20), s.BytesToUsec(4))
}

func TestParseChannelMap(t *testing.T) {
	m, err := ParseChannelMap("front-left, front-right", 2)
	require.NoError(t, err)
	assert.Equal(t, ChannelMap{"front-left", "front-right"}, m)

	m, err = ParseChannelMap("", 2)
	require.NoError(t, err)
	assert.Nil(t, m)

	_, err = ParseChannelMap("mono", 2)
	assert.ErrorIs(t, err, ErrChannelMap)

	_, err = ParseChannelMap("left,,right", 3)
	assert.ErrorIs(t, err, ErrChannelMap)
}

func TestSpecString(t *testing.T) {
	assert.Equal(t, "s16le 2ch 44100Hz", DefaultSpec().String())
}

func TestFormatSilence(t *testing.T) {
	tt := []struct {
		format   string
		expected byte
	}{
		{"s16le", 0},
		{"float32le", 0},
		{"u8", 0x80},
		{"alaw", 0xd5},
		{"ulaw", 0xff},
	}
	for _, tc := range tt {
		t.Run(tc.format, func(t *testing.T) {
			f, err := ParseFormat(tc.format)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, f.Silence())
		})
	}
}

func TestParseFormatNativeOrder(t *testing.T) {
	suffix := NativeSuffix()
	tt := []struct {
		input    string
		expected string
	}{
		{"s16", "s16" + suffix},
		{"s16ne", "s16" + suffix},
		{"S32NE", "s32" + suffix},
		{"float32", "float32" + suffix},
		{"float32ne", "float32" + suffix},
		{"s24-32ne", "s24-32" + suffix},
		{"s16be", "s16be"},
	}
	for _, tc := range tt {
		t.Run(tc.input, func(t *testing.T) {
			f, err := ParseFormat(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, f.Name)
		})
	}
	_, err := ParseFormat("u8ne")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestNativeSuffixMatchesByteOrder(t *testing.T) {
	b := make([]byte, 2)
	binary.NativeEndian.PutUint16(b, 1)
	if b[0] == 1 {
		assert.Equal(t, "le", NativeSuffix())
	} else {
		assert.Equal(t, "be", NativeSuffix())
	}
}
