package device

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"xrdpsink/audio"
	"xrdpsink/sink"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Numbered bytes, n of them
func counting(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i + 1)
	}
	return b
}

func newTestDevice(src io.Reader) *Device {
	d := New("test", audio.DefaultSpec(), src, DEFAULT_MAX_LATENCY)
	d.SetMaxRequest(64)
	d.SetMaxRewind(16)
	return d
}

func TestRenderWholeFrames(t *testing.T) {
	d := newTestDevice(bytes.NewReader(counting(100)))
	c := d.Render(10)
	assert.Equal(t, 8, c.Length)
	assert.Equal(t, counting(8), c.Bytes())

	c = d.Render(3)
	assert.Zero(t, c.Length)
}

func TestRenderPadsSilence(t *testing.T) {
	d := newTestDevice(bytes.NewReader(counting(6)))
	c := d.Render(12)
	require.Equal(t, 12, c.Length)
	assert.Equal(t, append(counting(6), 0, 0, 0, 0, 0, 0), c.Bytes())
	// Source ended, only silence from now on
	c = d.Render(8)
	assert.Equal(t, make([]byte, 8), c.Bytes())
}

func TestRenderPadsFormatSilence(t *testing.T) {
	spec, err := audio.NewSpec("u8", 8000, 1)
	require.NoError(t, err)
	d := New("u8", spec, bytes.NewReader(nil), DEFAULT_MAX_LATENCY)
	c := d.Render(4)
	assert.Equal(t, []byte{0x80, 0x80, 0x80, 0x80}, c.Bytes())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device gone")
}

func TestRenderSourceError(t *testing.T) {
	d := newTestDevice(failingReader{})
	c := d.Render(8)
	assert.Equal(t, make([]byte, 8), c.Bytes())
	assert.True(t, d.drained)
}

func TestRenderMuted(t *testing.T) {
	d := newTestDevice(bytes.NewReader(counting(100)))
	d.ProcessMessage(sink.Message{Kind: sink.SetMute, Mute: true})
	c := d.Render(8)
	assert.Equal(t, make([]byte, 8), c.Bytes())

	// Muted samples still advance the source
	d.ProcessMessage(sink.Message{Kind: sink.SetMute, Mute: false})
	c = d.Render(4)
	assert.Equal(t, []byte{9, 10, 11, 12}, c.Bytes())
}

func TestRewindReplays(t *testing.T) {
	d := newTestDevice(bytes.NewReader(counting(100)))
	d.Render(8)
	d.Render(8)
	d.ProcessRewind(4)
	c := d.Render(8)
	assert.Equal(t, []byte{13, 14, 15, 16, 17, 18, 19, 20}, c.Bytes())
}

func TestRewindClampedToHistory(t *testing.T) {
	d := newTestDevice(bytes.NewReader(counting(100)))
	d.Render(32)
	// Only the last 16 bytes are kept
	assert.Len(t, d.history, 16)
	d.ProcessRewind(64)
	c := d.Render(16)
	assert.Equal(t, counting(32)[16:], c.Bytes())
}

func TestRewindZero(t *testing.T) {
	d := newTestDevice(bytes.NewReader(counting(100)))
	d.Render(8)
	d.ProcessRewind(0)
	assert.Len(t, d.history, 8)
	assert.Empty(t, d.replay)
}

func TestSetMaxRewindTrimsHistory(t *testing.T) {
	d := newTestDevice(bytes.NewReader(counting(100)))
	d.Render(16)
	d.SetMaxRewind(4)
	assert.Equal(t, []byte{13, 14, 15, 16}, d.history)
	d.SetMaxRewind(0)
	d.Render(4)
	assert.Empty(t, d.history)
}

func TestRequestedLatency(t *testing.T) {
	d := newTestDevice(nil)
	_, ok := d.RequestedLatency()
	assert.False(t, ok)
	r := d.ProcessMessage(sink.Message{Kind: sink.GetRequestedLatency})
	assert.Equal(t, uint64(DEFAULT_MAX_LATENCY), r.Latency)

	d.SetRequestedLatency(40000)
	usec, ok := d.RequestedLatency()
	assert.True(t, ok)
	assert.Equal(t, uint64(40000), usec)
	r = d.ProcessMessage(sink.Message{Kind: sink.GetRequestedLatency})
	assert.Equal(t, uint64(40000), r.Latency)

	d.ClearRequestedLatency()
	_, ok = d.RequestedLatency()
	assert.False(t, ok)
}

func TestProcessMessage(t *testing.T) {
	d := newTestDevice(nil)
	d.ProcessMessage(sink.Message{Kind: sink.SetVolume, Volume: 0.25})
	d.ProcessMessage(sink.Message{Kind: sink.SetState, State: sink.Running})
	v, muted := d.Volume()
	assert.Equal(t, 0.25, v)
	assert.False(t, muted)
	assert.Equal(t, sink.Running, d.State())
	assert.Equal(t, sink.StatusOK, d.ProcessMessage(sink.Message{Kind: sink.Kind(99)}).Status)
}

func TestRequestUnload(t *testing.T) {
	d := newTestDevice(nil)
	d.RequestUnload()
	d.RequestUnload()
	select {
	case <-d.Unload():
	default:
		t.Fatal("unload channel not closed")
	}
}

type closer struct {
	io.Reader
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return nil
}

func TestClose(t *testing.T) {
	c := &closer{Reader: bytes.NewReader(nil)}
	assert.NoError(t, newTestDevice(c).Close())
	assert.True(t, c.closed)
	assert.NoError(t, newTestDevice(bytes.NewReader(nil)).Close())
}

func TestConfigDefaults(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, "silence", c.Source())
	assert.Zero(t, c.Latency())
	assert.Equal(t, uint64(DEFAULT_MAX_LATENCY), c.MaxLatency())
}
