package sink

import (
	"testing"

	"xrdpsink/audio"
	"xrdpsink/clock"
	"xrdpsink/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessRewind(t *testing.T) {
	const now = 1000000
	tt := []struct {
		name      string
		state     State
		ahead     int64 // timestamp - now
		requested int
		accepted  int
	}{
		{"not opened", Suspended, 30000, 1000, 0},
		{"nothing requested", Running, 30000, 0, 0},
		{"negative request", Running, 30000, -5, 0},
		{"clock behind", Running, -1000, 1000, 0},
		{"clock at now", Running, 0, 1000, 0},
		{"less than a frame ahead", Idle, 10, 1000, 0},
		{"clamped to available", Running, 11338, 5000, 2000},
		{"within available", Running, 30000, 1000, 1000},
		{"idle device", Idle, 30000, 1000, 1000},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			h := newFakeHost(chunk10ms)
			e := newTestEngine(t, h, clock.NewFake(now), &dialer{})
			e.state = tc.state
			e.timestamp = uint64(now + tc.ahead)
			e.rewindRequested = true
			e.rewind = tc.requested

			before := e.timestamp
			e.processRewind(now)
			assert.Equal(t, []int{tc.accepted}, h.rewinds)
			assert.Equal(t, before-e.spec.BytesToUsec(tc.accepted), e.timestamp)
			assert.False(t, e.rewindRequested)
			assert.Zero(t, e.rewind)
		})
	}
}

func TestRewindThroughIterate(t *testing.T) {
	h := newFakeHost(chunk10ms)
	e := newTestEngine(t, h, clock.NewFake(0), &dialer{})
	e.state = Running
	e.iterate(0)
	require.Equal(t, uint64(30000), e.timestamp)

	e.process(Message{Kind: RequestRewind, Bytes: 100})
	e.process(Message{Kind: RequestRewind, Bytes: chunk10ms})
	assert.Equal(t, chunk10ms, e.rewind)

	// 20ms in, 10ms ahead: the whole chunk can be taken back, then the
	// renderer produces it again
	deadline, armed := e.iterate(20000)
	assert.True(t, armed)
	assert.Equal(t, []int{chunk10ms}, h.rewinds)
	assert.Equal(t, uint64(50000), deadline)
	assert.Len(t, h.requested, 6)
}

func TestRewindNotOpenedStillReports(t *testing.T) {
	h := newFakeHost(chunk10ms)
	e := newTestEngine(t, h, clock.NewFake(0), &dialer{})
	e.state = Suspended
	e.process(Message{Kind: RequestRewind, Bytes: 500})
	_, armed := e.iterate(0)
	assert.False(t, armed)
	assert.Equal(t, []int{0}, h.rewinds)
}

func TestRewindMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	h := newFakeHost(chunk10ms)
	e, err := New(h, Options{
		Spec:       audio.DefaultSpec(),
		SocketPath: "/tmp/.xrdp/test",
		Clock:      clock.NewFake(0),
		Metrics:    m,
		Dial:       (&dialer{}).Dial,
	})
	require.NoError(t, err)
	e.state = Running
	e.timestamp = 30000
	e.rewindRequested = true
	e.rewind = 1000
	e.processRewind(0)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Rewinds))
	assert.Equal(t, float64(1000), testutil.ToFloat64(m.RewoundBytes))
}
