package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpoolReadWrite(t *testing.T) {
	s := newSpool(t, 16)
	n, err := s.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, int64(4), s.Len())

	b := make([]byte, 8)
	n, err = s.Read(b)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{1, 2, 3, 4}, b[:n])
	assert.Equal(t, int64(0), s.Len())
}

func TestSpoolEmptyRead(t *testing.T) {
	s := newSpool(t, 16)
	n, err := s.Read(make([]byte, 4))
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSpoolOverrun(t *testing.T) {
	s := newSpool(t, 8)
	_, err := s.Write([]byte{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	_, err = s.Write([]byte{7, 8, 9, 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.Dropped())
	assert.Equal(t, int64(8), s.Len())

	b := make([]byte, 8)
	n, err := s.Read(b)
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 4, 5, 6, 7, 8, 9, 10}, b[:n])
}

func TestSpoolReset(t *testing.T) {
	s := newSpool(t, 8)
	_, _ = s.Write([]byte{1, 2, 3})
	s.Reset()
	assert.Equal(t, int64(0), s.Len())
}

func newSpool(t *testing.T, size int64) *Spool {
	s, err := NewSpool(size)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}
