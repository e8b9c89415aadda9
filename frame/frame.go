// Package frame implements the length-prefixed framing used on the local
// sink socket. A frame is an 8 byte header of two int32 values, code and
// total length, written in native byte order, followed by an optional
// payload. The transport is same-host only so no portable ordering is used.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Frame codes
type Code int32

const (
	Data  Code = 0 // Audio payload follows the header
	Close Code = 1 // Stream closed, no payload
)

func (c Code) String() string {
	switch c {
	case Data:
		return "data"
	case Close:
		return "close"
	default:
		return fmt.Sprintf("code(%d)", int32(c))
	}
}

const (
	HeaderSize = 8
	// Upper bound accepted by the consumer for a single frame
	MaxFrameSize = 1 << 20
)

// Byte order of the header fields
var ByteOrder binary.ByteOrder = binary.NativeEndian

var (
	ErrShortHeader  = errors.New("frame header too short")
	ErrUnknownCode  = errors.New("unknown frame code")
	ErrInvalidSize  = errors.New("invalid frame size")
	ErrClosePayload = errors.New("close frame carries payload")
)

// Header is the fixed frame prefix. Bytes is the total frame length,
// header included.
type Header struct {
	Code  Code
	Bytes int32
}

// DataHeader returns the header for a DATA frame carrying n payload bytes
func DataHeader(n int) Header {
	return Header{Code: Data, Bytes: int32(n + HeaderSize)}
}

// CloseHeader returns the header of a CLOSE frame
func CloseHeader() Header {
	return Header{Code: Close, Bytes: HeaderSize}
}

// PayloadLen returns the number of payload bytes following the header
func (h Header) PayloadLen() int {
	return int(h.Bytes) - HeaderSize
}

// Put encodes the header into the first HeaderSize bytes of b
func (h Header) Put(b []byte) {
	ByteOrder.PutUint32(b[0:4], uint32(h.Code))
	ByteOrder.PutUint32(b[4:8], uint32(h.Bytes))
}

// Encode returns the encoded header
func (h Header) Encode() []byte {
	b := make([]byte, HeaderSize)
	h.Put(b)
	return b
}

// Validate checks a header received from a producer
func (h Header) Validate() error {
	switch h.Code {
	case Data:
	case Close:
		if h.Bytes != HeaderSize {
			return ErrClosePayload
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownCode, int32(h.Code))
	}
	if h.Bytes < HeaderSize || h.Bytes > MaxFrameSize {
		return fmt.Errorf("%w: %d", ErrInvalidSize, h.Bytes)
	}
	return nil
}

// ParseHeader decodes a header from b
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: got %d bytes", ErrShortHeader, len(b))
	}
	return Header{
		Code:  Code(int32(ByteOrder.Uint32(b[0:4]))),
		Bytes: int32(ByteOrder.Uint32(b[4:8])),
	}, nil
}

// Read reads one complete frame from r. io.EOF is returned only when r
// ends cleanly on a frame boundary.
func Read(r io.Reader) (Header, []byte, error) {
	var hb [HeaderSize]byte
	if _, err := io.ReadFull(r, hb[:]); err != nil {
		return Header{}, nil, err
	}
	h, err := ParseHeader(hb[:])
	if err != nil {
		return Header{}, nil, err
	}
	if err := h.Validate(); err != nil {
		return h, nil, err
	}
	if h.PayloadLen() == 0 {
		return h, nil, nil
	}
	payload := make([]byte, h.PayloadLen())
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return h, nil, err
	}
	return h, payload, nil
}
