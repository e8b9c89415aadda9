package audio

import (
	"encoding/binary"
	"fmt"
)

// Byte order of a 16 bit sample format
func S16Order(spec Spec) (binary.ByteOrder, error) {
	switch spec.Format.Name {
	case "s16le":
		return binary.LittleEndian, nil
	case "s16be":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("%w: need s16, got %s", ErrUnknownFormat, spec.Format.Name)
	}
}

// Decodes interleaved 16 bit samples from src into dst, returning the number
// of samples decoded
func DecodeS16(dst []int16, src []byte, order binary.ByteOrder) int {
	n := min(len(dst), len(src)/2)
	for i := 0; i < n; i++ {
		dst[i] = int16(order.Uint16(src[i*2:]))
	}
	return n
}
