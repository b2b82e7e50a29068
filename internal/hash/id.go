// Package hash provides the xxHash64 digests used for plate fingerprints and
// plate file checksums.
package hash

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Sum computes the xxHash64 of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Digest accumulates typed values into a single xxHash64.
//
// Every value is written with a fixed width (or length prefix for strings) so
// that different field sequences cannot collide by concatenation.
type Digest struct {
	d   *xxhash.Digest
	buf [8]byte
}

// NewDigest returns an empty Digest.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// Uint64 writes v.
func (h *Digest) Uint64(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	_, _ = h.d.Write(h.buf[:])
}

// Int writes v.
func (h *Digest) Int(v int) {
	h.Uint64(uint64(v))
}

// Bool writes v as a single byte.
func (h *Digest) Bool(v bool) {
	if v {
		_, _ = h.d.Write([]byte{1})
		return
	}
	_, _ = h.d.Write([]byte{0})
}

// Float64 writes the IEEE 754 bits of v.
func (h *Digest) Float64(v float64) {
	h.Uint64(math.Float64bits(v))
}

// OptionalFloat64 writes a presence flag followed by the value when present.
func (h *Digest) OptionalFloat64(v *float64) {
	h.Bool(v != nil)
	if v != nil {
		h.Float64(*v)
	}
}

// String writes the length of s followed by its bytes.
func (h *Digest) String(s string) {
	h.Int(len(s))
	_, _ = h.d.WriteString(s)
}

// Sum64 returns the digest of everything written so far.
func (h *Digest) Sum64() uint64 {
	return h.d.Sum64()
}
