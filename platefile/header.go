package platefile

import (
	"fmt"
	"time"

	"github.com/arloliu/elisa/endian"
	"github.com/arloliu/elisa/errs"
	"github.com/arloliu/elisa/format"
)

const (
	// HeaderSize is the fixed size of a plate file header in bytes.
	HeaderSize = 32

	// MagicV1 occupies bits 4-15 of the options field.
	MagicV1 = 0xE150

	magicMask   = 0xFFF0
	flagBig     = 0x0001 // payload sizes and checksum are big-endian
	flagReserve = 0x000E
)

// Header is the fixed-size prefix of a plate file.
//
// Layout (byte offsets):
//
//	0-1   options: magic (bits 4-15) and flags, always little-endian
//	2     compression type of the payload
//	3     reserved, zero
//	4-11  save time, unix microseconds
//	12-15 raw (uncompressed) payload size
//	16-19 stored payload size
//	20-27 xxHash64 of the raw payload
//	28-31 reserved, zero
//
// Fields after the options use the byte order selected by the flags.
type Header struct {
	Options     uint16
	Compression format.CompressionType
	SavedAt     int64
	RawSize     uint32
	StoredSize  uint32
	Checksum    uint64
}

// NewHeader returns a header with the current magic and the given compression.
func NewHeader(compression format.CompressionType, bigEndian bool) Header {
	h := Header{Options: MagicV1, Compression: compression}
	if bigEndian {
		h.Options |= flagBig
	}

	return h
}

// BigEndian reports whether the header's multi-byte fields are big-endian.
func (h Header) BigEndian() bool {
	return h.Options&flagBig != 0
}

// SavedTime returns the save time.
func (h Header) SavedTime() time.Time {
	return time.UnixMicro(h.SavedAt)
}

// Validate checks the magic, the reserved flag bits and the compression type.
func (h Header) Validate() error {
	if h.Options&magicMask != MagicV1 {
		return fmt.Errorf("%w: options 0x%04x", errs.ErrInvalidMagic, h.Options)
	}
	if h.Options&flagReserve != 0 {
		return fmt.Errorf("%w: reserved flags 0x%04x set", errs.ErrUnsupportedVersion, h.Options&flagReserve)
	}
	switch h.Compression {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
	default:
		return fmt.Errorf("%w: %d", errs.ErrInvalidCompression, uint8(h.Compression))
	}

	return nil
}

// Bytes serializes the header.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := endian.Select(h.BigEndian())

	endian.Little().PutUint16(b[0:2], h.Options)
	b[2] = uint8(h.Compression)
	engine.PutUint64(b[4:12], uint64(h.SavedAt))
	engine.PutUint32(b[12:16], h.RawSize)
	engine.PutUint32(b[16:20], h.StoredSize)
	engine.PutUint64(b[20:28], h.Checksum)

	return b
}

// ParseHeader parses and validates the header at the start of data.
//
// Parameters:
//   - data: File contents; only the first HeaderSize bytes are read
//
// Returns:
//   - Header: Parsed header
//   - error: ErrInvalidHeaderSize, ErrInvalidMagic, ErrUnsupportedVersion or ErrInvalidCompression
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}

	h := Header{Options: endian.Little().Uint16(data[0:2])}
	engine := endian.Select(h.BigEndian())
	h.Compression = format.CompressionType(data[2])
	h.SavedAt = int64(engine.Uint64(data[4:12]))
	h.RawSize = engine.Uint32(data[12:16])
	h.StoredSize = engine.Uint32(data[16:20])
	h.Checksum = engine.Uint64(data[20:28])

	if err := h.Validate(); err != nil {
		return Header{}, err
	}

	return h, nil
}
