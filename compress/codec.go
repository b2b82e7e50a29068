// Package compress provides the payload codecs used by plate files.
//
// A plate file stores its JSON payload either raw or compressed with Zstd, S2
// or LZ4. Every codec is stateless from the caller's point of view and safe for
// concurrent use; pooled encoders and decoders are an implementation detail.
package compress

import (
	"fmt"

	"github.com/arloliu/elisa/errs"
	"github.com/arloliu/elisa/format"
)

// Codec compresses and decompresses whole payloads.
type Codec interface {
	// Type identifies the algorithm in file headers.
	Type() format.CompressionType

	// Compress returns the compressed form of data. The result may alias data
	// for codecs that do not transform it.
	Compress(data []byte) ([]byte, error)

	// Decompress restores a payload of rawSize bytes. rawSize comes from the
	// file header and is checked against MaxPayloadSize and against what
	// data could expand to before any output buffer is allocated.
	Decompress(data []byte, rawSize int) ([]byte, error)
}

// MaxPayloadSize is the largest raw payload a codec decodes.
const MaxPayloadSize = 16 << 20

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NoOpCodec{},
	format.CompressionZstd: ZstdCodec{},
	format.CompressionS2:   S2Codec{},
	format.CompressionLZ4:  LZ4Codec{},
}

// ForType returns the built-in codec of the given compression type.
//
// Returns:
//   - Codec: Shared codec instance
//   - error: ErrInvalidCompression for unknown types
func ForType(t format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[t]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %d", errs.ErrInvalidCompression, uint8(t))
}

// ForName returns the codec for a case-insensitive algorithm name such as
// "zstd" or "none".
func ForName(name string) (Codec, error) {
	t, ok := format.ParseCompressionType(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidCompression, name)
	}

	return ForType(t)
}

// checkRawSize rejects a header size that exceeds MaxPayloadSize or that
// stored bytes cannot decode to when every byte expands at most maxExpansion
// times. A maxExpansion of zero skips the ratio check.
func checkRawSize(stored []byte, rawSize, maxExpansion int) error {
	if rawSize < 0 || rawSize > MaxPayloadSize {
		return fmt.Errorf("%w: header says %d bytes, limit is %d", errs.ErrPayloadTooLarge, rawSize, MaxPayloadSize)
	}
	if maxExpansion > 0 && rawSize > len(stored)*maxExpansion {
		return fmt.Errorf("%w: %d stored bytes cannot hold %d bytes", errs.ErrPayloadSizeMismatch, len(stored), rawSize)
	}

	return nil
}

// checkSize verifies a decoded payload against the size recorded in the header.
func checkSize(out []byte, rawSize int) ([]byte, error) {
	if len(out) != rawSize {
		return nil, fmt.Errorf("%w: decoded %d bytes, header says %d", errs.ErrPayloadSizeMismatch, len(out), rawSize)
	}

	return out, nil
}
