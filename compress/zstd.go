package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/elisa/errs"
	"github.com/arloliu/elisa/format"
)

// zstdMaxExpansion bounds how far one frame byte can expand: an RLE block
// turns 4 bytes into at most 128KiB.
const zstdMaxExpansion = 1 << 15

// ZstdCodec uses Zstandard at the default level. Builds with cgo use the
// gozstd bindings, other builds use the pure Go klauspost/compress encoder.
// Both produce standard frames that either build can read.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

func (ZstdCodec) Type() format.CompressionType { return format.CompressionZstd }

// checkZstdFrame validates rawSize against the limits and against the
// content size the frame header declares, if any.
func checkZstdFrame(data []byte, rawSize int) error {
	if err := checkRawSize(data, rawSize, zstdMaxExpansion); err != nil {
		return err
	}

	var h zstd.Header
	if err := h.Decode(data); err != nil {
		return fmt.Errorf("zstd decompression failed: %w", err)
	}
	if h.HasFCS && h.FrameContentSize != uint64(rawSize) {
		return fmt.Errorf("%w: zstd frame holds %d bytes, header says %d", errs.ErrPayloadSizeMismatch, h.FrameContentSize, rawSize)
	}

	return nil
}
