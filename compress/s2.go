package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/elisa/errs"
	"github.com/arloliu/elisa/format"
)

// S2Codec uses S2, the Snappy-compatible block format from klauspost/compress.
type S2Codec struct{}

var _ Codec = S2Codec{}

func (S2Codec) Type() format.CompressionType { return format.CompressionS2 }

func (S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress checks the block's own length prefix against rawSize before
// allocating.
func (S2Codec) Decompress(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return checkSize(nil, rawSize)
	}
	if err := checkRawSize(data, rawSize, 0); err != nil {
		return nil, err
	}
	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}
	if n != rawSize {
		return nil, fmt.Errorf("%w: s2 block holds %d bytes, header says %d", errs.ErrPayloadSizeMismatch, n, rawSize)
	}

	out, err := s2.Decode(make([]byte, n), data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return out, nil
}
