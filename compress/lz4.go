package compress

import (
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/elisa/errs"
	"github.com/arloliu/elisa/format"
)

// lz4MaxExpansion bounds how far one block byte can expand: a match length
// grows by 255 for every extra length byte.
const lz4MaxExpansion = 255

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Codec stores a single LZ4 block. The block carries no length, so the
// decoder relies on the raw size from the file header.
type LZ4Codec struct{}

var _ Codec = LZ4Codec{}

func (LZ4Codec) Type() format.CompressionType { return format.CompressionLZ4 }

func (LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	return dst[:n], nil
}

func (LZ4Codec) Decompress(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return checkSize(nil, rawSize)
	}
	if rawSize <= 0 {
		return nil, fmt.Errorf("%w: %d byte lz4 block for a %d byte payload", errs.ErrPayloadSizeMismatch, len(data), rawSize)
	}
	if err := checkRawSize(data, rawSize, lz4MaxExpansion); err != nil {
		return nil, err
	}

	buf := make([]byte, rawSize)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}

	return checkSize(buf[:n], rawSize)
}
