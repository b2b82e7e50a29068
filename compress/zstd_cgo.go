//go:build cgo

package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/valyala/gozstd"
)

const zstdLevel = 3

func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, zstdLevel), nil
}

// Decompress streams the frame so that output beyond rawSize is never
// buffered, whatever the frame headers claim.
func (ZstdCodec) Decompress(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return checkSize(nil, rawSize)
	}
	if err := checkZstdFrame(data, rawSize); err != nil {
		return nil, err
	}

	zr := gozstd.NewReader(bytes.NewReader(data))
	defer zr.Release()

	out := bytes.NewBuffer(make([]byte, 0, rawSize))
	if _, err := io.Copy(out, io.LimitReader(zr, int64(rawSize)+1)); err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return checkSize(out.Bytes(), rawSize)
}
