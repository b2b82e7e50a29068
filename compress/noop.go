package compress

import "github.com/arloliu/elisa/format"

// NoOpCodec stores payloads unchanged. It is the platefile default.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

func (NoOpCodec) Type() format.CompressionType { return format.CompressionNone }

// Compress returns data itself without copying.
func (NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data itself after checking its length.
func (NoOpCodec) Decompress(data []byte, rawSize int) ([]byte, error) {
	return checkSize(data, rawSize)
}
