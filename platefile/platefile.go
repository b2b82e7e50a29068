// Package platefile saves and loads microplates.
//
// A plate file is a 32-byte Header followed by the plate encoded as JSON,
// optionally compressed. The header records the payload sizes and an xxHash64
// of the raw JSON, so truncated or corrupted files are rejected before any
// value reaches the regression engine.
//
// Load also accepts bare JSON plates (a file whose first non-space byte is
// '{'), which is what SaveJSON writes for hand editing.
package platefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arloliu/elisa/compress"
	"github.com/arloliu/elisa/errs"
	"github.com/arloliu/elisa/format"
	"github.com/arloliu/elisa/internal/hash"
	"github.com/arloliu/elisa/internal/options"
	"github.com/arloliu/elisa/plate"
)

// Config controls how a plate is written.
type Config struct {
	Compression format.CompressionType
	BigEndian   bool
	// Now supplies the save time recorded in the header.
	Now func() time.Time
}

// Option is a functional option for Config.
type Option = options.Option[*Config]

func defaultConfig() Config {
	return Config{Compression: format.CompressionNone, Now: time.Now}
}

// WithCompression selects the payload codec.
func WithCompression(t format.CompressionType) Option {
	return options.New(func(cfg *Config) error {
		if _, err := compress.ForType(t); err != nil {
			return err
		}
		cfg.Compression = t

		return nil
	})
}

// WithBigEndian writes multi-byte header fields big-endian.
func WithBigEndian() Option {
	return options.NoError(func(cfg *Config) {
		cfg.BigEndian = true
	})
}

// WithClock overrides the clock used for the save time.
func WithClock(now func() time.Time) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Now = now
	})
}

// Encode serializes p into a plate file image.
//
// Parameters:
//   - p: Plate to encode; it must pass Validate
//   - opts: Optional settings (WithCompression, WithBigEndian, WithClock)
//
// Returns:
//   - []byte: Header followed by the stored payload
//   - error: Validation, option or codec error
func Encode(p *plate.Microplate, opts ...Option) ([]byte, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode plate: %w", err)
	}
	if len(raw) > compress.MaxPayloadSize {
		return nil, fmt.Errorf("%w: encoded plate is %d bytes, limit is %d", errs.ErrPayloadTooLarge, len(raw), compress.MaxPayloadSize)
	}

	codec, err := compress.ForType(cfg.Compression)
	if err != nil {
		return nil, err
	}
	stored, err := codec.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("encode plate: %w", err)
	}

	h := NewHeader(cfg.Compression, cfg.BigEndian)
	h.SavedAt = cfg.Now().UnixMicro()
	h.RawSize = uint32(len(raw))
	h.StoredSize = uint32(len(stored))
	h.Checksum = hash.Sum(raw)

	out := make([]byte, 0, HeaderSize+len(stored))
	out = append(out, h.Bytes()...)
	out = append(out, stored...)

	return out, nil
}

// Decode parses a plate file image or a bare JSON plate.
//
// A header announcing more than compress.MaxPayloadSize raw bytes is rejected
// before anything is decompressed.
//
// Returns:
//   - *plate.Microplate: The decoded plate, structurally validated
//   - error: Header, size, checksum, codec, JSON or plate validation error
func Decode(data []byte) (*plate.Microplate, error) {
	if trimmed := bytes.TrimLeft(data, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '{' {
		return decodeJSON(trimmed)
	}

	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	stored := data[HeaderSize:]
	if uint64(len(stored)) != uint64(h.StoredSize) {
		return nil, fmt.Errorf("%w: %d stored bytes, header says %d", errs.ErrPayloadSizeMismatch, len(stored), h.StoredSize)
	}
	if h.RawSize > compress.MaxPayloadSize {
		return nil, fmt.Errorf("%w: header says %d bytes, limit is %d", errs.ErrPayloadTooLarge, h.RawSize, compress.MaxPayloadSize)
	}

	codec, err := compress.ForType(h.Compression)
	if err != nil {
		return nil, err
	}
	raw, err := codec.Decompress(stored, int(h.RawSize))
	if err != nil {
		return nil, err
	}
	if sum := hash.Sum(raw); sum != h.Checksum {
		return nil, fmt.Errorf("%w: got %016x, header says %016x", errs.ErrChecksumMismatch, sum, h.Checksum)
	}

	return decodeJSON(raw)
}

func decodeJSON(raw []byte) (*plate.Microplate, error) {
	var p plate.Microplate
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode plate: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Write encodes p to w.
func Write(w io.Writer, p *plate.Microplate, opts ...Option) error {
	data, err := Encode(p, opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)

	return err
}

// Read decodes a plate from r.
func Read(r io.Reader) (*plate.Microplate, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return Decode(data)
}

// Save writes p to path. The file is replaced atomically so a failed save
// never leaves a truncated plate behind.
func Save(path string, p *plate.Microplate, opts ...Option) error {
	data, err := Encode(p, opts...)
	if err != nil {
		return err
	}

	return writeAtomic(path, data)
}

// SaveJSON writes p to path as indented JSON without a header.
func SaveJSON(path string, p *plate.Microplate) error {
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode plate: %w", err)
	}

	return writeAtomic(path, append(data, '\n'))
}

// Load reads a plate file or bare JSON plate from path.
func Load(path string) (*plate.Microplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	p, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return p, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
