package compress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/elisa/errs"
	"github.com/arloliu/elisa/format"
)

// platePayload resembles a saved 96-well plate: repetitive JSON.
func platePayload() []byte {
	var b strings.Builder
	b.WriteString(`{"name":"assay","width":12,"height":8,"samples":[`)
	for i := 0; i < 96; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{"role":"Standard","group":3,"value":0.125}`)
	}
	b.WriteString(`]}`)

	return []byte(b.String())
}

func allCodecs() []Codec {
	return []Codec{NoOpCodec{}, ZstdCodec{}, S2Codec{}, LZ4Codec{}}
}

func TestCodecs_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"plate":  platePayload(),
		"short":  []byte(`{"a":1}`),
		"binary": {0x00, 0xff, 0x10, 0x7f, 0x80},
	}

	for _, codec := range allCodecs() {
		for name, input := range inputs {
			t.Run(codec.Type().String()+"/"+name, func(t *testing.T) {
				compressed, err := codec.Compress(input)
				require.NoError(t, err)

				got, err := codec.Decompress(compressed, len(input))
				require.NoError(t, err)
				require.True(t, bytes.Equal(input, got))
			})
		}
	}
}

func TestCodecs_Shrink(t *testing.T) {
	input := platePayload()
	for _, codec := range []Codec{ZstdCodec{}, S2Codec{}, LZ4Codec{}} {
		t.Run(codec.Type().String(), func(t *testing.T) {
			compressed, err := codec.Compress(input)
			require.NoError(t, err)
			require.Less(t, len(compressed), len(input)/4)
		})
	}
}

func TestCodecs_Empty(t *testing.T) {
	for _, codec := range allCodecs() {
		t.Run(codec.Type().String(), func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)

			got, err := codec.Decompress(compressed, 0)
			require.NoError(t, err)
			require.Empty(t, got)
		})
	}
}

func TestCodecs_SizeMismatch(t *testing.T) {
	input := platePayload()
	for _, codec := range allCodecs() {
		t.Run(codec.Type().String(), func(t *testing.T) {
			compressed, err := codec.Compress(input)
			require.NoError(t, err)

			_, err = codec.Decompress(compressed, len(input)+1)
			require.Error(t, err)
		})
	}
}

func TestCodecs_RawSizeLimit(t *testing.T) {
	compressedOnly := []Codec{ZstdCodec{}, S2Codec{}, LZ4Codec{}}
	for _, codec := range compressedOnly {
		t.Run(codec.Type().String(), func(t *testing.T) {
			compressed, err := codec.Compress(platePayload())
			require.NoError(t, err)

			_, err = codec.Decompress(compressed, MaxPayloadSize+1)
			require.ErrorIs(t, err, errs.ErrPayloadTooLarge)

			_, err = codec.Decompress(compressed, -1)
			require.Error(t, err)
		})
	}
}

func TestCodecs_ExpansionLimit(t *testing.T) {
	tiny := []byte{0x28, 0xb5, 0x2f, 0xfd}

	_, err := LZ4Codec{}.Decompress(tiny, len(tiny)*lz4MaxExpansion+1)
	require.ErrorIs(t, err, errs.ErrPayloadSizeMismatch)

	_, err = ZstdCodec{}.Decompress(tiny, len(tiny)*zstdMaxExpansion+1)
	require.ErrorIs(t, err, errs.ErrPayloadSizeMismatch)
}

func TestZstdCodec_FrameContentSize(t *testing.T) {
	input := platePayload()
	compressed, err := ZstdCodec{}.Compress(input)
	require.NoError(t, err)

	_, err = ZstdCodec{}.Decompress(compressed, len(input)-1)
	require.ErrorIs(t, err, errs.ErrPayloadSizeMismatch)
}

func TestCodecs_Corrupted(t *testing.T) {
	garbage := []byte("definitely not a compressed payload")
	for _, codec := range []Codec{ZstdCodec{}, S2Codec{}} {
		t.Run(codec.Type().String(), func(t *testing.T) {
			_, err := codec.Decompress(garbage, 100)
			require.Error(t, err)
		})
	}
}

func TestNoOpCodec_Aliases(t *testing.T) {
	input := []byte("abc")
	out, err := NoOpCodec{}.Compress(input)
	require.NoError(t, err)
	require.Same(t, &input[0], &out[0])
}

func TestForType(t *testing.T) {
	for _, codec := range allCodecs() {
		got, err := ForType(codec.Type())
		require.NoError(t, err)
		require.Equal(t, codec.Type(), got.Type())
	}

	_, err := ForType(format.CompressionType(0))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func TestForName(t *testing.T) {
	codec, err := ForName("ZSTD")
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, codec.Type())

	_, err = ForName("brotli")
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func BenchmarkCodecs(b *testing.B) {
	input := platePayload()
	for _, codec := range allCodecs() {
		compressed, err := codec.Compress(input)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(codec.Type().String()+"/Compress", func(b *testing.B) {
			b.SetBytes(int64(len(input)))
			for n := 0; n < b.N; n++ {
				_, _ = codec.Compress(input)
			}
		})
		b.Run(codec.Type().String()+"/Decompress", func(b *testing.B) {
			b.SetBytes(int64(len(input)))
			for n := 0; n < b.N; n++ {
				_, _ = codec.Decompress(compressed, len(input))
			}
		})
	}
}
