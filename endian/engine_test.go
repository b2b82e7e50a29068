package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	require.Equal(t, binary.LittleEndian, Select(false))
	require.Equal(t, binary.BigEndian, Select(true))
}

func TestIsBig(t *testing.T) {
	require.False(t, IsBig(Little()))
	require.True(t, IsBig(Big()))
}

func TestHost(t *testing.T) {
	host := Host()
	require.True(t, host == Little() || host == Big())

	// the host order must agree with how the CPU lays out a uint32 in memory
	var b [4]byte
	host.PutUint32(b[:], 0x01020304)
	require.Equal(t, uint32(0x01020304), binary.NativeEndian.Uint32(b[:]))
}

func TestEngine_Append(t *testing.T) {
	buf := Little().AppendUint32(nil, 0xCAFEBABE)
	buf = Big().AppendUint16(buf, 0x0102)

	require.Equal(t, []byte{0xBE, 0xBA, 0xFE, 0xCA, 0x01, 0x02}, buf)
}
