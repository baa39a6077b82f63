package pio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBigEndian(t *testing.T) {
	t.Parallel()

	b := []byte{0x01, 0x02, 0x03, 0x04}
	require.Equal(t, uint16(0x0102), U16BE(b))
	require.Equal(t, uint32(0x010203), U24BE(b))
	require.Equal(t, uint32(0x01020304), U32BE(b))
}

func TestLittleEndian(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint16(0x0201), U16LE([]byte{0x01, 0x02}))
}

func TestPut(t *testing.T) {
	t.Parallel()

	b := make([]byte, 4)
	PutU16BE(b, 0xbeef)
	require.Equal(t, []byte{0xbe, 0xef, 0, 0}, b)
	PutU24BE(b, 0x010203)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0}, b)
	PutU32BE(b, 0xdeadbeef)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, b)
}
