package common

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandByteArray_Basic(t *testing.T) {
	const size = 32
	a := GenerateRandByteArray(size)
	b := GenerateRandByteArray(size)
	assert.Len(t, a, size)
	assert.Len(t, b, size)
	assert.NotEqual(t, a, b)
}

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	const n = 16
	s, err := MakeRandHexString(n)
	require.NoError(t, err)
	assert.Len(t, s, n*2)
	_, err = hex.DecodeString(s)
	assert.NoError(t, err)
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestWipeByteArray(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	WipeByteArray(b)
	assert.Equal(t, []byte{0, 0, 0, 0}, b)

	// nil must not panic
	WipeByteArray(nil)
}
