package icc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeProfile(size uint32) []byte {
	data := make([]byte, size)
	binary.BigEndian.PutUint32(data[offProfileSize:], size)
	copy(data[offSignature:], signature)
	data[offVersion] = 4
	data[offVersion+1] = 0x20 // minor 2, in the high nibble
	return data
}

func TestParseHeaderRejectsShort(t *testing.T) {
	_, err := ParseHeader(make([]byte, 10))
	assert.Error(t, err)
}

func TestParseHeaderRejectsBadSignature(t *testing.T) {
	data := make([]byte, headerSize)
	_, err := ParseHeader(data)
	assert.Error(t, err)
}

func TestParseHeaderVersion(t *testing.T) {
	h, err := ParseHeader(fakeProfile(headerSize))
	require.NoError(t, err)
	assert.Equal(t, "4.2", h.Version())
}

func TestValidateAcceptsAlignedPadding(t *testing.T) {
	data := fakeProfile(headerSize)
	padded := append(data, 0, 0) // within the 3-byte alignment tolerance
	_, _, err := Validate(padded)
	assert.NoError(t, err)
}

func TestValidateRejectsSizeMismatch(t *testing.T) {
	data := fakeProfile(headerSize)
	tooLong := append(data, make([]byte, 64)...)
	_, _, err := Validate(tooLong)
	assert.Error(t, err)
}

func TestEqualByMD5(t *testing.T) {
	a := &Blob{Data: fakeProfile(headerSize)}
	b := &Blob{Data: fakeProfile(headerSize)}
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, nil))
	assert.True(t, Equal(nil, nil))
}
