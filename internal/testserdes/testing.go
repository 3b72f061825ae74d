// Package testserdes has round-trip helpers for codec tests.
package testserdes

import (
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/neo-txauth/pkg/io"
	"github.com/stretchr/testify/require"
)

// MarshalUnmarshalJSON requires expected to survive a JSON round trip into
// actual.
func MarshalUnmarshalJSON(t *testing.T, expected, actual any) {
	data, err := json.Marshal(expected)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, expected, actual)
}

// EncodeDecodeBinary requires expected to survive a binary round trip into
// actual.
func EncodeDecodeBinary(t *testing.T, expected, actual io.Serializable) {
	roundTrip(t, expected, actual)
}

// EncodeDecodeEntity is EncodeDecodeBinary that also requires Size to match
// the encoded length.
func EncodeDecodeEntity(t *testing.T, expected, actual io.Entity) {
	data := roundTrip(t, expected, actual)
	require.Equal(t, len(data), expected.Size())
}

func roundTrip(t *testing.T, expected, actual io.Serializable) []byte {
	data, err := EncodeBinary(expected)
	require.NoError(t, err)
	require.NoError(t, DecodeBinary(data, actual))
	require.Equal(t, expected, actual)
	return data
}

// EncodeBinary serializes a.
func EncodeBinary(a io.Serializable) ([]byte, error) {
	return io.ToArray(a)
}

// DecodeBinary deserializes a from data, trailing bytes are not checked.
func DecodeBinary(data []byte, a io.Serializable) error {
	r := io.NewBinReaderFromBuf(data)
	a.DecodeBinary(r)
	return r.Err
}
