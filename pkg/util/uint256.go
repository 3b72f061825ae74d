package util

import (
	"encoding/hex"

	"github.com/nspcc-dev/neo-txauth/pkg/io"
)

// Uint256Size is the size of Uint256 in bytes.
const Uint256Size = 32

// Uint256 is a transaction (or any other data) hash stored in BE byte order.
type Uint256 [Uint256Size]uint8

// Uint256DecodeStringLE decodes an LE hex string.
func Uint256DecodeStringLE(s string) (u Uint256, err error) {
	err = decodeString(u[:], s, true)
	return u, err
}

// Uint256DecodeStringBE decodes a BE hex string.
func Uint256DecodeStringBE(s string) (u Uint256, err error) {
	err = decodeString(u[:], s, false)
	return u, err
}

// Uint256DecodeBytesBE decodes BE bytes.
func Uint256DecodeBytesBE(b []byte) (u Uint256, err error) {
	err = decodeBytes(u[:], b, false)
	return u, err
}

// Uint256DecodeBytesLE decodes LE bytes.
func Uint256DecodeBytesLE(b []byte) (u Uint256, err error) {
	err = decodeBytes(u[:], b, true)
	return u, err
}

// BytesBE returns the BE bytes of u sharing memory with it.
func (u Uint256) BytesBE() []byte {
	return u[:]
}

// BytesLE returns a reversed copy of u.
func (u Uint256) BytesLE() []byte {
	return reversed(u[:])
}

// Reverse returns u with the byte order changed.
func (u Uint256) Reverse() Uint256 {
	var r Uint256
	copy(r[:], reversed(u[:]))
	return r
}

// Equals reports whether u and other are the same.
func (u Uint256) Equals(other Uint256) bool {
	return u == other
}

// String implements the fmt.Stringer interface, it's StringBE.
func (u Uint256) String() string {
	return u.StringBE()
}

// StringBE returns BE hex.
func (u Uint256) StringBE() string {
	return hex.EncodeToString(u[:])
}

// StringLE returns LE hex, transaction hashes are shown this way.
func (u Uint256) StringLE() string {
	return hex.EncodeToString(u.BytesLE())
}

// MarshalJSON implements the json.Marshaler interface, the value is
// 0x-prefixed LE hex.
func (u Uint256) MarshalJSON() ([]byte, error) {
	return marshalLE(u[:]), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (u *Uint256) UnmarshalJSON(data []byte) error {
	return unmarshalLE(u[:], data)
}

// EncodeBinary implements the io.Serializable interface.
func (u Uint256) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(u[:])
}

// DecodeBinary implements the io.Serializable interface.
func (u *Uint256) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(u[:])
}
