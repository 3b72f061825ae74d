package util

import (
	"bytes"
	"encoding/hex"

	"github.com/nspcc-dev/neo-txauth/pkg/io"
)

// Uint160Size is the size of Uint160 in bytes.
const Uint160Size = 20

// Uint160 is a script hash (account) stored in BE byte order.
type Uint160 [Uint160Size]uint8

// Uint160DecodeStringBE decodes a BE hex string.
func Uint160DecodeStringBE(s string) (u Uint160, err error) {
	err = decodeString(u[:], s, false)
	return u, err
}

// Uint160DecodeStringLE decodes an LE hex string, the form hashes are
// usually displayed in.
func Uint160DecodeStringLE(s string) (u Uint160, err error) {
	err = decodeString(u[:], s, true)
	return u, err
}

// Uint160DecodeBytesBE decodes BE bytes.
func Uint160DecodeBytesBE(b []byte) (u Uint160, err error) {
	err = decodeBytes(u[:], b, false)
	return u, err
}

// Uint160DecodeBytesLE decodes LE bytes.
func Uint160DecodeBytesLE(b []byte) (u Uint160, err error) {
	err = decodeBytes(u[:], b, true)
	return u, err
}

// BytesBE returns the BE bytes of u sharing memory with it.
func (u Uint160) BytesBE() []byte {
	return u[:]
}

// BytesLE returns a reversed copy of u.
func (u Uint160) BytesLE() []byte {
	return reversed(u[:])
}

// String implements the fmt.Stringer interface, it's StringBE.
func (u Uint160) String() string {
	return u.StringBE()
}

// StringBE returns BE hex.
func (u Uint160) StringBE() string {
	return hex.EncodeToString(u[:])
}

// StringLE returns LE hex.
func (u Uint160) StringLE() string {
	return hex.EncodeToString(u.BytesLE())
}

// Reverse returns u with the byte order changed.
func (u Uint160) Reverse() Uint160 {
	var r Uint160
	copy(r[:], reversed(u[:]))
	return r
}

// Equals reports whether u and other are the same.
func (u Uint160) Equals(other Uint160) bool {
	return u == other
}

// Less compares u and other as BE byte strings.
func (u Uint160) Less(other Uint160) bool {
	return bytes.Compare(u[:], other[:]) < 0
}

// MarshalJSON implements the json.Marshaler interface, the value is
// 0x-prefixed LE hex.
func (u Uint160) MarshalJSON() ([]byte, error) {
	return marshalLE(u[:]), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (u *Uint160) UnmarshalJSON(data []byte) error {
	return unmarshalLE(u[:], data)
}

// Size implements the io.Sizer interface.
func (u Uint160) Size() int {
	return Uint160Size
}

// EncodeBinary implements the io.Serializable interface.
func (u Uint160) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(u[:])
}

// DecodeBinary implements the io.Serializable interface.
func (u *Uint160) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(u[:])
}
