package address

import (
	"errors"

	"github.com/nspcc-dev/neo-txauth/pkg/encoding/base58"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
)

const (
	// NEO3Prefix is the first byte of an address for NEO3.
	NEO3Prefix byte = 0x35
)

// Prefix is the byte used to prepend to addresses when encoding them. It can
// be changed and defaults to NEO3Prefix.
var Prefix = NEO3Prefix

// ErrInvalidAddress is returned for strings that are not valid addresses.
var ErrInvalidAddress = errors.New("invalid address")

// Uint160ToString returns the "NEO address" from the given Uint160.
func Uint160ToString(u util.Uint160) string {
	// Don't forget to prepend the Address version.
	b := append([]byte{Prefix}, u.BytesBE()...)
	return base58.CheckEncode(b)
}

// StringToUint160 attempts to decode the given NEO address string
// into a Uint160.
func StringToUint160(s string) (u util.Uint160, err error) {
	b, err := base58.CheckDecode(s)
	if err != nil {
		return u, err
	}
	if len(b) != util.Uint160Size+1 || b[0] != Prefix {
		return u, ErrInvalidAddress
	}
	return util.Uint160DecodeBytesBE(b[1:])
}
