package flags

import (
	"flag"
	"strings"

	"github.com/nspcc-dev/neo-txauth/pkg/encoding/address"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
	"github.com/urfave/cli"
)

// Address is a flag.Value holding a script hash given either as a Neo address
// or as an LE hex string.
type Address struct {
	IsSet bool
	Value util.Uint160
}

// AddressFlag is a cli.Flag holding an Address.
type AddressFlag struct {
	Name  string
	Usage string
	Value Address
}

var (
	_ flag.Value = (*Address)(nil)
	_ cli.Flag   = AddressFlag{}
)

// String returns the value as an address.
func (a Address) String() string {
	return address.Uint160ToString(a.Value)
}

// Set implements the flag.Value interface.
func (a *Address) Set(s string) error {
	h, err := ParseAddress(s)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	a.Value, a.IsSet = h, true
	return nil
}

// Uint160 returns the value, it panics if the flag was not given, so IsSet
// must be checked first.
func (a *Address) Uint160() util.Uint160 {
	if !a.IsSet {
		panic("address was not set")
	}
	return a.Value
}

// IsSet reports whether the flag was given.
func (f AddressFlag) IsSet() bool {
	return f.Value.IsSet
}

// String implements the cli.Flag interface.
func (f AddressFlag) String() string {
	return helpLine(f.Name, f.Usage)
}

// GetName implements the cli.Flag interface.
func (f AddressFlag) GetName() string {
	return f.Name
}

// Apply implements the cli.Flag interface.
func (f AddressFlag) Apply(set *flag.FlagSet) {
	applyValue(set, f.Name, f.Usage, &f.Value)
}

// AddressFromContext returns the value of the named Address flag, it's unset
// for unknown flags.
func AddressFromContext(ctx *cli.Context, name string) Address {
	if a, ok := ctx.Generic(name).(*Address); ok {
		return *a
	}
	return Address{}
}

// ParseAddress parses a Uint160 from a Neo address or a 40-character LE hex
// string (optionally prefixed with 0x).
func ParseAddress(s string) (util.Uint160, error) {
	hexLen := 2 * util.Uint160Size
	if len(s) == hexLen || len(s) == hexLen+2 {
		return util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	}
	return address.StringToUint160(s)
}
