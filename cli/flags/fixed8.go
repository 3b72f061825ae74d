package flags

import (
	"flag"

	"github.com/nspcc-dev/neo-txauth/pkg/encoding/fixedn"
	"github.com/urfave/cli"
)

// Fixed8 is a flag.Value holding a GAS amount.
type Fixed8 struct {
	Value fixedn.Fixed8
}

// Fixed8Flag is a cli.Flag holding a GAS amount.
type Fixed8Flag struct {
	Name  string
	Usage string
	Value Fixed8
}

var (
	_ flag.Value = (*Fixed8)(nil)
	_ cli.Flag   = Fixed8Flag{}
)

// String implements the flag.Value interface.
func (a Fixed8) String() string {
	return a.Value.String()
}

// Set implements the flag.Value interface.
func (a *Fixed8) Set(s string) error {
	v, err := fixedn.Fixed8FromString(s)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	a.Value = v
	return nil
}

// Fixed8 returns the amount.
func (a *Fixed8) Fixed8() fixedn.Fixed8 {
	return a.Value
}

// String implements the cli.Flag interface.
func (f Fixed8Flag) String() string {
	return helpLine(f.Name, f.Usage)
}

// GetName implements the cli.Flag interface.
func (f Fixed8Flag) GetName() string {
	return f.Name
}

// Apply implements the cli.Flag interface.
func (f Fixed8Flag) Apply(set *flag.FlagSet) {
	applyValue(set, f.Name, f.Usage, &f.Value)
}

// Fixed8FromContext returns the value of the named Fixed8 flag, zero for
// unknown flags.
func Fixed8FromContext(ctx *cli.Context, name string) fixedn.Fixed8 {
	if f, ok := ctx.Generic(name).(*Fixed8); ok {
		return f.Value
	}
	return 0
}
