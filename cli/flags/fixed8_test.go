package flags

import (
	"flag"
	"io"
	"testing"

	"github.com/nspcc-dev/neo-txauth/pkg/encoding/fixedn"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func newFlagSet(flags ...cli.Flag) *flag.FlagSet {
	set := flag.NewFlagSet("", flag.ContinueOnError)
	set.SetOutput(io.Discard)
	for _, f := range flags {
		f.Apply(set)
	}
	return set
}

func TestFixed8Value(t *testing.T) {
	var f Fixed8
	require.Error(t, f.Set("not-a-fixed8"))
	require.NoError(t, f.Set("0.00000123"))
	require.Equal(t, fixedn.Fixed8(123), f.Fixed8())
	require.Equal(t, "0.00000123", f.String())
}

func TestFixed8Flag(t *testing.T) {
	gas := Fixed8Flag{Name: "sysfee, s", Usage: "System fee in GAS"}
	require.Equal(t, "sysfee, s", gas.GetName())
	require.Equal(t, "--sysfee value, -s value\tSystem fee in GAS", gas.String())

	set := newFlagSet(gas)
	for _, args := range [][]string{{"--sysfee", "0.123"}, {"-s", "0.456"}} {
		require.NoError(t, set.Parse(args))
		require.Equal(t, args[1], set.Lookup("s").Value.String())
	}
	require.Error(t, set.Parse([]string{"--sysfee", "kek"}))

	ctx := cli.NewContext(cli.NewApp(), set, nil)
	require.Equal(t, fixedn.Fixed8(45600000), Fixed8FromContext(ctx, "sysfee"))
	require.Equal(t, fixedn.Fixed8(0), Fixed8FromContext(ctx, "unknown"))
}
