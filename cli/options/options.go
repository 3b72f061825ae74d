// Package options holds flags shared by commands together with helpers that
// turn them into configuration, loggers and unlocked wallet accounts.
package options

import (
	"github.com/nspcc-dev/neo-txauth/pkg/config"
	"github.com/nspcc-dev/neo-txauth/pkg/config/netmode"
	"github.com/urfave/cli"
)

// NetworkMagicFlag is a long flag name for an explicit network magic.
const NetworkMagicFlag = "network-magic"

// networkFlags lists boolean network switches, later entries take
// precedence when several are given.
var networkFlags = []struct {
	name  string
	usage string
	magic netmode.Magic
}{
	{"privnet, p", "use private network configuration", netmode.PrivNet},
	{"testnet, t", "use testnet network configuration", netmode.TestNet},
	{"mainnet, m", "use mainnet network configuration", netmode.MainNet},
	{"unittest", "", netmode.UnitTestNet},
}

// Network is a set of flags for choosing the network to operate on, an
// explicit magic wins over the named networks.
var Network = func() []cli.Flag {
	res := make([]cli.Flag, 0, len(networkFlags)+1)
	for _, f := range networkFlags {
		res = append(res, cli.BoolFlag{
			Name:   f.name,
			Usage:  f.usage,
			Hidden: f.usage == "",
		})
	}
	return append(res, cli.UintFlag{
		Name:  NetworkMagicFlag,
		Usage: "use the given network magic",
	})
}()

// Wallet is a pair of mutually exclusive flags pointing to the wallet used
// for signing.
var Wallet = []cli.Flag{
	cli.StringFlag{
		Name:  "wallet, w",
		Usage: "NEP-6 wallet file to take the signing key from (conflicts with --wallet-config)",
	},
	cli.StringFlag{
		Name:  "wallet-config",
		Usage: "YAML file with wallet path and password (conflicts with --wallet)",
	},
}

// Config points to a directory with protocol.<network>.yml files.
var Config = cli.StringFlag{
	Name:  "config-path",
	Usage: "directory with per-network configuration files",
}

// ConfigFile points to a single configuration file, it overrides Config.
var ConfigFile = cli.StringFlag{
	Name:  "config-file",
	Usage: "configuration file to use (overrides --config-path)",
}

// Debug forces debug logging level.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (overrides configuration)",
}

// GetNetwork returns the network selected by Network flags, PrivNet is used
// when there are none.
func GetNetwork(ctx *cli.Context) netmode.Magic {
	net := netmode.PrivNet
	for _, f := range networkFlags {
		if ctx.Bool(flagName(f.name)) {
			net = f.magic
		}
	}
	if m := ctx.Uint(NetworkMagicFlag); m != 0 {
		net = netmode.Magic(m)
	}
	return net
}

// GetConfigFromContext loads the configuration pointed to by ConfigFile or
// Config flags. Built-in defaults for the selected network are returned
// when neither is given.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	if file := ctx.String(ConfigFile.Name); file != "" {
		return config.LoadFile(file)
	}
	if dir := ctx.String(Config.Name); dir != "" {
		return config.Load(dir, GetNetwork(ctx))
	}
	return config.Default(GetNetwork(ctx)), nil
}

// flagName strips short aliases from the flag name.
func flagName(name string) string {
	for i := range name {
		if name[i] == ',' {
			return name[:i]
		}
	}
	return name
}
