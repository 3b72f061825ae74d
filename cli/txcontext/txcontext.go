/*
Package txcontext implements the out-of-band transaction signing workflow:
a context file is created for an unsigned transaction, passed around between
signers, merged and finally turned into a signed transaction.
*/
package txcontext

import (
	"fmt"

	"github.com/nspcc-dev/neo-txauth/cli/cmdargs"
	"github.com/nspcc-dev/neo-txauth/cli/flags"
	"github.com/nspcc-dev/neo-txauth/cli/options"
	"github.com/nspcc-dev/neo-txauth/pkg/config"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var (
	inFlag = cli.StringFlag{
		Name:  "in",
		Usage: "file with the JSON signing context",
	}
	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "file to write the resulting JSON signing context to",
	}
	addressFlag = flags.AddressFlag{
		Name:  "address, a",
		Usage: "address of the wallet account to sign with",
	}
)

// commonFlags are accepted by every command.
var commonFlags = []cli.Flag{
	options.Config,
	options.ConfigFile,
	options.Debug,
}

// NewCommands returns 'context' command.
func NewCommands() []cli.Command {
	initFlags := []cli.Flag{
		outFlag,
		cli.StringFlag{
			Name:  "tx",
			Usage: "hex-encoded unsigned transaction (conflicts with --script and --contract)",
		},
		cli.StringFlag{
			Name:  "script",
			Usage: "hex-encoded transaction script",
		},
		flags.AddressFlag{
			Name:  "contract",
			Usage: "hash of the contract to invoke (the script is built from --method and parameters)",
		},
		cli.StringFlag{
			Name:  "method",
			Usage: "contract method to invoke",
		},
		cli.StringFlag{
			Name:  "call-flags",
			Value: "All",
			Usage: "call flags of the contract invocation",
		},
		cli.Int64Flag{
			Name:  "nonce",
			Value: -1,
			Usage: "transaction nonce, random if not set",
		},
		cli.Int64Flag{
			Name:  "valid-until",
			Usage: "height the transaction is valid until (defaults to --height plus the maximum increment)",
		},
		cli.Int64Flag{
			Name:  "height",
			Usage: "current blockchain height used to check and default --valid-until",
		},
		flags.Fixed8Flag{
			Name:  "sysfee",
			Usage: "system fee in GAS",
		},
		flags.Fixed8Flag{
			Name:  "netfee",
			Usage: "network fee in GAS",
		},
		flags.AddressFlag{
			Name:  "sender",
			Usage: "signer to move to the first place making it the sender",
		},
		cli.BoolFlag{
			Name:  "high-priority",
			Usage: "add HighPriority attribute",
		},
		cli.UintFlag{
			Name:  "not-valid-before",
			Usage: "add NotValidBefore attribute with the given height",
		},
		cli.StringSliceFlag{
			Name:  "conflicts",
			Usage: "add Conflicts attribute with the given transaction hash (can be repeated)",
		},
		addressFlag,
	}
	initFlags = append(initFlags, options.Wallet...)
	initFlags = append(initFlags, options.Network...)
	initFlags = append(initFlags, commonFlags...)
	initFlags = flags.MarkRequired(initFlags, "out")

	signFlags := []cli.Flag{
		inFlag,
		outFlag,
		cli.BoolFlag{
			Name:  "wif-prompt",
			Usage: "read the WIF-encoded key to sign with from the terminal",
		},
		cli.StringFlag{
			Name:  "wif",
			Usage: "WIF-encoded key to sign with",
		},
		cli.StringSliceFlag{
			Name:  "multisig-key",
			Usage: "public key of the multisignature account the WIF key belongs to (can be repeated)",
		},
		cli.IntFlag{
			Name:  "threshold",
			Usage: "number of signatures required by the multisignature account",
		},
		addressFlag,
	}
	signFlags = append(signFlags, options.Wallet...)
	signFlags = append(signFlags, commonFlags...)
	signFlags = flags.MarkRequired(signFlags, "in")

	addParamsFlags := []cli.Flag{
		inFlag,
		outFlag,
		flags.AddressFlag{
			Name:  "signer, s",
			Usage: "contract-based signer the parameters are for",
		},
	}
	addParamsFlags = append(addParamsFlags, commonFlags...)
	addParamsFlags = flags.MarkRequired(addParamsFlags, "in")

	mergeFlags := flags.MarkRequired(append([]cli.Flag{outFlag}, commonFlags...), "out")

	statusFlags := []cli.Flag{
		inFlag,
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "print disassembled transaction and verification scripts",
		},
	}
	statusFlags = flags.MarkRequired(append(statusFlags, commonFlags...), "in")

	assembleFlags := []cli.Flag{
		inFlag,
		cli.StringFlag{
			Name:  "out",
			Usage: "file to write the binary signed transaction to instead of printing it in hex",
		},
	}
	assembleFlags = flags.MarkRequired(append(assembleFlags, commonFlags...), "in")

	return []cli.Command{{
		Name:  "context",
		Usage: "create, sign, merge and assemble transaction signing contexts",
		Subcommands: []cli.Command{
			{
				Name:      "init",
				Usage:     "create a signing context for an unsigned transaction",
				UsageText: "neo-txauth context init --out <file> (--tx <hex> | --script <hex> | --contract <hash> --method <name>) [options] [params...] [-- signers...]",
				Description: `Creates a signing context file for an unsigned transaction. The
   transaction is either given as is (--tx) or built from the script and
   the options given. The script can be given directly (--script) or built
   from the contract invocation (--contract and --method) with the positional
   parameters passed to the method. Signers follow the parameters after the
   '--' separator (or are the only positional arguments when there are no
   parameters). If a wallet is given, the transaction is also signed with its
   account.

` + cmdargs.ParamsParsingDoc + `

` + cmdargs.SignersParsingDoc,
				Action: initContext,
				Flags:  initFlags,
			},
			{
				Name:      "sign",
				Usage:     "add a signature to the signing context",
				UsageText: "neo-txauth context sign --in <file> [--out <file>] (--wif <key> | --wif-prompt | --wallet <wallet> [--address <address>]) [--multisig-key <key>... --threshold <m>]",
				Description: `Signs the transaction of the context with the key given and saves the
   updated context to the output file (or back to the input file). The key is
   either a WIF (given with --wif or read from the terminal with --wif-prompt)
   or a wallet account (--wallet or --wallet-config, defaulting to the wallet
   from the configuration file). A WIF key signs for its own simple account
   unless --multisig-key and --threshold describe the multisignature account
   it belongs to.`,
				Action: signContext,
				Flags:  signFlags,
			},
			{
				Name:      "add-params",
				Usage:     "add verification parameters of a deployed contract signer",
				UsageText: "neo-txauth context add-params --in <file> [--out <file>] --signer <hash> [params...]",
				Description: `Sets verification parameters for the contract-based signer of the
   transaction.

` + cmdargs.ParamsParsingDoc,
				Action: addParams,
				Flags:  addParamsFlags,
			},
			{
				Name:      "merge",
				Usage:     "merge several signing contexts of the same transaction",
				UsageText: "neo-txauth context merge --out <file> <file> <file>...",
				Description: `Merges signatures and parameters of the given contexts into one. Later
   files take priority over the earlier ones for the same signer, public key
   or parameter.`,
				Action: mergeContexts,
				Flags:  mergeFlags,
			},
			{
				Name:      "status",
				Usage:     "print the signing state of the context",
				UsageText: "neo-txauth context status --in <file> [--verbose]",
				Action:    printStatus,
				Flags:     statusFlags,
			},
			{
				Name:      "assemble",
				Usage:     "build the signed transaction from the complete context",
				UsageText: "neo-txauth context assemble --in <file> [--out <file>]",
				Action:    assembleTx,
				Flags:     assembleFlags,
			},
		},
	}}
}

// getLogger creates a logger for the command using the configuration
// selected by the command flags.
func getLogger(ctx *cli.Context) (*zap.Logger, config.Config, func(), error) {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	log, _, closer, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	return log, cfg, func() {
		_ = log.Sync()
		if closer != nil {
			_ = closer()
		}
	}, nil
}

func outFile(ctx *cli.Context) string {
	if out := ctx.String("out"); out != "" {
		return out
	}
	return ctx.String("in")
}

func exitErr(format string, err error) *cli.ExitError {
	return cli.NewExitError(fmt.Errorf(format, err), 1)
}
