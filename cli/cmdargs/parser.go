// Package cmdargs contains helpers for positional command line arguments:
// contract parameters, signers and argument count checks.
package cmdargs

import (
	"github.com/urfave/cli"
)

const (
	// CosignersSeparator separates invocation parameters from signers.
	CosignersSeparator = "--"
	// ArrayStartSeparator opens an array parameter.
	ArrayStartSeparator = "["
	// ArrayEndSeparator closes an array parameter.
	ArrayEndSeparator = "]"
)

// EnsureNone fails if any positional arguments are given, it's used by
// commands that only take flags.
func EnsureNone(ctx *cli.Context) *cli.ExitError {
	if ctx.Args().Present() {
		return cli.NewExitError("additional arguments given while this command expects none", 1)
	}
	return nil
}
