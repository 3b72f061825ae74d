package txcontext

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nspcc-dev/neo-txauth/cli/cmdargs"
	"github.com/nspcc-dev/neo-txauth/cli/paramcontext"
	"github.com/nspcc-dev/neo-txauth/pkg/encoding/address"
	"github.com/nspcc-dev/neo-txauth/pkg/smartcontract/context"
	"github.com/nspcc-dev/neo-txauth/pkg/vm"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func mergeContexts(ctx *cli.Context) error {
	log, _, cleanup, err := getLogger(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer cleanup()

	files := ctx.Args()
	if len(files) < 2 {
		return cli.NewExitError("at least two contexts are required to merge", 1)
	}
	res, err := paramcontext.Read(files[0])
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	for _, f := range files[1:] {
		c, err := paramcontext.Read(f)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if err := res.Merge(c); err != nil {
			return cli.NewExitError(fmt.Errorf("can't merge %s: %w", f, err), 1)
		}
		log.Debug("context merged", zap.String("file", f), zap.Int("items", len(c.Items)))
	}
	log.Info("contexts merged",
		zap.Int("count", len(files)),
		zap.Int("outstanding", len(res.Outstanding())))

	if err := paramcontext.Save(res, ctx.String("out")); err != nil {
		return cli.NewExitError(err, 1)
	}
	return writeStatus(ctx.App.Writer, res, false)
}

func printStatus(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	c, err := paramcontext.Read(ctx.String("in"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := writeStatus(ctx.App.Writer, c, ctx.Bool("verbose")); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func writeStatus(w io.Writer, c *context.ParameterContext, verbose bool) error {
	tx := c.Verifiable
	fmt.Fprintf(w, "Type: %s\n", c.Type)
	fmt.Fprintf(w, "Network: %s (%d)\n", c.Network, uint32(c.Network))
	fmt.Fprintf(w, "Hash: %s\n", tx.Hash().StringLE())
	fmt.Fprintf(w, "Ready: %t\n", c.IsReady())
	fmt.Fprintln(w, "Signers:")
	for _, s := range tx.Signers {
		fmt.Fprintf(w, "  %s [%s]: %s\n", address.Uint160ToString(s.Account), s.Scopes, c.ItemState(s.Account))
		item, ok := c.Items[s.Account]
		if !ok {
			continue
		}
		if len(item.Signatures) != 0 {
			fmt.Fprintf(w, "    signatures: %d\n", len(item.Signatures))
		}
		if verbose && len(item.Script) != 0 {
			if err := writeScript(w, "    verification script:", item.Script); err != nil {
				return err
			}
		}
	}
	if verbose {
		return writeScript(w, "Script:", tx.Script)
	}
	return nil
}

func writeScript(w io.Writer, title string, script []byte) error {
	dis, err := vm.Disassemble(script)
	if err != nil {
		return fmt.Errorf("can't disassemble script: %w", err)
	}
	indent := strings.Repeat(" ", len(title)-len(strings.TrimLeft(title, " "))+2)
	fmt.Fprintln(w, title)
	for _, line := range strings.Split(strings.TrimRight(dis, "\n"), "\n") {
		fmt.Fprintln(w, indent+line)
	}
	return nil
}

func assembleTx(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	log, _, cleanup, err := getLogger(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer cleanup()

	c, err := paramcontext.Read(ctx.String("in"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	tx, err := c.GetCompleteTransaction()
	if err != nil {
		return cli.NewExitError(fmt.Errorf("can't assemble transaction: %w", err), 1)
	}
	log.Info("transaction assembled",
		zap.String("hash", tx.Hash().StringLE()),
		zap.Int("size", tx.Size()))

	if out := ctx.String("out"); out != "" {
		if err := os.WriteFile(out, tx.Bytes(), 0644); err != nil {
			return cli.NewExitError(fmt.Errorf("can't write transaction: %w", err), 1)
		}
		return nil
	}
	fmt.Fprintf(ctx.App.Writer, "%x\n", tx.Bytes())
	return nil
}
