package txcontext

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-txauth/cli/cmdargs"
	"github.com/nspcc-dev/neo-txauth/cli/flags"
	"github.com/nspcc-dev/neo-txauth/cli/options"
	"github.com/nspcc-dev/neo-txauth/cli/paramcontext"
	"github.com/nspcc-dev/neo-txauth/pkg/config"
	"github.com/nspcc-dev/neo-txauth/pkg/core/transaction"
	"github.com/nspcc-dev/neo-txauth/pkg/smartcontract"
	"github.com/nspcc-dev/neo-txauth/pkg/smartcontract/callflag"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
	"github.com/nspcc-dev/neo-txauth/pkg/wallet"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func initContext(ctx *cli.Context) error {
	log, cfg, cleanup, err := getLogger(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer cleanup()

	var tx *transaction.Transaction
	if txHex := ctx.String("tx"); txHex != "" {
		if ctx.String("script") != "" || flags.AddressFromContext(ctx, "contract").IsSet {
			return cli.NewExitError("--tx conflicts with --script and --contract", 1)
		}
		if err := cmdargs.EnsureNone(ctx); err != nil {
			return err
		}
		tx, err = decodeTx(txHex)
	} else {
		tx, err = buildTx(ctx, cfg.ProtocolConfiguration)
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if size := tx.Size(); size > cfg.ProtocolConfiguration.MaxTransactionSize {
		return cli.NewExitError(fmt.Errorf("transaction size %d exceeds the limit of %d", size, cfg.ProtocolConfiguration.MaxTransactionSize), 1)
	}

	var acc *wallet.Account
	if ctx.String("wallet") != "" || ctx.String("wallet-config") != "" {
		acc, _, err = options.GetAccFromContext(ctx, config.Wallet{})
		if err != nil {
			return exitErr("can't get account: %w", err)
		}
		defer acc.Close()
	}

	net := cfg.ProtocolConfiguration.Magic
	scCtx, err := paramcontext.InitAndSave(net, tx, acc, ctx.String("out"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log.Info("signing context created",
		zap.String("hash", tx.Hash().StringLE()),
		zap.Stringer("network", net),
		zap.Int("signers", len(tx.Signers)),
		zap.Int("outstanding", len(scCtx.Outstanding())))
	fmt.Fprintln(ctx.App.Writer, tx.Hash().StringLE())
	return nil
}

func decodeTx(s string) (*transaction.Transaction, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("bad transaction hex: %w", err)
	}
	tx, err := transaction.NewTransactionFromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("bad transaction: %w", err)
	}
	if len(tx.Scripts) != 0 {
		return nil, errors.New("transaction is already signed")
	}
	if err := tx.ValidateBody(); err != nil {
		return nil, err
	}
	return tx, nil
}

func buildTx(ctx *cli.Context, cfg config.ProtocolConfiguration) (*transaction.Transaction, error) {
	script, offset, err := getScript(ctx)
	if err != nil {
		return nil, err
	}
	args := []string(ctx.Args())
	if offset > len(args) {
		offset = len(args)
	}
	signers, err := cmdargs.ParseSigners(args[offset:])
	if err != nil {
		return nil, err
	}

	b := transaction.NewBuilder(script).Signers(signers...)
	if nonce := ctx.Int64("nonce"); nonce >= 0 {
		b.Nonce(nonce)
	}
	vub, err := getValidUntil(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b.ValidUntilBlock(vub).
		SystemFee(int64(flags.Fixed8FromContext(ctx, "sysfee"))).
		NetworkFee(int64(flags.Fixed8FromContext(ctx, "netfee")))
	if sender := flags.AddressFromContext(ctx, "sender"); sender.IsSet {
		b.FirstSigner(sender.Uint160())
	}
	attrs, err := getAttributes(ctx)
	if err != nil {
		return nil, err
	}
	return b.Attributes(attrs...).Build()
}

// getScript returns the transaction script and the number of positional
// arguments consumed by the script parameters.
func getScript(ctx *cli.Context) ([]byte, int, error) {
	contract := flags.AddressFromContext(ctx, "contract")
	if s := ctx.String("script"); s != "" {
		if contract.IsSet {
			return nil, 0, errors.New("--script conflicts with --contract")
		}
		script, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return nil, 0, fmt.Errorf("bad script hex: %w", err)
		}
		return script, 0, nil
	}
	if !contract.IsSet {
		return nil, 0, errors.New("no transaction, script or contract given")
	}
	method := ctx.String("method")
	if method == "" {
		return nil, 0, errors.New("no method given for the contract invocation")
	}
	f, err := callflag.FromString(ctx.String("call-flags"))
	if err != nil {
		return nil, 0, fmt.Errorf("bad call flags: %w", err)
	}
	offset, params, err := cmdargs.ParseParams(ctx.Args(), true)
	if err != nil {
		return nil, 0, fmt.Errorf("can't parse parameters: %w", err)
	}
	script, err := smartcontract.NewBuilder().
		InvokeMethod(contract.Uint160(), method, f, params...).
		Script()
	if err != nil {
		return nil, 0, fmt.Errorf("can't build script: %w", err)
	}
	return script, offset, nil
}

func getValidUntil(ctx *cli.Context, cfg config.ProtocolConfiguration) (int64, error) {
	vub, height := ctx.Int64("valid-until"), ctx.Int64("height")
	if height < 0 {
		return 0, fmt.Errorf("bad height %d", height)
	}
	maxVUB := height + int64(cfg.MaxValidUntilBlockIncrement)
	switch {
	case vub == 0 && height == 0:
		return 0, errors.New("either --valid-until or --height must be given")
	case vub == 0:
		return maxVUB, nil
	case height != 0 && (vub <= height || vub > maxVUB):
		return 0, fmt.Errorf("valid-until %d is out of (%d, %d] range", vub, height, maxVUB)
	}
	return vub, nil
}

func getAttributes(ctx *cli.Context) ([]transaction.Attribute, error) {
	var attrs []transaction.Attribute
	if ctx.Bool("high-priority") {
		attrs = append(attrs, transaction.Attribute{Type: transaction.HighPriority})
	}
	if h := ctx.Uint("not-valid-before"); h != 0 {
		attrs = append(attrs, transaction.Attribute{
			Type:  transaction.NotValidBeforeT,
			Value: &transaction.NotValidBefore{Height: uint32(h)},
		})
	}
	for _, s := range ctx.StringSlice("conflicts") {
		h, err := util.Uint256DecodeStringLE(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return nil, fmt.Errorf("bad conflicting transaction hash %s: %w", s, err)
		}
		attrs = append(attrs, transaction.Attribute{
			Type:  transaction.ConflictsT,
			Value: &transaction.Conflicts{Hash: h},
		})
	}
	return attrs, nil
}
