package txcontext

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-txauth/cli/cmdargs"
	"github.com/nspcc-dev/neo-txauth/cli/flags"
	"github.com/nspcc-dev/neo-txauth/cli/input"
	"github.com/nspcc-dev/neo-txauth/cli/options"
	"github.com/nspcc-dev/neo-txauth/cli/paramcontext"
	"github.com/nspcc-dev/neo-txauth/pkg/config"
	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/encoding/address"
	"github.com/nspcc-dev/neo-txauth/pkg/wallet"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func signContext(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	log, cfg, cleanup, err := getLogger(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer cleanup()

	c, err := paramcontext.Read(ctx.String("in"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	acc, err := getSigningAccount(ctx, cfg.ApplicationConfiguration.UnlockWallet)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer acc.Close()

	if pubs := ctx.StringSlice("multisig-key"); len(pubs) != 0 {
		if err := convertMultisig(acc, pubs, ctx.Int("threshold")); err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	if err := paramcontext.AddAccountSignature(c, acc); err != nil {
		return cli.NewExitError(err, 1)
	}
	h := acc.ScriptHash()
	log.Info("signature added",
		zap.String("signer", acc.Address),
		zap.Stringer("key", acc.PublicKey()),
		zap.Stringer("state", c.ItemState(h)))
	if c.IsReady() {
		log.Info("all signers are complete", zap.String("hash", c.Verifiable.Hash().StringLE()))
	}

	if err := paramcontext.Save(c, outFile(ctx)); err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "%s: %s\n", acc.Address, c.ItemState(h))
	return nil
}

// getSigningAccount returns an account from the WIF given or the wallet.
func getSigningAccount(ctx *cli.Context, fallback config.Wallet) (*wallet.Account, error) {
	wif := ctx.String("wif")
	if ctx.Bool("wif-prompt") {
		if wif != "" {
			return nil, errors.New("--wif conflicts with --wif-prompt")
		}
		var err error
		wif, err = input.ReadPassword(options.ErrWriter(ctx), "Enter WIF > ")
		if err != nil {
			return nil, fmt.Errorf("can't read WIF: %w", err)
		}
	}
	if wif != "" {
		if ctx.String("wallet") != "" || ctx.String("wallet-config") != "" {
			return nil, errors.New("WIF key conflicts with wallet")
		}
		acc, err := wallet.NewAccountFromWIF(wif)
		if err != nil {
			return nil, fmt.Errorf("bad WIF: %w", err)
		}
		return acc, nil
	}
	acc, _, err := options.GetAccFromContext(ctx, fallback)
	if err != nil {
		return nil, fmt.Errorf("can't get account: %w", err)
	}
	return acc, nil
}

func convertMultisig(acc *wallet.Account, keyStrs []string, m int) error {
	pubs := make(keys.PublicKeys, len(keyStrs))
	for i := range keyStrs {
		pub, err := keys.NewPublicKeyFromString(keyStrs[i])
		if err != nil {
			return fmt.Errorf("bad multisignature key #%d: %w", i, err)
		}
		pubs[i] = pub
	}
	if m < 1 || m > len(pubs) {
		return fmt.Errorf("threshold %d is out of [1, %d] range", m, len(pubs))
	}
	if err := acc.ConvertMultisig(m, pubs); err != nil {
		return fmt.Errorf("can't build multisignature account: %w", err)
	}
	return nil
}

func addParams(ctx *cli.Context) error {
	log, _, cleanup, err := getLogger(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer cleanup()

	signer := flags.AddressFromContext(ctx, "signer")
	if !signer.IsSet {
		return cli.NewExitError("no signer given", 1)
	}
	_, params, err := cmdargs.ParseParams(ctx.Args(), true)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("can't parse parameters: %w", err), 1)
	}
	c, err := paramcontext.Read(ctx.String("in"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	h := signer.Uint160()
	ctr := &wallet.Contract{
		Deployed:   true,
		Parameters: make([]wallet.ContractParam, len(params)),
	}
	for i := range params {
		ctr.Parameters[i] = wallet.ContractParam{
			Name: fmt.Sprintf("parameter%d", i),
			Type: params[i].Type,
		}
	}
	if err := c.AddContractParameters(h, ctr, params); err != nil {
		return cli.NewExitError(fmt.Errorf("can't add parameters: %w", err), 1)
	}
	log.Info("contract parameters added",
		zap.String("signer", address.Uint160ToString(h)),
		zap.Int("count", len(params)),
		zap.Stringer("state", c.ItemState(h)))

	if err := paramcontext.Save(c, outFile(ctx)); err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "%s: %s\n", address.Uint160ToString(h), c.ItemState(h))
	return nil
}
