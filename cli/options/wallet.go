package options

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nspcc-dev/neo-txauth/cli/flags"
	"github.com/nspcc-dev/neo-txauth/cli/input"
	"github.com/nspcc-dev/neo-txauth/pkg/config"
	"github.com/nspcc-dev/neo-txauth/pkg/encoding/address"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
	"github.com/nspcc-dev/neo-txauth/pkg/wallet"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

var (
	errNoWallet               = errors.New("no wallet parameter found, specify it with the '--wallet' or '-w' flag or specify wallet config file with the '--wallet-config' flag")
	errConflictingWalletFlags = errors.New("--wallet flag conflicts with --wallet-config flag, please, provide one of them to specify wallet location")
)

// ErrWriter returns the writer used for prompts and diagnostics, it's the
// application's ErrWriter or stderr.
func ErrWriter(ctx *cli.Context) io.Writer {
	if ctx.App != nil && ctx.App.ErrWriter != nil {
		return ctx.App.ErrWriter
	}
	return os.Stderr
}

// GetAccFromContext opens the wallet given by Wallet flags (or the fallback
// one if there are none) and unlocks the account from the "address" flag,
// the wallet's default account is used without it.
func GetAccFromContext(ctx *cli.Context, fallback config.Wallet) (*wallet.Account, *wallet.Wallet, error) {
	path, pass, err := walletLocation(ctx, fallback)
	if err != nil {
		return nil, nil, err
	}
	w, err := wallet.NewWalletFromFile(path)
	if err != nil {
		return nil, nil, err
	}

	var addr util.Uint160
	if f := flags.AddressFromContext(ctx, "address"); f.IsSet {
		addr = f.Uint160()
	} else if addr = w.GetChangeAddress(); addr.Equals(util.Uint160{}) {
		return nil, w, errors.New("can't get default address")
	}
	acc, err := GetUnlockedAccount(ErrWriter(ctx), w, addr, pass)
	return acc, w, err
}

// walletLocation returns the wallet path and an optional password.
func walletLocation(ctx *cli.Context, fallback config.Wallet) (string, *string, error) {
	path, cfgPath := ctx.String("wallet"), ctx.String("wallet-config")
	switch {
	case path != "" && cfgPath != "":
		return "", nil, errConflictingWalletFlags
	case cfgPath != "":
		cfg, err := ReadWalletConfig(cfgPath)
		if err != nil {
			return "", nil, err
		}
		return cfg.Path, &cfg.Password, nil
	case path != "":
		return path, nil, nil
	case fallback.Path != "":
		if fallback.Password == "" {
			return fallback.Path, nil, nil
		}
		return fallback.Path, &fallback.Password, nil
	}
	return "", nil, errNoWallet
}

// GetUnlockedAccount finds the account for addr in the wallet and decrypts
// it with pass. The password is prompted for via w when pass is nil.
// Accounts without a key (deployed contracts) are returned as is.
func GetUnlockedAccount(w io.Writer, wall *wallet.Wallet, addr util.Uint160, pass *string) (*wallet.Account, error) {
	acc := wall.GetAccount(addr)
	if acc == nil {
		return nil, fmt.Errorf("wallet contains no account for '%s'", address.Uint160ToString(addr))
	}
	if acc.CanSign() || acc.EncryptedWIF == "" {
		return acc, nil
	}
	if pass == nil {
		p, err := input.ReadPassword(w, fmt.Sprintf("Enter account %s password > ", acc.Address))
		if err != nil {
			return nil, fmt.Errorf("error reading password: %w", err)
		}
		pass = &p
	}
	if err := acc.Decrypt(*pass, wall.Scrypt); err != nil {
		return nil, err
	}
	return acc, nil
}

// ReadWalletConfig reads a YAML wallet config (path and password).
func ReadWalletConfig(path string) (*config.Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read wallet config: %w", err)
	}
	cfg := new(config.Wallet)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet config YAML: %w", err)
	}
	return cfg, nil
}
