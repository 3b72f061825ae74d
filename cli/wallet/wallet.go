package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-txauth/cli/cmdargs"
	"github.com/nspcc-dev/neo-txauth/cli/flags"
	"github.com/nspcc-dev/neo-txauth/cli/input"
	"github.com/nspcc-dev/neo-txauth/cli/options"
	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/smartcontract"
	"github.com/nspcc-dev/neo-txauth/pkg/wallet"
	"github.com/urfave/cli"
)

var (
	errNoPath         = errors.New("wallet path is mandatory and should be passed using (--wallet, -w) flags")
	errPhraseMismatch = errors.New("the entered pass-phrases do not match. Maybe you have misspelled them")
)

var (
	walletPathFlag = cli.StringFlag{
		Name:  "wallet, w",
		Usage: "Target location of the wallet file.",
	}
	wifFlag = cli.StringFlag{
		Name:  "wif",
		Usage: "WIF to import",
	}
	nameFlag = cli.StringFlag{
		Name:  "name, n",
		Usage: "Optional account name",
	}
)

// NewCommands returns 'wallet' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "wallet",
		Usage: "create, open and manage a NEP-6 wallet with signing accounts",
		Subcommands: []cli.Command{
			{
				Name:      "init",
				Usage:     "create a new wallet",
				UsageText: "neo-txauth wallet init --wallet <path> [--account]",
				Action:    createWallet,
				Flags: []cli.Flag{
					walletPathFlag,
					cli.BoolFlag{
						Name:  "account, a",
						Usage: "Create a new account",
					},
				},
			},
			{
				Name:      "create",
				Usage:     "add an account to the existing wallet",
				UsageText: "neo-txauth wallet create --wallet <path>",
				Action:    addAccount,
				Flags:     []cli.Flag{walletPathFlag},
			},
			{
				Name:      "dump",
				Usage:     "check and dump an existing wallet",
				UsageText: "neo-txauth wallet dump --wallet <path> [--decrypt]",
				Action:    dumpWallet,
				Flags: []cli.Flag{
					walletPathFlag,
					cli.BoolFlag{
						Name:  "decrypt, d",
						Usage: "Decrypt encrypted keys.",
					},
				},
			},
			{
				Name:      "import",
				Usage:     "import WIF of a standard signature contract",
				UsageText: "neo-txauth wallet import --wallet <path> --wif <wif> [--name <account_name>]",
				Action:    importWallet,
				Flags: []cli.Flag{
					walletPathFlag,
					wifFlag,
					nameFlag,
				},
			},
			{
				Name:  "import-multisig",
				Usage: "import multisig contract",
				UsageText: "neo-txauth wallet import-multisig --wallet <path> --wif <wif> [--name <account_name>]" +
					" --min <m> | --bft | --majority <pubkey1> [<pubkey2> [...]]",
				Description: `Imports a multisignature contract with the given public keys, the
   account signs with the key given in WIF which must correspond to one
   of the public keys. The number of required signatures is given with
   --min or derived from the number of keys: --bft uses n - (n-1)/3 and
   --majority uses n/2 + 1.`,
				Action: importMultisig,
				Flags: []cli.Flag{
					walletPathFlag,
					wifFlag,
					nameFlag,
					cli.IntFlag{
						Name:  "min, m",
						Usage: "Minimal number of signatures",
					},
					cli.BoolFlag{
						Name:  "bft",
						Usage: "Require n - (n-1)/3 signatures",
					},
					cli.BoolFlag{
						Name:  "majority",
						Usage: "Require n/2 + 1 signatures",
					},
				},
			},
			{
				Name:      "remove",
				Usage:     "remove an account from the wallet",
				UsageText: "neo-txauth wallet remove --wallet <path> --address <addr>",
				Action:    removeAccount,
				Flags: []cli.Flag{
					walletPathFlag,
					flags.AddressFlag{
						Name:  "address, a",
						Usage: "Account address or hash in LE form to be removed",
					},
				},
			},
		},
	}}
}

func openWallet(ctx *cli.Context) (*wallet.Wallet, error) {
	path := ctx.String("wallet")
	if len(path) == 0 {
		return nil, errNoPath
	}
	return wallet.NewWalletFromFile(path)
}

func dumpWallet(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	wall, err := openWallet(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer wall.Close()
	if ctx.Bool("decrypt") {
		pass, err := input.ReadPassword(options.ErrWriter(ctx), "Enter wallet password > ")
		if err != nil {
			return cli.NewExitError(fmt.Errorf("error reading password: %w", err), 1)
		}
		for i := range wall.Accounts {
			if wall.Accounts[i].EncryptedWIF == "" {
				continue
			}
			// Just testing the decryption here.
			err := wall.Accounts[i].Decrypt(pass, wall.Scrypt)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
		}
	}
	return fmtPrintWallet(ctx, wall)
}

func createWallet(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	path := ctx.String("wallet")
	if len(path) == 0 {
		return cli.NewExitError(errNoPath, 1)
	}
	wall, err := wallet.NewWallet(path)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer wall.Close()

	if ctx.Bool("account") {
		if err := createAccount(ctx, wall); err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	if err := fmtPrintWallet(ctx, wall); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "wallet successfully created, file location is %s\n", wall.Path())
	return nil
}

func addAccount(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	wall, err := openWallet(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer wall.Close()

	if err := createAccount(ctx, wall); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func createAccount(ctx *cli.Context, wall *wallet.Wallet) error {
	name, phrase, err := readAccountInfo(ctx)
	if err != nil {
		return err
	}
	return wall.CreateAccount(name, phrase)
}

func readAccountInfo(ctx *cli.Context) (string, string, error) {
	w := options.ErrWriter(ctx)
	name, err := input.ReadLine(w, "Enter the name of the account > ")
	if err != nil {
		return "", "", fmt.Errorf("error reading name: %w", err)
	}
	phrase, err := readNewPassword(ctx)
	if err != nil {
		return "", "", err
	}
	return strings.TrimRight(name, "\n"), phrase, nil
}

func readNewPassword(ctx *cli.Context) (string, error) {
	w := options.ErrWriter(ctx)
	phrase, err := input.ReadPassword(w, "Enter passphrase > ")
	if err != nil {
		return "", fmt.Errorf("error reading password: %w", err)
	}
	phraseCheck, err := input.ReadPassword(w, "Confirm passphrase > ")
	if err != nil {
		return "", fmt.Errorf("error reading password: %w", err)
	}

	if phrase != phraseCheck {
		return "", errPhraseMismatch
	}
	return phrase, nil
}

func importWallet(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	wall, err := openWallet(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer wall.Close()

	acc, err := newAccountFromWIF(ctx, wall)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := addAndSave(ctx, wall, acc); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func importMultisig(ctx *cli.Context) error {
	wall, err := openWallet(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer wall.Close()

	args := []string(ctx.Args())
	pubs := make(keys.PublicKeys, len(args))

	for i := range args {
		pubs[i], err = keys.NewPublicKeyFromString(args[i])
		if err != nil {
			return cli.NewExitError(fmt.Errorf("can't decode public key %d: %w", i, err), 1)
		}
	}

	script, err := multisigScript(ctx, pubs)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	acc, err := newAccountFromWIF(ctx, wall)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := acc.ConvertMultisigScript(script); err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := addAndSave(ctx, wall, acc); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

// multisigScript creates the verification script for pubs with the threshold
// given by exactly one of --min, --bft and --majority.
func multisigScript(ctx *cli.Context, pubs keys.PublicKeys) ([]byte, error) {
	var set int
	for _, name := range []string{"min", "bft", "majority"} {
		if ctx.IsSet(name) {
			set++
		}
	}
	if set != 1 {
		return nil, errors.New("exactly one of --min, --bft and --majority must be given")
	}
	switch {
	case ctx.Bool("bft"):
		return smartcontract.CreateDefaultMultiSigRedeemScript(pubs)
	case ctx.Bool("majority"):
		return smartcontract.CreateMajorityMultiSigRedeemScript(pubs)
	}
	m := ctx.Int("min")
	if len(pubs) < m {
		return nil, errors.New("insufficient number of public keys")
	}
	return smartcontract.CreateMultiSigRedeemScript(m, pubs)
}

func removeAccount(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	wall, err := openWallet(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer wall.Close()

	addr := flags.AddressFromContext(ctx, "address")
	if !addr.IsSet {
		return cli.NewExitError("valid account address must be provided", 1)
	}
	acc := wall.GetAccount(addr.Uint160())
	if acc == nil {
		return cli.NewExitError("account wasn't found", 1)
	}
	if err := wall.RemoveAccount(acc.Address); err != nil {
		return cli.NewExitError(fmt.Errorf("error on remove: %w", err), 1)
	}
	if err := wall.Save(); err != nil {
		return cli.NewExitError(fmt.Errorf("error while saving wallet: %w", err), 1)
	}
	return nil
}

func newAccountFromWIF(ctx *cli.Context, wall *wallet.Wallet) (*wallet.Account, error) {
	wif := ctx.String("wif")
	if wif == "" {
		var err error
		wif, err = input.ReadPassword(options.ErrWriter(ctx), "Enter WIF > ")
		if err != nil {
			return nil, fmt.Errorf("error reading WIF: %w", err)
		}
	}
	// note: NEP2 strings always have length of 58 even though
	// base58 strings can have different lengths even if slice lengths are equal
	if len(wif) == 58 {
		pass, err := input.ReadPassword(options.ErrWriter(ctx), "Enter password > ")
		if err != nil {
			return nil, fmt.Errorf("error reading password: %w", err)
		}
		return wallet.NewAccountFromEncryptedWIF(wif, pass, wall.Scrypt)
	}

	acc, err := wallet.NewAccountFromWIF(wif)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(ctx.App.Writer, "Provided WIF was unencrypted. Wallet can contain only encrypted keys.")
	name := ctx.String("name")
	if name == "" {
		name, err = input.ReadLine(options.ErrWriter(ctx), "Enter the name of the account > ")
		if err != nil {
			return nil, fmt.Errorf("error reading name: %w", err)
		}
	}
	acc.Label = name
	phrase, err := readNewPassword(ctx)
	if err != nil {
		return nil, err
	}
	if err := acc.Encrypt(phrase, wall.Scrypt); err != nil {
		return nil, err
	}
	return acc, nil
}

func addAndSave(ctx *cli.Context, wall *wallet.Wallet, acc *wallet.Account) error {
	for _, a := range wall.Accounts {
		if a.Address == acc.Address {
			return fmt.Errorf("address '%s' is already in wallet", acc.Address)
		}
	}
	if name := ctx.String("name"); name != "" {
		acc.Label = name
	}
	wall.AddAccount(acc)
	if err := wall.Save(); err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, acc.Address)
	return nil
}

func fmtPrintWallet(ctx *cli.Context, wall *wallet.Wallet) error {
	b, err := wall.JSON()
	if err != nil {
		return cli.NewExitError(fmt.Errorf("can't marshal wallet: %w", err), 1)
	}
	fmt.Fprintln(ctx.App.Writer, string(b))
	return nil
}
