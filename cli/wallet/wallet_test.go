package wallet_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/nspcc-dev/neo-txauth/internal/keytestcases"
	"github.com/nspcc-dev/neo-txauth/internal/testcli"
	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/encoding/address"
	"github.com/nspcc-dev/neo-txauth/pkg/wallet"
	"github.com/stretchr/testify/require"
)

func TestWalletInit(t *testing.T) {
	e := testcli.NewExecutor(t)
	tmp := t.TempDir()
	walletPath := filepath.Join(tmp, "wallet.json")

	t.Run("missing path", func(t *testing.T) {
		e.RunWithError(t, "neo-txauth", "wallet", "init")
	})

	e.Run(t, "neo-txauth", "wallet", "init", "--wallet", walletPath)
	require.True(t, strings.HasSuffix(strings.TrimSpace(e.Out.String()), walletPath))
	w, err := wallet.NewWalletFromFile(walletPath)
	require.NoError(t, err)
	require.Equal(t, 0, len(w.Accounts))

	t.Run("create account", func(t *testing.T) {
		e.In.WriteString("acc1\r")
		e.In.WriteString("pass\r")
		e.In.WriteString("pass\r")
		e.Run(t, "neo-txauth", "wallet", "create", "--wallet", walletPath)

		w, err := wallet.NewWalletFromFile(walletPath)
		require.NoError(t, err)
		require.Equal(t, 1, len(w.Accounts))
		require.Equal(t, "acc1", w.Accounts[0].Label)
		require.NoError(t, w.Accounts[0].Decrypt("pass", w.Scrypt))
	})
	t.Run("password mismatch", func(t *testing.T) {
		e.In.WriteString("acc2\r")
		e.In.WriteString("pass\r")
		e.In.WriteString("other\r")
		e.RunWithErrorCheck(t, "do not match", "neo-txauth", "wallet", "create", "--wallet", walletPath)
	})
	t.Run("with account", func(t *testing.T) {
		path := filepath.Join(tmp, "wallet2.json")
		e.In.WriteString("main\r")
		e.In.WriteString("pass\r")
		e.In.WriteString("pass\r")
		e.Run(t, "neo-txauth", "wallet", "init", "--wallet", path, "--account")
		w, err := wallet.NewWalletFromFile(path)
		require.NoError(t, err)
		require.Equal(t, 1, len(w.Accounts))
		require.Equal(t, "main", w.Accounts[0].Label)
	})
}

func TestWalletImport(t *testing.T) {
	e := testcli.NewExecutor(t)
	tmp := t.TempDir()
	walletPath := filepath.Join(tmp, "wallet.json")
	e.Run(t, "neo-txauth", "wallet", "init", "--wallet", walletPath)

	tc := keytestcases.Valid()[0]
	e.In.WriteString("pass\r")
	e.In.WriteString("pass\r")
	e.Run(t, "neo-txauth", "wallet", "import", "--wallet", walletPath, "--wif", tc.Wif, "--name", "plain")
	e.CheckNextLine(t, "unencrypted")
	e.CheckNextLine(t, "^"+tc.Address+"$")
	e.CheckEOF(t)

	t.Run("duplicate", func(t *testing.T) {
		e.In.WriteString("pass\r")
		e.In.WriteString("pass\r")
		e.RunWithErrorCheck(t, "already in wallet", "neo-txauth", "wallet", "import",
			"--wallet", walletPath, "--wif", tc.Wif, "--name", "plain")
	})
	t.Run("bad WIF", func(t *testing.T) {
		e.RunWithError(t, "neo-txauth", "wallet", "import", "--wallet", walletPath,
			"--wif", keytestcases.Keys[3].Wif, "--name", "bad")
	})

	enc := keytestcases.Valid()[1]
	e.In.WriteString(enc.Passphrase + "\r")
	e.Run(t, "neo-txauth", "wallet", "import", "--wallet", walletPath, "--wif", enc.EncryptedWif, "--name", "nep2")
	e.CheckNextLine(t, "^"+enc.Address+"$")

	w, err := wallet.NewWalletFromFile(walletPath)
	require.NoError(t, err)
	require.Equal(t, 2, len(w.Accounts))
	require.Equal(t, "plain", w.Accounts[0].Label)
	require.Equal(t, "nep2", w.Accounts[1].Label)
	require.Equal(t, enc.EncryptedWif, w.Accounts[1].EncryptedWIF)

	t.Run("dump", func(t *testing.T) {
		e.Run(t, "neo-txauth", "wallet", "dump", "--wallet", walletPath)
		require.Contains(t, e.Out.String(), tc.Address)
		require.Contains(t, e.Out.String(), enc.Address)

		e.In.WriteString("pass\r")
		e.RunWithError(t, "neo-txauth", "wallet", "dump", "--wallet", walletPath, "--decrypt")
	})

	t.Run("remove", func(t *testing.T) {
		e.RunWithError(t, "neo-txauth", "wallet", "remove", "--wallet", walletPath)
		e.Run(t, "neo-txauth", "wallet", "remove", "--wallet", walletPath, "--address", enc.Address)
		w, err := wallet.NewWalletFromFile(walletPath)
		require.NoError(t, err)
		require.Equal(t, 1, len(w.Accounts))
		require.Equal(t, tc.Address, w.Accounts[0].Address)

		e.In.WriteString("pass\r")
		e.Run(t, "neo-txauth", "wallet", "dump", "--wallet", walletPath, "--decrypt")
	})
}

func TestWalletImportMultisig(t *testing.T) {
	e := testcli.NewExecutor(t)
	tmp := t.TempDir()
	walletPath := filepath.Join(tmp, "wallet.json")
	e.Run(t, "neo-txauth", "wallet", "init", "--wallet", walletPath)

	privs, pubs := testcli.GenerateKeys(t, 3)
	args := []string{"neo-txauth", "wallet", "import-multisig", "--wallet", walletPath,
		"--wif", privs[0].WIF(), "--name", "multi", "--min", "2"}
	for _, p := range pubs {
		args = append(args, p.StringCompressed())
	}

	t.Run("not enough keys", func(t *testing.T) {
		e.RunWithError(t, append(args[:len(args)-3:len(args)-3], pubs[0].StringCompressed())...)
	})
	t.Run("bad key", func(t *testing.T) {
		e.RunWithError(t, append(args[:len(args):len(args)], "bad")...)
	})
	t.Run("foreign WIF", func(t *testing.T) {
		other, err := keys.NewPrivateKey()
		require.NoError(t, err)
		bad := append([]string{}, args...)
		bad[6] = other.WIF()
		e.In.WriteString("pass\r")
		e.In.WriteString("pass\r")
		e.RunWithError(t, bad...)
	})

	e.In.WriteString("pass\r")
	e.In.WriteString("pass\r")
	e.Run(t, args...)

	w, err := wallet.NewWalletFromFile(walletPath)
	require.NoError(t, err)
	require.Equal(t, 1, len(w.Accounts))
	acc := w.Accounts[0]
	require.Equal(t, "multi", acc.Label)
	e.CheckNextLine(t, "unencrypted")
	e.CheckNextLine(t, "^"+acc.Address+"$")

	expected := wallet.NewAccountFromPrivateKey(privs[1])
	require.NoError(t, expected.ConvertMultisig(2, pubs))
	require.Equal(t, expected.Address, acc.Address)
	h, err := address.StringToUint160(acc.Address)
	require.NoError(t, err)
	require.Equal(t, h, acc.Contract.ScriptHash())
}

func TestWalletImportMultisigThresholds(t *testing.T) {
	e := testcli.NewExecutor(t)
	privs, pubs := testcli.GenerateKeys(t, 5)

	newArgs := func(t *testing.T, threshold ...string) (string, []string) {
		walletPath := filepath.Join(t.TempDir(), "wallet.json")
		e.Run(t, "neo-txauth", "wallet", "init", "--wallet", walletPath)
		args := append([]string{"neo-txauth", "wallet", "import-multisig", "--wallet", walletPath,
			"--wif", privs[0].WIF()}, threshold...)
		for _, p := range pubs {
			args = append(args, p.StringCompressed())
		}
		return walletPath, args
	}

	t.Run("no threshold", func(t *testing.T) {
		_, args := newArgs(t)
		e.RunWithErrorCheck(t, "exactly one of", args...)
	})
	t.Run("conflicting thresholds", func(t *testing.T) {
		_, args := newArgs(t, "--min", "2", "--majority")
		e.RunWithErrorCheck(t, "exactly one of", args...)
	})
	for flag, m := range map[string]int{"--bft": 4, "--majority": 3} {
		t.Run(flag, func(t *testing.T) {
			walletPath, args := newArgs(t, flag)
			e.In.WriteString("pass\r")
			e.In.WriteString("pass\r")
			e.Run(t, args...)

			w, err := wallet.NewWalletFromFile(walletPath)
			require.NoError(t, err)
			require.Equal(t, 1, len(w.Accounts))
			acc := w.Accounts[0]
			require.Len(t, acc.Contract.Parameters, m)

			expected := wallet.NewAccountFromPrivateKey(privs[0])
			require.NoError(t, expected.ConvertMultisig(m, pubs))
			require.Equal(t, expected.Address, acc.Address)
			require.Equal(t, expected.Contract.Script, acc.Contract.Script)
		})
	}
}
