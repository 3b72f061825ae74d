package options

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo-txauth/cli/flags"
	"github.com/nspcc-dev/neo-txauth/pkg/config"
	"github.com/nspcc-dev/neo-txauth/pkg/config/netmode"
	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/wallet"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
	"go.uber.org/zap/zapcore"
)

func TestGetNetwork(t *testing.T) {
	t.Run("privnet", func(t *testing.T) {
		set := flag.NewFlagSet("flagSet", flag.ExitOnError)
		ctx := cli.NewContext(cli.NewApp(), set, nil)
		require.Equal(t, netmode.PrivNet, GetNetwork(ctx))
	})

	t.Run("testnet", func(t *testing.T) {
		set := flag.NewFlagSet("flagSet", flag.ExitOnError)
		set.Bool("testnet", true, "")
		ctx := cli.NewContext(cli.NewApp(), set, nil)
		require.Equal(t, netmode.TestNet, GetNetwork(ctx))
	})

	t.Run("mainnet", func(t *testing.T) {
		set := flag.NewFlagSet("flagSet", flag.ExitOnError)
		set.Bool("mainnet", true, "")
		ctx := cli.NewContext(cli.NewApp(), set, nil)
		require.Equal(t, netmode.MainNet, GetNetwork(ctx))
	})

	t.Run("magic", func(t *testing.T) {
		set := flag.NewFlagSet("flagSet", flag.ExitOnError)
		set.Bool("mainnet", true, "")
		set.Uint(NetworkMagicFlag, 123, "")
		ctx := cli.NewContext(cli.NewApp(), set, nil)
		require.Equal(t, netmode.Magic(123), GetNetwork(ctx))
	})
}

func TestGetConfigFromContext(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		set := flag.NewFlagSet("flagSet", flag.ExitOnError)
		set.Bool("testnet", true, "")
		ctx := cli.NewContext(cli.NewApp(), set, nil)
		cfg, err := GetConfigFromContext(ctx)
		require.NoError(t, err)
		require.Equal(t, config.Default(netmode.TestNet), cfg)
	})

	t.Run("config path", func(t *testing.T) {
		set := flag.NewFlagSet("flagSet", flag.ExitOnError)
		set.Bool("mainnet", true, "")
		set.String("config-path", filepath.Join("..", "..", "config"), "")
		ctx := cli.NewContext(cli.NewApp(), set, nil)
		cfg, err := GetConfigFromContext(ctx)
		require.NoError(t, err)
		require.Equal(t, netmode.MainNet, cfg.ProtocolConfiguration.Magic)
	})

	t.Run("config file", func(t *testing.T) {
		set := flag.NewFlagSet("flagSet", flag.ExitOnError)
		set.Bool("mainnet", true, "")
		set.String("config-file", filepath.Join("..", "..", "pkg", "config", "testdata", "protocol.unit_testnet.yml"), "")
		ctx := cli.NewContext(cli.NewApp(), set, nil)
		cfg, err := GetConfigFromContext(ctx)
		require.NoError(t, err)
		require.Equal(t, netmode.UnitTestNet, cfg.ProtocolConfiguration.Magic)
		require.Equal(t, "debug", cfg.ApplicationConfiguration.LogLevel)
	})

	t.Run("missing", func(t *testing.T) {
		set := flag.NewFlagSet("flagSet", flag.ExitOnError)
		set.String("config-path", t.TempDir(), "")
		ctx := cli.NewContext(cli.NewApp(), set, nil)
		_, err := GetConfigFromContext(ctx)
		require.Error(t, err)
	})
}

func TestHandleLoggingParams(t *testing.T) {
	d := t.TempDir()
	testLog := filepath.Join(d, "logs", "file.log")

	t.Run("logdir is a file", func(t *testing.T) {
		logfile := filepath.Join(d, "logdir")
		require.NoError(t, os.WriteFile(logfile, []byte{1, 2, 3}, os.ModePerm))
		cfg := config.ApplicationConfiguration{
			LogPath: filepath.Join(logfile, "file.log"),
		}
		_, lvl, closer, err := HandleLoggingParams(false, cfg)
		require.Error(t, err)
		require.Nil(t, lvl)
		require.Nil(t, closer)
	})

	t.Run("invalid level", func(t *testing.T) {
		cfg := config.ApplicationConfiguration{
			LogLevel: "qwerty",
		}
		_, lvl, closer, err := HandleLoggingParams(false, cfg)
		require.Error(t, err)
		require.Nil(t, lvl)
		require.Nil(t, closer)
	})

	t.Run("default", func(t *testing.T) {
		cfg := config.ApplicationConfiguration{
			LogPath: testLog,
		}
		logger, lvl, closer, err := HandleLoggingParams(false, cfg)
		require.NoError(t, err)
		t.Cleanup(func() {
			if closer != nil {
				require.NoError(t, closer())
			}
		})
		require.Equal(t, zapcore.InfoLevel, lvl.Level())
		require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		require.False(t, logger.Core().Enabled(zapcore.DebugLevel))
		_, err = os.Stat(filepath.Dir(testLog))
		require.NoError(t, err)
	})

	t.Run("warn level", func(t *testing.T) {
		cfg := config.ApplicationConfiguration{
			LogLevel: "warn",
		}
		logger, lvl, _, err := HandleLoggingParams(false, cfg)
		require.NoError(t, err)
		require.Equal(t, zapcore.WarnLevel, lvl.Level())
		require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("debug overrides", func(t *testing.T) {
		cfg := config.ApplicationConfiguration{
			LogLevel: "error",
		}
		logger, lvl, _, err := HandleLoggingParams(true, cfg)
		require.NoError(t, err)
		require.Equal(t, zapcore.DebugLevel, lvl.Level())
		require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})
}

func TestReadWalletConfig(t *testing.T) {
	d := t.TempDir()
	cfgPath := filepath.Join(d, "wallet.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("Path: /tmp/w.json\nPassword: one\n"), 0o644))

	cfg, err := ReadWalletConfig(cfgPath)
	require.NoError(t, err)
	require.Equal(t, &config.Wallet{Path: "/tmp/w.json", Password: "one"}, cfg)

	_, err = ReadWalletConfig(filepath.Join(d, "missing.yml"))
	require.Error(t, err)

	require.NoError(t, os.WriteFile(cfgPath, []byte("Path: [1, 2"), 0o644))
	_, err = ReadWalletConfig(cfgPath)
	require.Error(t, err)
}

// newTestWallet creates a wallet with a single encrypted account using cheap
// scrypt parameters.
func newTestWallet(t *testing.T, pass string) (*wallet.Wallet, *wallet.Account) {
	d := t.TempDir()
	w, err := wallet.NewWallet(filepath.Join(d, "wallet.json"))
	require.NoError(t, err)
	w.Scrypt = keys.ScryptParams{N: 2, R: 1, P: 1}

	acc, err := wallet.NewAccount()
	require.NoError(t, err)
	require.NoError(t, acc.Encrypt(pass, w.Scrypt))
	w.AddAccount(acc)
	require.NoError(t, w.Save())
	return w, acc
}

func TestGetUnlockedAccount(t *testing.T) {
	w, acc := newTestWallet(t, "pass")
	w, err := wallet.NewWalletFromFile(w.Path())
	require.NoError(t, err)

	t.Run("unknown account", func(t *testing.T) {
		_, err := GetUnlockedAccount(os.Stderr, w, acc.ScriptHash().Reverse(), nil)
		require.Error(t, err)
	})

	t.Run("bad password", func(t *testing.T) {
		pass := "wrong"
		_, err := GetUnlockedAccount(os.Stderr, w, acc.ScriptHash(), &pass)
		require.Error(t, err)
	})

	t.Run("good", func(t *testing.T) {
		pass := "pass"
		unlocked, err := GetUnlockedAccount(os.Stderr, w, acc.ScriptHash(), &pass)
		require.NoError(t, err)
		require.True(t, unlocked.CanSign())
		require.Equal(t, acc.PublicKey().Bytes(), unlocked.PublicKey().Bytes())
	})
}

func TestGetAccFromContext(t *testing.T) {
	w, acc := newTestWallet(t, "pass")

	newCtx := func(t *testing.T, args ...string) *cli.Context {
		set := flag.NewFlagSet("flagSet", flag.ContinueOnError)
		set.String("wallet", "", "")
		set.String("wallet-config", "", "")
		flags.AddressFlag{Name: "address"}.Apply(set)
		require.NoError(t, set.Parse(args))
		return cli.NewContext(cli.NewApp(), set, nil)
	}

	t.Run("no wallet", func(t *testing.T) {
		_, _, err := GetAccFromContext(newCtx(t), config.Wallet{})
		require.ErrorIs(t, err, errNoWallet)
	})

	t.Run("conflicting flags", func(t *testing.T) {
		_, _, err := GetAccFromContext(newCtx(t, "--wallet", w.Path(), "--wallet-config", "cfg.yml"), config.Wallet{})
		require.ErrorIs(t, err, errConflictingWalletFlags)
	})

	t.Run("wallet config", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "wallet.yml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("Path: "+w.Path()+"\nPassword: pass\n"), 0o644))
		a, _, err := GetAccFromContext(newCtx(t, "--wallet-config", cfgPath), config.Wallet{})
		require.NoError(t, err)
		require.True(t, a.CanSign())
		require.Equal(t, acc.Address, a.Address)
	})

	t.Run("fallback with address", func(t *testing.T) {
		a, wall, err := GetAccFromContext(newCtx(t, "--address", acc.Address), config.Wallet{Path: w.Path(), Password: "pass"})
		require.NoError(t, err)
		require.NotNil(t, wall)
		require.True(t, a.CanSign())
	})

	t.Run("unknown address", func(t *testing.T) {
		other, err := wallet.NewAccount()
		require.NoError(t, err)
		_, _, err = GetAccFromContext(newCtx(t, "--address", other.Address), config.Wallet{Path: w.Path(), Password: "pass"})
		require.Error(t, err)
	})
}
