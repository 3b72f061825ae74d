package config

// ApplicationConfiguration config specific to the tool.
type ApplicationConfiguration struct {
	// LogLevel is one of the zap level names (debug, info, warn, error).
	LogLevel string `yaml:"LogLevel"`
	LogPath  string `yaml:"LogPath"`
	// UnlockWallet is the wallet used to sign contexts when no WIF is given.
	UnlockWallet Wallet `yaml:"UnlockWallet"`
}
