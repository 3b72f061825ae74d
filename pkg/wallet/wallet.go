// Package wallet implements NEP-6 wallets holding NEP-2 encrypted accounts.
package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
)

// walletVersion is written into new wallets.
const walletVersion = "1.0"

// ErrAccountNotFound is returned when there is no account with the requested
// address.
var ErrAccountNotFound = errors.New("account wasn't found")

// Wallet is a NEP-6 wallet bound to a file.
type Wallet struct {
	Version  string            `json:"version"`
	Accounts []*Account        `json:"accounts"`
	Scrypt   keys.ScryptParams `json:"scrypt"`

	path string
}

// NewWallet creates an empty wallet and writes it to location.
func NewWallet(location string) (*Wallet, error) {
	w := &Wallet{
		Version:  walletVersion,
		Accounts: []*Account{},
		Scrypt:   keys.NEP2ScryptParams(),
		path:     location,
	}
	return w, w.Save()
}

// NewWalletFromFile reads the wallet stored at path.
func NewWalletFromFile(path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read wallet file: %w", err)
	}
	w := &Wallet{path: path}
	if err = json.Unmarshal(data, w); err != nil {
		return nil, fmt.Errorf("unmarshal wallet: %w", err)
	}
	return w, nil
}

// CreateAccount adds a new random account encrypted with passphrase and saves
// the wallet.
func (w *Wallet) CreateAccount(name, passphrase string) error {
	acc, err := NewAccount()
	if err != nil {
		return err
	}
	acc.Label = name
	if err = acc.Encrypt(passphrase, w.Scrypt); err != nil {
		return err
	}
	w.AddAccount(acc)
	return w.Save()
}

// AddAccount appends acc, the wallet file is not updated.
func (w *Wallet) AddAccount(acc *Account) {
	w.Accounts = append(w.Accounts, acc)
}

// RemoveAccount drops the first account with the given address.
func (w *Wallet) RemoveAccount(addr string) error {
	for i := range w.Accounts {
		if w.Accounts[i].Address == addr {
			w.Accounts = append(w.Accounts[:i], w.Accounts[i+1:]...)
			return nil
		}
	}
	return ErrAccountNotFound
}

// Path returns the wallet file location.
func (w *Wallet) Path() string {
	return w.path
}

// SetPath changes the wallet file location used by Save.
func (w *Wallet) SetPath(path string) {
	w.path = path
}

// Save writes the wallet to its file.
func (w *Wallet) Save() error {
	data, err := w.JSON()
	if err != nil {
		return err
	}
	return os.WriteFile(w.path, data, 0o644)
}

// JSON returns the indented NEP-6 representation.
func (w *Wallet) JSON() ([]byte, error) {
	return json.MarshalIndent(w, "", "  ")
}

// Close wipes decrypted keys of all accounts.
func (w *Wallet) Close() {
	for _, acc := range w.Accounts {
		acc.Close()
	}
}

// GetAccount finds the account with the given script hash, nil is returned
// if there is none.
func (w *Wallet) GetAccount(h util.Uint160) *Account {
	for _, acc := range w.Accounts {
		if ah, err := acc.scriptHash(); err == nil && ah.Equals(h) {
			return acc
		}
	}
	return nil
}

// GetChangeAddress returns the script hash of the default account. Without
// one the first unlocked account having a contract is used, a zero hash is
// returned when there are none.
func (w *Wallet) GetChangeAddress() util.Uint160 {
	var found *Account
	for _, acc := range w.Accounts {
		if acc.Contract == nil || acc.Locked {
			continue
		}
		if acc.Default {
			found = acc
			break
		}
		if found == nil {
			found = acc
		}
	}
	if found == nil {
		return util.Uint160{}
	}
	return found.ScriptHash()
}
