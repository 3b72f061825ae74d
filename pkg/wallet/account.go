package wallet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-txauth/pkg/core/transaction"
	"github.com/nspcc-dev/neo-txauth/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/encoding/address"
	"github.com/nspcc-dev/neo-txauth/pkg/io"
	"github.com/nspcc-dev/neo-txauth/pkg/smartcontract"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
	"github.com/nspcc-dev/neo-txauth/pkg/vm"
	"github.com/nspcc-dev/neo-txauth/pkg/vm/emit"
)

// Account is a NEP-6 account entry. The private key is only available after
// Decrypt (or when the account is created from a key).
type Account struct {
	privateKey *keys.PrivateKey

	Address      string `json:"address"`
	EncryptedWIF string `json:"key"`
	Label        string `json:"label"`
	// Contract is nil for watch-only accounts.
	Contract *Contract `json:"contract"`
	// Locked accounts refuse to sign.
	Locked  bool `json:"lock"`
	Default bool `json:"isDefault"`
}

// Contract is the verification contract of an account.
type Contract struct {
	Script     []byte          `json:"script"`
	Parameters []ContractParam `json:"parameters"`
	// Deployed contracts are verified by their on-chain code, Script is
	// empty for them.
	Deployed bool `json:"deployed"`
}

// ContractParam names and types a single verification parameter.
type ContractParam struct {
	Name string                  `json:"name"`
	Type smartcontract.ParamType `json:"type"`
}

// ErrAccountLocked is returned when signing with a locked account.
var ErrAccountLocked = errors.New("account is locked")

// ScriptHash returns Hash160 of the script.
func (c Contract) ScriptHash() util.Uint160 {
	return hash.Hash160(c.Script)
}

// signatureParams returns n signature parameters named parameter0..n-1.
func signatureParams(n int) []ContractParam {
	params := make([]ContractParam, 0, n)
	for i := 0; i < n; i++ {
		params = append(params, ContractParam{
			Name: fmt.Sprintf("parameter%d", i),
			Type: smartcontract.SignatureType,
		})
	}
	return params
}

// NewAccount generates a fresh secp256r1 key and wraps it into a standard
// account.
func NewAccount() (*Account, error) {
	priv, err := keys.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(priv), nil
}

// NewAccountFromPrivateKey returns a standard single-signature account for p.
func NewAccountFromPrivateKey(p *keys.PrivateKey) *Account {
	return &Account{
		privateKey: p,
		Address:    p.Address(),
		Contract: &Contract{
			Script:     p.PublicKey().GetVerificationScript(),
			Parameters: signatureParams(1),
		},
	}
}

// NewAccountFromWIF returns a standard account for the WIF-encoded key.
func NewAccountFromWIF(wif string) (*Account, error) {
	priv, err := keys.NewPrivateKeyFromWIF(wif)
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(priv), nil
}

// NewAccountFromEncryptedWIF decrypts a NEP-2 key and returns an unlocked
// standard account keeping the encrypted form.
func NewAccountFromEncryptedWIF(wif string, pass string, scrypt keys.ScryptParams) (*Account, error) {
	priv, err := keys.NEP2Decrypt(wif, pass, scrypt)
	if err != nil {
		return nil, err
	}
	acc := NewAccountFromPrivateKey(priv)
	acc.EncryptedWIF = wif
	return acc, nil
}

// NewContractAccount returns an account of the deployed contract h. Its
// witness has an empty verification script and an invocation script built
// from params.
func NewContractAccount(h util.Uint160, params ...ContractParam) *Account {
	return &Account{
		Address:  address.Uint160ToString(h),
		Contract: &Contract{Parameters: params, Deployed: true},
	}
}

// Decrypt unlocks the private key with the passphrase.
func (a *Account) Decrypt(passphrase string, scrypt keys.ScryptParams) error {
	if a.EncryptedWIF == "" {
		return errors.New("no encrypted wif in the account")
	}
	priv, err := keys.NEP2Decrypt(a.EncryptedWIF, passphrase, scrypt)
	if err == nil {
		a.privateKey = priv
	}
	return err
}

// Encrypt stores the NEP-2 form of the private key protected with the
// passphrase.
func (a *Account) Encrypt(passphrase string, scrypt keys.ScryptParams) error {
	if a.privateKey == nil {
		return errors.New("no private key to encrypt")
	}
	wif, err := keys.NEP2Encrypt(a.privateKey, passphrase, scrypt)
	if err == nil {
		a.EncryptedWIF = wif
	}
	return err
}

// PrivateKey returns the decrypted key or nil.
func (a *Account) PrivateKey() *keys.PrivateKey {
	return a.privateKey
}

// PublicKey returns the public part of the decrypted key or nil.
func (a *Account) PublicKey() *keys.PublicKey {
	if a.privateKey == nil {
		return nil
	}
	return a.privateKey.PublicKey()
}

// Close wipes the decrypted key.
func (a *Account) Close() {
	if a.privateKey != nil {
		a.privateKey.Destroy()
		a.privateKey = nil
	}
}

// ScriptHash decodes Address, it panics if the address is malformed.
func (a *Account) ScriptHash() util.Uint160 {
	h, err := a.scriptHash()
	if err != nil {
		panic(fmt.Errorf("bad account address %q: %w", a.Address, err))
	}
	return h
}

func (a *Account) scriptHash() (util.Uint160, error) {
	return address.StringToUint160(a.Address)
}

// CanSign reports whether the account is unlocked and has its key decrypted.
func (a *Account) CanSign() bool {
	return a.privateKey != nil && !a.Locked
}

// SignHashable returns the signature of item for net or nil if the account
// can't sign.
func (a *Account) SignHashable(net uint32, item hash.Hashable) []byte {
	if a.CanSign() {
		return a.privateKey.SignHashable(net, item)
	}
	return nil
}

// ConvertMultisig turns the account into an m-out-of-len(pubs) multisig
// account, its own key must be one of pubs.
func (a *Account) ConvertMultisig(m int, pubs keys.PublicKeys) error {
	if err := a.checkConvertible(); err != nil {
		return err
	}
	if !pubs.Contains(a.privateKey.PublicKey()) {
		return errOwnKeyMissing
	}
	script, err := smartcontract.CreateMultiSigRedeemScript(m, pubs)
	if err != nil {
		return err
	}
	a.setMultisig(m, script)
	return nil
}

// ConvertMultisigScript is like ConvertMultisig, but takes a ready standard
// multisignature verification script.
func (a *Account) ConvertMultisigScript(script []byte) error {
	if err := a.checkConvertible(); err != nil {
		return err
	}
	m, pubs, ok := vm.ParseMultiSigContract(script)
	if !ok {
		return errors.New("not a multisignature verification script")
	}
	own := a.privateKey.PublicKey().Bytes()
	for i := range pubs {
		if bytes.Equal(pubs[i], own) {
			a.setMultisig(m, bytes.Clone(script))
			return nil
		}
	}
	return errOwnKeyMissing
}

var errOwnKeyMissing = errors.New("own public key was not found among multisig keys")

func (a *Account) checkConvertible() error {
	switch {
	case a.Locked:
		return ErrAccountLocked
	case a.privateKey == nil:
		return errors.New("can't convert account without a private key")
	}
	return nil
}

func (a *Account) setMultisig(m int, script []byte) {
	a.Address = address.Uint160ToString(hash.Hash160(script))
	a.Contract = &Contract{Script: script, Parameters: signatureParams(m)}
}

// SignTx puts the account signature into the witness at the account's
// signer position. Witnesses of all preceding signers must already be there.
// Multisig accounts append to the invocation script, so calls must follow
// the key order of the verification script. Deployed contract accounts only
// get an empty witness.
func (a *Account) SignTx(net uint32, t *transaction.Transaction) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if a.Contract == nil {
		return errors.New("account has no contract")
	}
	pos := t.SignerIndex(a.ScriptHash())
	switch {
	case pos < 0:
		return fmt.Errorf("transaction is not signed by %s", a.Address)
	case pos > len(t.Scripts):
		return errors.New("transaction is not yet signed by the previous signer")
	case pos == len(t.Scripts):
		t.Scripts = append(t.Scripts, *transaction.NewWitnessFromScripts([]byte{}, a.Contract.Script))
	}
	if a.Contract.Deployed {
		return nil
	}
	if a.privateKey == nil {
		return errors.New("account key is not available (need to decrypt?)")
	}
	buf := io.NewBufBinWriter()
	emit.Bytes(buf.BinWriter, a.privateKey.SignHashable(net, t))
	w := &t.Scripts[pos]
	if len(a.Contract.Parameters) == 1 {
		w.InvocationScript = buf.Bytes()
	} else {
		w.InvocationScript = append(w.InvocationScript, buf.Bytes()...)
	}
	return nil
}
