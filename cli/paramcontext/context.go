package paramcontext

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nspcc-dev/neo-txauth/pkg/config/netmode"
	"github.com/nspcc-dev/neo-txauth/pkg/core/transaction"
	"github.com/nspcc-dev/neo-txauth/pkg/smartcontract/context"
	"github.com/nspcc-dev/neo-txauth/pkg/wallet"
)

// InitAndSave wraps tx into a new parameter context, signs it with acc when
// acc is able to sign and writes the context to filename.
func InitAndSave(net netmode.Magic, tx *transaction.Transaction, acc *wallet.Account, filename string) (*context.ParameterContext, error) {
	scCtx := context.NewParameterContext(net, tx)
	if acc != nil && acc.CanSign() {
		if err := AddAccountSignature(scCtx, acc); err != nil {
			return nil, err
		}
	}
	return scCtx, Save(scCtx, filename)
}

// AddAccountSignature adds the signature of acc to the context, acc must be
// one of the transaction signers.
func AddAccountSignature(scCtx *context.ParameterContext, acc *wallet.Account) error {
	h := acc.ScriptHash()
	if !scCtx.Verifiable.HasSigner(h) {
		return fmt.Errorf("account %s is not a signer of the transaction", acc.Address)
	}
	sign := acc.SignHashable(uint32(scCtx.Network), scCtx.Verifiable)
	if sign == nil {
		return fmt.Errorf("account %s can't sign", acc.Address)
	}
	if err := scCtx.AddSignature(h, acc.Contract, acc.PublicKey(), sign); err != nil {
		return fmt.Errorf("can't add signature: %w", err)
	}
	return nil
}

// Read loads a parameter context saved with Save.
func Read(filename string) (*context.ParameterContext, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("can't read input file: %w", err)
	}
	c := new(context.ParameterContext)
	if err = json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("can't parse transaction: %w", err)
	}
	return c, nil
}

// Save writes c as indented JSON, the file is replaced if it exists.
func Save(c *context.ParameterContext, filename string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("can't marshal transaction: %w", err)
	}
	if err = os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("can't write transaction to file: %w", err)
	}
	return nil
}
