package transaction

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/nspcc-dev/neo-txauth/pkg/util"
)

// Builder assembles an unsigned transaction. Setters record the first error
// which is then returned by Build, so calls can be chained.
type Builder struct {
	tx       Transaction
	nonceSet bool
	err      error
}

// NewBuilder creates a builder for a transaction running the given script.
func NewBuilder(script []byte) *Builder {
	return &Builder{tx: Transaction{Script: script}}
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Version sets the transaction version.
func (b *Builder) Version(v uint8) *Builder {
	b.tx.Version = v
	return b
}

// Nonce sets the transaction nonce, it must fit into uint32.
func (b *Builder) Nonce(n int64) *Builder {
	if n < 0 || n > math.MaxUint32 {
		return b.fail(NewError(InvalidNonce, fmt.Sprintf("%d doesn't fit into uint32", n)))
	}
	b.tx.Nonce = uint32(n)
	b.nonceSet = true
	return b
}

// ValidUntilBlock sets the height after which the transaction expires. It
// must be positive and fit into uint32.
func (b *Builder) ValidUntilBlock(h int64) *Builder {
	if h <= 0 || h > math.MaxUint32 {
		return b.fail(NewError(InvalidBlock, fmt.Sprintf("%d is not a valid block height", h)))
	}
	b.tx.ValidUntilBlock = uint32(h)
	return b
}

// SystemFee sets the system fee.
func (b *Builder) SystemFee(fee int64) *Builder {
	if fee < 0 {
		return b.fail(NewError(InvalidTransaction, "negative system fee"))
	}
	b.tx.SystemFee = fee
	return b
}

// NetworkFee sets the network fee.
func (b *Builder) NetworkFee(fee int64) *Builder {
	if fee < 0 {
		return b.fail(NewError(InvalidTransaction, "negative network fee"))
	}
	b.tx.NetworkFee = fee
	return b
}

// Script replaces the transaction script.
func (b *Builder) Script(script []byte) *Builder {
	b.tx.Script = script
	return b
}

// Signers sets the list of signers. Accounts must be unique and there can be
// no more than MaxAttributes of them.
func (b *Builder) Signers(signers ...Signer) *Builder {
	if len(signers) > MaxAttributes {
		return b.fail(NewError(TooManySigners, fmt.Sprintf("%d signers", len(signers))))
	}
	if err := checkUniqueSigners(signers); err != nil {
		return b.fail(err)
	}
	for i := range signers {
		if err := signers[i].Validate(); err != nil {
			return b.fail(err)
		}
	}
	b.tx.Signers = append([]Signer(nil), signers...)
	return b
}

// FirstSigner moves the signer with the given account to the first place
// making it the transaction sender.
func (b *Builder) FirstSigner(account util.Uint160) *Builder {
	i := b.tx.SignerIndex(account)
	if i < 0 {
		return b.fail(NewError(InvalidSender,
			fmt.Sprintf("%s is not a signer of the transaction", account.StringLE())))
	}
	s := b.tx.Signers[i]
	copy(b.tx.Signers[1:i+1], b.tx.Signers[:i])
	b.tx.Signers[0] = s
	return b
}

// Attributes appends attributes to the transaction. Only Conflicts can be
// given more than once.
func (b *Builder) Attributes(attrs ...Attribute) *Builder {
	all := append(append([]Attribute(nil), b.tx.Attributes...), attrs...)
	if err := checkAttributes(all); err != nil {
		return b.fail(err)
	}
	b.tx.Attributes = all
	return b
}

// Build validates the collected data and returns an unsigned transaction. A
// random nonce is used if none was set.
func (b *Builder) Build() (*Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	tx := b.tx.Copy()
	if !b.nonceSet {
		tx.Nonce = rand.Uint32()
	}
	if tx.Attributes == nil {
		tx.Attributes = []Attribute{}
	}
	tx.Scripts = []Witness{}
	if err := tx.ValidateBody(); err != nil {
		return nil, err
	}
	return tx, nil
}
