package transaction

import (
	"math"
	"testing"

	"github.com/nspcc-dev/neo-txauth/internal/random"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	tx, err := NewBuilder([]byte{0x11}).
		Nonce(0x01020304).
		SystemFee(100).
		NetworkFee(200).
		ValidUntilBlock(1000).
		Signers(Signer{Account: util.Uint160{1, 2, 3}, Scopes: CalledByEntry}).
		Build()
	require.NoError(t, err)
	require.Equal(t, vectorTransaction(), tx)
	require.Equal(t, vectorHash, tx.Hash().StringLE())
}

func TestBuilderErrors(t *testing.T) {
	signer := Signer{Account: random.Uint160(), Scopes: CalledByEntry}
	check := func(t *testing.T, target error, b *Builder) {
		_, err := b.Build()
		require.ErrorIs(t, err, target)
	}
	t.Run("nonce", func(t *testing.T) {
		check(t, ErrInvalidNonce, NewBuilder([]byte{1}).Nonce(-1).Signers(signer))
		check(t, ErrInvalidNonce, NewBuilder([]byte{1}).Nonce(math.MaxUint32+1).Signers(signer))
	})
	t.Run("valid until block", func(t *testing.T) {
		check(t, ErrInvalidBlock, NewBuilder([]byte{1}).ValidUntilBlock(0).Signers(signer))
		check(t, ErrInvalidBlock, NewBuilder([]byte{1}).ValidUntilBlock(-5).Signers(signer))
		check(t, ErrInvalidBlock, NewBuilder([]byte{1}).ValidUntilBlock(math.MaxUint32+1).Signers(signer))
	})
	t.Run("fees", func(t *testing.T) {
		check(t, ErrInvalidTransaction, NewBuilder([]byte{1}).SystemFee(-1).Signers(signer))
		check(t, ErrInvalidTransaction, NewBuilder([]byte{1}).NetworkFee(-1).Signers(signer))
	})
	t.Run("signers", func(t *testing.T) {
		check(t, ErrNoSigners, NewBuilder([]byte{1}))
		check(t, ErrDuplicateSigner, NewBuilder([]byte{1}).Signers(signer, signer))
		check(t, ErrSignerConfiguration, NewBuilder([]byte{1}).Signers(Signer{Scopes: Global | CustomGroups}))

		many := make([]Signer, MaxAttributes+1)
		for i := range many {
			many[i] = Signer{Account: random.Uint160()}
		}
		check(t, ErrTooManySigners, NewBuilder([]byte{1}).Signers(many...))
	})
	t.Run("script", func(t *testing.T) {
		check(t, ErrNoScript, NewBuilder(nil).Signers(signer))
		check(t, ErrEmptyScript, NewBuilder([]byte{1}).Script([]byte{}).Signers(signer))
	})
	t.Run("sender", func(t *testing.T) {
		check(t, ErrInvalidSender, NewBuilder([]byte{1}).Signers(signer).FirstSigner(random.Uint160()))
	})
	t.Run("attributes", func(t *testing.T) {
		check(t, ErrInvalidTransaction, NewBuilder([]byte{1}).Signers(signer).
			Attributes(Attribute{Type: HighPriority}).
			Attributes(Attribute{Type: HighPriority}))
	})
	t.Run("first error wins", func(t *testing.T) {
		_, err := NewBuilder(nil).Nonce(-1).ValidUntilBlock(0).Build()
		require.ErrorIs(t, err, ErrInvalidNonce)
	})
}

func TestBuilderFirstSigner(t *testing.T) {
	a, b, c := random.Uint160(), random.Uint160(), random.Uint160()
	tx, err := NewBuilder([]byte{1}).
		ValidUntilBlock(1).
		Signers(Signer{Account: a}, Signer{Account: b}, Signer{Account: c, Scopes: Global}).
		FirstSigner(c).
		Build()
	require.NoError(t, err)
	require.Equal(t, c, tx.Sender())
	require.Equal(t, a, tx.Signers[1].Account)
	require.Equal(t, b, tx.Signers[2].Account)
}

func TestBuilderAttributes(t *testing.T) {
	tx, err := NewBuilder([]byte{1}).
		Signers(Signer{Account: random.Uint160()}).
		Attributes(Attribute{Type: HighPriority}).
		Attributes(
			Attribute{Type: ConflictsT, Value: &Conflicts{Hash: random.Uint256()}},
			Attribute{Type: ConflictsT, Value: &Conflicts{Hash: random.Uint256()}},
		).
		Build()
	require.NoError(t, err)
	require.Len(t, tx.Attributes, 3)
	require.Len(t, tx.Scripts, 0)
	require.NotNil(t, tx.Scripts)
}

func TestBuilderIsReusable(t *testing.T) {
	b := NewBuilder([]byte{1}).Nonce(5).Signers(Signer{Account: random.Uint160()})
	tx1, err := b.Build()
	require.NoError(t, err)
	tx1.Script[0] = 2
	tx1.Signers[0].Scopes = Global
	tx2, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, byte(1), tx2.Script[0])
	require.Equal(t, None, tx2.Signers[0].Scopes)
	require.Equal(t, uint32(5), tx2.Nonce)
}
