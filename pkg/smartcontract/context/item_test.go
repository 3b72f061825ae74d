package context

import (
	"encoding/hex"
	"testing"

	"github.com/nspcc-dev/neo-txauth/internal/random"
	"github.com/nspcc-dev/neo-txauth/internal/testserdes"
	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/smartcontract"
	"github.com/stretchr/testify/require"
)

func TestContextItem_AddSignature(t *testing.T) {
	item := &Item{}

	priv1, err := keys.NewPrivateKey()
	require.NoError(t, err)

	pub1 := priv1.PublicKey()
	sig1 := []byte{1, 2, 3}
	item.AddSignature(pub1, sig1)
	require.Equal(t, sig1, item.GetSignature(pub1))

	priv2, err := keys.NewPrivateKey()
	require.NoError(t, err)

	pub2 := priv2.PublicKey()
	sig2 := []byte{5, 6, 7}
	item.AddSignature(pub2, sig2)
	require.Equal(t, sig2, item.GetSignature(pub2))
	require.Equal(t, sig1, item.GetSignature(pub1))

	sig3 := []byte{8, 9}
	item.AddSignature(pub1, sig3)
	require.Equal(t, sig3, item.GetSignature(pub1))
	require.Len(t, item.Signatures, 2)
}

func TestContextItem_IsComplete(t *testing.T) {
	var nilItem *Item
	require.False(t, nilItem.IsComplete())

	item := &Item{Parameters: signatureParams(2)}
	require.False(t, item.IsComplete())
	item.Parameters[0].Value = random.Bytes(keys.SignatureLen)
	require.False(t, item.IsComplete())
	item.Parameters[1].Value = random.Bytes(keys.SignatureLen)
	require.True(t, item.IsComplete())

	require.True(t, (&Item{}).IsComplete())
}

func TestContextItem_Copy(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	item := &Item{
		Script:     priv.PublicKey().GetVerificationScript(),
		Parameters: []smartcontract.Parameter{smartcontract.NewSignatureParameter(random.Bytes(keys.SignatureLen))},
	}
	item.AddSignature(priv.PublicKey(), random.Bytes(keys.SignatureLen))

	cp := item.Copy()
	require.Equal(t, item, cp)
	cp.Script[0] = 0xff
	cp.Parameters[0].Value.([]byte)[0]++
	cp.Signatures[hex.EncodeToString(priv.PublicKey().Bytes())][0]++
	require.NotEqual(t, item, cp)
}

func TestContextItem_MarshalJSON(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)

	expected := &Item{
		Script: []byte{1, 2, 3},
		Parameters: []smartcontract.Parameter{{
			Type:  smartcontract.SignatureType,
			Value: random.Bytes(keys.SignatureLen),
		}},
		Signatures: map[string][]byte{
			hex.EncodeToString(priv.PublicKey().Bytes()): random.Bytes(keys.SignatureLen),
		},
	}

	testserdes.MarshalUnmarshalJSON(t, expected, new(Item))

	t.Run("empty parameter", func(t *testing.T) {
		item := &Item{
			Script:     []byte{1},
			Parameters: signatureParams(1),
			Signatures: map[string][]byte{},
		}
		testserdes.MarshalUnmarshalJSON(t, item, new(Item))
	})
}
