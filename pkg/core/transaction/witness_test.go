package transaction

import (
	"encoding/hex"
	"errors"
	"sort"
	"testing"

	"github.com/nspcc-dev/neo-txauth/internal/testserdes"
	"github.com/nspcc-dev/neo-txauth/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/smartcontract"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
	"github.com/nspcc-dev/neo-txauth/pkg/vm"
	"github.com/stretchr/testify/require"
)

func TestWitnessSerDes(t *testing.T) {
	var good1 = &Witness{
		InvocationScript:   make([]byte, 64),
		VerificationScript: make([]byte, 32),
	}
	var good2 = &Witness{
		InvocationScript:   make([]byte, MaxInvocationScript),
		VerificationScript: make([]byte, MaxVerificationScript),
	}
	var bad1 = &Witness{
		InvocationScript:   make([]byte, MaxInvocationScript+1),
		VerificationScript: make([]byte, 32),
	}
	var bad2 = &Witness{
		InvocationScript:   make([]byte, 128),
		VerificationScript: make([]byte, MaxVerificationScript+1),
	}
	testserdes.MarshalUnmarshalJSON(t, good1, new(Witness))
	testserdes.MarshalUnmarshalJSON(t, good2, new(Witness))
	testserdes.EncodeDecodeEntity(t, good1, new(Witness))
	testserdes.EncodeDecodeEntity(t, good2, new(Witness))
	bin1, err := testserdes.EncodeBinary(bad1)
	require.NoError(t, err)
	bin2, err := testserdes.EncodeBinary(bad2)
	require.NoError(t, err)
	require.Error(t, testserdes.DecodeBinary(bin1, new(Witness)))
	require.Error(t, testserdes.DecodeBinary(bin2, new(Witness)))
}

func TestWitnessTruncated(t *testing.T) {
	w := &Witness{InvocationScript: []byte{1, 2, 3}, VerificationScript: []byte{4, 5}}
	data, err := testserdes.EncodeBinary(w)
	require.NoError(t, err)
	for i := 0; i < len(data); i++ {
		require.Error(t, testserdes.DecodeBinary(data[:i], new(Witness)), "prefix %d", i)
	}
}

func TestWitnessCopy(t *testing.T) {
	original := &Witness{
		InvocationScript:   []byte{1, 2, 3},
		VerificationScript: []byte{3, 2, 1},
	}

	cp := original.Copy()
	require.Equal(t, *original, cp)

	original.InvocationScript[0] = 0x05
	require.NotEqual(t, *original, cp)
}

func TestNewWitness(t *testing.T) {
	w := NewWitness()
	require.Empty(t, w.InvocationScript)
	require.Empty(t, w.VerificationScript)
	testserdes.EncodeDecodeEntity(t, w, new(Witness))
	require.Equal(t, hash.Hash160([]byte{}), w.ScriptHash())

	w = NewWitnessFromScripts([]byte{1}, []byte{2})
	require.Equal(t, []byte{1}, w.InvocationScript)
	require.Equal(t, []byte{2}, w.VerificationScript)
}

func TestCreateWitness(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	msg := []byte("message to sign")

	w, err := CreateWitness(msg, priv)
	require.NoError(t, err)
	require.Equal(t, priv.PublicKey().GetVerificationScript(), w.VerificationScript)
	require.Equal(t, priv.GetScriptHash(), w.ScriptHash())

	sigs, ok := vm.ParseSignatures(w.InvocationScript)
	require.True(t, ok)
	require.Equal(t, 1, len(sigs))
	digest := hash.Sha256(msg)
	require.True(t, priv.PublicKey().Verify(sigs[0], digest[:]))
	require.NoError(t, w.VerifyStandard(digest[:]))

	testserdes.EncodeDecodeEntity(t, w, new(Witness))
}

type failingSigner struct{}

func (failingSigner) PublicKey() *keys.PublicKey { return nil }
func (failingSigner) SignMessage([]byte) ([]byte, error) {
	return nil, errors.New("hardware token is locked")
}

func TestCreateWitnessCryptoError(t *testing.T) {
	_, err := CreateWitness([]byte{1}, failingSigner{})
	require.ErrorIs(t, err, ErrCrypto)
	require.EqualError(t, errors.Unwrap(err), "hardware token is locked")
}

// sortedKeys returns n private keys sorted the way multisig scripts order
// their public keys.
func sortedKeys(t *testing.T, n int) ([]*keys.PrivateKey, keys.PublicKeys) {
	privs := make([]*keys.PrivateKey, n)
	for i := range privs {
		p, err := keys.NewPrivateKey()
		require.NoError(t, err)
		privs[i] = p
	}
	sort.Slice(privs, func(i, j int) bool {
		return privs[i].PublicKey().Cmp(privs[j].PublicKey()) < 0
	})
	pubs := make(keys.PublicKeys, n)
	for i := range privs {
		pubs[i] = privs[i].PublicKey()
	}
	return privs, pubs
}

func TestCreateMultiSigWitness(t *testing.T) {
	privs, pubs := sortedKeys(t, 3)
	digest := hash.Sha256([]byte("tx"))

	t.Run("not enough signatures", func(t *testing.T) {
		_, err := CreateMultiSigWitness(2, [][]byte{privs[0].SignHash(digest)}, pubs)
		require.ErrorIs(t, err, ErrSignerConfiguration)
	})
	t.Run("bad threshold", func(t *testing.T) {
		_, err := CreateMultiSigWitness(0, nil, pubs)
		require.ErrorIs(t, err, ErrSignerConfiguration)
		_, err = CreateMultiSigWitness(4, make([][]byte, 4), pubs)
		require.ErrorIs(t, err, ErrSignerConfiguration)
	})
	t.Run("2 of 3", func(t *testing.T) {
		sigs := [][]byte{privs[0].SignHash(digest), privs[2].SignHash(digest), privs[1].SignHash(digest)}
		w, err := CreateMultiSigWitness(2, sigs, pubs)
		require.NoError(t, err)

		parsed, ok := vm.ParseSignatures(w.InvocationScript)
		require.True(t, ok)
		require.Equal(t, sigs[:2], parsed)
		m, scriptKeys, ok := vm.ParseMultiSigContract(w.VerificationScript)
		require.True(t, ok)
		require.Equal(t, 2, m)
		require.Equal(t, 3, len(scriptKeys))

		require.NoError(t, w.VerifyStandard(digest[:]))
		testserdes.EncodeDecodeEntity(t, w, new(Witness))
	})
	t.Run("wrong order", func(t *testing.T) {
		sigs := [][]byte{privs[2].SignHash(digest), privs[0].SignHash(digest)}
		w, err := CreateMultiSigWitness(2, sigs, pubs)
		require.NoError(t, err)
		require.ErrorIs(t, w.VerifyStandard(digest[:]), ErrSignerConfiguration)
	})
}

func TestCreateMultiSigWitnessFromScript(t *testing.T) {
	privs, pubs := sortedKeys(t, 3)
	digest := hash.Sha256([]byte("tx"))
	script, err := smartcontract.CreateMultiSigRedeemScript(2, pubs)
	require.NoError(t, err)

	sigs := map[string][]byte{
		hex.EncodeToString(pubs[2].Bytes()): privs[2].SignHash(digest),
		hex.EncodeToString(pubs[0].Bytes()): privs[0].SignHash(digest),
	}
	w, err := CreateMultiSigWitnessFromScript(script, sigs)
	require.NoError(t, err)
	require.Equal(t, script, w.VerificationScript)
	require.NoError(t, w.VerifyStandard(digest[:]))

	parsed, ok := vm.ParseSignatures(w.InvocationScript)
	require.True(t, ok)
	require.Equal(t, [][]byte{sigs[hex.EncodeToString(pubs[0].Bytes())], sigs[hex.EncodeToString(pubs[2].Bytes())]}, parsed)

	t.Run("extra signature ignored", func(t *testing.T) {
		sigs[hex.EncodeToString(pubs[1].Bytes())] = privs[1].SignHash(digest)
		w, err := CreateMultiSigWitnessFromScript(script, sigs)
		require.NoError(t, err)
		parsed, ok := vm.ParseSignatures(w.InvocationScript)
		require.True(t, ok)
		require.Equal(t, 2, len(parsed))
		require.NoError(t, w.VerifyStandard(digest[:]))
	})
	t.Run("foreign key", func(t *testing.T) {
		other, err := keys.NewPrivateKey()
		require.NoError(t, err)
		_, err = CreateMultiSigWitnessFromScript(script, map[string][]byte{
			hex.EncodeToString(other.PublicKey().Bytes()): other.SignHash(digest),
		})
		require.ErrorIs(t, err, ErrSignerConfiguration)
	})
	t.Run("not enough", func(t *testing.T) {
		_, err := CreateMultiSigWitnessFromScript(script, map[string][]byte{
			hex.EncodeToString(pubs[1].Bytes()): privs[1].SignHash(digest),
		})
		require.ErrorIs(t, err, ErrSignerConfiguration)
	})
	t.Run("not a multisig script", func(t *testing.T) {
		_, err := CreateMultiSigWitnessFromScript(pubs[0].GetVerificationScript(), sigs)
		require.ErrorIs(t, err, ErrScriptFormat)
	})
}

func TestCreateContractWitness(t *testing.T) {
	w, err := CreateContractWitness(nil)
	require.NoError(t, err)
	require.Equal(t, NewWitness(), w)

	params := []smartcontract.Parameter{
		{Type: smartcontract.IntegerType, Value: int64(1)},
		{Type: smartcontract.StringType, Value: "two"},
		{Type: smartcontract.Hash160Type, Value: util.Uint160{3}},
	}
	w, err = CreateContractWitness(params)
	require.NoError(t, err)
	require.Empty(t, w.VerificationScript)
	expected, err := smartcontract.NewBuilder().
		PushParameter(params[0]).PushParameter(params[1]).PushParameter(params[2]).Script()
	require.NoError(t, err)
	require.Equal(t, expected, w.InvocationScript)
	testserdes.EncodeDecodeEntity(t, w, new(Witness))

	_, err = CreateContractWitness([]smartcontract.Parameter{{Type: smartcontract.IntegerType, Value: "x"}})
	require.ErrorIs(t, err, ErrScriptFormat)
}

func TestVerifyStandardErrors(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	digest := hash.Sha256([]byte{1})
	other := hash.Sha256([]byte{2})

	w, err := CreateWitness([]byte{1}, priv)
	require.NoError(t, err)
	require.ErrorIs(t, w.VerifyStandard(other[:]), ErrSignerConfiguration)

	bad := NewWitnessFromScripts([]byte{0x40}, w.VerificationScript)
	require.ErrorIs(t, bad.VerifyStandard(digest[:]), ErrScriptFormat)

	bad = NewWitnessFromScripts(w.InvocationScript, []byte{0x40})
	require.ErrorIs(t, bad.VerifyStandard(digest[:]), ErrScriptFormat)
}
