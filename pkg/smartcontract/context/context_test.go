package context

import (
	"encoding/json"
	"math/big"
	"sort"
	"strings"
	"testing"

	"github.com/nspcc-dev/neo-txauth/internal/random"
	"github.com/nspcc-dev/neo-txauth/pkg/config/netmode"
	"github.com/nspcc-dev/neo-txauth/pkg/core/transaction"
	"github.com/nspcc-dev/neo-txauth/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/encoding/address"
	"github.com/nspcc-dev/neo-txauth/pkg/smartcontract"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
	"github.com/nspcc-dev/neo-txauth/pkg/wallet"
	"github.com/stretchr/testify/require"
)

const testNet = netmode.UnitTestNet

func TestParameterContext_AddSignatureSimpleContract(t *testing.T) {
	acc := newAccount(t)
	h := acc.ScriptHash()
	tx := getContractTx(t, h)
	pub := acc.PublicKey()
	sig := acc.SignHashable(uint32(testNet), tx)

	c := NewParameterContext(testNet, tx)
	require.Equal(t, AwaitingSignatures, c.ItemState(h))
	require.False(t, c.IsReady())

	t.Run("empty", func(t *testing.T) {
		_, err := c.GetCompleteTransaction()
		require.ErrorIs(t, err, transaction.ErrIllegalState)
		require.Contains(t, err.Error(), acc.Address)

		_, err = c.GetWitness(h)
		require.ErrorIs(t, err, transaction.ErrIllegalState)
	})
	t.Run("wrong key", func(t *testing.T) {
		other := newAccount(t)
		err := c.AddSignature(h, acc.Contract, other.PublicKey(), sig)
		require.ErrorIs(t, err, transaction.ErrSignerConfiguration)
		require.False(t, c.IsComplete(h))
	})
	t.Run("wrong contract", func(t *testing.T) {
		other := newAccount(t)
		err := c.AddSignature(h, other.Contract, other.PublicKey(), sig)
		require.ErrorIs(t, err, transaction.ErrSignerConfiguration)
	})
	t.Run("not a signer", func(t *testing.T) {
		other := newAccount(t)
		err := c.AddSignature(other.ScriptHash(), other.Contract, other.PublicKey(), sig)
		require.ErrorIs(t, err, transaction.ErrSignerConfiguration)
	})

	require.NoError(t, c.AddSignature(h, acc.Contract, pub, sig))
	require.Equal(t, Complete, c.ItemState(h))
	require.True(t, c.IsReady())
	require.Empty(t, c.Outstanding())

	item := c.Items[h]
	require.NotNil(t, item)
	require.Equal(t, sig, item.Parameters[0].Value)

	t.Run("GetWitness", func(t *testing.T) {
		w, err := c.GetWitness(h)
		require.NoError(t, err)
		require.Equal(t, acc.Contract.Script, w.VerificationScript)
		require.NoError(t, w.VerifyStandard(signedDigest(tx)))
	})
	t.Run("GetCompleteTransaction", func(t *testing.T) {
		signed, err := c.GetCompleteTransaction()
		require.NoError(t, err)
		require.Len(t, signed.Scripts, 1)
		require.Empty(t, tx.Scripts)
		require.Equal(t, tx.Hash(), signed.Hash())
		require.NoError(t, signed.Scripts[0].VerifyStandard(signedDigest(tx)))

		raw := signed.Bytes()
		decoded, err := transaction.NewTransactionFromBytes(raw)
		require.NoError(t, err)
		require.Equal(t, signed, decoded)
	})
	t.Run("overwrite", func(t *testing.T) {
		bad := random.Bytes(keys.SignatureLen)
		require.NoError(t, c.AddSignature(h, acc.Contract, pub, bad))
		require.Equal(t, bad, c.Items[h].Parameters[0].Value)
		require.NoError(t, c.AddSignature(h, acc.Contract, pub, sig))
		require.Equal(t, sig, c.Items[h].Parameters[0].Value)
	})
}

func TestParameterContext_AddSignatureMultisig(t *testing.T) {
	accs, pubs := newMultisig(t, 2, 3)
	ctr := accs[0].Contract
	h := ctr.ScriptHash()
	tx := getContractTx(t, h)
	c := NewParameterContext(testNet, tx)

	sign := func(i int) []byte { return accs[i].PrivateKey().SignHashable(uint32(testNet), tx) }

	t.Run("foreign key", func(t *testing.T) {
		other := newAccount(t)
		err := c.AddSignature(h, ctr, other.PublicKey(), sign(0))
		require.ErrorIs(t, err, transaction.ErrSignerConfiguration)
	})

	require.NoError(t, c.AddSignature(h, ctr, pubs[2], sign(2)))
	require.Equal(t, AwaitingSignatures, c.ItemState(h))
	_, err := c.GetCompleteTransaction()
	require.ErrorIs(t, err, transaction.ErrIllegalState)

	t.Run("same key twice", func(t *testing.T) {
		require.NoError(t, c.AddSignature(h, ctr, pubs[2], sign(2)))
		require.Equal(t, AwaitingSignatures, c.ItemState(h))
		require.Len(t, c.Items[h].Signatures, 1)
	})

	require.NoError(t, c.AddSignature(h, ctr, pubs[0], sign(0)))
	require.Equal(t, Complete, c.ItemState(h))
	item := c.Items[h]
	require.Len(t, item.Parameters, 2)
	require.Equal(t, sign(0), item.Parameters[0].Value)
	require.Equal(t, sign(2), item.Parameters[1].Value)

	w, err := c.GetWitness(h)
	require.NoError(t, err)
	require.NoError(t, w.VerifyStandard(signedDigest(tx)))

	t.Run("extra signature", func(t *testing.T) {
		require.NoError(t, c.AddSignature(h, ctr, pubs[1], sign(1)))
		require.Len(t, c.Items[h].Signatures, 3)
		require.Len(t, c.Items[h].Parameters, 2)
		require.Equal(t, sign(0), c.Items[h].Parameters[0].Value)
		require.Equal(t, sign(1), c.Items[h].Parameters[1].Value)

		signed, err := c.GetCompleteTransaction()
		require.NoError(t, err)
		require.NoError(t, signed.Scripts[0].VerifyStandard(signedDigest(tx)))
	})
}

func TestParameterContext_NonStandard(t *testing.T) {
	ctr := &wallet.Contract{Script: []byte{0x11}}
	h := ctr.ScriptHash()
	c := NewParameterContext(testNet, getContractTx(t, h))
	acc := newAccount(t)
	err := c.AddSignature(h, ctr, acc.PublicKey(), random.Bytes(keys.SignatureLen))
	require.ErrorIs(t, err, transaction.ErrScriptFormat)
	require.Empty(t, c.Items)
}

func TestParameterContext_AddContractParameters(t *testing.T) {
	acc := newAccount(t)
	contract := wallet.NewContractAccount(random.Uint160(),
		wallet.ContractParam{Name: "answer", Type: smartcontract.IntegerType},
		wallet.ContractParam{Name: "flag", Type: smartcontract.BoolType})
	h := contract.ScriptHash()
	tx := getContractTx(t, acc.ScriptHash(), h)
	c := NewParameterContext(testNet, tx)

	t.Run("signatures are not accepted", func(t *testing.T) {
		err := c.AddSignature(h, contract.Contract, acc.PublicKey(), random.Bytes(keys.SignatureLen))
		require.ErrorIs(t, err, transaction.ErrSignerConfiguration)
	})
	t.Run("wrong number", func(t *testing.T) {
		err := c.AddContractParameters(h, contract.Contract, []smartcontract.Parameter{{Type: smartcontract.IntegerType}})
		require.ErrorIs(t, err, transaction.ErrSignerConfiguration)
	})
	t.Run("wrong type", func(t *testing.T) {
		err := c.AddContractParameters(h, contract.Contract, []smartcontract.Parameter{
			{Type: smartcontract.BoolType, Value: true},
			{Type: smartcontract.BoolType, Value: true},
		})
		require.ErrorIs(t, err, transaction.ErrSignerConfiguration)
	})

	params := []smartcontract.Parameter{
		{Type: smartcontract.IntegerType},
		{Type: smartcontract.BoolType, Value: true},
	}
	require.NoError(t, c.AddContractParameters(h, contract.Contract, params))
	require.Equal(t, AwaitingSignatures, c.ItemState(h))

	params[0] = smartcontract.NewParameter(smartcontract.IntegerType)
	params[0].Value = big.NewInt(42)
	require.NoError(t, c.AddContractParameters(h, contract.Contract, params))
	require.Equal(t, Complete, c.ItemState(h))
	require.Equal(t, []util.Uint160{acc.ScriptHash()}, c.Outstanding())

	w, err := c.GetWitness(h)
	require.NoError(t, err)
	expected, err := transaction.CreateContractWitness(params)
	require.NoError(t, err)
	require.Equal(t, expected, w)

	require.NoError(t, c.AddSignature(acc.ScriptHash(), acc.Contract, acc.PublicKey(), acc.SignHashable(uint32(testNet), tx)))
	signed, err := c.GetCompleteTransaction()
	require.NoError(t, err)
	require.Equal(t, acc.Contract.Script, signed.Scripts[0].VerificationScript)
	require.Equal(t, []byte{}, signed.Scripts[1].VerificationScript)
}

func TestParameterContext_NativeIntegerParameters(t *testing.T) {
	contract := wallet.NewContractAccount(random.Uint160(),
		wallet.ContractParam{Name: "answer", Type: smartcontract.IntegerType})
	h := contract.ScriptHash()
	tx := getContractTx(t, h)
	c := NewParameterContext(testNet, tx)

	params := []smartcontract.Parameter{{Type: smartcontract.IntegerType, Value: int64(42)}}
	require.NoError(t, c.AddContractParameters(h, contract.Contract, params))
	require.Equal(t, Complete, c.ItemState(h))

	data, err := json.Marshal(c)
	require.NoError(t, err)
	actual := new(ParameterContext)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, c, actual)
	require.Equal(t, big.NewInt(42), actual.Items[h].Parameters[0].Value)

	w, err := actual.GetWitness(h)
	require.NoError(t, err)
	expected, err := transaction.CreateContractWitness(params)
	require.NoError(t, err)
	require.Equal(t, expected, w)
}

func TestParameterContext_Outstanding(t *testing.T) {
	a1, a2, a3 := newAccount(t), newAccount(t), newAccount(t)
	tx := getContractTx(t, a1.ScriptHash(), a2.ScriptHash(), a3.ScriptHash())
	c := NewParameterContext(testNet, tx)
	require.Equal(t, []util.Uint160{a1.ScriptHash(), a2.ScriptHash(), a3.ScriptHash()}, c.Outstanding())

	require.NoError(t, c.AddSignature(a2.ScriptHash(), a2.Contract, a2.PublicKey(), a2.SignHashable(uint32(testNet), tx)))
	require.Equal(t, []util.Uint160{a1.ScriptHash(), a3.ScriptHash()}, c.Outstanding())

	_, err := c.GetCompleteTransaction()
	require.ErrorIs(t, err, transaction.ErrIllegalState)
	require.Contains(t, err.Error(), a1.Address+", "+a3.Address)
	require.False(t, strings.Contains(err.Error(), a2.Address))
}

func TestParameterContext_Merge(t *testing.T) {
	accs, pubs := newMultisig(t, 2, 3)
	ctr := accs[0].Contract
	h := ctr.ScriptHash()
	tx := getContractTx(t, h)
	sign := func(i int) []byte { return accs[i].PrivateKey().SignHashable(uint32(testNet), tx) }

	c1 := NewParameterContext(testNet, tx)
	c2 := copyContext(t, c1)
	require.NoError(t, c1.AddSignature(h, ctr, pubs[0], sign(0)))
	require.NoError(t, c2.AddSignature(h, ctr, pubs[1], sign(1)))
	require.False(t, c1.IsReady())
	require.False(t, c2.IsReady())

	require.NoError(t, c1.Merge(c2))
	require.True(t, c1.IsReady())
	signed, err := c1.GetCompleteTransaction()
	require.NoError(t, err)
	require.NoError(t, signed.Scripts[0].VerifyStandard(signedDigest(tx)))

	t.Run("new item", func(t *testing.T) {
		c3 := NewParameterContext(testNet, tx)
		require.NoError(t, c3.Merge(c1))
		require.True(t, c3.IsReady())
		c1.Items[h].Signatures[pubs[0].StringCompressed()][0]++
		require.Equal(t, sign(0), c3.Items[h].GetSignature(pubs[0]))
	})
	t.Run("last writer wins", func(t *testing.T) {
		acc := newAccount(t)
		tx := getContractTx(t, acc.ScriptHash())
		good := acc.SignHashable(uint32(testNet), tx)
		bad := random.Bytes(keys.SignatureLen)

		a := NewParameterContext(testNet, tx)
		b := NewParameterContext(testNet, tx)
		require.NoError(t, a.AddSignature(acc.ScriptHash(), acc.Contract, acc.PublicKey(), good))
		require.NoError(t, b.AddSignature(acc.ScriptHash(), acc.Contract, acc.PublicKey(), bad))

		require.NoError(t, a.Merge(b))
		require.Equal(t, bad, a.Items[acc.ScriptHash()].Parameters[0].Value)
		require.NoError(t, b.Merge(NewParameterContext(testNet, tx)))
		require.Equal(t, bad, b.Items[acc.ScriptHash()].Parameters[0].Value)

		b.Items[acc.ScriptHash()].Parameters[0].Value = good
		require.NoError(t, a.Merge(b))
		require.Equal(t, good, a.Items[acc.ScriptHash()].Parameters[0].Value)
	})
	t.Run("network mismatch", func(t *testing.T) {
		other := NewParameterContext(netmode.TestNet, tx)
		require.ErrorIs(t, c1.Merge(other), transaction.ErrIllegalState)
	})
	t.Run("transaction mismatch", func(t *testing.T) {
		tx2 := tx.Copy()
		tx2.Nonce++
		other := NewParameterContext(testNet, tx2)
		require.ErrorIs(t, c1.Merge(other), transaction.ErrIllegalState)
	})
	t.Run("nil", func(t *testing.T) {
		require.ErrorIs(t, c1.Merge(nil), transaction.ErrIllegalState)
	})
}

func TestParameterContext_MarshalJSON(t *testing.T) {
	accs, pubs := newMultisig(t, 2, 3)
	ctr := accs[0].Contract
	h := ctr.ScriptHash()
	tx := getContractTx(t, h)

	expected := NewParameterContext(testNet, tx)
	require.NoError(t, expected.AddSignature(h, ctr, pubs[1], accs[1].PrivateKey().SignHashable(uint32(testNet), tx)))

	data, err := json.Marshal(expected)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Equal(t, `"`+TransactionType+`"`, string(raw["type"]))
	require.Equal(t, `"0x`+tx.Hash().StringLE()+`"`, string(raw["hash"]))
	require.Equal(t, "42", string(raw["network"]))
	require.Contains(t, string(raw["items"]), "0x"+h.StringLE())

	actual := new(ParameterContext)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, expected, actual)

	t.Run("continue signing", func(t *testing.T) {
		require.NoError(t, actual.AddSignature(h, ctr, pubs[2], accs[2].PrivateKey().SignHashable(uint32(testNet), tx)))
		signed, err := actual.GetCompleteTransaction()
		require.NoError(t, err)
		require.NoError(t, signed.Scripts[0].VerifyStandard(signedDigest(tx)))
	})
	t.Run("hash mismatch", func(t *testing.T) {
		var doc map[string]any
		require.NoError(t, json.Unmarshal(data, &doc))
		doc["hash"] = "0x" + random.Uint256().StringLE()
		bad, err := json.Marshal(doc)
		require.NoError(t, err)
		require.ErrorIs(t, json.Unmarshal(bad, new(ParameterContext)), transaction.ErrCodec)
	})
	t.Run("unsupported type", func(t *testing.T) {
		var doc map[string]any
		require.NoError(t, json.Unmarshal(data, &doc))
		doc["type"] = "Neo.Core.ContractTransaction"
		bad, err := json.Marshal(doc)
		require.NoError(t, err)
		require.ErrorIs(t, json.Unmarshal(bad, new(ParameterContext)), transaction.ErrCodec)
	})
	t.Run("bad data", func(t *testing.T) {
		var doc map[string]any
		require.NoError(t, json.Unmarshal(data, &doc))
		doc["data"] = "AAEC"
		bad, err := json.Marshal(doc)
		require.NoError(t, err)
		require.Error(t, json.Unmarshal(bad, new(ParameterContext)))
	})
}

func TestParameterContext_TypeForAnyNetwork(t *testing.T) {
	tx := getContractTx(t, random.Uint160())
	for _, net := range []netmode.Magic{netmode.MainNet, netmode.TestNet, netmode.PrivNet, 0, 0xffffffff} {
		c := NewParameterContext(net, tx)
		require.Equal(t, "Neo.Network.P2P.Payloads.Transaction", c.Type)
		data, err := json.Marshal(c)
		require.NoError(t, err)
		require.Contains(t, string(data), `"type":"Neo.Network.P2P.Payloads.Transaction"`)

		actual := new(ParameterContext)
		require.NoError(t, json.Unmarshal(data, actual))
		require.Equal(t, net, actual.Network)
	}
}

func TestStateString(t *testing.T) {
	require.Equal(t, "AwaitingSignatures", AwaitingSignatures.String())
	require.Equal(t, "Complete", Complete.String())
	require.Equal(t, "State(7)", State(7).String())
}

func getContractTx(t *testing.T, signers ...util.Uint160) *transaction.Transaction {
	b := transaction.NewBuilder([]byte{0x11}).ValidUntilBlock(1000).SystemFee(1).NetworkFee(2)
	ss := make([]transaction.Signer, len(signers))
	for i := range signers {
		ss[i] = transaction.Signer{Account: signers[i], Scopes: transaction.CalledByEntry}
	}
	tx, err := b.Signers(ss...).Build()
	require.NoError(t, err)
	return tx
}

func newAccount(t *testing.T) *wallet.Account {
	acc, err := wallet.NewAccount()
	require.NoError(t, err)
	return acc
}

// newMultisig returns m-of-n multisig accounts ordered the same way as
// their keys in the verification script.
func newMultisig(t *testing.T, m, n int) ([]*wallet.Account, keys.PublicKeys) {
	accs := make([]*wallet.Account, n)
	pubs := make(keys.PublicKeys, n)
	for i := range accs {
		accs[i] = newAccount(t)
	}
	sort.Slice(accs, func(i, j int) bool {
		return accs[i].PublicKey().Cmp(accs[j].PublicKey()) < 0
	})
	for i := range accs {
		pubs[i] = accs[i].PublicKey()
	}
	for i := range accs {
		require.NoError(t, accs[i].ConvertMultisig(m, pubs))
	}
	require.Equal(t, address.Uint160ToString(accs[0].Contract.ScriptHash()), accs[n-1].Address)
	return accs, pubs
}

func copyContext(t *testing.T, c *ParameterContext) *ParameterContext {
	data, err := json.Marshal(c)
	require.NoError(t, err)
	cp := new(ParameterContext)
	require.NoError(t, json.Unmarshal(data, cp))
	return cp
}

func signedDigest(tx *transaction.Transaction) []byte {
	h := hash.NetSha256(uint32(testNet), tx)
	return h.BytesBE()
}
