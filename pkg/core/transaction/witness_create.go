package transaction

import (
	"crypto/elliptic"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/io"
	"github.com/nspcc-dev/neo-txauth/pkg/smartcontract"
	"github.com/nspcc-dev/neo-txauth/pkg/vm"
	"github.com/nspcc-dev/neo-txauth/pkg/vm/emit"
)

// MessageSigner is a key able to sign arbitrary messages. The message is
// hashed with SHA-256 before signing; *keys.PrivateKey implements it.
type MessageSigner interface {
	PublicKey() *keys.PublicKey
	SignMessage(msg []byte) ([]byte, error)
}

// CreateWitness signs message with the given key and returns a single
// signature witness for it.
func CreateWitness(message []byte, signer MessageSigner) (*Witness, error) {
	sig, err := signer.SignMessage(message)
	if err != nil {
		return nil, NewCryptoError(err)
	}
	pub := signer.PublicKey()
	if pub == nil {
		return nil, NewError(SignerConfiguration, "signer has no public key")
	}
	return &Witness{
		InvocationScript:   invocationScript([][]byte{sig}),
		VerificationScript: smartcontract.CreateSignatureRedeemScript(pub),
	}, nil
}

// CreateMultiSigWitness creates a threshold witness for the given keys. Only
// the first threshold signatures are used and they must follow the order of
// the corresponding keys in the verification script (sorted keys order).
func CreateMultiSigWitness(threshold int, sigs [][]byte, pubs keys.PublicKeys) (*Witness, error) {
	if threshold < 1 || threshold > len(pubs) {
		return nil, NewError(SignerConfiguration,
			fmt.Sprintf("threshold %d is out of range for %d keys", threshold, len(pubs)))
	}
	if len(sigs) < threshold {
		return nil, NewError(SignerConfiguration,
			fmt.Sprintf("%d signatures given while %d are required", len(sigs), threshold))
	}
	ver, err := smartcontract.CreateMultiSigRedeemScript(threshold, pubs)
	if err != nil {
		return nil, NewError(SignerConfiguration, err.Error())
	}
	return &Witness{
		InvocationScript:   invocationScript(sigs[:threshold]),
		VerificationScript: ver,
	}, nil
}

// CreateMultiSigWitnessFromScript creates a witness for the given multisig
// verification script from signatures keyed by hex-encoded compressed public
// key. Signatures are ordered by their key position in the script, keys not
// present in the script are rejected and extra signatures are ignored.
func CreateMultiSigWitnessFromScript(verification []byte, sigs map[string][]byte) (*Witness, error) {
	m, pubs, ok := vm.ParseMultiSigContract(verification)
	if !ok {
		return nil, NewError(ScriptFormat, "not a multisignature verification script")
	}
	position := make(map[string]int, len(pubs))
	for i := range pubs {
		position[hex.EncodeToString(pubs[i])] = i
	}
	type indexed struct {
		pos int
		sig []byte
	}
	var ordered []indexed
	for k, sig := range sigs {
		pos, ok := position[k]
		if !ok {
			return nil, NewError(SignerConfiguration, fmt.Sprintf("key %s is not a part of the script", k))
		}
		ordered = append(ordered, indexed{pos, sig})
	}
	if len(ordered) < m {
		return nil, NewError(SignerConfiguration,
			fmt.Sprintf("%d signatures given while %d are required", len(ordered), m))
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].pos < ordered[j].pos })
	res := make([][]byte, m)
	for i := range res {
		res[i] = ordered[i].sig
	}
	return &Witness{
		InvocationScript:   invocationScript(res),
		VerificationScript: append([]byte{}, verification...),
	}, nil
}

// CreateContractWitness creates a witness for a deployed contract account:
// the invocation script pushes the given parameters and the verification
// script is empty (the contract's verify method is used).
func CreateContractWitness(params []smartcontract.Parameter) (*Witness, error) {
	if len(params) == 0 {
		return NewWitness(), nil
	}
	b := smartcontract.NewBuilder()
	for _, p := range params {
		b.PushParameter(p)
	}
	inv, err := b.Script()
	if err != nil {
		return nil, NewError(ScriptFormat, err.Error())
	}
	return &Witness{InvocationScript: inv, VerificationScript: []byte{}}, nil
}

func invocationScript(sigs [][]byte) []byte {
	w := io.NewBufBinWriter()
	for _, sig := range sigs {
		emit.Bytes(w.BinWriter, sig)
	}
	return w.Bytes()
}

// VerifyStandard checks a single or multiple signature witness against the
// given signing digest. Multisignature witnesses are checked the way
// CheckMultisig does it: signatures must follow the key order.
func (w *Witness) VerifyStandard(digest []byte) error {
	sigs, ok := vm.ParseSignatures(w.InvocationScript)
	if !ok {
		return NewError(ScriptFormat, "invocation script is not a list of signatures")
	}
	if pub, ok := vm.ParseSignatureContract(w.VerificationScript); ok {
		if len(sigs) != 1 {
			return NewError(ScriptFormat, fmt.Sprintf("expected 1 signature, got %d", len(sigs)))
		}
		key, err := keys.NewPublicKeyFromBytes(pub, elliptic.P256())
		if err != nil {
			return NewCryptoError(err)
		}
		if !key.Verify(sigs[0], digest) {
			return NewError(SignerConfiguration, "signature mismatch")
		}
		return nil
	}
	m, pubs, ok := vm.ParseMultiSigContract(w.VerificationScript)
	if !ok {
		return NewError(ScriptFormat, "not a standard verification script")
	}
	if len(sigs) != m {
		return NewError(SignerConfiguration, fmt.Sprintf("expected %d signatures, got %d", m, len(sigs)))
	}
	k := 0
	for s := 0; s < len(sigs); k++ {
		if len(pubs)-k < len(sigs)-s {
			return NewError(SignerConfiguration, "signature mismatch")
		}
		key, err := keys.NewPublicKeyFromBytes(pubs[k], elliptic.P256())
		if err != nil {
			return NewCryptoError(err)
		}
		if key.Verify(sigs[s], digest) {
			s++
		}
	}
	return nil
}
