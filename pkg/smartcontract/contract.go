package smartcontract

import (
	"fmt"
	"sort"

	"github.com/nspcc-dev/neo-txauth/pkg/core/interop/interopnames"
	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/io"
	"github.com/nspcc-dev/neo-txauth/pkg/vm/emit"
)

// MaxMultisigKeys is the maximum number of keys a multisignature script can
// contain.
const MaxMultisigKeys = 1024

// CreateSignatureRedeemScript creates a check signature script runnable by VM.
func CreateSignatureRedeemScript(pub *keys.PublicKey) []byte {
	buf := io.NewBufBinWriter()
	emit.CheckSig(buf.BinWriter, pub.Bytes())
	return buf.Bytes()
}

// CreateMultiSigRedeemScript creates an "m out of n" type verification script
// where n is the length of publicKeys. Keys are sorted in the resulting
// script, the slice passed is not modified.
func CreateMultiSigRedeemScript(m int, publicKeys keys.PublicKeys) ([]byte, error) {
	if m < 1 {
		return nil, fmt.Errorf("param m cannot be smaller than 1, got %d", m)
	}
	if m > len(publicKeys) {
		return nil, fmt.Errorf("length of the signatures (%d) is higher then the number of public keys", m)
	}
	if len(publicKeys) > MaxMultisigKeys {
		return nil, fmt.Errorf("public keys count %d exceeds maximum of %d", len(publicKeys), MaxMultisigKeys)
	}

	buf := io.NewBufBinWriter()
	emit.Int(buf.BinWriter, int64(m))
	sorted := publicKeys.Copy()
	sort.Sort(sorted)
	for _, pubKey := range sorted {
		emit.Bytes(buf.BinWriter, pubKey.Bytes())
	}
	emit.Int(buf.BinWriter, int64(len(publicKeys)))
	emit.Syscall(buf.BinWriter, interopnames.SystemCryptoCheckMultisig)

	return buf.Bytes(), nil
}

// CreateDefaultMultiSigRedeemScript creates an "m out of n" type verification script
// using publicKeys length with the default BFT assumptions of (n - (n-1)/3) for m.
func CreateDefaultMultiSigRedeemScript(publicKeys keys.PublicKeys) ([]byte, error) {
	n := len(publicKeys)
	m := GetDefaultHonestNodeCount(n)
	return CreateMultiSigRedeemScript(m, publicKeys)
}

// CreateMajorityMultiSigRedeemScript creates an "m out of n" type verification script
// using publicKeys length with m set to majority.
func CreateMajorityMultiSigRedeemScript(publicKeys keys.PublicKeys) ([]byte, error) {
	n := len(publicKeys)
	m := GetMajorityHonestNodeCount(n)
	return CreateMultiSigRedeemScript(m, publicKeys)
}

// GetDefaultHonestNodeCount returns minimum number of honest nodes
// required for network of size n.
func GetDefaultHonestNodeCount(n int) int {
	return n - (n-1)/3
}

// GetMajorityHonestNodeCount returns minimum number of honest nodes
// required for majority-style agreement.
func GetMajorityHonestNodeCount(n int) int {
	return n - (n-1)/2
}
