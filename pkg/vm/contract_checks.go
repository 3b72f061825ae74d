package vm

import (
	"encoding/binary"

	lru "github.com/hashicorp/golang-lru"
	"github.com/nspcc-dev/neo-txauth/pkg/core/interop/interopnames"
	"github.com/nspcc-dev/neo-txauth/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-txauth/pkg/vm/opcode"
)

const (
	// MaxMultisigKeys limits the number of keys in a multisig contract.
	MaxMultisigKeys = 1024

	// SignatureLen is the size of a signature pushed by invocation scripts.
	SignatureLen = 64

	// Standard contract layout sizes.
	compressedKeyLen     = 33
	signatureContractLen = 2 + compressedKeyLen + 5
	minMultisigLen       = 1 + 2 + compressedKeyLen + 1 + 5
	multisigCacheSize    = 256
)

var (
	verifyInteropID   = interopnames.ToID([]byte(interopnames.SystemCryptoCheckSig))
	multisigInteropID = interopnames.ToID([]byte(interopnames.SystemCryptoCheckMultisig))

	multisigCache, _ = lru.New(multisigCacheSize)
)

type multisigEntry struct {
	m    int
	pubs [][]byte
}

// countFromInstr returns the count pushed by op, it must be in the
// [1, MaxMultisigKeys] range.
func countFromInstr(op opcode.Opcode, param []byte) (int, bool) {
	var n int64
	switch {
	case op >= opcode.PUSH1 && op <= opcode.PUSH16:
		n = int64(op-opcode.PUSH1) + 1
	case op <= opcode.PUSHINT256:
		bn := bigint.FromBytes(param)
		if !bn.IsInt64() {
			return 0, false
		}
		n = bn.Int64()
	default:
		return 0, false
	}
	if n < 1 || n > MaxMultisigKeys {
		return 0, false
	}
	return int(n), true
}

// isSyscall checks op to be SYSCALL of the given interop.
func isSyscall(op opcode.Opcode, param []byte, id uint32) bool {
	return op == opcode.SYSCALL && binary.LittleEndian.Uint32(param) == id
}

// IsMultiSigContract reports whether script is a standard multisig
// verification script.
func IsMultiSigContract(script []byte) bool {
	_, _, ok := ParseMultiSigContract(script)
	return ok
}

// ParseMultiSigContract returns the number of required signatures and the
// keys of a multisig verification script. Results are cached, the key slice
// is fresh on every call, but keys themselves must not be modified.
func ParseMultiSigContract(script []byte) (int, [][]byte, bool) {
	if v, ok := multisigCache.Get(string(script)); ok {
		e := v.(multisigEntry)
		return e.m, append([][]byte(nil), e.pubs...), true
	}
	m, pubs, ok := parseMultiSigContract(script)
	if !ok {
		return 0, nil, false
	}
	stored := make([][]byte, 0, len(pubs))
	for _, p := range pubs {
		stored = append(stored, append([]byte(nil), p...))
	}
	multisigCache.Add(string(script), multisigEntry{m: m, pubs: stored})
	return m, pubs, true
}

// parseMultiSigContract expects
// PUSH(m) PUSHDATA1(key)*n PUSH(n) SYSCALL(CheckMultisig) with m <= n.
func parseMultiSigContract(script []byte) (int, [][]byte, bool) {
	if len(script) < minMultisigLen {
		return 0, nil, false
	}
	ctx := NewContext(script)
	op, param, err := ctx.Next()
	if err != nil {
		return 0, nil, false
	}
	m, ok := countFromInstr(op, param)
	if !ok {
		return 0, nil, false
	}
	var pubs [][]byte
	for {
		if op, param, err = ctx.Next(); err != nil {
			return 0, nil, false
		}
		if op != opcode.PUSHDATA1 {
			break
		}
		if len(param) < compressedKeyLen || len(pubs) == MaxMultisigKeys {
			return 0, nil, false
		}
		pubs = append(pubs, param)
	}
	if n, ok := countFromInstr(op, param); !ok || n != len(pubs) || m > n {
		return 0, nil, false
	}
	if op, param, err = ctx.Next(); err != nil || !isSyscall(op, param, multisigInteropID) {
		return 0, nil, false
	}
	if ctx.NextIP() != len(script) {
		return 0, nil, false
	}
	return m, pubs, true
}

// IsSignatureContract reports whether script is a standard single-signature
// verification script.
func IsSignatureContract(script []byte) bool {
	_, ok := ParseSignatureContract(script)
	return ok
}

// ParseSignatureContract returns the key of the
// PUSHDATA1(key) SYSCALL(CheckSig) verification script.
func ParseSignatureContract(script []byte) ([]byte, bool) {
	if len(script) != signatureContractLen {
		return nil, false
	}
	ctx := NewContext(script)
	op, pub, err := ctx.Next()
	if err != nil || op != opcode.PUSHDATA1 || len(pub) != compressedKeyLen {
		return nil, false
	}
	op, param, err := ctx.Next()
	if err != nil || !isSyscall(op, param, verifyInteropID) {
		return nil, false
	}
	return pub, true
}

// IsStandardContract reports whether script is a signature or a multisig
// verification script.
func IsStandardContract(script []byte) bool {
	return IsSignatureContract(script) || IsMultiSigContract(script)
}

// ParseSignatures returns signatures of an invocation script consisting
// only of 64-byte PUSHDATA1 instructions, an empty script is not accepted.
func ParseSignatures(script []byte) ([][]byte, bool) {
	var sigs [][]byte
	ctx := NewContext(script)
	for ctx.NextIP() < len(script) {
		op, param, err := ctx.Next()
		if err != nil || op != opcode.PUSHDATA1 || len(param) != SignatureLen {
			return nil, false
		}
		sigs = append(sigs, param)
	}
	return sigs, len(sigs) != 0
}
