package transaction

import (
	"bytes"

	"github.com/nspcc-dev/neo-txauth/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-txauth/pkg/io"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
)

// Script size limits, both fit an 11-of-21 multisignature.
const (
	MaxInvocationScript   = 1024
	MaxVerificationScript = 1024
)

// Witness proves authorization of a single signer: the invocation script
// pushes signatures and the verification script checks them.
type Witness struct {
	InvocationScript   []byte `json:"invocation"`
	VerificationScript []byte `json:"verification"`
}

// NewWitness returns an empty witness.
func NewWitness() *Witness {
	return NewWitnessFromScripts([]byte{}, []byte{})
}

// NewWitnessFromScripts wraps scripts as is.
func NewWitnessFromScripts(invocation, verification []byte) *Witness {
	return &Witness{InvocationScript: invocation, VerificationScript: verification}
}

// EncodeBinary implements the io.Serializable interface.
func (w *Witness) EncodeBinary(bw *io.BinWriter) {
	for _, s := range [][]byte{w.InvocationScript, w.VerificationScript} {
		bw.WriteVarBytes(s)
	}
}

// DecodeBinary implements the io.Serializable interface.
func (w *Witness) DecodeBinary(br *io.BinReader) {
	w.InvocationScript = br.ReadVarBytes(MaxInvocationScript)
	w.VerificationScript = br.ReadVarBytes(MaxVerificationScript)
}

// Size implements the io.Entity interface.
func (w *Witness) Size() int {
	return io.GetVarBytesSize(w.InvocationScript) + io.GetVarBytesSize(w.VerificationScript)
}

// ScriptHash is the account the witness belongs to.
func (w Witness) ScriptHash() util.Uint160 {
	return hash.Hash160(w.VerificationScript)
}

// Copy returns a witness not sharing memory with w.
func (w Witness) Copy() Witness {
	return *NewWitnessFromScripts(bytes.Clone(w.InvocationScript), bytes.Clone(w.VerificationScript))
}
