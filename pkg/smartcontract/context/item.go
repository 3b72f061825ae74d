package context

import (
	"encoding/hex"

	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/smartcontract"
)

// Item represents a transaction context item.
type Item struct {
	Script     []byte                    `json:"script"`
	Parameters []smartcontract.Parameter `json:"parameters"`
	Signatures map[string][]byte         `json:"signatures"`
}

// GetSignature returns a signature for the pub if present.
func (it *Item) GetSignature(pub *keys.PublicKey) []byte {
	return it.Signatures[hex.EncodeToString(pub.Bytes())]
}

// AddSignature adds a signature for the pub replacing the previous one
// made with the same key.
func (it *Item) AddSignature(pub *keys.PublicKey, sig []byte) {
	if it.Signatures == nil {
		it.Signatures = make(map[string][]byte)
	}
	pubHex := hex.EncodeToString(pub.Bytes())
	it.Signatures[pubHex] = sig
}

// IsComplete returns true when every parameter of the item has a value.
func (it *Item) IsComplete() bool {
	if it == nil {
		return false
	}
	for i := range it.Parameters {
		if it.Parameters[i].Value == nil {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of the item.
func (it *Item) Copy() *Item {
	cp := &Item{
		Parameters: make([]smartcontract.Parameter, len(it.Parameters)),
		Signatures: make(map[string][]byte, len(it.Signatures)),
	}
	if it.Script != nil {
		cp.Script = append([]byte{}, it.Script...)
	}
	for i := range it.Parameters {
		cp.Parameters[i] = it.Parameters[i].Copy()
	}
	for k, v := range it.Signatures {
		cp.Signatures[k] = append([]byte{}, v...)
	}
	return cp
}
