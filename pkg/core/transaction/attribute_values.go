package transaction

import (
	"github.com/nspcc-dev/neo-txauth/pkg/io"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
)

// attrValue is a value carried by an attribute of a non-empty type.
type attrValue interface {
	io.Serializable
	// size returns the length of the value's binary representation.
	size() int
	// toJSONMap puts value fields next to the attribute type, the JSON
	// form of an attribute is a flat object.
	toJSONMap(map[string]any)
}

// newAttrValue returns an empty value for the attribute type t. It returns
// nil for types without a value and false for unknown types.
func newAttrValue(t AttrType) (attrValue, bool) {
	switch t {
	case HighPriority:
		return nil, true
	case OracleResponseT:
		return new(OracleResponse), true
	case NotValidBeforeT:
		return new(NotValidBefore), true
	case ConflictsT:
		return new(Conflicts), true
	}
	return nil, false
}

// NotValidBefore makes the transaction invalid below the given block height.
type NotValidBefore struct {
	Height uint32 `json:"height"`
}

// DecodeBinary implements the io.Serializable interface.
func (n *NotValidBefore) DecodeBinary(br *io.BinReader) {
	n.Height = br.ReadU32LE()
}

// EncodeBinary implements the io.Serializable interface.
func (n *NotValidBefore) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(n.Height)
}

func (*NotValidBefore) size() int { return 4 }

func (n *NotValidBefore) toJSONMap(m map[string]any) {
	m["height"] = n.Height
}

// Conflicts marks the transaction as conflicting with the one with the
// given hash, only one of them can be accepted.
type Conflicts struct {
	Hash util.Uint256 `json:"hash"`
}

// DecodeBinary implements the io.Serializable interface.
func (c *Conflicts) DecodeBinary(br *io.BinReader) {
	c.Hash.DecodeBinary(br)
}

// EncodeBinary implements the io.Serializable interface.
func (c *Conflicts) EncodeBinary(w *io.BinWriter) {
	c.Hash.EncodeBinary(w)
}

func (*Conflicts) size() int { return util.Uint256Size }

func (c *Conflicts) toJSONMap(m map[string]any) {
	m["hash"] = c.Hash
}
