package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-txauth/pkg/io"
)

// MaxAttributes is the maximum number of attributes including signers that can be contained
// within a transaction. It is set to be 16.
const MaxAttributes = 16

// Attribute represents a Transaction attribute.
type Attribute struct {
	Type  AttrType
	Value attrValue
}

// ErrInvalidAttrType is returned when an attribute of unknown type is decoded.
var ErrInvalidAttrType = errors.New("invalid attribute type")

// DecodeBinary implements the Serializable interface.
func (attr *Attribute) DecodeBinary(br *io.BinReader) {
	attr.Type = AttrType(br.ReadB())
	if br.Err != nil {
		return
	}

	v, ok := newAttrValue(attr.Type)
	if !ok {
		br.Err = fmt.Errorf("%w: 0x%02x", ErrInvalidAttrType, byte(attr.Type))
		return
	}
	attr.Value = v
	if v != nil {
		v.DecodeBinary(br)
	}
}

// EncodeBinary implements the Serializable interface.
func (attr *Attribute) EncodeBinary(bw *io.BinWriter) {
	bw.WriteB(byte(attr.Type))
	switch t := attr.Type; t {
	case HighPriority:
	case OracleResponseT, NotValidBeforeT, ConflictsT:
		if attr.Value == nil {
			bw.Err = fmt.Errorf("attribute %s has no value", t)
			return
		}
		attr.Value.EncodeBinary(bw)
	default:
		bw.Err = fmt.Errorf("%w: 0x%02x", ErrInvalidAttrType, byte(t))
	}
}

// Size returns the length of the binary representation.
func (attr *Attribute) Size() int {
	if attr.Value == nil {
		return 1
	}
	return 1 + attr.Value.size()
}

// MarshalJSON implements the json Marshaller interface.
func (attr *Attribute) MarshalJSON() ([]byte, error) {
	m := map[string]any{"type": attr.Type.String()}
	if attr.Value != nil {
		attr.Value.toJSONMap(m)
	}
	return json.Marshal(m)
}

// UnmarshalJSON implements the json.Unmarshaller interface.
func (attr *Attribute) UnmarshalJSON(data []byte) error {
	aux := struct {
		Type string `json:"type"`
	}{}
	err := json.Unmarshal(data, &aux)
	if err != nil {
		return err
	}
	t, ok := attrTypeFromString(aux.Type)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidAttrType, aux.Type)
	}
	attr.Type = t
	attr.Value, _ = newAttrValue(t)
	if attr.Value == nil {
		return nil
	}
	return json.Unmarshal(data, attr.Value)
}
