package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/io"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
)

//go:generate stringer -type=WitnessConditionType -linecomment

// WitnessConditionType encodes a type of witness condition.
type WitnessConditionType byte

const (
	// WitnessBoolean is a generic boolean condition.
	WitnessBoolean WitnessConditionType = 0x00 // Boolean
	// WitnessNot reverses another condition.
	WitnessNot WitnessConditionType = 0x01 // Not
	// WitnessAnd means that all conditions must be met.
	WitnessAnd WitnessConditionType = 0x02 // And
	// WitnessOr means that any of conditions must be met.
	WitnessOr WitnessConditionType = 0x03 // Or
	// WitnessScriptHash matches executing contract's script hash.
	WitnessScriptHash WitnessConditionType = 0x18 // ScriptHash
	// WitnessGroup matches executing contract's group key.
	WitnessGroup WitnessConditionType = 0x19 // Group
	// WitnessCalledByEntry matches when current script is an entry script or is called by an entry script.
	WitnessCalledByEntry WitnessConditionType = 0x20 // CalledByEntry
	// WitnessCalledByContract matches when current script is called by the specified contract.
	WitnessCalledByContract WitnessConditionType = 0x28 // CalledByContract
	// WitnessCalledByGroup matches when current script is called by contract belonging to the specified group.
	WitnessCalledByGroup WitnessConditionType = 0x29 // CalledByGroup

	// MaxConditionNesting limits the maximum allowed level of condition nesting.
	MaxConditionNesting = 2
	// MaxSubitems is the maximum number of elements in And/Or conditions
	// and of allow-list entries and rules in a signer.
	MaxSubitems = 16
)

type (
	// WitnessCondition is a condition of WitnessRule.
	WitnessCondition interface {
		// Type returns a type of this condition.
		Type() WitnessConditionType
		// EncodeBinary allows to serialize condition to its binary
		// representation (including type data).
		EncodeBinary(*io.BinWriter)
		// DecodeBinarySpecific decodes type-specific binary data from the given
		// reader (not including type data).
		DecodeBinarySpecific(*io.BinReader, int)
		// Size returns the length of the binary representation.
		Size() int

		json.Marshaler
	}

	// ConditionBoolean is a boolean condition type.
	ConditionBoolean bool
	// ConditionNot inverses the meaning of contained condition.
	ConditionNot struct {
		Condition WitnessCondition
	}
	// ConditionAnd is a set of conditions required to match.
	ConditionAnd []WitnessCondition
	// ConditionOr is a set of conditions one of which is required to match.
	ConditionOr []WitnessCondition
	// ConditionScriptHash is a condition matching executing script hash.
	ConditionScriptHash util.Uint160
	// ConditionGroup is a condition matching executing script group.
	ConditionGroup keys.PublicKey
	// ConditionCalledByEntry is a condition matching entry script or one directly called by it.
	ConditionCalledByEntry struct{}
	// ConditionCalledByContract is a condition matching calling script hash.
	ConditionCalledByContract util.Uint160
	// ConditionCalledByGroup is a condition matching calling script group.
	ConditionCalledByGroup keys.PublicKey
)

// conditionAux is used for JSON marshaling/unmarshaling.
type conditionAux struct {
	Expression  json.RawMessage   `json:"expression,omitempty"` // Can be either boolean or conditionAux.
	Expressions []json.RawMessage `json:"expressions,omitempty"`
	Group       *keys.PublicKey   `json:"group,omitempty"`
	Hash        *util.Uint160     `json:"hash,omitempty"`
	Type        string            `json:"type"`
}

// String implements the fmt.Stringer interface.
func (t WitnessConditionType) String() string {
	switch t {
	case WitnessBoolean:
		return "Boolean"
	case WitnessNot:
		return "Not"
	case WitnessAnd:
		return "And"
	case WitnessOr:
		return "Or"
	case WitnessScriptHash:
		return "ScriptHash"
	case WitnessGroup:
		return "Group"
	case WitnessCalledByEntry:
		return "CalledByEntry"
	case WitnessCalledByContract:
		return "CalledByContract"
	case WitnessCalledByGroup:
		return "CalledByGroup"
	}
	return fmt.Sprintf("WitnessConditionType(%d)", byte(t))
}

var conditionTypes = []WitnessConditionType{WitnessBoolean, WitnessNot, WitnessAnd, WitnessOr,
	WitnessScriptHash, WitnessGroup, WitnessCalledByEntry, WitnessCalledByContract, WitnessCalledByGroup}

func conditionTypeFromString(s string) (WitnessConditionType, bool) {
	for _, t := range conditionTypes {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

func conditionErr(format string, args ...any) *Error {
	return NewError(InvalidWitnessCondition, fmt.Sprintf(format, args...))
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionBoolean) Type() WitnessConditionType {
	return WitnessBoolean
}

// EncodeBinary implements the WitnessCondition interface allowing to serialize condition.
func (c *ConditionBoolean) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBool(bool(*c))
}

// DecodeBinarySpecific implements the WitnessCondition interface allowing to deserialize condition.
func (c *ConditionBoolean) DecodeBinarySpecific(r *io.BinReader, _ int) {
	*c = ConditionBoolean(r.ReadBool())
}

// Size implements the WitnessCondition interface.
func (c *ConditionBoolean) Size() int {
	return 2
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionBoolean) MarshalJSON() ([]byte, error) {
	boolJSON, _ := json.Marshal(bool(*c)) // Simple boolean can't fail.
	aux := conditionAux{
		Type:       c.Type().String(),
		Expression: json.RawMessage(boolJSON),
	}
	return json.Marshal(aux)
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionNot) Type() WitnessConditionType {
	return WitnessNot
}

// EncodeBinary implements the WitnessCondition interface allowing to serialize condition.
func (c *ConditionNot) EncodeBinary(w *io.BinWriter) {
	if c.Condition == nil {
		w.Err = conditionErr("nil condition")
		return
	}
	w.WriteB(byte(c.Type()))
	c.Condition.EncodeBinary(w)
}

// DecodeBinarySpecific implements the WitnessCondition interface allowing to deserialize condition.
func (c *ConditionNot) DecodeBinarySpecific(r *io.BinReader, maxDepth int) {
	c.Condition = decodeBinaryCondition(r, maxDepth-1)
}

// Size implements the WitnessCondition interface.
func (c *ConditionNot) Size() int {
	if c.Condition == nil {
		return 1
	}
	return 1 + c.Condition.Size()
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionNot) MarshalJSON() ([]byte, error) {
	condJSON, err := json.Marshal(c.Condition)
	if err != nil {
		return nil, err
	}
	aux := conditionAux{
		Type:       c.Type().String(),
		Expression: json.RawMessage(condJSON),
	}
	return json.Marshal(aux)
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionAnd) Type() WitnessConditionType {
	return WitnessAnd
}

func encodeConditionList(w *io.BinWriter, list []WitnessCondition) {
	w.WriteVarUint(uint64(len(list)))
	for _, cond := range list {
		cond.EncodeBinary(w)
	}
}

func decodeConditionList(r *io.BinReader, maxDepth int) []WitnessCondition {
	l := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	if l > MaxSubitems {
		r.Err = conditionErr("array is too big (%d)", l)
		return nil
	}
	if l == 0 {
		r.Err = conditionErr("empty array")
		return nil
	}
	res := make([]WitnessCondition, l)
	for i := range res {
		res[i] = decodeBinaryCondition(r, maxDepth-1)
		if r.Err != nil {
			return nil
		}
	}
	return res
}

func conditionListSize(list []WitnessCondition) int {
	size := 1 + io.GetVarSize(len(list))
	for _, cond := range list {
		size += cond.Size()
	}
	return size
}

// EncodeBinary implements the WitnessCondition interface allowing to serialize condition.
func (c *ConditionAnd) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	encodeConditionList(w, *c)
}

// DecodeBinarySpecific implements the WitnessCondition interface allowing to deserialize condition.
func (c *ConditionAnd) DecodeBinarySpecific(r *io.BinReader, maxDepth int) {
	list := decodeConditionList(r, maxDepth)
	if r.Err == nil {
		*c = list
	}
}

// Size implements the WitnessCondition interface.
func (c *ConditionAnd) Size() int {
	return conditionListSize(*c)
}

func arrayToJSON(c WitnessCondition, a []WitnessCondition) ([]byte, error) {
	exprs := make([]json.RawMessage, len(a))
	for i := range a {
		b, err := a[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		exprs[i] = b
	}
	aux := conditionAux{
		Type:        c.Type().String(),
		Expressions: exprs,
	}
	return json.Marshal(aux)
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionAnd) MarshalJSON() ([]byte, error) {
	return arrayToJSON(c, []WitnessCondition(*c))
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionOr) Type() WitnessConditionType {
	return WitnessOr
}

// EncodeBinary implements the WitnessCondition interface allowing to serialize condition.
func (c *ConditionOr) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	encodeConditionList(w, *c)
}

// DecodeBinarySpecific implements the WitnessCondition interface allowing to deserialize condition.
func (c *ConditionOr) DecodeBinarySpecific(r *io.BinReader, maxDepth int) {
	list := decodeConditionList(r, maxDepth)
	if r.Err == nil {
		*c = list
	}
}

// Size implements the WitnessCondition interface.
func (c *ConditionOr) Size() int {
	return conditionListSize(*c)
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionOr) MarshalJSON() ([]byte, error) {
	return arrayToJSON(c, []WitnessCondition(*c))
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionScriptHash) Type() WitnessConditionType {
	return WitnessScriptHash
}

// EncodeBinary implements the WitnessCondition interface allowing to serialize condition.
func (c *ConditionScriptHash) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBytes(c[:])
}

// DecodeBinarySpecific implements the WitnessCondition interface allowing to deserialize condition.
func (c *ConditionScriptHash) DecodeBinarySpecific(r *io.BinReader, _ int) {
	r.ReadBytes(c[:])
}

// Size implements the WitnessCondition interface.
func (c *ConditionScriptHash) Size() int {
	return 1 + util.Uint160Size
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionScriptHash) MarshalJSON() ([]byte, error) {
	aux := conditionAux{
		Type: c.Type().String(),
		Hash: (*util.Uint160)(c),
	}
	return json.Marshal(aux)
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionGroup) Type() WitnessConditionType {
	return WitnessGroup
}

// EncodeBinary implements the WitnessCondition interface allowing to serialize condition.
func (c *ConditionGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	(*keys.PublicKey)(c).EncodeBinary(w)
}

// DecodeBinarySpecific implements the WitnessCondition interface allowing to deserialize condition.
func (c *ConditionGroup) DecodeBinarySpecific(r *io.BinReader, _ int) {
	(*keys.PublicKey)(c).DecodeBinary(r)
}

// Size implements the WitnessCondition interface.
func (c *ConditionGroup) Size() int {
	return 1 + (*keys.PublicKey)(c).Size()
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionGroup) MarshalJSON() ([]byte, error) {
	aux := conditionAux{
		Type:  c.Type().String(),
		Group: (*keys.PublicKey)(c),
	}
	return json.Marshal(aux)
}

// Type implements the WitnessCondition interface and returns condition type.
func (c ConditionCalledByEntry) Type() WitnessConditionType {
	return WitnessCalledByEntry
}

// EncodeBinary implements the WitnessCondition interface allowing to serialize condition.
func (c ConditionCalledByEntry) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
}

// DecodeBinarySpecific implements the WitnessCondition interface allowing to deserialize condition.
func (c ConditionCalledByEntry) DecodeBinarySpecific(_ *io.BinReader, _ int) {
}

// Size implements the WitnessCondition interface.
func (c ConditionCalledByEntry) Size() int {
	return 1
}

// MarshalJSON implements the json.Marshaler interface.
func (c ConditionCalledByEntry) MarshalJSON() ([]byte, error) {
	aux := conditionAux{
		Type: c.Type().String(),
	}
	return json.Marshal(aux)
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionCalledByContract) Type() WitnessConditionType {
	return WitnessCalledByContract
}

// EncodeBinary implements the WitnessCondition interface allowing to serialize condition.
func (c *ConditionCalledByContract) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBytes(c[:])
}

// DecodeBinarySpecific implements the WitnessCondition interface allowing to deserialize condition.
func (c *ConditionCalledByContract) DecodeBinarySpecific(r *io.BinReader, _ int) {
	r.ReadBytes(c[:])
}

// Size implements the WitnessCondition interface.
func (c *ConditionCalledByContract) Size() int {
	return 1 + util.Uint160Size
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionCalledByContract) MarshalJSON() ([]byte, error) {
	aux := conditionAux{
		Type: c.Type().String(),
		Hash: (*util.Uint160)(c),
	}
	return json.Marshal(aux)
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionCalledByGroup) Type() WitnessConditionType {
	return WitnessCalledByGroup
}

// EncodeBinary implements the WitnessCondition interface allowing to serialize condition.
func (c *ConditionCalledByGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	(*keys.PublicKey)(c).EncodeBinary(w)
}

// DecodeBinarySpecific implements the WitnessCondition interface allowing to deserialize condition.
func (c *ConditionCalledByGroup) DecodeBinarySpecific(r *io.BinReader, _ int) {
	(*keys.PublicKey)(c).DecodeBinary(r)
}

// Size implements the WitnessCondition interface.
func (c *ConditionCalledByGroup) Size() int {
	return 1 + (*keys.PublicKey)(c).Size()
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionCalledByGroup) MarshalJSON() ([]byte, error) {
	aux := conditionAux{
		Type:  c.Type().String(),
		Group: (*keys.PublicKey)(c),
	}
	return json.Marshal(aux)
}

// DecodeBinaryCondition decodes and returns condition from the given binary stream.
func DecodeBinaryCondition(r *io.BinReader) WitnessCondition {
	return decodeBinaryCondition(r, MaxConditionNesting)
}

func decodeBinaryCondition(r *io.BinReader, maxDepth int) WitnessCondition {
	if r.Err != nil {
		return nil
	}
	if maxDepth <= 0 {
		r.Err = conditionErr("too many nesting levels")
		return nil
	}
	t := WitnessConditionType(r.ReadB())
	if r.Err != nil {
		return nil
	}
	var res WitnessCondition
	switch t {
	case WitnessBoolean:
		var v ConditionBoolean
		res = &v
	case WitnessNot:
		res = &ConditionNot{}
	case WitnessAnd:
		res = &ConditionAnd{}
	case WitnessOr:
		res = &ConditionOr{}
	case WitnessScriptHash:
		res = &ConditionScriptHash{}
	case WitnessGroup:
		res = &ConditionGroup{}
	case WitnessCalledByEntry:
		res = ConditionCalledByEntry{}
	case WitnessCalledByContract:
		res = &ConditionCalledByContract{}
	case WitnessCalledByGroup:
		res = &ConditionCalledByGroup{}
	default:
		r.Err = conditionErr("invalid condition type %d", t)
		return nil
	}
	res.DecodeBinarySpecific(r, maxDepth)
	if r.Err != nil {
		return nil
	}
	return res
}

// ValidateCondition checks the nesting depth and list sizes of an already
// constructed condition.
func ValidateCondition(c WitnessCondition) error {
	return validateCondition(c, MaxConditionNesting)
}

func validateCondition(c WitnessCondition, maxDepth int) error {
	if c == nil {
		return conditionErr("nil condition")
	}
	if maxDepth <= 0 {
		return conditionErr("too many nesting levels")
	}
	var list []WitnessCondition
	switch v := c.(type) {
	case *ConditionNot:
		return validateCondition(v.Condition, maxDepth-1)
	case *ConditionAnd:
		list = *v
	case *ConditionOr:
		list = *v
	default:
		return nil
	}
	if len(list) == 0 {
		return conditionErr("empty array")
	}
	if len(list) > MaxSubitems {
		return conditionErr("array is too big (%d)", len(list))
	}
	for _, sub := range list {
		if err := validateCondition(sub, maxDepth-1); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalConditionJSON(data []byte, maxDepth int) (WitnessCondition, error) {
	if maxDepth <= 0 {
		return nil, conditionErr("too many nesting levels")
	}
	aux := &conditionAux{}
	err := json.Unmarshal(data, aux)
	if err != nil {
		return nil, err
	}
	typ, ok := conditionTypeFromString(aux.Type)
	if !ok {
		return nil, conditionErr("invalid condition type %q", aux.Type)
	}
	var res WitnessCondition
	switch typ {
	case WitnessBoolean:
		var v bool
		if err := json.Unmarshal(aux.Expression, &v); err != nil {
			return nil, err
		}
		res = (*ConditionBoolean)(&v)
	case WitnessNot:
		v, err := unmarshalConditionJSON(aux.Expression, maxDepth-1)
		if err != nil {
			return nil, err
		}
		res = &ConditionNot{Condition: v}
	case WitnessAnd, WitnessOr:
		if len(aux.Expressions) == 0 {
			return nil, conditionErr("empty array")
		}
		if len(aux.Expressions) > MaxSubitems {
			return nil, conditionErr("array is too big (%d)", len(aux.Expressions))
		}
		list := make([]WitnessCondition, len(aux.Expressions))
		for i := range list {
			list[i], err = unmarshalConditionJSON(aux.Expressions[i], maxDepth-1)
			if err != nil {
				return nil, err
			}
		}
		if typ == WitnessAnd {
			res = (*ConditionAnd)(&list)
		} else {
			res = (*ConditionOr)(&list)
		}
	case WitnessScriptHash, WitnessCalledByContract:
		if aux.Hash == nil {
			return nil, errors.New("no hash specified")
		}
		if typ == WitnessScriptHash {
			res = (*ConditionScriptHash)(aux.Hash)
		} else {
			res = (*ConditionCalledByContract)(aux.Hash)
		}
	case WitnessGroup, WitnessCalledByGroup:
		if aux.Group == nil {
			return nil, errors.New("no group specified")
		}
		if typ == WitnessGroup {
			res = (*ConditionGroup)(aux.Group)
		} else {
			res = (*ConditionCalledByGroup)(aux.Group)
		}
	case WitnessCalledByEntry:
		res = ConditionCalledByEntry{}
	}
	return res, nil
}

// UnmarshalConditionJSON unmarshalls condition from the given JSON data.
func UnmarshalConditionJSON(data []byte) (WitnessCondition, error) {
	return unmarshalConditionJSON(data, MaxConditionNesting)
}
