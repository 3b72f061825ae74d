package smartcontract

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nspcc-dev/neo-txauth/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
)

// Parameter is a typed contract parameter. Value holds a Go representation
// that depends on Type: bool, *big.Int (int and int64 are accepted too),
// string, []byte (byte arrays, keys and signatures), util.Uint160,
// util.Uint256, []Parameter or []ParameterPair.
type Parameter struct {
	Type  ParamType `json:"type"`
	Value any       `json:"value"`
}

// ParameterPair is a single MapType entry.
type ParameterPair struct {
	Key   Parameter `json:"key"`
	Value Parameter `json:"value"`
}

// NewParameter returns an empty (null) parameter of the given type.
func NewParameter(t ParamType) Parameter {
	return Parameter{Type: t}
}

// NewSignatureParameter returns a SignatureType parameter holding sig.
func NewSignatureParameter(sig []byte) Parameter {
	return Parameter{Type: SignatureType, Value: sig}
}

type rawParameter struct {
	Type  ParamType       `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Copy returns a deep copy of the parameter. Integers given as int or int64
// are converted to *big.Int.
func (p Parameter) Copy() Parameter {
	res := Parameter{Type: p.Type}
	switch v := p.Value.(type) {
	case []byte:
		res.Value = bytes.Clone(v)
	case *big.Int:
		res.Value = new(big.Int).Set(v)
	case int64:
		res.Value = big.NewInt(v)
	case int:
		res.Value = big.NewInt(int64(v))
	case []Parameter:
		arr := make([]Parameter, len(v))
		for i := range v {
			arr[i] = v[i].Copy()
		}
		res.Value = arr
	case []ParameterPair:
		pairs := make([]ParameterPair, len(v))
		for i := range v {
			pairs[i] = ParameterPair{Key: v[i].Key.Copy(), Value: v[i].Value.Copy()}
		}
		res.Value = pairs
	default:
		res.Value = v
	}
	return res
}

// MarshalJSON implements the json.Marshaler interface. Byte arrays and
// signatures are base64-encoded, public keys are hex-encoded and integers are
// strings.
func (p Parameter) MarshalJSON() ([]byte, error) {
	if p.Value == nil {
		if p.Type.String() == "" {
			return nil, fmt.Errorf("can't marshal %s", p.Type)
		}
		return json.Marshal(rawParameter{Type: p.Type})
	}
	val, err := p.marshalValue()
	if err != nil {
		return nil, err
	}
	return json.Marshal(rawParameter{Type: p.Type, Value: val})
}

func (p Parameter) marshalValue() (json.RawMessage, error) {
	switch p.Type {
	case BoolType, StringType, Hash160Type, Hash256Type:
		return json.Marshal(p.Value)
	case IntegerType:
		switch v := p.Value.(type) {
		case *big.Int:
			return json.Marshal(v.String())
		case int64:
			return json.Marshal(strconv.FormatInt(v, 10))
		case int:
			return json.Marshal(strconv.Itoa(v))
		}
	case PublicKeyType:
		if b, ok := p.Value.([]byte); ok {
			return json.Marshal(hex.EncodeToString(b))
		}
	case ByteArrayType, SignatureType:
		if b, ok := p.Value.([]byte); ok {
			return json.Marshal(base64.StdEncoding.EncodeToString(b))
		}
	case ArrayType:
		if arr, ok := p.Value.([]Parameter); ok {
			if arr == nil {
				arr = []Parameter{}
			}
			return json.Marshal(arr)
		}
	case MapType:
		if pairs, ok := p.Value.([]ParameterPair); ok {
			return json.Marshal(pairs)
		}
	case InteropInterfaceType, AnyType:
		return nil, nil
	default:
		return nil, fmt.Errorf("can't marshal %s", p.Type)
	}
	return nil, fmt.Errorf("invalid %s value of %T", p.Type, p.Value)
}

// UnmarshalJSON implements the json.Unmarshaler interface. Integers are
// accepted both as numbers and as strings.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	var r rawParameter
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	p.Type, p.Value = r.Type, nil
	if len(r.Value) == 0 || bytes.Equal(r.Value, []byte("null")) {
		return nil
	}
	v, err := unmarshalValue(r.Type, r.Value)
	if err != nil {
		return err
	}
	p.Value = v
	return nil
}

func unmarshalValue(typ ParamType, data json.RawMessage) (any, error) {
	var err error
	switch typ {
	case BoolType:
		var b bool
		err = json.Unmarshal(data, &b)
		return b, err
	case StringType:
		var s string
		err = json.Unmarshal(data, &s)
		return s, err
	case ByteArrayType, SignatureType, PublicKeyType:
		var s string
		if err = json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		if typ == PublicKeyType {
			return hex.DecodeString(s)
		}
		return base64.StdEncoding.DecodeString(s)
	case IntegerType:
		var n json.Number
		if err = json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		bi, ok := new(big.Int).SetString(n.String(), 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer %s", n)
		}
		if !bigint.FitsVM(bi) {
			return nil, errors.New("integer is too big")
		}
		return bi, nil
	case ArrayType:
		var arr []Parameter
		err = json.Unmarshal(data, &arr)
		return arr, err
	case MapType:
		var pairs []ParameterPair
		err = json.Unmarshal(data, &pairs)
		return pairs, err
	case Hash160Type:
		var h util.Uint160
		err = json.Unmarshal(data, &h)
		return h, err
	case Hash256Type:
		var h util.Uint256
		err = json.Unmarshal(data, &h)
		return h, err
	case InteropInterfaceType, AnyType:
		// Only null is meaningful here.
		return nil, nil
	}
	return nil, fmt.Errorf("can't unmarshal %s", typ)
}

// NewParameterFromString parses a parameter given as "[type:]value". The
// value type is inferred when there is no type prefix. A backslash escapes the
// next character, so colons can be used in untyped values.
func NewParameterFromString(in string) (*Parameter, error) {
	if !utf8.ValidString(in) {
		return nil, errors.New("bad UTF-8 string")
	}
	var (
		res     Parameter
		buf     strings.Builder
		escaped bool
		typed   bool
	)
	for _, c := range in {
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
			continue
		case c == ':' && !typed:
			t, err := parseExplicitType(buf.String())
			if err != nil {
				return nil, err
			}
			res.Type, typed = t, true
			buf.Reset()
			continue
		}
		buf.WriteRune(c)
	}

	val := buf.String()
	if !typed {
		res.Type = inferParamType(val)
	}
	if res.Type == AnyType {
		if val != "" && val != "null" {
			return nil, errors.New("only null value is allowed for Any type")
		}
		return &res, nil
	}
	v, err := adjustValToType(res.Type, val)
	if err != nil {
		return nil, err
	}
	res.Value = v
	return &res, nil
}

// parseExplicitType parses a type prefix, compound and interop types can't be
// given this way.
func parseExplicitType(s string) (ParamType, error) {
	t, err := ParseParamType(s)
	if err != nil {
		return UnknownType, err
	}
	switch t {
	case ArrayType, MapType, InteropInterfaceType, VoidType:
		return UnknownType, fmt.Errorf("unsupported parameter type %s", t)
	}
	return t, nil
}
