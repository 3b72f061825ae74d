package smartcontract

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/encoding/address"
	"github.com/nspcc-dev/neo-txauth/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-txauth/pkg/io"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
)

// ParamType is a contract parameter type code.
type ParamType int

// Parameter type codes as they're defined by the protocol.
const (
	UnknownType          ParamType = -1
	AnyType              ParamType = 0x00
	BoolType             ParamType = 0x10
	IntegerType          ParamType = 0x11
	ByteArrayType        ParamType = 0x12
	StringType           ParamType = 0x13
	Hash160Type          ParamType = 0x14
	Hash256Type          ParamType = 0x15
	PublicKeyType        ParamType = 0x16
	SignatureType        ParamType = 0x17
	ArrayType            ParamType = 0x20
	MapType              ParamType = 0x22
	InteropInterfaceType ParamType = 0x30
	VoidType             ParamType = 0xff
)

// paramTypeNames holds canonical names of all known types except
// UnknownType.
var paramTypeNames = map[ParamType]string{
	AnyType:              "Any",
	BoolType:             "Boolean",
	IntegerType:          "Integer",
	ByteArrayType:        "ByteArray",
	StringType:           "String",
	Hash160Type:          "Hash160",
	Hash256Type:          "Hash256",
	PublicKeyType:        "PublicKey",
	SignatureType:        "Signature",
	ArrayType:            "Array",
	MapType:              "Map",
	InteropInterfaceType: "InteropInterface",
	VoidType:             "Void",
}

// paramTypeAliases maps lowercased user-friendly names to types, canonical
// names are added on init.
var paramTypeAliases = map[string]ParamType{
	"bool":       BoolType,
	"int":        IntegerType,
	"bytes":      ByteArrayType,
	"bytestring": ByteArrayType,
	"key":        PublicKeyType,
	"struct":     ArrayType,
}

func init() {
	for t, name := range paramTypeNames {
		paramTypeAliases[strings.ToLower(name)] = t
	}
}

// String returns the canonical type name or an empty string for unknown
// types.
func (pt ParamType) String() string {
	return paramTypeNames[pt]
}

// MarshalJSON implements the json.Marshaler interface.
func (pt ParamType) MarshalJSON() ([]byte, error) {
	return json.Marshal(pt.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (pt *ParamType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := ParseParamType(s)
	if err != nil {
		return err
	}
	*pt = t
	return nil
}

// EncodeBinary implements the io.Serializable interface.
func (pt ParamType) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(pt))
}

// DecodeBinary implements the io.Serializable interface.
func (pt *ParamType) DecodeBinary(r *io.BinReader) {
	b := r.ReadB()
	if r.Err != nil {
		return
	}
	if _, ok := paramTypeNames[ParamType(b)]; !ok {
		r.Err = fmt.Errorf("invalid parameter type %d", b)
		return
	}
	*pt = ParamType(b)
}

// ParseParamType converts a type name to ParamType ignoring case. Besides
// canonical names (as returned by String) it accepts short forms: bool, int,
// bytes, bytestring, key and struct (which is an ArrayType).
func ParseParamType(typ string) (ParamType, error) {
	if t, ok := paramTypeAliases[strings.ToLower(typ)]; ok {
		return t, nil
	}
	return UnknownType, fmt.Errorf("bad parameter type: %s", typ)
}

// ConvertToParamType checks that val is a known type code (UnknownType
// included) and returns it as ParamType.
func ConvertToParamType(val int) (ParamType, error) {
	t := ParamType(val)
	if _, ok := paramTypeNames[t]; ok || t == UnknownType {
		return t, nil
	}
	return UnknownType, errors.New("unknown parameter type")
}

// valueParsers convert string representations of values for types that can
// be given on the command line.
var valueParsers = map[ParamType]func(string) (any, error){
	SignatureType: func(val string) (any, error) {
		b, err := hex.DecodeString(val)
		if err != nil {
			return nil, err
		}
		if len(b) != keys.SignatureLen {
			return nil, errors.New("not a signature")
		}
		return b, nil
	},
	BoolType: func(val string) (any, error) {
		if val != "true" && val != "false" {
			return nil, errors.New("invalid boolean value")
		}
		return val == "true", nil
	},
	IntegerType: func(val string) (any, error) {
		bi, ok := parseVMInt(val)
		if !ok {
			return nil, errors.New("invalid integer value")
		}
		return bi, nil
	},
	Hash160Type: func(val string) (any, error) {
		if u, err := address.StringToUint160(val); err == nil {
			return u, nil
		}
		return util.Uint160DecodeStringLE(strings.TrimPrefix(val, "0x"))
	},
	Hash256Type: func(val string) (any, error) {
		return util.Uint256DecodeStringLE(strings.TrimPrefix(val, "0x"))
	},
	ByteArrayType: func(val string) (any, error) {
		return hex.DecodeString(val)
	},
	PublicKeyType: func(val string) (any, error) {
		pub, err := keys.NewPublicKeyFromString(val)
		if err != nil {
			return nil, err
		}
		return pub.Bytes(), nil
	},
	StringType: func(val string) (any, error) {
		return val, nil
	},
}

// adjustValToType parses val as a value of the given type.
func adjustValToType(typ ParamType, val string) (any, error) {
	parse, ok := valueParsers[typ]
	if !ok {
		return nil, errors.New("unsupported parameter type")
	}
	v, err := parse(val)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func parseVMInt(val string) (*big.Int, bool) {
	bi, ok := new(big.Int).SetString(val, 10)
	return bi, ok && bigint.FitsVM(bi)
}

// inferParamType guesses the type of an untyped value. Integers, booleans,
// addresses and public keys are checked first, then hex strings are typed by
// length (20, 32 and 64 bytes map to Hash160, Hash256 and Signature, others
// to ByteArray). Everything else is a string.
func inferParamType(val string) ParamType {
	if _, ok := parseVMInt(val); ok {
		return IntegerType
	}
	if val == "true" || val == "false" {
		return BoolType
	}
	if _, err := address.StringToUint160(val); err == nil {
		return Hash160Type
	}
	if _, err := keys.NewPublicKeyFromString(val); err == nil {
		return PublicKeyType
	}
	b, err := hex.DecodeString(val)
	if err != nil {
		return StringType
	}
	switch len(b) {
	case util.Uint160Size:
		return Hash160Type
	case util.Uint256Size:
		return Hash256Type
	case keys.SignatureLen:
		return SignatureType
	}
	return ByteArrayType
}
