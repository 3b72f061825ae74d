package smartcontract

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-txauth/pkg/io"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestParseParamType(t *testing.T) {
	good := map[string]ParamType{
		"signature":        SignatureType,
		"Signature":        SignatureType,
		"SiGnAtUrE":        SignatureType,
		"bool":             BoolType,
		"boolean":          BoolType,
		"int":              IntegerType,
		"Integer":          IntegerType,
		"hash160":          Hash160Type,
		"hash256":          Hash256Type,
		"bytes":            ByteArrayType,
		"bytestring":       ByteArrayType,
		"ByteArray":        ByteArrayType,
		"key":              PublicKeyType,
		"publickey":        PublicKeyType,
		"string":           StringType,
		"array":            ArrayType,
		"struct":           ArrayType,
		"map":              MapType,
		"interopinterface": InteropInterfaceType,
		"void":             VoidType,
		"any":              AnyType,
	}
	for in, expected := range good {
		actual, err := ParseParamType(in)
		require.NoError(t, err, in)
		require.Equal(t, expected, actual, in)
	}
	for _, in := range []string{"", "qwerty", "hash", "array "} {
		actual, err := ParseParamType(in)
		require.Error(t, err, in)
		require.Equal(t, UnknownType, actual)
	}
}

func TestInferParamType(t *testing.T) {
	const (
		sig  = "602c79718b16e442de58778e148d0b1084e3b2dffd5de6b7b16cee7969282de7c56f33fc6ecfcd0c225c4ab356fee59390af8560be0e930faebe74a6daff7c9b"
		h256 = "602c79718b16e442de58778e148d0b1084e3b2dffd5de6b7b16cee7969282de7"
		pub  = "03b209fd4f53a7170ea4444e0cb0a6bb6a53c2bd016926989cf85f9b0fba17a70c"
	)
	cases := map[string]ParamType{
		"42":                                 IntegerType,
		"-42":                                IntegerType,
		"0":                                  IntegerType,
		"2e10":                               ByteArrayType,
		"true":                               BoolType,
		"false":                              BoolType,
		"truee":                              StringType,
		"NPAsqZkx9WhNd4P72uhZxBhLinSuNkxfB8": Hash160Type,
		"ZK2nJJpJr6o664CWJKi1QRXjqeic2zRp8y": StringType,
		"50befd26fdf6e4d957c11e078b24ebce6291456f": Hash160Type,
		pub:          PublicKeyType,
		"30" + pub[2:]: ByteArrayType,
		h256:         Hash256Type,
		h256 + "da":  ByteArrayType,
		sig:          SignatureType,
		"qwerty":     StringType,
		"ab":         ByteArrayType,
		"az":         StringType,
		"фыва":       StringType,
		"dead":       ByteArrayType,
	}
	for in, expected := range cases {
		require.Equal(t, expected, inferParamType(in), in)
	}
	// Integers not fitting into VM limits are hex byte arrays when possible.
	require.Equal(t, ByteArrayType, inferParamType(new(big.Int).Lsh(big.NewInt(1), 300).String()+"0"))
}

func TestAdjustValToType(t *testing.T) {
	const (
		sig  = "602c79718b16e442de58778e148d0b1084e3b2dffd5de6b7b16cee7969282de7c56f33fc6ecfcd0c225c4ab356fee59390af8560be0e930faebe74a6daff7c9b"
		h256 = "602c79718b16e442de58778e148d0b1084e3b2dffd5de6b7b16cee7969282de7"
		h160 = "50befd26fdf6e4d957c11e078b24ebce6291456f"
		pub  = "03b209fd4f53a7170ea4444e0cb0a6bb6a53c2bd016926989cf85f9b0fba17a70c"
	)
	h160LE := util.Uint160{
		0x6f, 0x45, 0x91, 0x62, 0xce, 0xeb, 0x24, 0x8b, 0x7, 0x1e,
		0xc1, 0x57, 0xd9, 0xe4, 0xf6, 0xfd, 0x26, 0xfd, 0xbe, 0x50,
	}
	type input struct {
		typ ParamType
		val string
	}
	good := map[input]any{
		{SignatureType, sig}:      mustHex(sig),
		{BoolType, "false"}:       false,
		{BoolType, "true"}:        true,
		{IntegerType, "0"}:        big.NewInt(0),
		{IntegerType, "42"}:       big.NewInt(42),
		{IntegerType, "-42"}:      big.NewInt(-42),
		{Hash160Type, h160}:       h160LE,
		{Hash160Type, "0x" + h160}: h160LE,
		{Hash160Type, "NPAsqZkx9WhNd4P72uhZxBhLinSuNkxfB8"}: util.Uint160{
			0x23, 0xba, 0x27, 0x3, 0xc5, 0x32, 0x63, 0xe8, 0xd6, 0xe5,
			0x22, 0xdc, 0x32, 0x20, 0x33, 0x39, 0xdc, 0xd8, 0xee, 0xe9,
		},
		{Hash256Type, h256}: util.Uint256{
			0xe7, 0x2d, 0x28, 0x69, 0x79, 0xee, 0x6c, 0xb1, 0xb7, 0xe6, 0x5d, 0xfd, 0xdf, 0xb2, 0xe3, 0x84,
			0x10, 0xb, 0x8d, 0x14, 0x8e, 0x77, 0x58, 0xde, 0x42, 0xe4, 0x16, 0x8b, 0x71, 0x79, 0x2c, 0x60,
		},
		{ByteArrayType, h256[:62]}: mustHex(h256[:62]),
		{ByteArrayType, h160}:      mustHex(h160),
		{ByteArrayType, "ab"}:      []byte{0xab},
		{PublicKeyType, pub}:       mustHex(pub),
		{StringType, "q"}:          "q",
		{StringType, "dead"}:       "dead",
		{StringType, "йцукен"}:     "йцукен",
	}
	for in, expected := range good {
		actual, err := adjustValToType(in.typ, in.val)
		require.NoError(t, err, "%s/%s", in.typ, in.val)
		require.Equal(t, expected, actual, "%s/%s", in.typ, in.val)
	}

	bad := []input{
		{SignatureType, sig[:len(sig)-2]},
		{SignatureType, "qwerty"},
		{BoolType, "qwerty"},
		{BoolType, "42"},
		{BoolType, "0"},
		{IntegerType, "q"},
		{IntegerType, new(big.Int).Lsh(big.NewInt(1), 300).String()},
		{Hash160Type, h160[2:]},
		{Hash160Type, "q"},
		{Hash256Type, h256[:62]},
		{Hash256Type, "q"},
		{ByteArrayType, "AK2nJJpJr6o664CWJKi1QRXjqeic2zRp8y"},
		{ByteArrayType, "q"},
		{PublicKeyType, "01" + pub[2:]},
		{PublicKeyType, "q"},
		{ArrayType, ""},
		{MapType, "[]"},
		{InteropInterfaceType, ""},
		{AnyType, ""},
	}
	for _, in := range bad {
		_, err := adjustValToType(in.typ, in.val)
		require.Error(t, err, "%s/%s", in.typ, in.val)
	}
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func TestConvertToParamType(t *testing.T) {
	for pt := range paramTypeNames {
		actual, err := ConvertToParamType(int(pt))
		require.NoError(t, err)
		require.Equal(t, pt, actual)
	}
	actual, err := ConvertToParamType(int(UnknownType))
	require.NoError(t, err)
	require.Equal(t, UnknownType, actual)

	_, err = ConvertToParamType(0x01)
	require.Error(t, err)
}

func TestParamTypeCodecs(t *testing.T) {
	for pt := range paramTypeNames {
		data, err := json.Marshal(pt)
		require.NoError(t, err)
		var actual ParamType
		require.NoError(t, json.Unmarshal(data, &actual))
		require.Equal(t, pt, actual)

		b, err := io.ToArray(&pt)
		require.NoError(t, err)
		require.Equal(t, []byte{byte(pt)}, b)
		var decoded ParamType
		require.NoError(t, io.FromArray(b, &decoded))
		require.Equal(t, pt, decoded)
	}

	var pt ParamType
	require.Error(t, io.FromArray([]byte{0x01}, &pt))
	require.Error(t, json.Unmarshal([]byte(`"Unknown"`), &pt))
	require.Error(t, json.Unmarshal([]byte(`42`), &pt))
}
