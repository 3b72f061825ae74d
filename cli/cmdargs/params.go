package cmdargs

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-txauth/pkg/smartcontract"
)

// ParamsParsingDoc describes contract parameter syntax for command help.
const ParamsParsingDoc = `   Every argument is a contract parameter. Its type is either given
   explicitly with the "type:value" form or guessed from the value. Known
   types are 'signature', 'bool', 'int', 'hash160', 'hash256', 'bytes', 'key',
   'string' and 'any'. Arrays are written as space-separated '[' and ']'
   words around their elements and can be nested. 'any:' (empty value) is
   a null parameter.

   Explicitly typed values are checked:
    * 'signature' is 64 hex-encoded bytes;
    * 'bool' is either 'true' or 'false';
    * 'int' is a decimal integer;
    * 'hash160' is a Neo address or 20 hex-encoded bytes;
    * 'hash256' is 32 hex-encoded bytes;
    * 'bytes' is any hex string;
    * 'key' is a hex-encoded public key;
    * 'string' is any UTF-8 string, colons in the value are literal.

   Untyped values are probed in this order: decimal integer ('int'),
   'true'/'false' ('bool'), address or 20-byte hex ('hash160'), public key
   ('key'), 32-byte hex ('hash256'), 64-byte hex ('signature'), other hex
   ('bytes'). Anything else becomes a 'string'.

   A backslash escapes the next character, so '\:' is a literal colon in an
   untyped string and '\\' is a literal backslash.

   Examples:
    * '42' and 'int:42' are the integer 42
    * 'any:' is null
    * 'dead' is a byte array while 'string:dead' is a string
    * 'NSiVJYZej4XsxG5CUpdwn7VRQk8iiiDMPM' is the hash160
      682cca3ebdc66210e5847d7f8115846586079d4a
    * '\4\2' is the integer 42 and '\\4\2' is the string '\42'
    * 'string\:string' is the string 'string:string'
    * '[ a b [ c d ] e ]' is an array of 'a', 'b', an array of 'c' and 'd'
      and 'e'
    * '[ ]' is an empty array`

var errUnclosedArray = errors.New("invalid array syntax: missing closing bracket")

// ParseParams parses contract parameters from args. With topLevel set it stops
// after the CosignersSeparator, otherwise it parses array elements up to and
// including the ArrayEndSeparator. It returns the number of words consumed
// along with the parameters.
func ParseParams(args []string, topLevel bool) (int, []smartcontract.Parameter, error) {
	params := []smartcontract.Parameter{}
	for i := 0; i < len(args); i++ {
		switch word := args[i]; word {
		case CosignersSeparator:
			if !topLevel {
				return 0, nil, errUnclosedArray
			}
			return i + 1, params, nil
		case ArrayEndSeparator:
			if topLevel {
				return 0, nil, errors.New("invalid array syntax: missing opening bracket")
			}
			return i + 1, params, nil
		case ArrayStartSeparator:
			n, elems, err := ParseParams(args[i+1:], false)
			if err != nil {
				return 0, nil, fmt.Errorf("failed to parse array: %w", err)
			}
			params = append(params, smartcontract.Parameter{
				Type:  smartcontract.ArrayType,
				Value: elems,
			})
			i += n
		default:
			p, err := smartcontract.NewParameterFromString(word)
			if err != nil {
				// urfave/cli drops a leading '--', so signers may come first.
				if i == 0 && topLevel {
					if _, serr := parseSigner(word); serr == nil {
						return 0, params, nil
					}
				}
				return 0, nil, fmt.Errorf("failed to parse argument #%d: %w", i+1, err)
			}
			params = append(params, *p)
		}
	}
	if !topLevel {
		return 0, nil, errUnclosedArray
	}
	return len(args), params, nil
}
