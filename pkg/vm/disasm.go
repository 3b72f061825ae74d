package vm

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/nspcc-dev/neo-txauth/pkg/vm/opcode"
)

// Disassemble returns a textual representation of the script, one
// instruction per line. PUSHDATA instructions are followed by the data
// length and the data itself, other instructions with operands are followed
// by the hex-encoded operand.
func Disassemble(script []byte) (string, error) {
	var sb strings.Builder

	ctx := NewContext(script)
	for ctx.nextip < len(script) {
		instr, param, err := ctx.Next()
		if err != nil {
			return "", fmt.Errorf("at %d: %w", ctx.ip, err)
		}
		sb.WriteString(instr.String())
		switch instr {
		case opcode.PUSHDATA1, opcode.PUSHDATA2, opcode.PUSHDATA4:
			sb.WriteByte(' ')
			sb.WriteString(strconv.Itoa(len(param)))
			sb.WriteByte(' ')
			sb.WriteString(hex.EncodeToString(param))
		default:
			if len(param) != 0 {
				sb.WriteByte(' ')
				sb.WriteString(hex.EncodeToString(param))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
