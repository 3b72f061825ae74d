// Package emit writes NeoVM instructions for common values and calls.
package emit

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-txauth/pkg/core/interop/interopnames"
	"github.com/nspcc-dev/neo-txauth/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-txauth/pkg/io"
	"github.com/nspcc-dev/neo-txauth/pkg/smartcontract/callflag"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
	"github.com/nspcc-dev/neo-txauth/pkg/vm/opcode"
)

// ErrBigIntegerTooLarge is returned for integers not fitting into 256 bits.
var ErrBigIntegerTooLarge = errors.New("integer is too big for VM")

// intWidths are operand sizes of PUSHINT8..PUSHINT256 in opcode order.
var intWidths = [...]int{1, 2, 4, 8, 16, 32}

// Instruction writes op followed by its operand.
func Instruction(w *io.BinWriter, op opcode.Opcode, operand []byte) {
	w.WriteB(byte(op))
	w.WriteBytes(operand)
}

// Opcodes writes operand-less instructions.
func Opcodes(w *io.BinWriter, ops ...opcode.Opcode) {
	for _, op := range ops {
		w.WriteB(byte(op))
	}
}

// Bool pushes a boolean.
func Bool(w *io.BinWriter, ok bool) {
	if ok {
		Opcodes(w, opcode.PUSHT)
	} else {
		Opcodes(w, opcode.PUSHF)
	}
}

// Int pushes an integer using the shortest instruction.
func Int(w *io.BinWriter, i int64) {
	if !smallInt(w, i) {
		bigInt(w, big.NewInt(i))
	}
}

// BigInt pushes an integer using the shortest instruction, values outside of
// the 256-bit range set ErrBigIntegerTooLarge.
func BigInt(w *io.BinWriter, n *big.Int) {
	if w.Err != nil {
		return
	}
	if n.IsInt64() && smallInt(w, n.Int64()) {
		return
	}
	bigInt(w, n)
}

// smallInt emits PUSHM1..PUSH16 if i is in range.
func smallInt(w *io.BinWriter, i int64) bool {
	if i < -1 || i > 16 {
		return false
	}
	if i == -1 {
		Opcodes(w, opcode.PUSHM1)
	} else {
		Opcodes(w, opcode.PUSH0+opcode.Opcode(i))
	}
	return true
}

// bigInt emits PUSHINTn with the value sign-extended to the operand size.
func bigInt(w *io.BinWriter, n *big.Int) {
	if w.Err != nil {
		return
	}
	if !bigint.FitsVM(n) {
		w.Err = ErrBigIntegerTooLarge
		return
	}
	data := bigint.ToPreallocatedBytes(n, make([]byte, 0, 32))
	idx := 0
	for intWidths[idx] < len(data) {
		idx++
	}
	var fill byte
	if n.Sign() < 0 {
		fill = 0xff
	}
	for len(data) < intWidths[idx] {
		data = append(data, fill)
	}
	Instruction(w, opcode.PUSHINT8+opcode.Opcode(idx), data)
}

// Array packs elements into an array: they're pushed in reverse order
// followed by the count and PACK. []any elements become nested arrays, nil
// is pushed as PUSHNULL.
func Array(w *io.BinWriter, es ...any) {
	if len(es) == 0 {
		Opcodes(w, opcode.NEWARRAY0)
		return
	}
	for i := len(es) - 1; i >= 0 && w.Err == nil; i-- {
		element(w, es[i])
	}
	Int(w, int64(len(es)))
	Opcodes(w, opcode.PACK)
}

func element(w *io.BinWriter, e any) {
	switch v := e.(type) {
	case nil:
		Opcodes(w, opcode.PUSHNULL)
	case []any:
		Array(w, v...)
	case int64:
		Int(w, v)
	case int:
		Int(w, int64(v))
	case uint32:
		Int(w, int64(v))
	case *big.Int:
		BigInt(w, v)
	case bool:
		Bool(w, v)
	case string:
		String(w, v)
	case []byte:
		Bytes(w, v)
	case util.Uint160:
		Bytes(w, v.BytesBE())
	case util.Uint256:
		Bytes(w, v.BytesBE())
	default:
		w.Err = fmt.Errorf("unsupported type: %T", e)
	}
}

// String pushes the UTF-8 bytes of s.
func String(w *io.BinWriter, s string) {
	Bytes(w, []byte(s))
}

// Bytes pushes b with the smallest PUSHDATA instruction.
func Bytes(w *io.BinWriter, b []byte) {
	n := len(b)
	switch {
	case n <= 0xff:
		Instruction(w, opcode.PUSHDATA1, []byte{byte(n)})
	case n <= 0xffff:
		Instruction(w, opcode.PUSHDATA2, binary.LittleEndian.AppendUint16(nil, uint16(n)))
	default:
		Instruction(w, opcode.PUSHDATA4, binary.LittleEndian.AppendUint32(nil, uint32(n)))
	}
	w.WriteBytes(b)
}

// Syscall emits SYSCALL for the named interop.
func Syscall(w *io.BinWriter, api string) {
	if w.Err != nil {
		return
	}
	if api == "" {
		w.Err = errors.New("syscall api cannot be of length 0")
		return
	}
	Instruction(w, opcode.SYSCALL, binary.LittleEndian.AppendUint32(nil, interopnames.ToID([]byte(api))))
}

// AppCall packs args and calls the contract method with System.Contract.Call.
func AppCall(w *io.BinWriter, scriptHash util.Uint160, operation string, f callflag.CallFlag, args ...any) {
	Array(w, args...)
	AppCallNoArgs(w, scriptHash, operation, f)
}

// AppCallNoArgs calls the contract method expecting the packed arguments to
// be on the stack already.
func AppCallNoArgs(w *io.BinWriter, scriptHash util.Uint160, operation string, f callflag.CallFlag) {
	Int(w, int64(f))
	String(w, operation)
	Bytes(w, scriptHash.BytesBE())
	Syscall(w, interopnames.SystemContractCall)
}

// CheckSig emits a single-key signature check for the given compressed key.
func CheckSig(w *io.BinWriter, key []byte) {
	Bytes(w, key)
	Syscall(w, interopnames.SystemCryptoCheckSig)
}
