package vm

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-txauth/pkg/vm/opcode"
)

// MaxItemSize is the maximum size of a single pushed byte array.
const MaxItemSize = 1024 * 1024

var (
	errNoInstParam = errors.New("failed to read instruction parameter")
	errTooBig      = errors.New("parameter is too big")
)

// Context is a read-only cursor over a script. It walks instructions
// without executing them.
type Context struct {
	prog []byte
	// ip is the offset of the instruction returned by the last Next call.
	ip int
	// nextip is the offset of the instruction to be read next.
	nextip int
}

// NewContext returns a new Context for the given script.
func NewContext(b []byte) *Context {
	return &Context{prog: b}
}

// IP returns the offset of the current instruction.
func (c *Context) IP() int {
	return c.ip
}

// NextIP returns the offset of the next instruction to be read.
func (c *Context) NextIP() int {
	return c.nextip
}

// LenInstr returns the length of the loaded script.
func (c *Context) LenInstr() int {
	return len(c.prog)
}

// Program returns the loaded script.
func (c *Context) Program() []byte {
	return c.prog
}

// operandSize returns the size of a fixed operand of op or, for PUSHDATA
// family, the size of the length prefix preceding the data.
func operandSize(op opcode.Opcode) (fixed int, prefix int) {
	switch op {
	case opcode.PUSHDATA1:
		return 0, 1
	case opcode.PUSHDATA2:
		return 0, 2
	case opcode.PUSHDATA4:
		return 0, 4
	case opcode.JMP, opcode.JMPIF, opcode.JMPIFNOT, opcode.JMPEQ, opcode.JMPNE,
		opcode.JMPGT, opcode.JMPGE, opcode.JMPLT, opcode.JMPLE,
		opcode.CALL, opcode.ISTYPE, opcode.CONVERT, opcode.NEWARRAYT, opcode.ENDTRY,
		opcode.INITSSLOT, opcode.LDSFLD, opcode.STSFLD, opcode.LDARG, opcode.STARG,
		opcode.LDLOC, opcode.STLOC:
		return 1, 0
	case opcode.INITSLOT, opcode.TRY, opcode.CALLT:
		return 2, 0
	case opcode.JMPL, opcode.JMPIFL, opcode.JMPIFNOTL, opcode.JMPEQL, opcode.JMPNEL,
		opcode.JMPGTL, opcode.JMPGEL, opcode.JMPLTL, opcode.JMPLEL,
		opcode.ENDTRYL, opcode.CALLL, opcode.SYSCALL, opcode.PUSHA:
		return 4, 0
	case opcode.TRYL:
		return 8, 0
	}
	if op <= opcode.PUSHINT256 {
		return 1 << op, 0
	}
	return 0, 0
}

// Next moves to the next instruction and returns it with its operand, the
// operand shares memory with the script. RET is returned past the end of the
// script.
func (c *Context) Next() (opcode.Opcode, []byte, error) {
	c.ip = c.nextip
	if c.ip >= len(c.prog) {
		return opcode.RET, nil, nil
	}
	op := opcode.Opcode(c.prog[c.ip])
	if !opcode.IsValid(op) {
		return op, nil, fmt.Errorf("incorrect opcode %s", op.String())
	}
	pos := c.ip + 1
	size, prefix := operandSize(op)
	if size == 0 && prefix == 0 {
		c.nextip = pos
		return op, nil, nil
	}
	if prefix != 0 {
		if pos+prefix > len(c.prog) {
			return op, nil, errNoInstParam
		}
		var n uint64
		for i := prefix - 1; i >= 0; i-- {
			n = n<<8 | uint64(c.prog[pos+i])
		}
		if n > MaxItemSize {
			return op, nil, errTooBig
		}
		pos += prefix
		size = int(n)
	}
	if pos+size > len(c.prog) {
		return op, nil, errNoInstParam
	}
	c.nextip = pos + size
	return op, c.prog[pos:c.nextip], nil
}
