package smartcontract

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-txauth/pkg/io"
	"github.com/nspcc-dev/neo-txauth/pkg/smartcontract/callflag"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
	"github.com/nspcc-dev/neo-txauth/pkg/vm/emit"
	"github.com/nspcc-dev/neo-txauth/pkg/vm/opcode"
)

// Builder is used to create arbitrary scripts from the set of methods it provides.
// Each method emits some set of opcodes, these chunks of code can be composed
// together into transaction scripts, invocation scripts or verification
// scripts. Builder is append-only, the first error encountered is kept and
// returned from Script, all subsequent calls are no-op.
type Builder struct {
	bw *io.BufBinWriter
}

// NewBuilder creates a new Builder instance.
func NewBuilder() *Builder {
	return &Builder{bw: io.NewBufBinWriter()}
}

// PushInt emits the minimal push instruction for i.
func (b *Builder) PushInt(i int64) *Builder {
	emit.Int(b.bw.BinWriter, i)
	return b
}

// PushBigInt emits the minimal push instruction for n, n must fit into
// 256 bits.
func (b *Builder) PushBigInt(n *big.Int) *Builder {
	emit.BigInt(b.bw.BinWriter, n)
	return b
}

// PushBool emits PUSHT or PUSHF.
func (b *Builder) PushBool(v bool) *Builder {
	emit.Bool(b.bw.BinWriter, v)
	return b
}

// PushBytes emits PUSHDATA instruction for data.
func (b *Builder) PushBytes(data []byte) *Builder {
	emit.Bytes(b.bw.BinWriter, data)
	return b
}

// PushString emits PUSHDATA instruction for UTF-8 bytes of s.
func (b *Builder) PushString(s string) *Builder {
	emit.String(b.bw.BinWriter, s)
	return b
}

// PushNull emits PUSHNULL.
func (b *Builder) PushNull() *Builder {
	emit.Opcodes(b.bw.BinWriter, opcode.PUSHNULL)
	return b
}

// PushParameter emits code pushing the parameter value onto the stack.
// Parameters without value are pushed as null.
func (b *Builder) PushParameter(p Parameter) *Builder {
	if b.bw.Err != nil {
		return b
	}
	if p.Value == nil {
		return b.PushNull()
	}
	switch p.Type {
	case SignatureType, ByteArrayType, PublicKeyType:
		data, ok := p.Value.([]byte)
		if !ok {
			return b.fail(p)
		}
		b.PushBytes(data)
	case BoolType:
		v, ok := p.Value.(bool)
		if !ok {
			return b.fail(p)
		}
		b.PushBool(v)
	case IntegerType:
		switch v := p.Value.(type) {
		case *big.Int:
			b.PushBigInt(v)
		case int64:
			b.PushInt(v)
		case int:
			b.PushInt(int64(v))
		default:
			return b.fail(p)
		}
	case StringType:
		s, ok := p.Value.(string)
		if !ok {
			return b.fail(p)
		}
		b.PushString(s)
	case Hash160Type:
		u, ok := p.Value.(util.Uint160)
		if !ok {
			return b.fail(p)
		}
		b.PushBytes(u.BytesBE())
	case Hash256Type:
		u, ok := p.Value.(util.Uint256)
		if !ok {
			return b.fail(p)
		}
		b.PushBytes(u.BytesBE())
	case ArrayType:
		arr, ok := p.Value.([]Parameter)
		if !ok {
			return b.fail(p)
		}
		b.PushParameters(arr...)
	case MapType:
		pairs, ok := p.Value.([]ParameterPair)
		if !ok {
			return b.fail(p)
		}
		for i := len(pairs) - 1; i >= 0; i-- {
			b.PushParameter(pairs[i].Value)
			b.PushParameter(pairs[i].Key)
		}
		b.PushInt(int64(len(pairs)))
		emit.Opcodes(b.bw.BinWriter, opcode.PACKMAP)
	default:
		b.bw.Err = fmt.Errorf("unsupported parameter type %s", p.Type)
	}
	return b
}

func (b *Builder) fail(p Parameter) *Builder {
	b.bw.Err = fmt.Errorf("invalid %s parameter value of type %T", p.Type, p.Value)
	return b
}

// PushParameters emits code creating an array of the given parameters: items
// are pushed in reverse order and packed, an empty list produces NEWARRAY0.
func (b *Builder) PushParameters(params ...Parameter) *Builder {
	if len(params) == 0 {
		emit.Opcodes(b.bw.BinWriter, opcode.NEWARRAY0)
		return b
	}
	for i := len(params) - 1; i >= 0; i-- {
		b.PushParameter(params[i])
	}
	b.PushInt(int64(len(params)))
	emit.Opcodes(b.bw.BinWriter, opcode.PACK)
	return b
}

// InvokeMethod is the most generic contract method invoker, the code it produces
// packs all of the arguments given into an array and calls some method of the
// contract with the given call flags. The correctness of this invocation (number
// and type of parameters) is out of scope of this method.
func (b *Builder) InvokeMethod(contract util.Uint160, method string, f callflag.CallFlag, params ...Parameter) *Builder {
	b.PushParameters(params...)
	emit.AppCallNoArgs(b.bw.BinWriter, contract, method, f)
	return b
}

// InvokeWithAssert emits an invocation of the method (see InvokeMethod) with
// an ASSERT after the invocation. The presumption is that the method called
// returns a Boolean value signalling the success or failure of the operation.
func (b *Builder) InvokeWithAssert(contract util.Uint160, method string, params ...Parameter) *Builder {
	b.InvokeMethod(contract, method, callflag.All, params...)
	emit.Opcodes(b.bw.BinWriter, opcode.ASSERT)
	return b
}

// Syscall emits SYSCALL for the given interop name.
func (b *Builder) Syscall(api string) *Builder {
	emit.Syscall(b.bw.BinWriter, api)
	return b
}

// Opcodes emits raw opcodes without parameters.
func (b *Builder) Opcodes(ops ...opcode.Opcode) *Builder {
	emit.Opcodes(b.bw.BinWriter, ops...)
	return b
}

// Len returns the number of bytes emitted so far.
func (b *Builder) Len() int {
	return b.bw.Len()
}

// Script return current script, you can't use Builder after invoking this method
// unless you Reset it.
func (b *Builder) Script() ([]byte, error) {
	err := b.bw.Err
	if err != nil {
		return nil, err
	}
	return b.bw.Bytes(), nil
}

// Reset resets the Builder, allowing to reuse the same script buffer (but
// previous script will be overwritten there).
func (b *Builder) Reset() {
	b.bw.Reset()
}
