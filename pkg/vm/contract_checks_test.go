package vm

import (
	"encoding/binary"
	"testing"

	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/io"
	"github.com/nspcc-dev/neo-txauth/pkg/vm/emit"
	"github.com/nspcc-dev/neo-txauth/pkg/vm/opcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSignatureContract() []byte {
	prog := make([]byte, 40)
	prog[0] = byte(opcode.PUSHDATA1)
	prog[1] = 33
	prog[35] = byte(opcode.SYSCALL)
	binary.LittleEndian.PutUint32(prog[36:], verifyInteropID)
	return prog
}

func TestIsSignatureContract(t *testing.T) {
	t.Run("valid contract", func(t *testing.T) {
		prog := testSignatureContract()
		assert.True(t, IsSignatureContract(prog))
		assert.True(t, IsStandardContract(prog))
		pub, ok := ParseSignatureContract(prog)
		require.True(t, ok)
		require.Equal(t, prog[2:35], pub)
	})

	t.Run("key script", func(t *testing.T) {
		priv, err := keys.NewPrivateKey()
		require.NoError(t, err)
		pub, ok := ParseSignatureContract(priv.PublicKey().GetVerificationScript())
		require.True(t, ok)
		require.Equal(t, priv.PublicKey().Bytes(), pub)
	})

	t.Run("invalid interop ID", func(t *testing.T) {
		prog := testSignatureContract()
		binary.LittleEndian.PutUint32(prog[36:], ^verifyInteropID)
		assert.False(t, IsSignatureContract(prog))
		assert.False(t, IsStandardContract(prog))
	})

	t.Run("invalid pubkey size", func(t *testing.T) {
		prog := testSignatureContract()
		prog[1] = 32
		assert.False(t, IsSignatureContract(prog))
		assert.False(t, IsStandardContract(prog))
	})

	t.Run("invalid length", func(t *testing.T) {
		prog := testSignatureContract()
		prog = append(prog, 0)
		assert.False(t, IsSignatureContract(prog))
		assert.False(t, IsStandardContract(prog))
	})
}

func testMultisigContract(t *testing.T, n, m int) ([]byte, keys.PublicKeys) {
	pubs := make(keys.PublicKeys, n)
	for i := 0; i < n; i++ {
		priv, err := keys.NewPrivateKey()
		require.NoError(t, err)
		pubs[i] = priv.PublicKey()
	}

	buf := io.NewBufBinWriter()
	emit.Int(buf.BinWriter, int64(m))
	for _, pub := range pubs {
		emit.Bytes(buf.BinWriter, pub.Bytes())
	}
	emit.Int(buf.BinWriter, int64(n))
	emit.Syscall(buf.BinWriter, "System.Crypto.CheckMultisig")
	require.NoError(t, buf.Err)
	return buf.Bytes(), pubs
}

func TestIsMultiSigContract(t *testing.T) {
	t.Run("valid contract", func(t *testing.T) {
		prog, pubs := testMultisigContract(t, 3, 2)
		assert.True(t, IsMultiSigContract(prog))
		assert.True(t, IsStandardContract(prog))
		assert.False(t, IsSignatureContract(prog))

		m, parsed, ok := ParseMultiSigContract(prog)
		require.True(t, ok)
		require.Equal(t, 2, m)
		require.Len(t, parsed, 3)
		for i := range pubs {
			require.Equal(t, pubs[i].Bytes(), parsed[i])
		}
	})

	t.Run("cached", func(t *testing.T) {
		prog, _ := testMultisigContract(t, 2, 1)
		_, first, ok := ParseMultiSigContract(prog)
		require.True(t, ok)
		first[0] = nil
		_, second, ok := ParseMultiSigContract(prog)
		require.True(t, ok)
		require.NotNil(t, second[0])
	})

	t.Run("0-length", func(t *testing.T) {
		assert.False(t, IsMultiSigContract([]byte{}))
	})

	t.Run("invalid param", func(t *testing.T) {
		prog := []byte{byte(opcode.PUSHDATA1), 10}
		assert.False(t, IsMultiSigContract(prog))
	})

	t.Run("too many keys", func(t *testing.T) {
		prog, _ := testMultisigContract(t, 2, 3)
		assert.False(t, IsMultiSigContract(prog))
	})

	t.Run("key count mismatch", func(t *testing.T) {
		prog, _ := testMultisigContract(t, 2, 2)
		prog[len(prog)-6] = byte(opcode.PUSH3)
		assert.False(t, IsMultiSigContract(prog))
	})

	t.Run("invalid interop ID", func(t *testing.T) {
		prog, _ := testMultisigContract(t, 2, 2)
		prog[len(prog)-1] ^= 0xff
		assert.False(t, IsMultiSigContract(prog))
	})

	t.Run("trailing byte", func(t *testing.T) {
		prog, _ := testMultisigContract(t, 2, 2)
		prog = append(prog, byte(opcode.RET))
		assert.False(t, IsMultiSigContract(prog))
	})

	t.Run("truncated", func(t *testing.T) {
		prog, _ := testMultisigContract(t, 3, 2)
		for i := 0; i < len(prog); i++ {
			assert.False(t, IsMultiSigContract(prog[:i]))
		}
	})
}

func TestParseSignatures(t *testing.T) {
	sig1 := make([]byte, SignatureLen)
	sig2 := make([]byte, SignatureLen)
	sig2[0] = 1

	buf := io.NewBufBinWriter()
	emit.Bytes(buf.BinWriter, sig1)
	emit.Bytes(buf.BinWriter, sig2)
	sigs, ok := ParseSignatures(buf.Bytes())
	require.True(t, ok)
	require.Equal(t, [][]byte{sig1, sig2}, sigs)

	_, ok = ParseSignatures(nil)
	require.False(t, ok)

	_, ok = ParseSignatures([]byte{byte(opcode.PUSHDATA1), 2, 1, 2})
	require.False(t, ok)

	_, ok = ParseSignatures([]byte{byte(opcode.PUSH1)})
	require.False(t, ok)
}
