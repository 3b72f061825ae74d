package transaction

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/nspcc-dev/neo-txauth/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-txauth/pkg/io"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
)

const (
	// MaxScriptLength is the limit for transaction's script length.
	MaxScriptLength = math.MaxUint16
	// MaxTransactionSize is the upper limit size in bytes that a transaction can reach. It is
	// set to be 102400.
	MaxTransactionSize = 102400
	// DummyVersion represents reserved transaction version for trimmed transactions.
	DummyVersion = 255
)

// ErrInvalidWitnessNum is returned when the number of witnesses does not match signers.
var ErrInvalidWitnessNum = errors.New("number of signers doesn't match witnesses")

// Transaction is a process recorded in the Neo blockchain.
type Transaction struct {
	// Incremented every time the structure is changed.
	Version uint8

	// Random number to avoid hash collision.
	Nonce uint32

	// Fee to be burned.
	SystemFee int64

	// Fee to be distributed to consensus nodes.
	NetworkFee int64

	// Maximum blockchain height exceeding which
	// transaction should fail verification.
	ValidUntilBlock uint32

	// Code to run in NeoVM for this transaction.
	Script []byte

	// Transaction attributes.
	Attributes []Attribute

	// Transaction signers list (starts with Sender).
	Signers []Signer

	// The scripts that comes with this transaction.
	// Scripts exist out of the verification script
	// and invocation script.
	Scripts []Witness
}

// NewTransactionFromBytes decodes byte array into *Transaction. An unsigned
// transaction (no witnesses at all) is accepted as well as a complete one.
func NewTransactionFromBytes(b []byte) (*Transaction, error) {
	tx := &Transaction{}
	r := io.NewBinReaderFromBuf(b)
	tx.DecodeBinary(r)
	if r.Err != nil {
		return nil, wrapCodec(r.Err)
	}
	if r.Len() != 0 {
		return nil, NewCodecError(io.ErrTrailingData)
	}
	return tx, nil
}

// New returns a new transaction to execute given script and pay given system
// fee.
func New(script []byte, gas int64) *Transaction {
	return &Transaction{
		Version:    0,
		Nonce:      0,
		SystemFee:  gas,
		Script:     script,
		Attributes: []Attribute{},
		Signers:    []Signer{},
		Scripts:    []Witness{},
	}
}

// Hash returns the hash of the transaction: SHA-256 of its unsigned part.
func (t *Transaction) Hash() util.Uint256 {
	buf := io.NewBufBinWriter()
	t.encodeHashableFields(buf.BinWriter)
	return hash.Sha256(buf.Bytes())
}

// GetSignedData returns the data signed by the transaction witnesses on the
// given network.
func (t *Transaction) GetSignedData(net uint32) []byte {
	return hash.GetSignedData(net, t)
}

// Sender returns the sender of the transaction which is always on the first
// place in the transaction's signers list.
func (t *Transaction) Sender() util.Uint160 {
	if len(t.Signers) == 0 {
		panic("transaction has no signers")
	}
	return t.Signers[0].Account
}

// HasSigner returns true in case if hash is present in the list of signers.
func (t *Transaction) HasSigner(hash util.Uint160) bool {
	return t.SignerIndex(hash) >= 0
}

// SignerIndex returns the position of the signer with the given account hash
// or -1 if there is no such signer.
func (t *Transaction) SignerIndex(h util.Uint160) int {
	for i := range t.Signers {
		if t.Signers[i].Account.Equals(h) {
			return i
		}
	}
	return -1
}

// HasAttribute returns true iff t has an attribute of type typ.
func (t *Transaction) HasAttribute(typ AttrType) bool {
	for i := range t.Attributes {
		if t.Attributes[i].Type == typ {
			return true
		}
	}
	return false
}

// GetAttributes returns the list of transaction's attributes of the given type.
// Returns nil in case if attributes not found.
func (t *Transaction) GetAttributes(typ AttrType) []Attribute {
	var result []Attribute
	for _, attr := range t.Attributes {
		if attr.Type == typ {
			result = append(result, attr)
		}
	}
	return result
}

// decodeHashableFields decodes the fields that are used for signing the
// transaction, which are all fields except the scripts.
func (t *Transaction) decodeHashableFields(br *io.BinReader) {
	t.Version = br.ReadB()
	t.Nonce = br.ReadU32LE()
	t.SystemFee = int64(br.ReadU64LE())
	t.NetworkFee = int64(br.ReadU64LE())
	t.ValidUntilBlock = br.ReadU32LE()
	if br.Err != nil {
		return
	}
	nsigners := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	if nsigners > MaxAttributes {
		br.Err = NewError(TooManySigners, fmt.Sprintf("%d signers", nsigners))
		return
	} else if nsigners == 0 {
		br.Err = NewError(NoSigners, "transaction has no signers")
		return
	}
	t.Signers = make([]Signer, nsigners)
	for i := 0; i < int(nsigners); i++ {
		t.Signers[i].DecodeBinary(br)
	}
	if br.Err != nil {
		return
	}
	if err := checkUniqueSigners(t.Signers); err != nil {
		br.Err = err
		return
	}
	nattrs := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	if nattrs > MaxAttributes-nsigners {
		br.Err = NewError(InvalidTransaction, fmt.Sprintf("too many attributes: %d", nattrs))
		return
	}
	t.Attributes = make([]Attribute, nattrs)
	for i := 0; i < int(nattrs); i++ {
		t.Attributes[i].DecodeBinary(br)
	}
	if br.Err != nil {
		return
	}
	if err := checkAttributes(t.Attributes); err != nil {
		br.Err = err
		return
	}
	t.Script = br.ReadVarBytes(MaxScriptLength)
	if br.Err == nil && len(t.Script) == 0 {
		br.Err = NewError(EmptyScript, "")
	}
}

func (t *Transaction) decodeBinaryNoSize(br *io.BinReader) {
	t.decodeHashableFields(br)
	if br.Err != nil {
		return
	}
	br.ReadArray(&t.Scripts, len(t.Signers))
	if br.Err != nil {
		return
	}
	if len(t.Scripts) != 0 && len(t.Scripts) != len(t.Signers) {
		br.Err = fmt.Errorf("%w: %d vs %d", ErrInvalidWitnessNum, len(t.Signers), len(t.Scripts))
	}
}

// DecodeBinary implements the Serializable interface.
func (t *Transaction) DecodeBinary(br *io.BinReader) {
	t.decodeBinaryNoSize(br)
	if br.Err == nil && t.Size() > MaxTransactionSize {
		br.Err = NewError(TxTooLarge, fmt.Sprintf("%d bytes", t.Size()))
	}
}

// EncodeBinary implements the Serializable interface.
func (t *Transaction) EncodeBinary(bw *io.BinWriter) {
	t.encodeHashableFields(bw)
	bw.WriteVarUint(uint64(len(t.Scripts)))
	for i := range t.Scripts {
		t.Scripts[i].EncodeBinary(bw)
	}
}

// encodeHashableFields encodes the fields that are not used for
// signing the transaction, which are all fields except the scripts.
func (t *Transaction) encodeHashableFields(bw *io.BinWriter) {
	bw.WriteB(t.Version)
	bw.WriteU32LE(t.Nonce)
	bw.WriteU64LE(uint64(t.SystemFee))
	bw.WriteU64LE(uint64(t.NetworkFee))
	bw.WriteU32LE(t.ValidUntilBlock)
	bw.WriteVarUint(uint64(len(t.Signers)))
	for i := range t.Signers {
		t.Signers[i].EncodeBinary(bw)
	}
	bw.WriteVarUint(uint64(len(t.Attributes)))
	for i := range t.Attributes {
		t.Attributes[i].EncodeBinary(bw)
	}
	bw.WriteVarBytes(t.Script)
}

// EncodeHashableFields returns serialized transaction's fields which are hashed.
func (t *Transaction) EncodeHashableFields() ([]byte, error) {
	bw := io.NewBufBinWriter()
	t.encodeHashableFields(bw.BinWriter)
	if bw.Err != nil {
		return nil, wrapCodec(bw.Err)
	}
	return bw.Bytes(), nil
}

// DecodeHashableFields decodes a part of transaction which should be hashed.
func (t *Transaction) DecodeHashableFields(buf []byte) error {
	r := io.NewBinReaderFromBuf(buf)
	t.decodeHashableFields(r)
	if r.Err != nil {
		return wrapCodec(r.Err)
	}
	// Ensure all the data was read.
	if r.Len() != 0 {
		return NewCodecError(io.ErrTrailingData)
	}
	t.Scripts = make([]Witness, 0)
	return nil
}

// Bytes converts the transaction to []byte.
func (t *Transaction) Bytes() []byte {
	buf := io.NewBufBinWriter()
	t.EncodeBinary(buf.BinWriter)
	if buf.Err != nil {
		return nil
	}
	return buf.Bytes()
}

// Size returns size of the serialized transaction.
func (t *Transaction) Size() int {
	size := 1 + 4 + 8 + 8 + 4 // version, nonce, fees, valid until block
	size += io.GetVarSize(len(t.Signers))
	for i := range t.Signers {
		size += t.Signers[i].Size()
	}
	size += io.GetVarSize(len(t.Attributes))
	for i := range t.Attributes {
		size += t.Attributes[i].Size()
	}
	size += io.GetVarBytesSize(t.Script)
	size += io.GetVarSize(len(t.Scripts))
	for i := range t.Scripts {
		size += t.Scripts[i].Size()
	}
	return size
}

// Copy creates a deep copy of the Transaction, including witnesses.
func (t *Transaction) Copy() *Transaction {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Script = bytes.Clone(t.Script)
	if t.Attributes != nil {
		cp.Attributes = make([]Attribute, len(t.Attributes))
		copy(cp.Attributes, t.Attributes)
	}
	if t.Signers != nil {
		cp.Signers = make([]Signer, len(t.Signers))
		for i := range t.Signers {
			cp.Signers[i] = *t.Signers[i].Copy()
		}
	}
	if t.Scripts != nil {
		cp.Scripts = make([]Witness, len(t.Scripts))
		for i := range t.Scripts {
			cp.Scripts[i] = t.Scripts[i].Copy()
		}
	}
	return &cp
}

// ValidateBody checks the unsigned part of the transaction: signers,
// attributes, script and size limits.
func (t *Transaction) ValidateBody() error {
	if len(t.Signers) == 0 {
		return NewError(NoSigners, "transaction has no signers")
	}
	if len(t.Signers) > MaxAttributes {
		return NewError(TooManySigners, fmt.Sprintf("%d signers", len(t.Signers)))
	}
	if len(t.Signers)+len(t.Attributes) > MaxAttributes {
		return NewError(InvalidTransaction, fmt.Sprintf("too many attributes: %d", len(t.Attributes)))
	}
	if err := checkUniqueSigners(t.Signers); err != nil {
		return err
	}
	for i := range t.Signers {
		if err := t.Signers[i].Validate(); err != nil {
			return err
		}
	}
	if err := checkAttributes(t.Attributes); err != nil {
		return err
	}
	if t.Script == nil {
		return NewError(NoScript, "")
	}
	if len(t.Script) == 0 {
		return NewError(EmptyScript, "")
	}
	if len(t.Script) > MaxScriptLength {
		return NewError(InvalidTransaction, fmt.Sprintf("script is too long: %d", len(t.Script)))
	}
	if t.SystemFee < 0 || t.NetworkFee < 0 {
		return NewError(InvalidTransaction, "negative fee")
	}
	if size := t.Size(); size > MaxTransactionSize {
		return NewError(TxTooLarge, fmt.Sprintf("%d bytes", size))
	}
	return nil
}

// Validate checks the complete transaction: its body and the presence of a
// witness for every signer.
func (t *Transaction) Validate() error {
	if err := t.ValidateBody(); err != nil {
		return err
	}
	if len(t.Scripts) != len(t.Signers) {
		return &Error{Kind: TransactionConfiguration,
			Detail: fmt.Sprintf("%d signers and %d witnesses", len(t.Signers), len(t.Scripts)),
			Cause:  ErrInvalidWitnessNum}
	}
	return nil
}

func checkUniqueSigners(signers []Signer) error {
	for i := 1; i < len(signers); i++ {
		for j := 0; j < i; j++ {
			if signers[i].Account.Equals(signers[j].Account) {
				return NewError(DuplicateSigner, signers[i].Account.StringLE())
			}
		}
	}
	return nil
}

func checkAttributes(attrs []Attribute) error {
	seen := make(map[AttrType]bool, len(attrs))
	for i := range attrs {
		t := attrs[i].Type
		if seen[t] && !t.allowMultiple() {
			return NewError(InvalidTransaction, fmt.Sprintf("multiple %s attributes", t))
		}
		seen[t] = true
	}
	return nil
}

// wrapCodec converts a low-level decoding error into a codec error keeping
// transaction errors as is.
func wrapCodec(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return NewCodecError(err)
}
