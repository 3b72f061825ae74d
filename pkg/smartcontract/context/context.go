package context

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/nspcc-dev/neo-txauth/pkg/config/netmode"
	"github.com/nspcc-dev/neo-txauth/pkg/core/transaction"
	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/encoding/address"
	"github.com/nspcc-dev/neo-txauth/pkg/smartcontract"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
	"github.com/nspcc-dev/neo-txauth/pkg/vm"
	"github.com/nspcc-dev/neo-txauth/pkg/wallet"
)

// TransactionType is the type of the verifiable item stored in the context.
// It doesn't depend on the network.
const TransactionType = "Neo.Network.P2P.Payloads.Transaction"

// State is the signing state of a single context item.
type State byte

// Item states.
const (
	AwaitingSignatures State = iota
	Complete
)

// String implements the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case AwaitingSignatures:
		return "AwaitingSignatures"
	case Complete:
		return "Complete"
	}
	return fmt.Sprintf("State(%d)", byte(s))
}

// ParameterContext represents smartcontract parameter's context.
type ParameterContext struct {
	// Type is a type of a verifiable item.
	Type string
	// Network is a network this context belongs to.
	Network netmode.Magic
	// Verifiable is the transaction being signed.
	Verifiable *transaction.Transaction
	// Items is a map from script hashes to context items.
	Items map[util.Uint160]*Item
}

type paramContext struct {
	Type  string                     `json:"type"`
	Hash  util.Uint256               `json:"hash"`
	Data  []byte                     `json:"data"`
	Items map[string]json.RawMessage `json:"items"`
	Net   uint32                     `json:"network"`
}

type sigWithIndex struct {
	index int
	sig   []byte
}

// NewParameterContext returns ParameterContext for the transaction on the
// given network.
func NewParameterContext(network netmode.Magic, tx *transaction.Transaction) *ParameterContext {
	return &ParameterContext{
		Type:       TransactionType,
		Network:    network,
		Verifiable: tx,
		Items:      make(map[util.Uint160]*Item),
	}
}

// AddSignature adds a signature for the specified contract and public key.
// The contract must be a standard signature or multisignature one and the
// key must be a part of it. A signature made with the same key replaces the
// previous one.
func (c *ParameterContext) AddSignature(h util.Uint160, ctr *wallet.Contract, pub *keys.PublicKey, sig []byte) error {
	if err := c.checkSigner(h, ctr); err != nil {
		return err
	}
	if ctr.Deployed {
		return transaction.NewError(transaction.SignerConfiguration,
			"deployed contract is verified by parameters, not signatures")
	}
	pubBytes := pub.Bytes()
	if m, pubs, ok := vm.ParseMultiSigContract(ctr.Script); ok {
		var contained bool
		for i := range pubs {
			if bytes.Equal(pubBytes, pubs[i]) {
				contained = true
				break
			}
		}
		if !contained {
			return transaction.NewError(transaction.SignerConfiguration, "public key is not present in script")
		}
		item := c.getItem(h, ctr.Script, signatureParams(m))
		item.AddSignature(pub, sig)
		fillMultisig(item, m, pubs)
		return nil
	}
	if key, ok := vm.ParseSignatureContract(ctr.Script); ok {
		if !bytes.Equal(key, pubBytes) {
			return transaction.NewError(transaction.SignerConfiguration, "public key is not present in script")
		}
		item := c.getItem(h, ctr.Script, signatureParams(1))
		item.Parameters[0].Value = sig
		return nil
	}
	return transaction.NewError(transaction.ScriptFormat, "not a standard verification script")
}

// AddContractParameters sets verification parameters for the contract-based
// signer h. Parameters must match the ones declared by the contract, nil
// values are allowed and leave the item incomplete.
func (c *ParameterContext) AddContractParameters(h util.Uint160, ctr *wallet.Contract, params []smartcontract.Parameter) error {
	if err := c.checkSigner(h, ctr); err != nil {
		return err
	}
	if len(params) != len(ctr.Parameters) {
		return transaction.NewError(transaction.SignerConfiguration,
			fmt.Sprintf("contract expects %d parameters, got %d", len(ctr.Parameters), len(params)))
	}
	for i := range params {
		if params[i].Type != ctr.Parameters[i].Type {
			return transaction.NewError(transaction.SignerConfiguration,
				fmt.Sprintf("parameter %d: expected %s, got %s", i, ctr.Parameters[i].Type, params[i].Type))
		}
	}
	script := ctr.Script
	if ctr.Deployed {
		script = nil
	}
	item := c.getItem(h, script, make([]smartcontract.Parameter, len(params)))
	for i := range params {
		item.Parameters[i] = params[i].Copy()
	}
	return nil
}

func (c *ParameterContext) checkSigner(h util.Uint160, ctr *wallet.Contract) error {
	if ctr == nil {
		return transaction.NewError(transaction.SignerConfiguration, "no contract")
	}
	if !c.Verifiable.HasSigner(h) {
		return transaction.NewError(transaction.SignerConfiguration,
			fmt.Sprintf("%s is not a signer of the transaction", address.Uint160ToString(h)))
	}
	if !ctr.Deployed && !ctr.ScriptHash().Equals(h) {
		return transaction.NewError(transaction.SignerConfiguration,
			fmt.Sprintf("contract script doesn't match %s", address.Uint160ToString(h)))
	}
	return nil
}

// getItem returns the item for h creating it with the given script and
// parameters if there is none.
func (c *ParameterContext) getItem(h util.Uint160, script []byte, params []smartcontract.Parameter) *Item {
	item, ok := c.Items[h]
	if ok && len(item.Parameters) == len(params) {
		return item
	}
	if !ok {
		item = &Item{Signatures: make(map[string][]byte)}
		c.Items[h] = item
	}
	item.Script = script
	item.Parameters = params
	return item
}

func signatureParams(n int) []smartcontract.Parameter {
	params := make([]smartcontract.Parameter, n)
	for i := range params {
		params[i].Type = smartcontract.SignatureType
	}
	return params
}

// fillMultisig puts m signatures into item parameters ordered by the key
// position in the script. Parameters stay empty until there are enough
// signatures.
func fillMultisig(item *Item, m int, pubs [][]byte) {
	if len(item.Signatures) < m {
		return
	}
	indexMap := make(map[string]int, len(pubs))
	for i := range pubs {
		indexMap[hex.EncodeToString(pubs[i])] = i
	}
	sigs := make([]sigWithIndex, 0, len(item.Signatures))
	for pub, sig := range item.Signatures {
		index, ok := indexMap[pub]
		if !ok {
			continue
		}
		sigs = append(sigs, sigWithIndex{index: index, sig: sig})
	}
	if len(sigs) < m {
		return
	}
	sort.Slice(sigs, func(i, j int) bool {
		return sigs[i].index < sigs[j].index
	})
	item.Parameters = make([]smartcontract.Parameter, m)
	for i := 0; i < m; i++ {
		item.Parameters[i] = smartcontract.NewSignatureParameter(sigs[i].sig)
	}
}

// ItemState returns the signing state of the signer h.
func (c *ParameterContext) ItemState(h util.Uint160) State {
	if c.IsComplete(h) {
		return Complete
	}
	return AwaitingSignatures
}

// IsComplete returns true when the witness for the signer h can be built.
func (c *ParameterContext) IsComplete(h util.Uint160) bool {
	item, ok := c.Items[h]
	return ok && item.IsComplete()
}

// IsReady returns true when witnesses for all transaction signers can be
// built.
func (c *ParameterContext) IsReady() bool {
	return len(c.Outstanding()) == 0
}

// Outstanding returns the signers which are not complete yet in the order
// of transaction signers.
func (c *ParameterContext) Outstanding() []util.Uint160 {
	var res []util.Uint160
	for i := range c.Verifiable.Signers {
		h := c.Verifiable.Signers[i].Account
		if !c.IsComplete(h) {
			res = append(res, h)
		}
	}
	return res
}

// GetWitness returns invocation and verification scripts for the specified contract.
func (c *ParameterContext) GetWitness(h util.Uint160) (*transaction.Witness, error) {
	item, ok := c.Items[h]
	if !ok {
		return nil, transaction.NewError(transaction.IllegalState,
			fmt.Sprintf("no item for %s", address.Uint160ToString(h)))
	}
	if !item.IsComplete() {
		return nil, transaction.NewError(transaction.IllegalState,
			fmt.Sprintf("%s is awaiting signatures", address.Uint160ToString(h)))
	}
	w, err := transaction.CreateContractWitness(item.Parameters)
	if err != nil {
		return nil, err
	}
	w.VerificationScript = item.Script
	if w.VerificationScript == nil {
		w.VerificationScript = []byte{}
	}
	return w, nil
}

// GetCompleteTransaction returns a copy of the transaction with witnesses of
// all signers attached in the signer order.
func (c *ParameterContext) GetCompleteTransaction() (*transaction.Transaction, error) {
	if missing := c.Outstanding(); len(missing) != 0 {
		addrs := make([]string, len(missing))
		for i := range missing {
			addrs[i] = address.Uint160ToString(missing[i])
		}
		return nil, transaction.NewError(transaction.IllegalState,
			"missing witnesses for "+strings.Join(addrs, ", "))
	}
	tx := c.Verifiable.Copy()
	tx.Scripts = make([]transaction.Witness, len(tx.Signers))
	for i := range tx.Signers {
		w, err := c.GetWitness(tx.Signers[i].Account)
		if err != nil {
			return nil, err
		}
		tx.Scripts[i] = *w
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}

// Merge applies items of other to c. Both contexts must sign the same
// transaction on the same network. Values present in other replace the ones
// in c for the same signer, parameter or public key.
func (c *ParameterContext) Merge(other *ParameterContext) error {
	if other == nil {
		return transaction.NewError(transaction.IllegalState, "nil context")
	}
	if c.Network != other.Network {
		return transaction.NewError(transaction.IllegalState,
			fmt.Sprintf("network mismatch: %d vs %d", c.Network, other.Network))
	}
	if h1, h2 := c.Verifiable.Hash(), other.Verifiable.Hash(); !h1.Equals(h2) {
		return transaction.NewError(transaction.IllegalState,
			fmt.Sprintf("transaction mismatch: %s vs %s", h1.StringLE(), h2.StringLE()))
	}
	for h, oitem := range other.Items {
		item, ok := c.Items[h]
		if !ok {
			c.Items[h] = oitem.Copy()
			continue
		}
		if oitem.Script != nil {
			item.Script = append([]byte{}, oitem.Script...)
		}
		if item.Signatures == nil {
			item.Signatures = make(map[string][]byte, len(oitem.Signatures))
		}
		for pub, sig := range oitem.Signatures {
			item.Signatures[pub] = append([]byte{}, sig...)
		}
		if m, pubs, ok := vm.ParseMultiSigContract(item.Script); ok {
			fillMultisig(item, m, pubs)
			continue
		}
		if len(item.Parameters) != len(oitem.Parameters) {
			item.Parameters = oitem.Copy().Parameters
			continue
		}
		for i := range oitem.Parameters {
			if oitem.Parameters[i].Value != nil {
				item.Parameters[i] = oitem.Parameters[i].Copy()
			}
		}
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (c ParameterContext) MarshalJSON() ([]byte, error) {
	verif, err := c.Verifiable.EncodeHashableFields()
	if err != nil {
		return nil, fmt.Errorf("failed to encode hashable fields: %w", err)
	}
	items := make(map[string]json.RawMessage, len(c.Items))
	for u := range c.Items {
		data, err := json.Marshal(c.Items[u])
		if err != nil {
			return nil, err
		}
		items["0x"+u.StringLE()] = data
	}
	pc := &paramContext{
		Type:  c.Type,
		Hash:  c.Verifiable.Hash(),
		Data:  verif,
		Items: items,
		Net:   uint32(c.Network),
	}
	return json.Marshal(pc)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *ParameterContext) UnmarshalJSON(data []byte) error {
	pc := new(paramContext)
	if err := json.Unmarshal(data, pc); err != nil {
		return transaction.NewCodecError(err)
	}
	if pc.Type != TransactionType {
		return transaction.NewCodecError(fmt.Errorf("unsupported type: %s", pc.Type))
	}
	tx := new(transaction.Transaction)
	if err := tx.DecodeHashableFields(pc.Data); err != nil {
		return err
	}
	if h := tx.Hash(); !h.Equals(pc.Hash) {
		return transaction.NewCodecError(fmt.Errorf("hash mismatch: %s in context, %s computed",
			pc.Hash.StringLE(), h.StringLE()))
	}
	items := make(map[util.Uint160]*Item, len(pc.Items))
	for h := range pc.Items {
		u, err := util.Uint160DecodeStringLE(strings.TrimPrefix(h, "0x"))
		if err != nil {
			return transaction.NewCodecError(err)
		}
		item := new(Item)
		if err := json.Unmarshal(pc.Items[h], item); err != nil {
			return transaction.NewCodecError(err)
		}
		if item.Signatures == nil {
			item.Signatures = make(map[string][]byte)
		}
		items[u] = item
	}
	c.Type = pc.Type
	c.Network = netmode.Magic(pc.Net)
	c.Verifiable = tx
	c.Items = items
	return nil
}
