package transaction

import (
	"fmt"

	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-txauth/pkg/io"
	"github.com/nspcc-dev/neo-txauth/pkg/smartcontract"
	"github.com/nspcc-dev/neo-txauth/pkg/util"
)

// Signer implements a Transaction signer.
type Signer struct {
	Account          util.Uint160      `json:"account"`
	Scopes           WitnessScope      `json:"scopes"`
	AllowedContracts []util.Uint160    `json:"allowedcontracts,omitempty"`
	AllowedGroups    []*keys.PublicKey `json:"allowedgroups,omitempty"`
	Rules            []WitnessRule     `json:"rules,omitempty"`
}

// NewSigner creates a signer for the given account hash with the given scopes
// and no allow-lists.
func NewSigner(account util.Uint160, scopes WitnessScope) *Signer {
	return &Signer{Account: account, Scopes: scopes}
}

// EncodeBinary implements the Serializable interface.
func (c *Signer) EncodeBinary(bw *io.BinWriter) {
	bw.WriteBytes(c.Account[:])
	bw.WriteB(byte(c.Scopes))
	if c.Scopes&CustomContracts != 0 {
		io.WriteArray(bw, c.AllowedContracts)
	}
	if c.Scopes&CustomGroups != 0 {
		io.WriteArray(bw, c.AllowedGroups)
	}
	if c.Scopes&Rules != 0 {
		bw.WriteVarUint(uint64(len(c.Rules)))
		for i := range c.Rules {
			c.Rules[i].EncodeBinary(bw)
		}
	}
}

// DecodeBinary implements the Serializable interface.
func (c *Signer) DecodeBinary(br *io.BinReader) {
	br.ReadBytes(c.Account[:])
	if br.Err != nil {
		return
	}
	scopes, err := ScopesFromByte(br.ReadB())
	if br.Err != nil {
		return
	}
	if err != nil {
		br.Err = err
		return
	}
	c.Scopes = scopes
	if c.Scopes&CustomContracts != 0 {
		br.ReadArray(&c.AllowedContracts, MaxSubitems)
	}
	if c.Scopes&CustomGroups != 0 {
		br.ReadArray(&c.AllowedGroups, MaxSubitems)
	}
	if c.Scopes&Rules != 0 {
		br.ReadArray(&c.Rules, MaxSubitems)
	}
}

// Size returns the length of the binary representation.
func (c *Signer) Size() int {
	size := util.Uint160Size + 1
	if c.Scopes&CustomContracts != 0 {
		size += io.GetFixedArraySize(len(c.AllowedContracts), util.Uint160Size)
	}
	if c.Scopes&CustomGroups != 0 {
		size += io.GetFixedArraySize(len(c.AllowedGroups), keys.PublicKeyLen)
	}
	if c.Scopes&Rules != 0 {
		size += io.GetVarSize(len(c.Rules))
		for i := range c.Rules {
			size += c.Rules[i].Size()
		}
	}
	return size
}

// AddAllowedContracts appends contracts to the allow-list and sets the
// CustomContracts scope.
func (c *Signer) AddAllowedContracts(contracts ...util.Uint160) error {
	if c.Scopes&Global != 0 {
		return NewError(SignerConfiguration, "cannot set contracts for global scope")
	}
	if len(c.AllowedContracts)+len(contracts) > MaxSubitems {
		return NewError(SignerConfiguration, "too many allowed contracts")
	}
	c.Scopes |= CustomContracts
	c.AllowedContracts = append(c.AllowedContracts, contracts...)
	return nil
}

// AddAllowedGroups appends groups to the allow-list and sets the CustomGroups
// scope.
func (c *Signer) AddAllowedGroups(groups ...*keys.PublicKey) error {
	if c.Scopes&Global != 0 {
		return NewError(SignerConfiguration, "cannot set groups for global scope")
	}
	if len(c.AllowedGroups)+len(groups) > MaxSubitems {
		return NewError(SignerConfiguration, "too many allowed groups")
	}
	c.Scopes |= CustomGroups
	c.AllowedGroups = append(c.AllowedGroups, groups...)
	return nil
}

// AddRules appends witness rules and sets the Rules scope. Conditions are
// checked for nesting depth and list sizes.
func (c *Signer) AddRules(rules ...WitnessRule) error {
	if len(rules) == 0 {
		return nil
	}
	if c.Scopes&Global != 0 {
		return NewError(SignerConfiguration, "cannot set rules for global scope")
	}
	if len(c.Rules)+len(rules) > MaxSubitems {
		return NewError(SignerConfiguration, "too many rules")
	}
	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return err
		}
	}
	c.Scopes |= Rules
	c.Rules = append(c.Rules, rules...)
	return nil
}

// Validate checks scope combination, allow-list sizes and rule conditions.
// Every list must be non-empty exactly when its scope is set, otherwise the
// signer can't survive encoding.
func (c *Signer) Validate() error {
	if _, err := ScopesFromByte(byte(c.Scopes)); err != nil {
		return err
	}
	switch {
	case len(c.AllowedContracts) > MaxSubitems:
		return NewError(SignerConfiguration, fmt.Sprintf("too many allowed contracts: %d", len(c.AllowedContracts)))
	case len(c.AllowedGroups) > MaxSubitems:
		return NewError(SignerConfiguration, fmt.Sprintf("too many allowed groups: %d", len(c.AllowedGroups)))
	case len(c.Rules) > MaxSubitems:
		return NewError(SignerConfiguration, fmt.Sprintf("too many rules: %d", len(c.Rules)))
	}
	if err := checkList(c.Scopes, CustomContracts, len(c.AllowedContracts)); err != nil {
		return err
	}
	if err := checkList(c.Scopes, CustomGroups, len(c.AllowedGroups)); err != nil {
		return err
	}
	if err := checkList(c.Scopes, Rules, len(c.Rules)); err != nil {
		return err
	}
	for i := range c.Rules {
		if err := c.Rules[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// checkList matches a list length against the scope bit owning the list.
func checkList(scopes, scope WitnessScope, n int) error {
	switch {
	case scopes&scope == 0 && n != 0:
		return NewError(SignerConfiguration, fmt.Sprintf("%s list given without %s scope", scope, scope))
	case scopes&scope != 0 && n == 0:
		return NewError(SignerConfiguration, fmt.Sprintf("%s scope requires a non-empty list", scope))
	}
	return nil
}

// Copy creates a deep copy of the Signer.
func (c *Signer) Copy() *Signer {
	if c == nil {
		return nil
	}
	cp := *c
	cp.AllowedContracts = append([]util.Uint160(nil), c.AllowedContracts...)
	if c.AllowedGroups != nil {
		cp.AllowedGroups = make([]*keys.PublicKey, len(c.AllowedGroups))
		copy(cp.AllowedGroups, c.AllowedGroups)
	}
	cp.Rules = append([]WitnessRule(nil), c.Rules...)
	return &cp
}

// ContractSigner is a signer for a deployed contract account. Its witness has
// an empty verification script and the invocation script pushes the
// parameters of the contract's verify method.
type ContractSigner struct {
	Signer
	VerifyParams []smartcontract.Parameter
}

// NewContractSigner creates a CalledByEntry contract signer.
func NewContractSigner(contract util.Uint160, params ...smartcontract.Parameter) *ContractSigner {
	return &ContractSigner{
		Signer:       Signer{Account: contract, Scopes: CalledByEntry},
		VerifyParams: params,
	}
}

// Witness returns the witness for this contract signer.
func (c *ContractSigner) Witness() (*Witness, error) {
	return CreateContractWitness(c.VerifyParams)
}
