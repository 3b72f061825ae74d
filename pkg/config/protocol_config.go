package config

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-txauth/pkg/config/netmode"
)

// ErrNoMagic is returned by Validate for a configuration without network magic.
var ErrNoMagic = errors.New("network magic is not set")

// ProtocolConfiguration represents the protocol parameters that matter for
// transaction construction.
type ProtocolConfiguration struct {
	Magic netmode.Magic `yaml:"Magic"`
	// MaxTransactionSize is the maximum encoded transaction size in bytes.
	MaxTransactionSize int `yaml:"MaxTransactionSize"`
	// MaxValidUntilBlockIncrement is the upper increment size of blockchain height in blocks
	// exceeding that a transaction should fail validation.
	MaxValidUntilBlockIncrement uint32 `yaml:"MaxValidUntilBlockIncrement"`
}

// Validate checks ProtocolConfiguration for internal consistency.
func (p *ProtocolConfiguration) Validate() error {
	if p.Magic == 0 {
		return ErrNoMagic
	}
	if p.MaxTransactionSize <= 0 {
		return fmt.Errorf("invalid MaxTransactionSize: %d", p.MaxTransactionSize)
	}
	if p.MaxValidUntilBlockIncrement == 0 {
		return fmt.Errorf("MaxValidUntilBlockIncrement can't be zero")
	}
	return nil
}
