package cmdargs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-txauth/cli/flags"
	"github.com/nspcc-dev/neo-txauth/pkg/core/transaction"
	"github.com/nspcc-dev/neo-txauth/pkg/crypto/keys"
	"github.com/urfave/cli"
)

// SignersParsingDoc describes signer syntax for command help.
const SignersParsingDoc = `   Each signer is given as signer[:scopes]. The first one is the sender.
    * 'signer' is a Neo address or a 20-byte LE hex hash (the '0x' prefix
      is optional).
    * 'scopes' is a comma-separated list of witness scopes:
        - 'None' only allows paying fees, it's meant for the sender;
        - 'Global' allows the witness everywhere and can't be combined with
          anything else;
        - 'CalledByEntry' only allows the witness for the entry script and
          contracts called directly by it;
        - 'CustomContracts' takes one or more ':'-separated contract hashes
          (LE hex) the witness is valid for;
        - 'CustomGroups' takes one or more ':'-separated compressed public
          keys of contract groups the witness is valid for.

   'CalledByEntry' is used when no scopes are given.

   Examples:
    * 'NNQk4QXsxvsrr3GSozoWBUxEmfag7B6hz5'
    * 'NVquyZHoPirw6zAEPvY1ZezxM493zMWQqs:Global'
    * '0x0000000009070e030d0f0e020d0c06050e030c02'
    * '0000000009070e030d0f0e020d0c06050e030c02:CalledByEntry,` +
	`CustomGroups:0206d7495ceb34c197093b5fc1cccf1996ada05e69ef67e765462a7f5d88ee14d0'
    * '0000000009070e030d0f0e020d0c06050e030c02:CalledByEntry,` +
	`CustomContracts:1011120009070e030d0f0e020d0c06050e030c02:0x1211100009070e030d0f0e020d0c06050e030c02'`

var errGlobalCombined = errors.New("Global scope can not be combined with other scopes")

// GetSignersFromContext parses positional arguments starting at offset as
// signers. No arguments past offset mean no signers.
func GetSignersFromContext(ctx *cli.Context, offset int) ([]transaction.Signer, *cli.ExitError) {
	args := ctx.Args()
	if len(args) <= offset {
		return nil, nil
	}
	signers, err := ParseSigners(args[offset:])
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	return signers, nil
}

// ParseSigners parses a list of signer[:scopes] strings.
func ParseSigners(args []string) ([]transaction.Signer, error) {
	var signers []transaction.Signer
	for i := range args {
		s, err := parseSigner(args[i])
		if err != nil {
			return nil, fmt.Errorf("failed to parse signer #%d: %w", i, err)
		}
		signers = append(signers, s)
	}
	return signers, nil
}

func parseSigner(arg string) (transaction.Signer, error) {
	acc, scopes, withScopes := strings.Cut(arg, ":")
	h, err := flags.ParseAddress(acc)
	if err != nil {
		return transaction.Signer{}, err
	}
	s := transaction.Signer{Account: h, Scopes: transaction.CalledByEntry}
	if !withScopes {
		return s, nil
	}
	s.Scopes = transaction.None
	for _, part := range strings.Split(scopes, ",") {
		if err := addScope(&s, part); err != nil {
			return transaction.Signer{}, err
		}
	}
	return s, nil
}

// addScope applies a single scope[:arg...] element to s.
func addScope(s *transaction.Signer, part string) error {
	name, rest, withArgs := strings.Cut(part, ":")
	scope, err := transaction.ScopesFromString(name)
	if err != nil {
		return err
	}
	global := s.Scopes&transaction.Global != 0
	if scope == transaction.Global && s.Scopes&^transaction.Global != 0 || scope != transaction.Global && global {
		return errGlobalCombined
	}
	s.Scopes |= scope

	var items []string
	if withArgs {
		items = strings.Split(rest, ":")
	}
	switch scope {
	case transaction.CustomContracts:
		if len(items) == 0 {
			return errors.New("CustomContracts scope must refer to at least one contract")
		}
		for _, item := range items {
			h, err := flags.ParseAddress(item)
			if err != nil {
				return err
			}
			s.AllowedContracts = append(s.AllowedContracts, h)
		}
	case transaction.CustomGroups:
		if len(items) == 0 {
			return errors.New("CustomGroups scope must refer to at least one group")
		}
		for _, item := range items {
			pub, err := keys.NewPublicKeyFromString(item)
			if err != nil {
				return err
			}
			s.AllowedGroups = append(s.AllowedGroups, pub)
		}
	default:
		if withArgs {
			return fmt.Errorf("%s scope takes no arguments", name)
		}
	}
	return nil
}
