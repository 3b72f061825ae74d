package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-txauth/pkg/io"
)

// WitnessAction represents an action to perform in WitnessRule if
// witness condition matches.
type WitnessAction byte

const (
	// WitnessDeny rejects current witness if condition is met.
	WitnessDeny WitnessAction = 0 // Deny
	// WitnessAllow approves current witness if condition is met.
	WitnessAllow WitnessAction = 1 // Allow
)

// WitnessRule represents a single rule for Rules witness scope.
type WitnessRule struct {
	Action    WitnessAction    `json:"action"`
	Condition WitnessCondition `json:"condition"`
}

type witnessRuleAux struct {
	Action    string          `json:"action"`
	Condition json.RawMessage `json:"condition"`
}

// String implements the fmt.Stringer interface.
func (a WitnessAction) String() string {
	switch a {
	case WitnessDeny:
		return "Deny"
	case WitnessAllow:
		return "Allow"
	}
	return fmt.Sprintf("WitnessAction(%d)", byte(a))
}

// EncodeBinary implements the Serializable interface.
func (w *WitnessRule) EncodeBinary(bw *io.BinWriter) {
	if w.Condition == nil {
		bw.Err = conditionErr("rule has no condition")
		return
	}
	bw.WriteB(byte(w.Action))
	w.Condition.EncodeBinary(bw)
}

// DecodeBinary implements the Serializable interface.
func (w *WitnessRule) DecodeBinary(br *io.BinReader) {
	w.Action = WitnessAction(br.ReadB())
	if br.Err == nil && w.Action != WitnessDeny && w.Action != WitnessAllow {
		br.Err = conditionErr("unknown witness rule action: %d", w.Action)
		return
	}
	w.Condition = DecodeBinaryCondition(br)
}

// Size returns the length of the binary representation.
func (w *WitnessRule) Size() int {
	if w.Condition == nil {
		return 1
	}
	return 1 + w.Condition.Size()
}

// Validate checks the rule condition limits.
func (w *WitnessRule) Validate() error {
	if w.Action != WitnessDeny && w.Action != WitnessAllow {
		return conditionErr("unknown witness rule action: %d", w.Action)
	}
	return ValidateCondition(w.Condition)
}

// MarshalJSON implements the json.Marshaler interface.
func (w *WitnessRule) MarshalJSON() ([]byte, error) {
	if w.Condition == nil {
		return nil, errors.New("rule has no condition")
	}
	cond, err := w.Condition.MarshalJSON()
	if err != nil {
		return nil, err
	}
	aux := &witnessRuleAux{
		Action:    w.Action.String(),
		Condition: cond,
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (w *WitnessRule) UnmarshalJSON(data []byte) error {
	aux := &witnessRuleAux{}
	err := json.Unmarshal(data, aux)
	if err != nil {
		return err
	}
	var action WitnessAction
	switch aux.Action {
	case WitnessDeny.String():
		action = WitnessDeny
	case WitnessAllow.String():
		action = WitnessAllow
	default:
		return conditionErr("unknown witness rule action: %q", aux.Action)
	}
	if len(aux.Condition) == 0 {
		return conditionErr("rule has no condition")
	}
	cond, err := UnmarshalConditionJSON(aux.Condition)
	if err != nil {
		return err
	}
	w.Action = action
	w.Condition = cond
	return nil
}
