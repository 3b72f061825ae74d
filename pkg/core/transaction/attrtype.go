package transaction

import "fmt"

// AttrType represents the purpose of the attribute.
type AttrType uint8

// List of valid attribute types.
const (
	HighPriority    AttrType = 1
	OracleResponseT AttrType = 0x11 // OracleResponse
	NotValidBeforeT AttrType = 0x20 // NotValidBefore
	ConflictsT      AttrType = 0x21 // Conflicts
)

// String implements the fmt.Stringer interface.
func (a AttrType) String() string {
	switch a {
	case HighPriority:
		return "HighPriority"
	case OracleResponseT:
		return "OracleResponse"
	case NotValidBeforeT:
		return "NotValidBefore"
	case ConflictsT:
		return "Conflicts"
	}
	return fmt.Sprintf("AttrType(%d)", uint8(a))
}

func attrTypeFromString(s string) (AttrType, bool) {
	for _, t := range []AttrType{HighPriority, OracleResponseT, NotValidBeforeT, ConflictsT} {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

func (a AttrType) allowMultiple() bool {
	return a == ConflictsT
}
