package transaction

import (
	"errors"
	"strconv"
)

// ErrorKind is the closed set of transaction construction failures.
type ErrorKind byte

// Transaction error kinds.
const (
	ScriptFormat ErrorKind = iota
	SignerConfiguration
	InvalidNonce
	InvalidBlock
	InvalidTransaction
	InvalidWitnessCondition
	InvalidSender
	TooManySigners
	DuplicateSigner
	NoSigners
	NoScript
	EmptyScript
	IllegalState
	TxTooLarge
	TransactionConfiguration
	Codec
	Crypto
	Provider
)

var kindNames = [...]string{
	ScriptFormat:             "script format error",
	SignerConfiguration:      "signer configuration error",
	InvalidNonce:             "invalid nonce",
	InvalidBlock:             "invalid block",
	InvalidTransaction:       "invalid transaction",
	InvalidWitnessCondition:  "invalid witness condition",
	InvalidSender:            "invalid sender",
	TooManySigners:           "too many signers",
	DuplicateSigner:          "duplicate signer",
	NoSigners:                "no signers",
	NoScript:                 "no script",
	EmptyScript:              "empty script",
	IllegalState:             "illegal state",
	TxTooLarge:               "transaction too large",
	TransactionConfiguration: "transaction configuration error",
	Codec:                    "codec error",
	Crypto:                   "crypto error",
	Provider:                 "provider error",
}

// String implements the fmt.Stringer interface.
func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown error kind " + strconv.Itoa(int(k))
}

// Error is a transaction construction error. Detail is an optional human
// readable explanation, Cause is an optional underlying error (codec, crypto
// or provider failure) returned unchanged by Unwrap.
type Error struct {
	Kind   ErrorKind
	Detail string
	Cause  error
}

// Sentinels matching any *Error of the same kind via errors.Is.
var (
	ErrScriptFormat             = &Error{Kind: ScriptFormat}
	ErrSignerConfiguration      = &Error{Kind: SignerConfiguration}
	ErrInvalidNonce             = &Error{Kind: InvalidNonce}
	ErrInvalidBlock             = &Error{Kind: InvalidBlock}
	ErrInvalidTransaction       = &Error{Kind: InvalidTransaction}
	ErrInvalidWitnessCondition  = &Error{Kind: InvalidWitnessCondition}
	ErrInvalidSender            = &Error{Kind: InvalidSender}
	ErrTooManySigners           = &Error{Kind: TooManySigners}
	ErrDuplicateSigner          = &Error{Kind: DuplicateSigner}
	ErrNoSigners                = &Error{Kind: NoSigners}
	ErrNoScript                 = &Error{Kind: NoScript}
	ErrEmptyScript              = &Error{Kind: EmptyScript}
	ErrIllegalState             = &Error{Kind: IllegalState}
	ErrTxTooLarge               = &Error{Kind: TxTooLarge}
	ErrTransactionConfiguration = &Error{Kind: TransactionConfiguration}
	ErrCodec                    = &Error{Kind: Codec}
	ErrCrypto                   = &Error{Kind: Crypto}
	ErrProvider                 = &Error{Kind: Provider}
)

// NewError creates an error of the given kind with a detail message.
func NewError(kind ErrorKind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// NewCodecError wraps a serialization failure.
func NewCodecError(cause error) *Error {
	return &Error{Kind: Codec, Cause: cause}
}

// NewCryptoError wraps a signing or key handling failure.
func NewCryptoError(cause error) *Error {
	return &Error{Kind: Crypto, Cause: cause}
}

// NewProviderError wraps a failure of an external data provider.
func NewProviderError(cause error) *Error {
	return &Error{Kind: Provider, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	s := e.Kind.String()
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
