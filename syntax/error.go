package syntax

import (
	"errors"
	"fmt"
)

// Pattern compilation errors. A failed compilation returns a *PatternError
// whose Err is one of these values, so callers can test with errors.Is.
var (
	ErrMissingParen          = errors.New("missing closing )")
	ErrUnexpectedParen       = errors.New("unexpected )")
	ErrMissingBracket        = errors.New("missing closing ]")
	ErrMissingRepeatArgument = errors.New("missing argument to repetition operator")
	ErrInvalidRepeatOp       = errors.New("invalid nested repetition operator")
	ErrInvalidRepeatSize     = errors.New("invalid repeat count")
	ErrInvalidBackref        = errors.New("invalid backreference")
	ErrMisplacedAnchor       = errors.New("misplaced anchor")
	ErrTrailingBackslash     = errors.New("trailing backslash at end of expression")
	ErrInvalidEscape         = errors.New("invalid escape sequence")
	ErrInvalidCharRange      = errors.New("invalid character class range")
	ErrNestingDepth          = errors.New("expression nests too deeply")
	ErrTooManyGroups         = errors.New("too many capture groups")
)

// PatternError describes a malformed pattern.
type PatternError struct {
	// Pattern is the full pattern being compiled.
	Pattern string
	// Offset is the byte offset in Pattern where the problem was detected.
	Offset int
	// Expr is the offending fragment of Pattern.
	Expr string
	// Err is one of the Err* values above.
	Err error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("error parsing regexp: %v: `%s`", e.Err, e.Expr)
}

// Unwrap returns the underlying error.
func (e *PatternError) Unwrap() error {
	return e.Err
}
