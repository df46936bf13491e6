package msgformat

import (
	"errors"
	"fmt"
)

// ErrInvalidPattern indicates that a message text is not a valid format pattern.
var ErrInvalidPattern = errors.New("msgformat: invalid pattern")

// PatternError describes where and why a pattern failed to compile.
type PatternError struct {
	Pattern string
	Pos     int
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("msgformat: invalid pattern at offset %d: %s", e.Pos, e.Reason)
}

// Unwrap makes PatternError match ErrInvalidPattern under errors.Is.
func (e *PatternError) Unwrap() error {
	return ErrInvalidPattern
}

func patternErr(pattern string, pos int, format string, args ...any) *PatternError {
	return &PatternError{
		Pattern: pattern,
		Pos:     pos,
		Reason:  fmt.Sprintf(format, args...),
	}
}
