package sentiment

import (
	"errors"
	"fmt"
)

// ErrInvalidQuote is matched by every InvalidQuoteError.
var ErrInvalidQuote = errors.New("invalid quote")

// InvalidQuoteError reports a quote field that cannot be scored, such as a
// zero previous close.
type InvalidQuoteError struct {
	Symbol string
	Field  string
	Value  float64
}

func (e *InvalidQuoteError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("invalid quote: %s=%v", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid quote for %s: %s=%v", e.Symbol, e.Field, e.Value)
}

func (e *InvalidQuoteError) Unwrap() error {
	return ErrInvalidQuote
}
