package market

import "errors"

// ErrUnknownSymbol is returned for symbols outside the configured universe
// or unknown to the quote source.
var ErrUnknownSymbol = errors.New("unknown symbol")
