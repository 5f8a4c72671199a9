package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotUnderstood is returned when no menu item resolved above the threshold
	ErrNotUnderstood = errors.New("order not understood")

	// ErrStockExhausted is matched by every *StockExhaustedError
	ErrStockExhausted = errors.New("stock exhausted")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUtteranceTooLong is returned when an utterance exceeds the configured length
	ErrUtteranceTooLong = errors.New("utterance too long")

	// ErrSessionNotFound is returned when a conversation does not exist or has expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnknownCategory is returned when a dictionary names a category we do not know
	ErrUnknownCategory = errors.New("unknown category")

	// ErrDictionaryInvalid is returned when a dictionary source is malformed
	ErrDictionaryInvalid = errors.New("invalid keyword dictionary")

	// ErrDictionaryUnavailable is returned when no dictionary has been loaded
	ErrDictionaryUnavailable = errors.New("keyword dictionary unavailable")
)

// StockExhaustedError names the slot whose matched keyword cannot be served.
type StockExhaustedError struct {
	Slot    Slot
	Keyword string
	Reason  string
}

func (e *StockExhaustedError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Slot, e.Keyword, e.Reason)
}

// Is lets errors.Is(err, ErrStockExhausted) match.
func (e *StockExhaustedError) Is(target error) bool {
	return target == ErrStockExhausted
}
