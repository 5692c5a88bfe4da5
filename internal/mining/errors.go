package mining

import "errors"

// Every message is prefixed with "mining:" so wrapped errors stay greppable.
// Callers match with errors.Is.
var (
	// ErrNilMatrix is returned when NewEngine receives no matrix.
	ErrNilMatrix = errors.New("mining: matrix is nil")
	// ErrNoTransactions is returned when no row contains any of the retained items.
	ErrNoTransactions = errors.New("mining: no non-empty transactions")
	// ErrTooManyItems is returned when the item universe exceeds MaxItems.
	ErrTooManyItems = errors.New("mining: item universe exceeds MaxItems")
	// ErrInvalidItemLimit is returned for a negative item limit.
	ErrInvalidItemLimit = errors.New("mining: item limit must be >= 0")
	// ErrInvalidSize is returned when an itemset size below 1 is requested.
	ErrInvalidSize = errors.New("mining: itemset size must be >= 1")
	// ErrEmptyItemset is returned when support is requested for an empty itemset.
	ErrEmptyItemset = errors.New("mining: itemset is empty")
	// ErrUnknownItem is returned when an itemset names an item outside the universe.
	ErrUnknownItem = errors.New("mining: unknown item")
	// ErrSupportsNotComputed is returned by LookupSupport before ComputeAllSupports.
	ErrSupportsNotComputed = errors.New("mining: supports not computed")
)
