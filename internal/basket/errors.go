package basket

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoColumns is returned when no item is observed in the input or a
	// one-hot header is empty.
	ErrNoColumns = errors.New("basket: no item columns")
	// ErrNonBoolean is returned when a one-hot cell cannot be parsed as a boolean.
	ErrNonBoolean = errors.New("basket: non-boolean cell")
	// ErrRaggedMatrix is returned when a matrix row does not match the column count.
	ErrRaggedMatrix = errors.New("basket: row width does not match columns")
	// ErrDuplicateColumn is returned when a one-hot header repeats an item name.
	ErrDuplicateColumn = errors.New("basket: duplicate item column")
	// ErrRoundTrip is returned when encoded rows do not reproduce the source rows.
	ErrRoundTrip = errors.New("basket: one-hot round-trip mismatch")
	// ErrUnsupportedFile is returned for paths no registered format can read.
	ErrUnsupportedFile = errors.New("basket: unsupported input file")
)

// CellError reports the position and raw value of a cell that failed to parse.
type CellError struct {
	Row    int
	Column string
	Value  string
}

func (e *CellError) Error() string {
	return fmt.Sprintf("basket: non-boolean cell at row %d, column %q: %q", e.Row, e.Column, e.Value)
}

func (e *CellError) Unwrap() error { return ErrNonBoolean }

// MismatchError describes the first row whose encoded items differ from the source.
type MismatchError struct {
	Row      int
	Expected []string
	Actual   []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("basket: one-hot round-trip mismatch at row %d: source {%s}, encoded {%s}",
		e.Row, strings.Join(e.Expected, ", "), strings.Join(e.Actual, ", "))
}

func (e *MismatchError) Unwrap() error { return ErrRoundTrip }
