package store

import (
	"errors"
	"time"
)

var (
	// ErrRunNotFound is returned when no run matches an id or id prefix.
	ErrRunNotFound = errors.New("store: run not found")
	// ErrAmbiguousRun is returned when an id prefix matches several runs.
	ErrAmbiguousRun = errors.New("store: run id prefix is ambiguous")
)

// Run is one recorded mining invocation.
type Run struct {
	ID           string    `db:"id"`
	Source       string    `db:"source"`
	CreatedAt    time.Time `db:"created_at"`
	ItemLimit    int       `db:"item_limit"`
	RowCount     int       `db:"row_count"`
	Items        string    `db:"items"`
	SupportCount int       `db:"support_count"`
	RuleCount    int       `db:"rule_count"`
}

type supportRow struct {
	RunID    string  `db:"run_id"`
	Position int     `db:"position"`
	Itemset  string  `db:"itemset"`
	Size     int     `db:"size"`
	Support  float64 `db:"support"`
}

type confidenceRow struct {
	RunID             string  `db:"run_id"`
	Position          int     `db:"position"`
	Antecedent        string  `db:"antecedent"`
	Consequent        string  `db:"consequent"`
	AntecedentSupport float64 `db:"antecedent_support"`
	ConsequentSupport float64 `db:"consequent_support"`
	UnionSupport      float64 `db:"union_support"`
	Confidence        float64 `db:"confidence"`
}
