package basket

import (
	"fmt"
	"sort"
)

// VerifyRoundTrip checks that every encoded row holds exactly the items of the
// corresponding source row.
func VerifyRoundTrip(t *Table, m *Matrix) error {
	if len(t.Rows) != m.NumRows() {
		return fmt.Errorf("%w: source has %d rows, encoded has %d", ErrRoundTrip, len(t.Rows), m.NumRows())
	}
	for i := range t.Rows {
		want := t.Items(i)
		sort.Strings(want)
		got := m.Items(i)
		sort.Strings(got)
		if !equalSets(want, got) {
			return &MismatchError{Row: i, Expected: want, Actual: got}
		}
	}
	return nil
}

// equalSets compares two sorted, duplicate-free slices.
func equalSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
