package mining_test

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/KaramelBytes/basketminer-cli/internal/basket"
	"github.com/KaramelBytes/basketminer-cli/internal/mining"
)

// rows: {A,B}, {A,C}, {A,B,C}, {B,C}
func exampleMatrix(t *testing.T) *basket.Matrix {
	t.Helper()
	m, err := basket.NewMatrix([]string{"A", "B", "C"}, [][]bool{
		{true, true, false},
		{true, false, true},
		{true, true, true},
		{false, true, true},
	})
	require.NoError(t, err)
	return m
}

func newEngine(t *testing.T, m *basket.Matrix, opts ...mining.Option) *mining.Engine {
	t.Helper()
	e, err := mining.NewEngine(m, opts...)
	require.NoError(t, err)
	return e
}

func TestEnumerateItemsetsCounts(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f"}
	for k := 1; k <= len(items); k++ {
		sets, err := mining.EnumerateItemsets(items, k)
		require.NoError(t, err)
		require.Len(t, sets, combin.Binomial(len(items), k), "k=%d", k)
		seen := map[string]bool{}
		for _, s := range sets {
			require.Len(t, s, k)
			require.False(t, seen[setKey(s)], "duplicate %v", s)
			seen[setKey(s)] = true
		}
	}
}

func TestEnumerateItemsetsOrder(t *testing.T) {
	sets, err := mining.EnumerateItemsets([]string{"A", "B", "C", "D"}, 2)
	require.NoError(t, err)
	want := []mining.Itemset{{"A", "B"}, {"A", "C"}, {"A", "D"}, {"B", "C"}, {"B", "D"}, {"C", "D"}}
	require.Equal(t, want, sets)
}

func TestEnumerateItemsetsEdges(t *testing.T) {
	_, err := mining.EnumerateItemsets([]string{"A"}, 0)
	require.ErrorIs(t, err, mining.ErrInvalidSize)

	sets, err := mining.EnumerateItemsets([]string{"A"}, 2)
	require.NoError(t, err)
	require.Empty(t, sets)
}

func TestExampleSupportsAndConfidence(t *testing.T) {
	e := newEngine(t, exampleMatrix(t))

	s, err := e.ComputeSupport(mining.Itemset{"A"})
	require.NoError(t, err)
	require.InDelta(t, 0.75, s, 1e-12)
	s, err = e.ComputeSupport(mining.Itemset{"A", "B"})
	require.NoError(t, err)
	require.InDelta(t, 0.5, s, 1e-12)
	s, err = e.ComputeSupport(mining.Itemset{"A", "B", "C"})
	require.NoError(t, err)
	require.InDelta(t, 0.25, s, 1e-12)

	sup := e.ComputeAllSupports()
	require.Len(t, sup, 6, "sizes 1..n-1 only")
	require.Equal(t, mining.Itemset{"A"}, sup[0].Itemset)
	require.Equal(t, mining.Itemset{"B", "C"}, sup[5].Itemset)

	rules := e.ComputeAllConfidences()
	require.Len(t, rules, 6)
	want := [][2]string{{"A", "B"}, {"A", "C"}, {"B", "A"}, {"B", "C"}, {"C", "A"}, {"C", "B"}}
	for i, r := range rules {
		require.Equal(t, mining.Itemset{want[i][0]}, r.Antecedent)
		require.Equal(t, mining.Itemset{want[i][1]}, r.Consequent)
		require.InDelta(t, 0.75, r.AntecedentSupport, 1e-12)
		require.InDelta(t, 0.75, r.ConsequentSupport, 1e-12)
		require.InDelta(t, 0.5, r.UnionSupport, 1e-12)
		require.InDelta(t, 2.0/3.0, r.Confidence, 1e-12)
	}
}

func TestSupportBoundsAndMonotonicity(t *testing.T) {
	m, err := basket.NewMatrix([]string{"A", "B", "C", "D", "E"}, [][]bool{
		{true, true, false, false, true},
		{true, false, true, true, false},
		{true, true, true, false, false},
		{false, true, true, true, true},
		{true, true, true, true, true},
		{false, false, false, true, false},
	})
	require.NoError(t, err)
	e := newEngine(t, m)

	var all []mining.Itemset
	for k := 1; k <= 5; k++ {
		sets, err := mining.EnumerateItemsets(e.Items(), k)
		require.NoError(t, err)
		all = append(all, sets...)
	}
	support := map[string]float64{}
	for _, s := range all {
		v, err := e.ComputeSupport(s)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
		support[setKey(s)] = v
	}
	for _, i := range all {
		for _, j := range all {
			if len(j) <= len(i) || !isSubset(i, j) {
				continue
			}
			require.LessOrEqual(t, support[setKey(j)], support[setKey(i)], "%v ⊆ %v", i, j)
		}
	}
}

func TestSupportIsOneOnlyWhenAlwaysPresent(t *testing.T) {
	m, err := basket.NewMatrix([]string{"A", "B", "C"}, [][]bool{
		{true, true, false},
		{true, false, true},
	})
	require.NoError(t, err)
	e := newEngine(t, m)

	s, err := e.ComputeSupport(mining.Itemset{"A"})
	require.NoError(t, err)
	require.Equal(t, 1.0, s)
	s, err = e.ComputeSupport(mining.Itemset{"A", "B"})
	require.NoError(t, err)
	require.Less(t, s, 1.0)
}

func TestZeroSupportNeverReported(t *testing.T) {
	m, err := basket.NewMatrix([]string{"A", "B", "C"}, [][]bool{
		{true, true, false},
		{false, false, true},
	})
	require.NoError(t, err)
	e := newEngine(t, m)

	for _, r := range e.ComputeAllSupports() {
		require.Greater(t, r.Support, 0.0)
		require.NotEqual(t, setKey(mining.Itemset{"A", "C"}), setKey(r.Itemset))
		require.NotEqual(t, setKey(mining.Itemset{"B", "C"}), setKey(r.Itemset))
	}
	rules := e.ComputeAllConfidences()
	require.NotEmpty(t, rules)
	for _, r := range rules {
		require.NotEqual(t, setKey(mining.Itemset{"A", "C"}), setKey(r.Antecedent))
		require.False(t, contains(r.Antecedent, "C") && contains(r.Consequent, "A"))
		require.Greater(t, r.Confidence, 0.0)
		require.LessOrEqual(t, r.Confidence, 1.0)
		require.False(t, intersects(r.Antecedent, r.Consequent))
	}
}

func TestConfidencesSortedAndBounded(t *testing.T) {
	e := newEngine(t, groceryMatrix(t))
	rules := e.ComputeAllConfidences()
	require.NotEmpty(t, rules)
	for i, r := range rules {
		require.Greater(t, r.Confidence, 0.0)
		require.LessOrEqual(t, r.Confidence, 1.0)
		require.LessOrEqual(t, r.UnionSupport, r.AntecedentSupport)
		if i > 0 {
			require.GreaterOrEqual(t, rules[i-1].Confidence, r.Confidence)
		}
	}
}

func TestComputeAllSupportsIdempotent(t *testing.T) {
	e := newEngine(t, groceryMatrix(t))
	first := e.ComputeAllSupports()
	second := e.ComputeAllSupports()
	require.Equal(t, first, second)

	other := newEngine(t, groceryMatrix(t))
	require.Equal(t, first, other.ComputeAllSupports())

	for i := 1; i < len(first); i++ {
		require.GreaterOrEqual(t, first[i-1].Support, first[i].Support)
	}
}

func TestLookupSupport(t *testing.T) {
	e := newEngine(t, exampleMatrix(t))

	_, err := e.LookupSupport(mining.Itemset{"A"})
	require.ErrorIs(t, err, mining.ErrSupportsNotComputed)

	e.ComputeAllSupports()
	s, err := e.LookupSupport(mining.Itemset{"B", "A"})
	require.NoError(t, err)
	require.InDelta(t, 0.5, s, 1e-12)

	s, err = e.LookupSupport(mining.Itemset{"C", "B", "A"})
	require.NoError(t, err)
	require.Zero(t, s, "full universe is never scored")

	s, err = e.LookupSupport(mining.Itemset{"Z"})
	require.NoError(t, err)
	require.Zero(t, s)

	_, err = e.LookupSupport(nil)
	require.ErrorIs(t, err, mining.ErrEmptyItemset)
}

func TestComputeSupportErrors(t *testing.T) {
	e := newEngine(t, exampleMatrix(t))
	_, err := e.ComputeSupport(mining.Itemset{})
	require.ErrorIs(t, err, mining.ErrEmptyItemset)
	_, err = e.ComputeSupport(mining.Itemset{"A", "nope"})
	require.ErrorIs(t, err, mining.ErrUnknownItem)
}

func TestNewEngineLimitsAndValidation(t *testing.T) {
	_, err := mining.NewEngine(nil)
	require.ErrorIs(t, err, mining.ErrNilMatrix)

	wide := wideMatrix(t, mining.MaxItems+1)
	e := newEngine(t, wide)
	require.Len(t, e.Items(), mining.DefaultItemLimit)

	_, err = mining.NewEngine(wide, mining.WithItemLimit(0))
	require.ErrorIs(t, err, mining.ErrTooManyItems)

	_, err = mining.NewEngine(wide, mining.WithItemLimit(-1))
	require.ErrorIs(t, err, mining.ErrInvalidItemLimit)

	e = newEngine(t, wide, mining.WithItemLimit(3))
	require.Equal(t, []string{"i00", "i01", "i02"}, e.Items())
}

func TestNewEngineDropsEmptyRows(t *testing.T) {
	m, err := basket.NewMatrix([]string{"A", "B", "C"}, [][]bool{
		{true, false, false},
		{false, false, true},
		{false, true, false},
	})
	require.NoError(t, err)

	e := newEngine(t, m, mining.WithItemLimit(2))
	require.Equal(t, 2, e.NumRows())
	s, err := e.ComputeSupport(mining.Itemset{"A"})
	require.NoError(t, err)
	require.InDelta(t, 0.5, s, 1e-12)

	empty, err := basket.NewMatrix([]string{"A"}, [][]bool{{false}})
	require.NoError(t, err)
	_, err = mining.NewEngine(empty)
	require.ErrorIs(t, err, mining.ErrNoTransactions)
}

func TestSingleItemUniverseYieldsNothing(t *testing.T) {
	m, err := basket.NewMatrix([]string{"A"}, [][]bool{{true}})
	require.NoError(t, err)
	e := newEngine(t, m)
	require.Empty(t, e.ComputeAllSupports())
	require.Empty(t, e.ComputeAllConfidences())
}

func TestManyRowsCrossWordBoundary(t *testing.T) {
	rows := make([][]bool, 130)
	for i := range rows {
		rows[i] = []bool{i%2 == 0, i%5 == 0, true}
	}
	m, err := basket.NewMatrix([]string{"A", "B", "C"}, rows)
	require.NoError(t, err)
	e := newEngine(t, m)

	s, err := e.ComputeSupport(mining.Itemset{"A", "B"})
	require.NoError(t, err)
	require.InDelta(t, 13.0/130.0, s, 1e-12) // multiples of 10 below 130
	s, err = e.ComputeSupport(mining.Itemset{"C"})
	require.NoError(t, err)
	require.Equal(t, 1.0, s)
}

func TestItemsetString(t *testing.T) {
	require.Equal(t, "{B, A}", mining.Itemset{"B", "A"}.String())
	require.Equal(t, "{}", mining.Itemset{}.String())
}

func TestCandidateCount(t *testing.T) {
	require.Equal(t, 0, mining.CandidateCount(1))
	require.Equal(t, 2, mining.CandidateCount(2))
	require.Equal(t, 6, mining.CandidateCount(3))
	for n := 2; n <= mining.MaxItems; n++ {
		require.Equal(t, 1<<uint(n)-2, mining.CandidateCount(n), "n=%d", n)
	}

	e := newEngine(t, groceryMatrix(t))
	require.Equal(t, 30, e.Candidates())
	var enumerated int
	for k := 1; k < len(e.Items()); k++ {
		sets, err := mining.EnumerateItemsets(e.Items(), k)
		require.NoError(t, err)
		enumerated += len(sets)
	}
	require.Equal(t, e.Candidates(), enumerated)
}

func groceryMatrix(t *testing.T) *basket.Matrix {
	t.Helper()
	m, err := basket.NewMatrix([]string{"bread", "butter", "eggs", "jam", "milk"}, [][]bool{
		{true, true, false, false, true},
		{true, false, true, false, true},
		{false, false, true, true, false},
		{true, true, false, true, false},
		{true, false, false, false, true},
		{false, true, true, false, true},
		{true, true, true, true, true},
	})
	require.NoError(t, err)
	return m
}

func wideMatrix(t *testing.T, n int) *basket.Matrix {
	t.Helper()
	cols := make([]string, n)
	row := make([]bool, n)
	for i := range cols {
		cols[i] = fmt.Sprintf("i%02d", i)
		row[i] = i%2 == 0
	}
	m, err := basket.NewMatrix(cols, [][]bool{row, row})
	require.NoError(t, err)
	return m
}

func isSubset(a, b mining.Itemset) bool {
	for _, v := range a {
		if !contains(b, v) {
			return false
		}
	}
	return true
}

func setKey(s mining.Itemset) string {
	sorted := append([]string(nil), s...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f")
}

func contains(s mining.Itemset, item string) bool {
	for _, v := range s {
		if v == item {
			return true
		}
	}
	return false
}

func intersects(a, b mining.Itemset) bool {
	for _, v := range a {
		if contains(b, v) {
			return true
		}
	}
	return false
}
