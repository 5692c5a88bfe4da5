// Package mining scores itemsets of a one-hot transaction matrix.
//
// The engine enumerates every itemset of size 1..n-1 over an item universe of
// n columns, computes support for each, and derives confidence for every
// ordered pair of disjoint itemsets. Enumeration is exponential in n, so the
// universe is capped: DefaultItemLimit columns unless configured otherwise,
// and never more than MaxItems.
//
// An Engine is not safe for concurrent use.
package mining

import (
	"fmt"
	"math/bits"
	"sort"

	"go.uber.org/zap"

	"github.com/KaramelBytes/basketminer-cli/internal/basket"
)

const (
	// DefaultItemLimit is the number of leading columns kept when no limit is set.
	DefaultItemLimit = 10
	// MaxItems bounds the universe. A dense 13-item matrix already yields
	// about 1.6M rules.
	MaxItems = 13
)

type config struct {
	itemLimit int
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*config)

// WithItemLimit keeps only the first n columns of the matrix. Zero keeps all
// columns, subject to MaxItems.
func WithItemLimit(n int) Option {
	return func(c *config) { c.itemLimit = n }
}

// WithLogger sets the logger used for progress output.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Engine computes and memoizes support and confidence records.
type Engine struct {
	items  []string
	rows   int
	cols   [][]uint64 // per-column row bitsets
	logger *zap.Logger

	// full size-1..n-1 enumeration with parallel column masks
	itemsets []Itemset
	masks    []uint64

	supportsDone bool
	supports     []SupportRecord
	byMask       map[uint64]float64

	confidencesDone bool
	confidences     []ConfidenceRecord
}

// NewEngine validates m, applies the item limit, drops transactions left
// without items, and prepares the engine.
func NewEngine(m *basket.Matrix, opts ...Option) (*Engine, error) {
	c := config{itemLimit: DefaultItemLimit, logger: zap.NewNop()}
	for _, o := range opts {
		o(&c)
	}
	if m == nil {
		return nil, ErrNilMatrix
	}
	if m.NumColumns() == 0 {
		return nil, basket.ErrNoColumns
	}
	if c.itemLimit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidItemLimit, c.itemLimit)
	}
	m = m.Truncate(c.itemLimit).DropEmptyRows()
	if m.NumColumns() > MaxItems {
		return nil, fmt.Errorf("%w: %d items (max %d)", ErrTooManyItems, m.NumColumns(), MaxItems)
	}
	if m.NumRows() == 0 {
		return nil, ErrNoTransactions
	}

	e := &Engine{
		items:  m.Columns(),
		rows:   m.NumRows(),
		logger: c.logger,
	}
	words := (e.rows + 63) / 64
	e.cols = make([][]uint64, len(e.items))
	for j := range e.items {
		bs := make([]uint64, words)
		for i := 0; i < e.rows; i++ {
			if m.At(i, j) {
				bs[i/64] |= 1 << (uint(i) % 64)
			}
		}
		e.cols[j] = bs
	}
	e.logger.Debug("engine ready",
		zap.Int("items", len(e.items)),
		zap.Int("rows", e.rows),
		zap.Int("candidate_itemsets", e.Candidates()))
	return e, nil
}

// Items returns the effective item universe in column order.
func (e *Engine) Items() []string { return append([]string(nil), e.items...) }

// NumRows returns the number of transactions considered.
func (e *Engine) NumRows() int { return e.rows }

// Candidates returns how many itemsets ComputeAllSupports scores.
func (e *Engine) Candidates() int { return CandidateCount(len(e.items)) }

// ComputeSupport returns the fraction of transactions containing every item
// of itemset.
func (e *Engine) ComputeSupport(itemset Itemset) (float64, error) {
	if len(itemset) == 0 {
		return 0, ErrEmptyItemset
	}
	mask, err := e.mask(itemset)
	if err != nil {
		return 0, err
	}
	return e.supportOf(mask), nil
}

// ComputeAllSupports scores every itemset of size 1..n-1, drops zero-support
// itemsets, and returns the rest by support descending. Ties keep enumeration
// order. Results are memoized; repeated calls return identical copies.
func (e *Engine) ComputeAllSupports() []SupportRecord {
	if !e.supportsDone {
		e.enumerate()
		e.byMask = make(map[uint64]float64, len(e.masks))
		recs := make([]SupportRecord, 0, len(e.masks))
		for i, mask := range e.masks {
			s := e.supportOf(mask)
			if s == 0 {
				continue
			}
			e.byMask[mask] = s
			recs = append(recs, SupportRecord{Itemset: e.itemsets[i], Support: s})
		}
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Support > recs[j].Support })
		e.supports = recs
		e.supportsDone = true
		e.logger.Debug("computed supports",
			zap.Int("itemsets", len(e.itemsets)),
			zap.Int("retained", len(recs)))
	}
	return append([]SupportRecord(nil), e.supports...)
}

// LookupSupport returns the memoized support of the set equal to itemset, or
// 0 when it was not retained. Item order in the argument is irrelevant.
func (e *Engine) LookupSupport(itemset Itemset) (float64, error) {
	if len(itemset) == 0 {
		return 0, ErrEmptyItemset
	}
	if !e.supportsDone {
		return 0, ErrSupportsNotComputed
	}
	mask, err := e.mask(itemset)
	if err != nil {
		return 0, nil
	}
	return e.byMask[mask], nil
}

// ComputeAllConfidences derives a rule for every ordered pair (X, Y) of
// disjoint itemsets from the size-1..n-1 enumeration where support(X) and
// support(X∪Y) are both non-zero. Rules are returned by confidence
// descending; ties keep pair-generation order. (X, Y) and (Y, X) are distinct
// rules.
func (e *Engine) ComputeAllConfidences() []ConfidenceRecord {
	if !e.confidencesDone {
		e.ComputeAllSupports()
		var recs []ConfidenceRecord
		for i, x := range e.masks {
			sx := e.byMask[x]
			if sx == 0 {
				continue
			}
			for j, y := range e.masks {
				if x&y != 0 {
					continue
				}
				su := e.byMask[x|y]
				if su == 0 {
					continue
				}
				recs = append(recs, ConfidenceRecord{
					Antecedent:        e.itemsets[i],
					Consequent:        e.itemsets[j],
					AntecedentSupport: sx,
					ConsequentSupport: e.byMask[y],
					UnionSupport:      su,
					Confidence:        su / sx,
				})
			}
		}
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Confidence > recs[j].Confidence })
		e.confidences = recs
		e.confidencesDone = true
		e.logger.Debug("computed confidences", zap.Int("rules", len(recs)))
	}
	return append([]ConfidenceRecord(nil), e.confidences...)
}

// enumerate builds the size-1..n-1 itemsets once.
func (e *Engine) enumerate() {
	if e.itemsets != nil {
		return
	}
	n := len(e.items)
	total := e.Candidates()
	e.itemsets = make([]Itemset, 0, total)
	e.masks = make([]uint64, 0, total)
	for size := 1; size < n; size++ {
		eachCombination(n, size, func(idx []int) {
			set := make(Itemset, len(idx))
			var m uint64
			for i, j := range idx {
				set[i] = e.items[j]
				m |= 1 << uint(j)
			}
			e.itemsets = append(e.itemsets, set)
			e.masks = append(e.masks, m)
		})
	}
}

func (e *Engine) mask(itemset Itemset) (uint64, error) {
	var m uint64
	for _, item := range itemset {
		j := e.index(item)
		if j < 0 {
			return 0, fmt.Errorf("%w: %q", ErrUnknownItem, item)
		}
		m |= 1 << uint(j)
	}
	return m, nil
}

func (e *Engine) index(item string) int {
	for j, v := range e.items {
		if v == item {
			return j
		}
	}
	return -1
}

func (e *Engine) supportOf(mask uint64) float64 {
	count := 0
	for w := range e.cols[0] {
		acc := ^uint64(0)
		for m := mask; m != 0; m &= m - 1 {
			acc &= e.cols[bits.TrailingZeros64(m)][w]
		}
		count += bits.OnesCount64(acc)
	}
	return float64(count) / float64(e.rows)
}
