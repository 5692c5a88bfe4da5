package mining

import "strings"

// Itemset is a set of distinct item names. Order carries no meaning; the
// engine produces itemsets in the column order of its matrix.
type Itemset []string

// String renders the set as {A, B}.
func (s Itemset) String() string {
	return "{" + strings.Join(s, ", ") + "}"
}

// SupportRecord pairs an itemset with the fraction of transactions containing it.
type SupportRecord struct {
	Itemset Itemset
	Support float64
}

// ConfidenceRecord is a directional rule Antecedent => Consequent.
type ConfidenceRecord struct {
	Antecedent        Itemset
	Consequent        Itemset
	AntecedentSupport float64
	ConsequentSupport float64
	UnionSupport      float64
	Confidence        float64
}
