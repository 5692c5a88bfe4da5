// Package report renders support and confidence tables.
//
// The CSV column order and header names are a stable contract:
//
//	itemset, support
//	antecedent, consequent, support(antecedent), support(consequent), support(union), confidence
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/KaramelBytes/basketminer-cli/internal/mining"
)

// SupportHeader is the header row of the support table.
var SupportHeader = []string{"itemset", "support"}

// ConfidenceHeader is the header row of the confidence table.
var ConfidenceHeader = []string{
	"antecedent", "consequent",
	"support(antecedent)", "support(consequent)", "support(union)",
	"confidence",
}

// Options controls number formatting and table size.
type Options struct {
	// Precision is the number of decimals written for ratios.
	Precision int
	// Delimiter for CSV output; 0 means ','.
	Delimiter rune
	// Top limits console tables to the first N rows; 0 renders all rows.
	Top int
}

// DefaultOptions returns six decimals, comma-delimited, top 20 console rows.
func DefaultOptions() Options {
	return Options{Precision: 6, Top: 20}
}

// FormatRatio rounds v half away from zero to precision decimals.
func FormatRatio(v float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	return decimal.NewFromFloat(v).StringFixed(int32(precision))
}

// WriteSupportCSV writes the support table.
func WriteSupportCSV(w io.Writer, recs []mining.SupportRecord, opt Options) error {
	cw := newWriter(w, opt)
	if err := cw.Write(SupportHeader); err != nil {
		return fmt.Errorf("write support header: %w", err)
	}
	for _, r := range recs {
		if err := cw.Write([]string{r.Itemset.String(), FormatRatio(r.Support, opt.Precision)}); err != nil {
			return fmt.Errorf("write support row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteConfidenceCSV writes the confidence table.
func WriteConfidenceCSV(w io.Writer, recs []mining.ConfidenceRecord, opt Options) error {
	cw := newWriter(w, opt)
	if err := cw.Write(ConfidenceHeader); err != nil {
		return fmt.Errorf("write confidence header: %w", err)
	}
	for _, r := range recs {
		row := []string{
			r.Antecedent.String(),
			r.Consequent.String(),
			FormatRatio(r.AntecedentSupport, opt.Precision),
			FormatRatio(r.ConsequentSupport, opt.Precision),
			FormatRatio(r.UnionSupport, opt.Precision),
			FormatRatio(r.Confidence, opt.Precision),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write confidence row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func newWriter(w io.Writer, opt Options) *csv.Writer {
	cw := csv.NewWriter(w)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}
	return cw
}
