package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/basketminer-cli/internal/mining"
)

// Summary is a compact overview of one mining run.
type Summary struct {
	Name        string
	Rows        int
	Items       []string
	ItemLimit   int
	CacheHit    bool
	Supports    []mining.SupportRecord
	Confidences []mining.ConfidenceRecord
	Warnings    []string
}

// Markdown renders the summary for terminals or standalone docs.
func (s *Summary) Markdown(opt Options) string {
	var b strings.Builder
	b.WriteString("[BASKET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	b.WriteString(fmt.Sprintf("Transactions: %d\n", s.Rows))
	b.WriteString(fmt.Sprintf("Items: %d", len(s.Items)))
	if s.ItemLimit > 0 {
		b.WriteString(fmt.Sprintf(" (limit %d)", s.ItemLimit))
	}
	b.WriteString("\n")
	if len(s.Items) > 0 {
		b.WriteString(fmt.Sprintf("Universe: %s\n", strings.Join(s.Items, ", ")))
	}
	b.WriteString(fmt.Sprintf("Itemsets with support: %d\n", len(s.Supports)))
	b.WriteString(fmt.Sprintf("Rules: %d\n", len(s.Confidences)))

	if len(s.Supports) > 0 {
		b.WriteString("\n[TOP ITEMSETS]\n")
		for _, r := range s.Supports[:limit(len(s.Supports), opt.Top)] {
			b.WriteString(fmt.Sprintf("- %s: %s\n", r.Itemset, FormatRatio(r.Support, opt.Precision)))
		}
	}
	if len(s.Confidences) > 0 {
		b.WriteString("\n[TOP RULES]\n")
		for _, r := range s.Confidences[:limit(len(s.Confidences), opt.Top)] {
			b.WriteString(fmt.Sprintf("- %s => %s: confidence %s (support %s)\n",
				r.Antecedent, r.Consequent,
				FormatRatio(r.Confidence, opt.Precision),
				FormatRatio(r.UnionSupport, opt.Precision)))
		}
	}
	if s.CacheHit {
		s.Warnings = appendOnce(s.Warnings, "one-hot matrix read from cache (source and parse settings unchanged since encoding)")
	}
	if len(s.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range s.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func appendOnce(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
