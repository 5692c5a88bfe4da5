package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/KaramelBytes/basketminer-cli/internal/mining"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// IsColorEnabled reports whether stdout is a terminal and NO_COLOR is unset.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// RenderSupportTable renders up to opt.Top support records as a fixed-width table.
func RenderSupportTable(recs []mining.SupportRecord, opt Options) string {
	if len(recs) == 0 {
		return "No itemsets with non-zero support.\n"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-40s %10s\n", "Itemset", "Support"))
	sb.WriteString(strings.Repeat("─", 51))
	sb.WriteString("\n")
	shown := limit(len(recs), opt.Top)
	for _, r := range recs[:shown] {
		sb.WriteString(fmt.Sprintf("%-40s %10s\n",
			truncate(r.Itemset.String(), 40),
			FormatRatio(r.Support, opt.Precision)))
	}
	writeMore(&sb, len(recs)-shown)
	return sb.String()
}

// RenderConfidenceTable renders up to opt.Top rules. Confidence is colored by
// strength when color is enabled.
func RenderConfidenceTable(recs []mining.ConfidenceRecord, opt Options) string {
	if len(recs) == 0 {
		return "No rules.\n"
	}
	color := IsColorEnabled()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-24s %-24s %9s %9s %9s %10s\n",
		"Antecedent", "Consequent", "Sup(X)", "Sup(Y)", "Sup(X∪Y)", "Confidence"))
	sb.WriteString(strings.Repeat("─", 90))
	sb.WriteString("\n")
	shown := limit(len(recs), opt.Top)
	for _, r := range recs[:shown] {
		conf := FormatRatio(r.Confidence, opt.Precision)
		if color {
			conf = confidenceColor(r.Confidence) + fmt.Sprintf("%10s", conf) + colorReset
		} else {
			conf = fmt.Sprintf("%10s", conf)
		}
		sb.WriteString(fmt.Sprintf("%-24s %-24s %9s %9s %9s %s\n",
			truncate(r.Antecedent.String(), 24),
			truncate(r.Consequent.String(), 24),
			FormatRatio(r.AntecedentSupport, opt.Precision),
			FormatRatio(r.ConsequentSupport, opt.Precision),
			FormatRatio(r.UnionSupport, opt.Precision),
			conf))
	}
	writeMore(&sb, len(recs)-shown)
	return sb.String()
}

func confidenceColor(c float64) string {
	switch {
	case c >= 0.8:
		return colorGreen
	case c >= 0.5:
		return colorYellow
	default:
		return colorGray
	}
}

func limit(n, top int) int {
	if top <= 0 || top > n {
		return n
	}
	return top
}

func writeMore(sb *strings.Builder, rest int) {
	if rest > 0 {
		sb.WriteString(fmt.Sprintf("… %d more\n", rest))
	}
}

// truncate shortens s to max runes, marking the cut with "…".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
