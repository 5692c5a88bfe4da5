package basket

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Options controls how transaction files are read and cached.
type Options struct {
	// Delimiter for CSV. If 0, picks '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// NoHeader treats the first line as a transaction instead of a header.
	NoHeader bool
	// NoCache disables reading and writing the <file>.onehot.csv cache.
	NoCache bool
	// Logger receives debug output; nil means no logging.
	Logger *zap.Logger
}

// DefaultOptions returns the settings used by the CLI when no flags are given.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Table is the raw transaction list: one row per transaction, ragged rows
// allowed, empty cells are padding.
type Table struct {
	Header []string
	Rows   [][]string
}

// Items returns the distinct non-empty cells of row i in first-seen order.
func (t *Table) Items(i int) []string {
	seen := make(map[string]struct{}, len(t.Rows[i]))
	out := make([]string, 0, len(t.Rows[i]))
	for _, cell := range t.Rows[i] {
		if cell == "" {
			continue
		}
		if _, ok := seen[cell]; ok {
			continue
		}
		seen[cell] = struct{}{}
		out = append(out, cell)
	}
	return out
}

// LoadTable opens path and reads it as a transaction table.
func LoadTable(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transactions: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	return ReadTable(f, opt)
}

// ReadTable reads delimited transaction rows from r.
func ReadTable(r io.Reader, opt Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = ','
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}

	t := &Table{}
	if !opt.NoHeader {
		header, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return t, nil
			}
			return nil, fmt.Errorf("read header: %w", err)
		}
		t.Header = trimCells(header)
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		t.Rows = append(t.Rows, trimCells(rec))
	}
	opt.logger().Debug("read transaction table",
		zap.Int("rows", len(t.Rows)),
		zap.Bool("header", !opt.NoHeader))
	return t, nil
}

func trimCells(rec []string) []string {
	out := make([]string, len(rec))
	for i, c := range rec {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	return ','
}
