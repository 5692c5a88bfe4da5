package basket

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/KaramelBytes/basketminer-cli/internal/utils"
)

// CacheSuffix is appended to a transaction file's path to name its one-hot cache.
const CacheSuffix = ".onehot.csv"

// CachePath returns the sibling cache path for a transaction file.
func CachePath(path string) string { return path + CacheSuffix }

// WriteMatrix writes a header of item names followed by True/False cells.
func WriteMatrix(w io.Writer, m *Matrix, delim rune) error {
	cw := csv.NewWriter(w)
	if delim != 0 {
		cw.Comma = delim
	}
	if err := cw.Write(m.columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(m.columns))
	for _, row := range m.cells {
		for j, v := range row {
			if v {
				rec[j] = "True"
			} else {
				rec[j] = "False"
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadMatrix parses a one-hot table written by WriteMatrix. Every cell must
// parse as a boolean.
func ReadMatrix(r io.Reader, delim rune) (*Matrix, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	if delim != 0 {
		cr.Comma = delim
	}
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoColumns
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = trimCells(header)
	if len(header) == 0 || (len(header) == 1 && header[0] == "") {
		return nil, ErrNoColumns
	}
	var rows [][]bool
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		row := make([]bool, len(rec))
		for j, cell := range rec {
			v, perr := strconv.ParseBool(strings.TrimSpace(cell))
			if perr != nil {
				return nil, &CellError{Row: len(rows), Column: header[j], Value: cell}
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return NewMatrix(header, rows)
}

// LoadMatrixFile reads a one-hot file from disk.
func LoadMatrixFile(path string, opt Options) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open one-hot file: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	return ReadMatrix(f, delim)
}

// SaveMatrixFile writes m to path atomically.
func SaveMatrixFile(path string, m *Matrix, delim rune) error {
	var buf bytes.Buffer
	if err := WriteMatrix(&buf, m, delim); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// LoadOneHot returns the one-hot matrix for a transaction file. A cache built
// from the current source under the same parse settings is read instead of
// re-encoding; otherwise the file is encoded and the cache rewritten. The
// second result reports a cache hit.
func LoadOneHot(path string, opt Options) (*Matrix, bool, error) {
	log := opt.logger()
	if !utils.FileExists(path) {
		return nil, false, fmt.Errorf("transactions file not found: %s", path)
	}
	if !transactionsFormat.CanRead(path) {
		return nil, false, fmt.Errorf("%w: %s (expected .csv or .tsv)", ErrUnsupportedFile, path)
	}
	cache := CachePath(path)
	if !opt.NoCache && CacheFresh(path, opt) {
		m, err := LoadMatrixFile(cache, Options{Delimiter: ','})
		if err != nil {
			return nil, false, fmt.Errorf("read cache %s: %w", cache, err)
		}
		log.Debug("one-hot cache hit", zap.String("cache", cache), zap.Int("rows", m.NumRows()), zap.Int("items", m.NumColumns()))
		return m, true, nil
	}
	m, err := EncodeFile(path, opt)
	if err != nil {
		return nil, false, err
	}
	if !opt.NoCache {
		if err := WriteCache(path, m, opt); err != nil {
			return nil, false, fmt.Errorf("write cache: %w", err)
		}
		log.Debug("wrote one-hot cache", zap.String("cache", cache))
	}
	return m, false, nil
}

// EncodeFile loads a transaction file and one-hot encodes it.
func EncodeFile(path string, opt Options) (*Matrix, error) {
	t, err := LoadTable(path, opt)
	if err != nil {
		return nil, err
	}
	m, err := Encode(t)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}
	opt.logger().Debug("encoded transactions",
		zap.String("path", path),
		zap.Int("rows", m.NumRows()),
		zap.Int("items", m.NumColumns()))
	return m, nil
}
