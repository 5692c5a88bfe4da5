package basket

import (
	"fmt"
	"strings"
)

// Format reads a matrix from a file of a particular kind.
type Format interface {
	CanRead(path string) bool
	Load(path string, opt Options) (*Matrix, error)
}

var registry []Format

// Register adds a format to the registry. Later registrations take precedence.
func Register(f Format) {
	registry = append([]Format{f}, registry...)
}

// Open selects a format by file name and loads the matrix.
func Open(path string, opt Options) (*Matrix, error) {
	for _, f := range registry {
		if f.CanRead(path) {
			return f.Load(path, opt)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
}

type transactionsFile struct{}

func (transactionsFile) CanRead(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (transactionsFile) Load(path string, opt Options) (*Matrix, error) {
	m, _, err := LoadOneHot(path, opt)
	return m, err
}

type oneHotFile struct{}

func (oneHotFile) CanRead(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), CacheSuffix)
}

func (oneHotFile) Load(path string, opt Options) (*Matrix, error) {
	return LoadMatrixFile(path, opt)
}

var transactionsFormat Format = transactionsFile{}

func init() {
	Register(transactionsFormat)
	Register(oneHotFile{})
}
