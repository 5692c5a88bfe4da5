package basket

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/basketminer-cli/internal/utils"
)

// CacheMetaSuffix names the sidecar that records how a cache was built.
const CacheMetaSuffix = ".onehot.meta"

// CacheMetaPath returns the sidecar path for a transaction file's cache.
func CacheMetaPath(path string) string { return path + CacheMetaSuffix }

// cacheMeta identifies the source snapshot and parse settings behind a cache.
type cacheMeta struct {
	SourceSize    int64  `yaml:"source_size"`
	SourceModTime int64  `yaml:"source_mtime_ns"`
	Delimiter     string `yaml:"delimiter"`
	NoHeader      bool   `yaml:"no_header"`
}

func newCacheMeta(path string, opt Options) (cacheMeta, error) {
	info, err := os.Stat(path)
	if err != nil {
		return cacheMeta{}, fmt.Errorf("stat source: %w", err)
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	return cacheMeta{
		SourceSize:    info.Size(),
		SourceModTime: info.ModTime().UnixNano(),
		Delimiter:     string(delim),
		NoHeader:      opt.NoHeader,
	}, nil
}

// CacheFresh reports whether the cache of path was built from the current
// contents of path with the same header and delimiter settings as opt.
func CacheFresh(path string, opt Options) bool {
	if !utils.FileExists(CachePath(path)) {
		return false
	}
	want, err := newCacheMeta(path, opt)
	if err != nil {
		return false
	}
	b, err := os.ReadFile(CacheMetaPath(path))
	if err != nil {
		return false
	}
	var got cacheMeta
	if err := yaml.Unmarshal(b, &got); err != nil {
		return false
	}
	return got == want
}

// WriteCache stores m as the cache of path along with its sidecar.
func WriteCache(path string, m *Matrix, opt Options) error {
	meta, err := newCacheMeta(path, opt)
	if err != nil {
		return err
	}
	if err := SaveMatrixFile(CachePath(path), m, ','); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("marshal cache meta: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshal cache meta: %w", err)
	}
	return utils.SafeWriteFile(CacheMetaPath(path), buf.Bytes())
}
