package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/KaramelBytes/basketminer-cli/internal/basket"
	"github.com/KaramelBytes/basketminer-cli/internal/mining"
	"github.com/KaramelBytes/basketminer-cli/internal/report"
	"github.com/KaramelBytes/basketminer-cli/internal/store"
	"github.com/KaramelBytes/basketminer-cli/internal/utils"
)

// mineSettings are the per-invocation knobs shared by mine and mine-batch.
type mineSettings struct {
	ItemLimit    int
	OutputDir    string
	NoConfidence bool
	Report       report.Options
}

// mineResult carries what a single file produced.
type mineResult struct {
	Summary        *report.Summary
	SupportPath    string
	ConfidencePath string
	RunID          string
}

// loadMatrix reads a transactions file through the one-hot cache, or a
// pre-encoded .onehot.csv file directly.
func loadMatrix(path string, opt basket.Options) (*basket.Matrix, bool, error) {
	if strings.HasSuffix(strings.ToLower(path), basket.CacheSuffix) {
		m, err := basket.Open(path, opt)
		return m, false, err
	}
	return basket.LoadOneHot(path, opt)
}

// mineFile runs the full load → score → write pipeline for one file.
func mineFile(ctx context.Context, path string, s mineSettings, db *store.Store) (*mineResult, error) {
	opt, err := inputOptions()
	if err != nil {
		return nil, err
	}
	m, hit, err := loadMatrix(path, opt)
	if err != nil {
		return nil, err
	}
	eng, err := mining.NewEngine(m,
		mining.WithItemLimit(s.ItemLimit),
		mining.WithLogger(logger.Named("mining")))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	supports := eng.ComputeAllSupports()
	var rules []mining.ConfidenceRecord
	if !s.NoConfidence {
		rules = eng.ComputeAllConfidences()
	}

	res := &mineResult{Summary: &report.Summary{
		Name:        filepath.Base(path),
		Rows:        eng.NumRows(),
		Items:       eng.Items(),
		ItemLimit:   s.ItemLimit,
		CacheHit:    hit,
		Supports:    supports,
		Confidences: rules,
	}}
	if dropped := m.NumColumns() - len(eng.Items()); dropped > 0 {
		res.Summary.Warnings = append(res.Summary.Warnings,
			fmt.Sprintf("item universe capped: kept %d of %d items", len(eng.Items()), m.NumColumns()))
	}

	if s.OutputDir != "" {
		if err := writeTables(res, path, s); err != nil {
			return nil, err
		}
	}
	if db != nil {
		run, err := db.SaveRun(ctx, store.Run{
			Source:    path,
			ItemLimit: s.ItemLimit,
			RowCount:  eng.NumRows(),
			Items:     strings.Join(eng.Items(), ","),
		}, supports, rules)
		if err != nil {
			return nil, err
		}
		res.RunID = run.ID
	}
	logger.Debug("mined file",
		zap.String("path", path),
		zap.Int("supports", len(supports)),
		zap.Int("rules", len(rules)),
		zap.Bool("cache_hit", hit))
	return res, nil
}

func writeTables(res *mineResult, path string, s mineSettings) error {
	dir, err := utils.ExpandHome(s.OutputDir)
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	base := utils.BaseName(path)

	var buf bytes.Buffer
	if err := report.WriteSupportCSV(&buf, res.Summary.Supports, s.Report); err != nil {
		return err
	}
	res.SupportPath = filepath.Join(dir, base+".support.csv")
	if err := utils.SafeWriteFile(res.SupportPath, buf.Bytes()); err != nil {
		return fmt.Errorf("write support table: %w", err)
	}
	if s.NoConfidence {
		return nil
	}
	buf.Reset()
	if err := report.WriteConfidenceCSV(&buf, res.Summary.Confidences, s.Report); err != nil {
		return err
	}
	res.ConfidencePath = filepath.Join(dir, base+".confidence.csv")
	if err := utils.SafeWriteFile(res.ConfidencePath, buf.Bytes()); err != nil {
		return fmt.Errorf("write confidence table: %w", err)
	}
	return nil
}

// openStore opens the run history when a db path is configured; nil otherwise.
func openStore() (*store.Store, error) {
	if cfg.DBPath == "" {
		return nil, nil
	}
	path, err := utils.ExpandHome(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.Open(path, logger)
}

// printResult writes the console view of a result.
func printResult(w io.Writer, res *mineResult, s mineSettings, markdown bool) {
	if markdown {
		fmt.Fprintln(w, res.Summary.Markdown(s.Report))
	} else {
		fmt.Fprintf(w, "%s: %d transactions, %d items\n\n", res.Summary.Name, res.Summary.Rows, len(res.Summary.Items))
		fmt.Fprint(w, report.RenderSupportTable(res.Summary.Supports, s.Report))
		if !s.NoConfidence {
			fmt.Fprintln(w)
			fmt.Fprint(w, report.RenderConfidenceTable(res.Summary.Confidences, s.Report))
		}
	}
	if res.SupportPath != "" {
		fmt.Fprintf(w, "✓ Wrote support table to %s\n", res.SupportPath)
	}
	if res.ConfidencePath != "" {
		fmt.Fprintf(w, "✓ Wrote confidence table to %s\n", res.ConfidencePath)
	}
	if res.RunID != "" {
		fmt.Fprintf(w, "✓ Recorded run %s\n", res.RunID)
	}
}
