package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/basketminer-cli/internal/mining"
)

// Store records mining runs in SQLite.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// Open opens (or creates) the database at path and ensures the schema exists.
// Use ":memory:" for an in-memory database.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite only allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	s := &Store{db: db, logger: logger.Named("store")}
	if err := s.CreateSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateSchema creates all tables and indexes.
func (s *Store) CreateSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveRun stores a run with its support and confidence tables in a single
// transaction. An empty run ID is filled with a new UUID and a zero CreatedAt
// with the current time; the stored run is returned.
func (s *Store) SaveRun(ctx context.Context, run Run, supports []mining.SupportRecord, rules []mining.ConfidenceRecord) (*Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.SupportCount = len(supports)
	run.RuleCount = len(rules)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO runs (id, source, created_at, item_limit, row_count, items, support_count, rule_count)
		VALUES (:id, :source, :created_at, :item_limit, :row_count, :items, :support_count, :rule_count)`, run); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	supStmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO supports (run_id, position, itemset, size, support)
		VALUES (:run_id, :position, :itemset, :size, :support)`)
	if err != nil {
		return nil, fmt.Errorf("prepare supports: %w", err)
	}
	defer supStmt.Close()
	for i, r := range supports {
		row := supportRow{RunID: run.ID, Position: i, Itemset: encodeItemset(r.Itemset), Size: len(r.Itemset), Support: r.Support}
		if _, err := supStmt.ExecContext(ctx, row); err != nil {
			return nil, fmt.Errorf("insert support %d: %w", i, err)
		}
	}

	confStmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO confidences (run_id, position, antecedent, consequent, antecedent_support, consequent_support, union_support, confidence)
		VALUES (:run_id, :position, :antecedent, :consequent, :antecedent_support, :consequent_support, :union_support, :confidence)`)
	if err != nil {
		return nil, fmt.Errorf("prepare confidences: %w", err)
	}
	defer confStmt.Close()
	for i, r := range rules {
		row := confidenceRow{
			RunID:             run.ID,
			Position:          i,
			Antecedent:        encodeItemset(r.Antecedent),
			Consequent:        encodeItemset(r.Consequent),
			AntecedentSupport: r.AntecedentSupport,
			ConsequentSupport: r.ConsequentSupport,
			UnionSupport:      r.UnionSupport,
			Confidence:        r.Confidence,
		}
		if _, err := confStmt.ExecContext(ctx, row); err != nil {
			return nil, fmt.Errorf("insert confidence %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit run: %w", err)
	}
	s.logger.Debug("saved run",
		zap.String("id", run.ID),
		zap.Int("supports", len(supports)),
		zap.Int("rules", len(rules)))
	return &run, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	var runs []Run
	if err := s.db.SelectContext(ctx, &runs, `SELECT * FROM runs ORDER BY created_at DESC, id`); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns the run whose id equals or starts with idOrPrefix.
func (s *Store) GetRun(ctx context.Context, idOrPrefix string) (*Run, error) {
	if strings.TrimSpace(idOrPrefix) == "" {
		return nil, ErrRunNotFound
	}
	var run Run
	err := s.db.GetContext(ctx, &run, `SELECT * FROM runs WHERE id = ?`, idOrPrefix)
	if err == nil {
		return &run, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run: %w", err)
	}
	var matches []Run
	if err := s.db.SelectContext(ctx, &matches,
		`SELECT * FROM runs WHERE id LIKE ? ESCAPE '\' LIMIT 2`, likePrefix(idOrPrefix)); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, idOrPrefix)
	}
}

// Supports returns the stored support table of a run in its original order.
func (s *Store) Supports(ctx context.Context, runID string) ([]mining.SupportRecord, error) {
	var rows []supportRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM supports WHERE run_id = ? ORDER BY position`, runID); err != nil {
		return nil, fmt.Errorf("select supports: %w", err)
	}
	out := make([]mining.SupportRecord, 0, len(rows))
	for _, r := range rows {
		set, err := decodeItemset(r.Itemset)
		if err != nil {
			return nil, err
		}
		out = append(out, mining.SupportRecord{Itemset: set, Support: r.Support})
	}
	return out, nil
}

// TopConfidences returns the first limit rules of a run; limit <= 0 returns all.
func (s *Store) TopConfidences(ctx context.Context, runID string, limit int) ([]mining.ConfidenceRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	var rows []confidenceRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM confidences WHERE run_id = ? ORDER BY position LIMIT ?`, runID, limit); err != nil {
		return nil, fmt.Errorf("select confidences: %w", err)
	}
	out := make([]mining.ConfidenceRecord, 0, len(rows))
	for _, r := range rows {
		ante, err := decodeItemset(r.Antecedent)
		if err != nil {
			return nil, err
		}
		cons, err := decodeItemset(r.Consequent)
		if err != nil {
			return nil, err
		}
		out = append(out, mining.ConfidenceRecord{
			Antecedent:        ante,
			Consequent:        cons,
			AntecedentSupport: r.AntecedentSupport,
			ConsequentSupport: r.ConsequentSupport,
			UnionSupport:      r.UnionSupport,
			Confidence:        r.Confidence,
		})
	}
	return out, nil
}

// DeleteRun removes a run and, through cascading keys, its tables.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// likePrefix escapes LIKE wildcards in p and appends a trailing %.
func likePrefix(p string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(p) + "%"
}

func encodeItemset(s mining.Itemset) string {
	b, _ := json.Marshal([]string(s))
	return string(b)
}

func decodeItemset(v string) (mining.Itemset, error) {
	var out []string
	if err := json.Unmarshal([]byte(v), &out); err != nil {
		return nil, fmt.Errorf("decode itemset %q: %w", v, err)
	}
	return mining.Itemset(out), nil
}
