package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/basketminer-cli/internal/mining"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var (
	testSupports = []mining.SupportRecord{
		{Itemset: mining.Itemset{"milk"}, Support: 0.75},
		{Itemset: mining.Itemset{"bread", "milk"}, Support: 0.5},
	}
	testRules = []mining.ConfidenceRecord{
		{Antecedent: mining.Itemset{"bread"}, Consequent: mining.Itemset{"milk"}, AntecedentSupport: 0.5, ConsequentSupport: 0.75, UnionSupport: 0.5, Confidence: 1},
		{Antecedent: mining.Itemset{"milk"}, Consequent: mining.Itemset{"bread"}, AntecedentSupport: 0.75, ConsequentSupport: 0.5, UnionSupport: 0.5, Confidence: 0.5 / 0.75},
	}
)

func TestSaveAndReadRun(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveRun(ctx, Run{Source: "groceries.csv", ItemLimit: 10, RowCount: 4, Items: "bread,milk"}, testSupports, testRules)
	require.NoError(t, err)
	require.Len(t, saved.ID, 36)
	require.Equal(t, 2, saved.SupportCount)
	require.Equal(t, 2, saved.RuleCount)

	got, err := s.GetRun(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, "groceries.csv", got.Source)
	require.Equal(t, 4, got.RowCount)
	require.WithinDuration(t, saved.CreatedAt, got.CreatedAt, time.Second)

	sup, err := s.Supports(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, testSupports, sup)

	rules, err := s.TopConfidences(ctx, saved.ID, 0)
	require.NoError(t, err)
	require.Equal(t, testRules, rules)

	top, err := s.TopConfidences(ctx, saved.ID, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	require.Equal(t, mining.Itemset{"bread"}, top[0].Antecedent)
}

func TestGetRunByPrefix(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.SaveRun(ctx, Run{ID: "abc-111", Source: "a.csv"}, nil, nil)
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, Run{ID: "abc-222", Source: "b.csv"}, nil, nil)
	require.NoError(t, err)

	got, err := s.GetRun(ctx, "abc-2")
	require.NoError(t, err)
	require.Equal(t, "b.csv", got.Source)

	_, err = s.GetRun(ctx, "abc")
	require.ErrorIs(t, err, ErrAmbiguousRun)

	_, err = s.GetRun(ctx, "zzz")
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestGetRunPrefixTreatsWildcardsLiterally(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.SaveRun(ctx, Run{ID: "abc-111", Source: "a.csv"}, nil, nil)
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, Run{ID: "a%c_x-222", Source: "b.csv"}, nil, nil)
	require.NoError(t, err)

	for _, p := range []string{"%", "_", "a_c", "%111", `\`} {
		_, err = s.GetRun(ctx, p)
		require.ErrorIs(t, err, ErrRunNotFound, "prefix %q", p)
	}

	got, err := s.GetRun(ctx, "a%c_")
	require.NoError(t, err)
	require.Equal(t, "b.csv", got.Source)
}

func TestListRunsNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	_, err := s.SaveRun(ctx, Run{ID: "old", Source: "a.csv", CreatedAt: base}, nil, nil)
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, Run{ID: "new", Source: "b.csv", CreatedAt: base.Add(time.Hour)}, nil, nil)
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "new", runs[0].ID)
	require.Equal(t, "old", runs[1].ID)
}

func TestDeleteRunCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveRun(ctx, Run{Source: "a.csv"}, testSupports, testRules)
	require.NoError(t, err)
	require.NoError(t, s.DeleteRun(ctx, saved.ID))

	sup, err := s.Supports(ctx, saved.ID)
	require.NoError(t, err)
	require.Empty(t, sup)

	require.ErrorIs(t, s.DeleteRun(ctx, saved.ID), ErrRunNotFound)
}

func TestSaveRunRollsBackOnDuplicateID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.SaveRun(ctx, Run{ID: "dup", Source: "a.csv"}, testSupports, nil)
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, Run{ID: "dup", Source: "b.csv"}, testSupports, nil)
	require.Error(t, err)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "a.csv", runs[0].Source)
}
