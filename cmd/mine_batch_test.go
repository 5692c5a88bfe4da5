package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMineBatch_GlobProgressAndOutputs(t *testing.T) {
	home := isolate(t)
	writeInput(t, home, "d1/north.csv", fourBaskets)
	writeInput(t, home, "d2/south.csv", "a,b\nX,Y\nX,\n")
	outDir := filepath.Join(home, "out")

	// the first pass writes caches next to the inputs; the second glob must skip them
	runCmd(t, "mine-batch", filepath.Join(home, "d*", "*.csv"), "--quiet")
	out := runCmd(t, "mine-batch", filepath.Join(home, "d*", "*"), "-o", outDir, "--no-confidence")

	if !strings.Contains(out, "[1/2] Processing north.csv...") || !strings.Contains(out, "[2/2] Processing south.csv...") {
		t.Fatalf("unexpected progress output:\n%s", out)
	}
	for _, name := range []string{"north.support.csv", "south.support.csv"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "north.confidence.csv")); !os.IsNotExist(err) {
		t.Fatalf("--no-confidence should skip the confidence table, stat err=%v", err)
	}
}

func TestExpandInputs(t *testing.T) {
	home := isolate(t)
	a := writeInput(t, home, "a.csv", fourBaskets)
	b := writeInput(t, home, "b.csv", fourBaskets)
	writeInput(t, home, "a.csv.onehot.csv", "A\nTrue\n")
	writeInput(t, home, "a.csv.onehot.meta", "no_header: false\n")
	lone := writeInput(t, home, "c.onehot.csv", "A\nTrue\n")

	files, err := expandInputs([]string{filepath.Join(home, "*"), b})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	want := []string{a, b, lone}
	if strings.Join(files, "|") != strings.Join(want, "|") {
		t.Fatalf("got %v, want %v", files, want)
	}

	if _, err := expandInputs([]string{filepath.Join(home, "*.nothing")}); err == nil {
		t.Fatalf("expected error when nothing matches")
	}
}
