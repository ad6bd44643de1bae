package match

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSummarizeResultsCounts(t *testing.T) {
	results := []Result{
		{Row: Row{Number: 2}, Kind: KindRenamed},
		{Row: Row{Number: 3}, Kind: KindUnchanged},
		{Row: Row{Number: 4, Key: "lost clip"}, Kind: KindNotFound, Reason: "no file matched 'lost clip'"},
		{Row: Row{Number: 5, Key: "dup"}, Kind: KindConflict, Reason: "'dup.mp4' already exists"},
	}

	s := SummarizeResults(results)

	if s.Count(KindRenamed) != 1 || s.Count(KindUnchanged) != 1 ||
		s.Count(KindNotFound) != 1 || s.Count(KindConflict) != 1 {
		t.Errorf("wrong counts: %+v", s.counts)
	}
	if len(s.Problems()) != 2 {
		t.Fatalf("expected 2 problem lines, got %d", len(s.Problems()))
	}
	if want := "4: no file matched 'lost clip'; key='lost clip'"; s.Problems()[0] != want {
		t.Errorf("problem line = %q, want %q", s.Problems()[0], want)
	}
}

func TestSummaryTruncatesLongKeys(t *testing.T) {
	long := strings.Repeat("x", 200)
	s := SummarizeResults([]Result{
		{Row: Row{Number: 2, Key: long}, Kind: KindNotFound, Reason: "miss"},
	})

	line := s.Problems()[0]
	if strings.Contains(line, long) {
		t.Error("long key should be truncated in the diagnostic line")
	}
	if !strings.Contains(line, "…") {
		t.Error("truncated key should end with an ellipsis")
	}
}

func TestWriteLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "rename_errors.txt")

	s := SummarizeResults([]Result{
		{Row: Row{Number: 2, Key: "a"}, Kind: KindNotFound, Reason: "miss"},
	})
	if err := s.WriteLog(logPath); err != nil {
		t.Fatalf("WriteLog: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.HasPrefix(string(data), "2: miss; key='a'") {
		t.Errorf("unexpected log contents: %q", string(data))
	}
}

func TestWriteLogSkipsCleanPass(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "rename_errors.txt")

	s := SummarizeResults([]Result{{Row: Row{Number: 2}, Kind: KindRenamed}})
	if err := s.WriteLog(logPath); err != nil {
		t.Fatalf("WriteLog: %v", err)
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Error("clean pass must not write a log file")
	}
}
