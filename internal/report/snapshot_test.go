package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"llm-market-analyst/internal/types"
)

func testResult(started time.Time) types.BatchResult {
	return types.BatchResult{
		Decisions: []types.Decision{
			{Symbol: "INFY", Action: types.ActionBuy, Strength: types.StrengthStrong, Confidence: 0.9},
		},
		Counts:        types.ActionCounts{Buy: 1},
		Submitted:     1,
		MarketContext: "indices up",
		StartedAt:     started,
	}
}

func TestSnapshotterWriteAndLoadLatest(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSnapshotter(dir, 5)
	if err != nil {
		t.Fatal(err)
	}

	want := testResult(time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC))
	path, err := s.Write(context.Background(), want)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "batch_20260801_093000.json" {
		t.Errorf("path = %s", path)
	}

	got, err := s.LoadLatest()
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Decisions) != 1 || got.Decisions[0].Symbol != "INFY" {
		t.Errorf("round trip lost decisions: %+v", got.Decisions)
	}
	if got.MarketContext != want.MarketContext {
		t.Errorf("market context = %q", got.MarketContext)
	}
}

func TestLoadLatestBeforeFirstBatch(t *testing.T) {
	s, err := NewSnapshotter(t.TempDir(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadLatest(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func TestSnapshotterPrunesOldBatches(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSnapshotter(dir, 2)
	if err != nil {
		t.Fatal(err)
	}

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		if _, err := s.Write(context.Background(), testResult(base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var batches []string
	for _, e := range entries {
		if e.Name() != "latest.json" {
			batches = append(batches, e.Name())
		}
	}
	if len(batches) != 2 {
		t.Fatalf("kept %d batches %v, want 2", len(batches), batches)
	}
	for _, name := range batches {
		if name != "batch_20260801_090200.json" && name != "batch_20260801_090300.json" {
			t.Errorf("unexpected survivor %s", name)
		}
	}
}

func TestSnapshotterNoPartialReads(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSnapshotter(dir, 5)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Write(context.Background(), testResult(time.Now())); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
