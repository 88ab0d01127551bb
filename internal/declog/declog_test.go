package declog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"llm-market-analyst/internal/types"
)

func TestAppendWritesOneLinePerDecision(t *testing.T) {
	dir := t.TempDir()
	j := New(dir)

	batch := time.Now()
	decisions := []types.Decision{
		{Symbol: "AAA", Action: types.ActionBuy, Strength: types.StrengthStrong, Confidence: 0.9, Price: 120},
		{Symbol: "BBB", Action: types.ActionHold, Strength: types.StrengthWeak, Confidence: 0.4, Price: 75},
	}
	for _, d := range decisions {
		if err := j.Append(d, batch); err != nil {
			t.Fatal(err)
		}
	}

	today := time.Now().In(ist).Format("2006-01-02")
	f, err := os.Open(filepath.Join(dir, "decisions", today+".jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("line %d not valid JSON: %v", lines, err)
		}
		if e.Decision.Symbol != decisions[lines].Symbol {
			t.Errorf("line %d symbol = %s, want %s", lines, e.Decision.Symbol, decisions[lines].Symbol)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("journal has %d lines, want 2", lines)
	}
}

func TestCompressOlderGzipsAndRemoves(t *testing.T) {
	dir := t.TempDir()
	j := New(dir)

	old := filepath.Join(dir, "decisions", "2026-01-05.jsonl")
	if err := os.MkdirAll(filepath.Dir(old), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(old, []byte("{\"logged\":\"2026-01-05 10:00:00\"}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	stale := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	if err := j.CompressOlder(7); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("original journal not removed")
	}
	if _, err := os.Stat(old + ".gz"); err != nil {
		t.Errorf("compressed journal missing: %v", err)
	}
}

func TestCompressOlderKeepsRecentFiles(t *testing.T) {
	dir := t.TempDir()
	j := New(dir)

	if err := j.Append(types.Decision{Symbol: "AAA"}, time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := j.CompressOlder(7); err != nil {
		t.Fatal(err)
	}

	today := time.Now().In(ist).Format("2006-01-02")
	if _, err := os.Stat(filepath.Join(dir, "decisions", today+".jsonl")); err != nil {
		t.Errorf("fresh journal was touched: %v", err)
	}
}
