package declog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"llm-market-analyst/internal/types"
)

// ist matches the exchange calendar, so one file covers one trading day.
var ist = time.FixedZone("IST", 19800)

// Entry is one journaled decision. Logged refers to the append time, the
// embedded decision keeps its own quote timestamp.
type Entry struct {
	Logged   string         `json:"logged"`
	Decision types.Decision `json:"decision"`
	Batch    string         `json:"batch,omitempty"`
}

// Journal is an append-only daily record of every decision produced.
// Snapshots get overwritten batch by batch; the journal is the audit trail
// that survives them.
type Journal struct {
	mu  sync.Mutex
	dir string
}

func New(dir string) *Journal {
	if dir == "" {
		dir = "logs"
	}
	return &Journal{dir: dir}
}

func (j *Journal) dailyPath(t time.Time) string {
	return filepath.Join(j.dir, "decisions", t.In(ist).Format("2006-01-02")+".jsonl")
}

// Append writes one decision to today's journal file.
func (j *Journal) Append(d types.Decision, batchStarted time.Time) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now().In(ist)
	e := Entry{
		Logged:   now.Format("2006-01-02 15:04:05"),
		Decision: d,
		Batch:    batchStarted.In(ist).Format("2006-01-02 15:04:05"),
	}

	p := j.dailyPath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips journal files older than the retention window and
// removes the originals. Individual file failures are skipped so one bad
// file never blocks the sweep.
func (j *Journal) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	return filepath.WalkDir(j.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".jsonl" {
			return nil
		}
		info, err := os.Stat(p)
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, err := os.Stat(gz); err == nil {
			return os.Remove(p)
		}

		if err := gzipFile(p, gz); err != nil {
			return nil
		}
		return os.Remove(p)
	})
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		out.Close()
		return err
	}
	if err := gw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
