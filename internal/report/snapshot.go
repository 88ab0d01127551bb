package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"llm-market-analyst/internal/logger"
	"llm-market-analyst/internal/types"
)

const latestName = "latest.json"

// Snapshotter persists batch results to disk. Every write goes through a
// temp file and os.Rename, so readers only ever observe complete documents.
type Snapshotter struct {
	dir  string
	keep int
}

func NewSnapshotter(dir string, keep int) (*Snapshotter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir: %w", err)
	}
	if keep < 1 {
		keep = 1
	}
	return &Snapshotter{dir: dir, keep: keep}, nil
}

// Write persists the result as a timestamped snapshot and repoints
// latest.json at the same content, then prunes snapshots beyond the
// retention count. Pruning failures are logged, not returned; a stale
// extra file is not worth failing the batch over.
func (s *Snapshotter) Write(ctx context.Context, result types.BatchResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling batch result: %w", err)
	}

	name := fmt.Sprintf("batch_%s.json", result.StartedAt.UTC().Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	if err := s.atomicWrite(path, data); err != nil {
		return "", err
	}
	if err := s.atomicWrite(filepath.Join(s.dir, latestName), data); err != nil {
		return "", err
	}

	if err := s.prune(); err != nil {
		logger.Warn(ctx, "Failed to prune old snapshots", "error", err.Error())
	}

	logger.Info(ctx, "Snapshot written", "path", path, "decisions", len(result.Decisions))
	return path, nil
}

// LoadLatest reads the most recent snapshot. os.ErrNotExist signals that no
// batch has completed yet.
func (s *Snapshotter) LoadLatest() (types.BatchResult, error) {
	var result types.BatchResult
	data, err := os.ReadFile(filepath.Join(s.dir, latestName))
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("decoding snapshot: %w", err)
	}
	return result, nil
}

func (s *Snapshotter) atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publishing snapshot: %w", err)
	}
	return nil
}

// prune deletes timestamped snapshots beyond the retention count, oldest
// first. The timestamped naming scheme makes lexical order chronological.
func (s *Snapshotter) prune() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	var batches []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "batch_") && strings.HasSuffix(name, ".json") {
			batches = append(batches, name)
		}
	}
	if len(batches) <= s.keep {
		return nil
	}

	sort.Strings(batches)
	for _, name := range batches[:len(batches)-s.keep] {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			return err
		}
	}
	return nil
}
