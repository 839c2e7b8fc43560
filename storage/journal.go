package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/web3guy0/stakebot/types"
)

// ═══════════════════════════════════════════════════════════════════════════════
// JOURNAL - Append-only JSONL wager log
// ═══════════════════════════════════════════════════════════════════════════════
//
// One record per line, stable field names, RFC-3339 timestamps. The file is
// never rewritten. Appends are synchronous here; the engine decouples them
// from the betting critical path behind its bounded queue.
//
// ═══════════════════════════════════════════════════════════════════════════════

type Journal struct {
	f *os.File
	w *bufio.Writer
}

// OpenJournal opens (or creates) the append-only journal at path.
func OpenJournal(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Journal{f: f, w: bufio.NewWriter(f)}, nil
}

// Append writes one wager as a JSON line.
func (j *Journal) Append(w types.Wager) error {
	line, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal wager: %w", err)
	}
	if _, err := j.w.Write(line); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	if err := j.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return j.w.Flush()
}

// Close flushes and closes the journal file.
func (j *Journal) Close() error {
	if err := j.w.Flush(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}
