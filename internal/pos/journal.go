package pos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gulfretail/gulfposgo/internal/models"
)

// UndoJournal is the degraded-mode audit sink: when the undo-log table
// cannot be written, the entry is appended to a local JSON-lines file
// instead. The authoritative copy is still missing, and operators are
// expected to replay the journal by hand, so every fallback write is
// also logged loudly by the caller.
type UndoJournal struct {
	mu   sync.Mutex
	path string
}

// NewUndoJournal creates the journal directory if needed.
func NewUndoJournal(dir string) (*UndoJournal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	return &UndoJournal{path: filepath.Join(dir, "undo_log_fallback.jsonl")}, nil
}

// Append writes one entry as a JSON line.
func (j *UndoJournal) Append(entry models.SalesUndoLog) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return f.Sync()
}

// Pending reads back all journaled entries, oldest first.
func (j *UndoJournal) Pending() ([]models.SalesUndoLog, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := os.ReadFile(j.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []models.SalesUndoLog
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var e models.SalesUndoLog
		if err := dec.Decode(&e); err != nil {
			return entries, fmt.Errorf("corrupt journal line: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
