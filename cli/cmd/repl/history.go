package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// Entry is one line of history and the mode it was entered in.
type Entry struct {
	Line string
	Mode inputMode
}

// line formats e as stored in the history file.
func (e Entry) line() string {
	if e.Mode == modeCtrl {
		return "C:" + e.Line
	}

	return "E:" + e.Line
}

func parseEntry(s string) Entry {
	if rest, ok := strings.CutPrefix(s, "C:"); ok {
		return Entry{Line: rest, Mode: modeCtrl}
	}

	rest, _ := strings.CutPrefix(s, "E:")

	return Entry{Line: rest, Mode: modeEval}
}

// History is the persistent list of submitted lines, oldest first. A line
// entered again moves to the end instead of appearing twice.
type History struct {
	mu      sync.RWMutex
	path    string
	entries []Entry
}

// NewHistory returns an empty history backed by the file at path. An empty
// path keeps history in memory only.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those stored in the history file. A missing
// file is an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.path == "" {
		return nil
	}

	f, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return ErrHistory.Wrap(err).With(slog.String("path", h.path))
	}
	defer f.Close()

	h.entries = h.entries[:0]

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			h.entries = append(h.entries, parseEntry(s))
		}
	}

	if err := sc.Err(); err != nil {
		return ErrHistory.Wrap(err).With(slog.String("path", h.path))
	}

	return nil
}

// Add records line entered in mode and persists it.
func (h *History) Add(line string, mode inputMode) error {
	e := Entry{Line: strings.TrimSpace(line), Mode: mode}
	if e.Line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	if i := slices.Index(h.entries, e); i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
		h.entries = append(h.entries, e)

		return h.rewrite()
	}

	h.entries = append(h.entries, e)

	return h.appendLine(e)
}

// At returns the entry at index i, where 0 is the oldest.
func (h *History) At(i int) (Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return Entry{}, ErrOutOfBounds.With(slog.Int("index", i))
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// Must be called with h.mu held.
func (h *History) appendLine(e Entry) error {
	if h.path == "" {
		return nil
	}

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return ErrHistory.Wrap(err).With(slog.String("path", h.path))
	}
	defer f.Close()

	if _, err := f.WriteString(e.line() + "\n"); err != nil {
		return ErrHistory.Wrap(err).With(slog.String("path", h.path))
	}

	return nil
}

// Must be called with h.mu held.
func (h *History) rewrite() error {
	if h.path == "" {
		return nil
	}

	var b strings.Builder
	for _, e := range h.entries {
		b.WriteString(e.line())
		b.WriteByte('\n')
	}

	if err := os.WriteFile(h.path, []byte(b.String()), 0o600); err != nil {
		return ErrHistory.Wrap(err).With(slog.String("path", h.path))
	}

	return nil
}
