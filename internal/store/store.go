// Package store persists the portal's collections as flat JSON documents.
// It is deliberately forgiving on the read side: a missing or corrupt
// document degrades to an empty collection instead of failing the caller.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
)

// Collection names one persisted document.
type Collection string

// The portal's fixed set of collections, each backed by <name>.json.
const (
	Students   Collection = "students"
	Marks      Collection = "marks"
	Attendance Collection = "attendance"
	Timetable  Collection = "timetable"
)

// Result reports how a load resolved. Recovered is true when the backing
// document existed but could not be parsed, so the empty collection the
// caller sees is the product of recovery, not genuinely empty data. An
// admin surface can use that to warn instead of silently showing nothing.
type Result struct {
	Recovered bool
}

// Store reads and writes collections under a single data directory.
// It assumes a single writer; there is no locking.
type Store struct {
	dir string
}

// New creates a store rooted at dir. The directory itself is created
// lazily on first save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Load decodes a collection into out, which must be a pointer to a slice
// of the collection's record type. A missing document, a zero-length
// document, or unparseable content all leave out as an empty slice;
// only the last marks the result as recovered. Record order follows the
// document.
func (s *Store) Load(c Collection, out any) Result {
	data, err := os.ReadFile(s.path(c))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			// Unreadable is indistinguishable from corrupt for the caller.
			return Result{Recovered: true}
		}
		return Result{}
	}
	if len(data) == 0 {
		return Result{}
	}
	if err := json.Unmarshal(data, out); err != nil {
		// A mid-array syntax error can leave out partially filled.
		reset(out)
		return Result{Recovered: true}
	}
	return Result{}
}

func reset(out any) {
	v := reflect.ValueOf(out)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		elem := v.Elem()
		elem.Set(reflect.Zero(elem.Type()))
	}
}

// Save serializes records as an indented JSON array, fully replacing the
// document's prior content. The data directory is created if absent.
// Write failures propagate; there is no recovery path for an unwritable
// store.
func (s *Store) Save(c Collection, records any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(s.path(c), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c, err)
	}
	return nil
}

func (s *Store) path(c Collection) string {
	return filepath.Join(s.dir, string(c)+".json")
}
