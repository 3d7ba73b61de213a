// Package archive implements the durable local store for catalog entities.
// Each entity kind lives in its own newline-delimited JSON file; the last
// record appended for a given id is authoritative.
package archive

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// ErrNotFound is returned when a record id has never been archived.
var ErrNotFound = errors.New("record not in archive")

// Store is an append-oriented jsonlines store for one entity kind.
// Concurrent appends are serialized in-process by a mutex and across
// processes by a lock file next to the data file.
type Store[T any] struct {
	path string
	key  func(T) int

	mu    sync.Mutex
	flock *flock.Flock
}

// NewStore creates a store backed by dir/name. key extracts the record id.
func NewStore[T any](dir, name string, key func(T) int) *Store[T] {
	path := filepath.Join(dir, name)
	return &Store[T]{
		path:  path,
		key:   key,
		flock: flock.New(path + ".lock"),
	}
}

// Append durably writes one record. A later append for the same id
// supersedes earlier ones; readers never observe a partial record.
func (s *Store[T]) Append(record T) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer s.flock.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}

	// One complete newline-terminated record per write call, synced before
	// returning so the append is durable.
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync %s: %w", s.path, err)
	}
	return f.Close()
}

// LoadAll returns the authoritative record set: one record per id, the most
// recent append winning, in first-seen id order. A missing file is an empty
// store. Loading has no side effects.
func (s *Store[T]) LoadAll() ([]T, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	byID := make(map[int]int) // id -> index in records
	var records []T

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record T
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("parse %s: %w", s.path, err)
		}

		id := s.key(record)
		if i, seen := byID[id]; seen {
			records[i] = record
			continue
		}
		byID[id] = len(records)
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	return records, nil
}

// Get returns the most recent record for id, or ErrNotFound.
func (s *Store[T]) Get(id int) (T, error) {
	var zero T

	records, err := s.LoadAll()
	if err != nil {
		return zero, err
	}
	for _, record := range records {
		if s.key(record) == id {
			return record, nil
		}
	}
	return zero, ErrNotFound
}

// GetMany returns the most recent records for ids, in the order given,
// reading the file once. Ids without a record are skipped.
func (s *Store[T]) GetMany(ids []int) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	records, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	byID := make(map[int]T, len(records))
	for _, record := range records {
		byID[s.key(record)] = record
	}

	found := make([]T, 0, len(ids))
	for _, id := range ids {
		if record, ok := byID[id]; ok {
			found = append(found, record)
		}
	}
	return found, nil
}

// Compact rewrites the file keeping only the authoritative record per id.
// Readers racing a compaction see either the old or the new complete file.
func (s *Store[T]) Compact() error {
	records, err := s.LoadAll()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer s.flock.Unlock()

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", tmp, err)
	}

	w := bufio.NewWriter(f)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			f.Close()
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", tmp, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}
