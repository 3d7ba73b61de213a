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

// Relation links one subject to one related entity (episode, person,
// character or another subject).
type Relation struct {
	SubjectID int `json:"subjectId"`
	RelatedID int `json:"relatedId"`
}

// RelationStore persists subject relations of one kind as jsonlines and
// serves lookups from an in-memory index keyed by subject id.
type RelationStore struct {
	path  string
	flock *flock.Flock

	mu     sync.Mutex
	index  map[int][]int
	loaded bool
}

// NewRelationStore creates a relation store backed by dir/name.
func NewRelationStore(dir, name string) *RelationStore {
	path := filepath.Join(dir, name)
	return &RelationStore{
		path:  path,
		flock: flock.New(path + ".lock"),
	}
}

// Link durably records a subject→related association. Duplicate links are
// dropped once the index is loaded.
func (r *RelationStore) Link(subjectID, relatedID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(); err != nil {
		return err
	}
	for _, id := range r.index[subjectID] {
		if id == relatedID {
			return nil
		}
	}

	line, err := json.Marshal(Relation{SubjectID: subjectID, RelatedID: relatedID})
	if err != nil {
		return fmt.Errorf("marshal relation: %w", err)
	}
	line = append(line, '\n')

	if err := r.flock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", r.path, err)
	}
	defer r.flock.Unlock()

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", r.path, err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("append to %s: %w", r.path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync %s: %w", r.path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	r.index[subjectID] = append(r.index[subjectID], relatedID)
	return nil
}

// RelatedIDs returns all ids linked to subjectID, in link order.
func (r *RelationStore) RelatedIDs(subjectID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	return append([]int(nil), r.index[subjectID]...), nil
}

// ensureLoaded builds the in-memory index on first use. Callers hold r.mu.
func (r *RelationStore) ensureLoaded() error {
	if r.loaded {
		return nil
	}

	index := make(map[int][]int)

	f, err := os.Open(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("open %s: %w", r.path, err)
		}
	} else {
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var rel Relation
			if err := json.Unmarshal(line, &rel); err != nil {
				return fmt.Errorf("parse %s: %w", r.path, err)
			}
			if !contains(index[rel.SubjectID], rel.RelatedID) {
				index[rel.SubjectID] = append(index[rel.SubjectID], rel.RelatedID)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read %s: %w", r.path, err)
		}
	}

	r.index = index
	r.loaded = true
	return nil
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
