// Package localcfg reads per-folder override files that force or adjust
// catalog resolution for everything beneath them.
package localcfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the override file looked up in each folder.
const FileName = "bangumi.toml"

// Override is per-path configuration that outranks every resolution signal.
// The zero value means "no override".
type Override struct {
	// ID forces the catalog subject id for this folder. 0 means unset.
	ID int `toml:"id"`
	// Offset is added to every episode number under this folder.
	Offset int `toml:"offset"`
	// Type overrides episode classification: "", "normal" or "special".
	Type string `toml:"type"`
}

// HasID reports whether the override carries an explicit catalog id.
func (o Override) HasID() bool {
	return o.ID > 0
}

// ForPath loads the override in effect for path by checking the path's own
// directory and then each parent up to root. The nearest file wins; fields
// are not merged across levels. A missing file yields the zero Override.
func ForPath(path string) (Override, error) {
	dir := path
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		dir = filepath.Dir(path)
	}

	for {
		override, err := load(filepath.Join(dir, FileName))
		if err == nil {
			return override, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return Override{}, err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Override{}, nil
		}
		dir = parent
	}
}

func load(path string) (Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Override{}, err
	}

	var override Override
	if _, err := toml.Decode(string(data), &override); err != nil {
		return Override{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return override, nil
}
