package properties

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"
)

// Set is an immutable view of the pairs read from a properties file.
type Set struct {
	path    string
	present bool
	values  map[string]string
}

// Empty returns a Set with no values and no backing file.
func Empty() Set {
	return Set{values: map[string]string{}}
}

// Load reads the properties file at path. A path that does not exist yields an
// empty Set and no error.
func Load(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			set := Empty()
			set.path = path
			return set, nil
		}
		return Set{}, fmt.Errorf("open properties file: %w", err)
	}
	defer f.Close()

	set, err := Parse(f, path)
	if err != nil {
		return Set{}, err
	}
	set.present = true
	return set, nil
}

// Parse reads pairs from r. name is only used in error messages and Path.
func Parse(r io.Reader, name string) (Set, error) {
	values := make(map[string]string)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := sc.Text()
		line := strings.TrimSpace(raw)
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return Set{}, &ParseError{Path: name, Line: lineNo, Text: raw}
		}
		// later duplicates win
		values[key] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return Set{}, fmt.Errorf("read %s: %w", name, err)
	}

	return Set{path: name, values: values}, nil
}

// Get returns the value stored for key and whether it was present.
func (s Set) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of keys.
func (s Set) Len() int {
	return len(s.values)
}

// IsEmpty reports whether the set holds no keys.
func (s Set) IsEmpty() bool {
	return len(s.values) == 0
}

// Keys returns the keys in sorted order.
func (s Set) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Map returns a copy of the underlying pairs.
func (s Set) Map() map[string]string {
	out := make(map[string]string, len(s.values))
	maps.Copy(out, s.values)
	return out
}

// Path is the file the set was loaded from, or the name passed to Parse.
func (s Set) Path() string {
	return s.path
}

// Present reports whether Load found the file on disk.
func (s Set) Present() bool {
	return s.present
}

// Equal compares the pairs of two sets, ignoring their origin.
func (s Set) Equal(other Set) bool {
	return maps.Equal(s.values, other.values)
}
