package lists

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/padasch/french-nfi-dashboard/internal/model"
)

// Lists holds the group values offered for each group kind. It is loaded
// once at startup and read-only afterwards.
type Lists struct {
	values map[model.GroupKind][]string
	index  map[model.GroupKind]map[string]bool
}

// Files names the line-delimited source file of each kind.
type Files map[model.GroupKind]string

// Load reads every list file. All four kinds must be present and non-empty.
func Load(files Files) (*Lists, error) {
	l := &Lists{
		values: make(map[model.GroupKind][]string),
		index:  make(map[model.GroupKind]map[string]bool),
	}
	for _, kind := range model.GroupKinds {
		path, ok := files[kind]
		if !ok || path == "" {
			return nil, fmt.Errorf("no list file configured for %s", kind.Label())
		}
		vals, err := readLines(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s list: %w", kind.Label(), err)
		}
		if err := l.set(kind, vals); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return l, nil
}

// FromValues builds Lists from in-memory values.
func FromValues(values map[model.GroupKind][]string) (*Lists, error) {
	l := &Lists{
		values: make(map[model.GroupKind][]string),
		index:  make(map[model.GroupKind]map[string]bool),
	}
	for _, kind := range model.GroupKinds {
		if err := l.set(kind, values[kind]); err != nil {
			return nil, fmt.Errorf("%s: %w", kind.Label(), err)
		}
	}
	return l, nil
}

func (l *Lists) set(kind model.GroupKind, vals []string) error {
	var clean []string
	seen := make(map[string]bool, len(vals))
	for i, v := range vals {
		v = strings.TrimRight(v, "\r")
		if strings.TrimSpace(v) == "" || seen[v] {
			continue
		}
		if err := model.CheckGroupValue(v); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		seen[v] = true
		clean = append(clean, v)
	}
	if len(clean) == 0 {
		return fmt.Errorf("list is empty")
	}
	l.values[kind] = clean
	l.index[kind] = seen
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

// Values returns the values of a kind in file order.
func (l *Lists) Values(kind model.GroupKind) []string {
	return l.values[kind]
}

// First returns the first value of a kind, the selector default.
func (l *Lists) First(kind model.GroupKind) string {
	if vals := l.values[kind]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Last returns the last value of a kind.
func (l *Lists) Last(kind model.GroupKind) string {
	if vals := l.values[kind]; len(vals) > 0 {
		return vals[len(vals)-1]
	}
	return ""
}

// Contains reports whether value is offered for kind.
func (l *Lists) Contains(kind model.GroupKind, value string) bool {
	return l.index[kind][value]
}

// Len returns the number of values of a kind.
func (l *Lists) Len(kind model.GroupKind) int {
	return len(l.values[kind])
}

// KindsOf returns every kind whose list contains value.
func (l *Lists) KindsOf(value string) []model.GroupKind {
	var kinds []model.GroupKind
	for _, kind := range model.GroupKinds {
		if l.Contains(kind, value) {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}
