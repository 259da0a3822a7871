// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package bloomfilter

import (
	"os"
	"path/filepath"
	"strings"
)

// Named is a filter with the name it is reported under.
type Named struct {
	Name   string
	Filter *Filter
}

// Set is an ordered collection of filters consulted together.
type Set struct {
	filters []Named
}

// NewSet returns a set containing filters in the given order.
func NewSet(filters ...Named) *Set {
	return &Set{filters: filters}
}

// LoadSet loads the filters at paths. Each filter is named by FilterName.
func LoadSet(paths ...string) (*Set, error) {
	if len(paths) == 0 {
		return nil, ErrInput.New("no filters given")
	}
	set := &Set{}
	for _, path := range paths {
		filter, err := Load(path)
		if err != nil {
			return nil, err
		}
		set.Add(FilterName(path), filter)
	}
	return set, nil
}

// ListFilters returns the payload paths of the filters stored in dir, sorted
// by name. A file is a filter payload when its params sidecar exists.
func ListFilters(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ErrInput.Wrap(err)
	}

	present := make(map[string]bool, len(entries))
	for _, entry := range entries {
		present[entry.Name()] = !entry.IsDir()
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, ParamsExt) || !present[name+ParamsExt] {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	if len(paths) == 0 {
		return nil, ErrInput.New("no filters in %q", dir)
	}
	return paths, nil
}

// FilterName derives a report name from a filter payload path: the base name
// up to its first dot.
func FilterName(path string) string {
	name, _, _ := strings.Cut(filepath.Base(path), ".")
	return name
}

// Add appends a filter to the set.
func (set *Set) Add(name string, filter *Filter) {
	set.filters = append(set.filters, Named{Name: name, Filter: filter})
}

// Len returns the number of filters.
func (set *Set) Len() int { return len(set.filters) }

// All returns the filters in order. The slice must not be modified.
func (set *Set) All() []Named { return set.filters }

// Names returns the filter names in order.
func (set *Set) Names() []string {
	names := make([]string, len(set.filters))
	for i, named := range set.filters {
		names[i] = named.Name
	}
	return names
}

// KmerLength returns the k-mer length shared by the filters that record one,
// and whether all of them agree. It returns 0 when no filter records a length.
func (set *Set) KmerLength() (k int, consistent bool) {
	consistent = true
	for _, named := range set.filters {
		switch fk := named.Filter.KmerLength(); {
		case fk == 0:
		case k == 0:
			k = fk
		case fk != k:
			consistent = false
		}
	}
	return k, consistent
}

// Mismatches returns the filters whose recorded k-mer length differs from k.
// Filters without a recorded length are reported as well, since their length
// cannot be verified.
func (set *Set) Mismatches(k int) []Named {
	var mismatched []Named
	for _, named := range set.filters {
		if named.Filter.KmerLength() != k {
			mismatched = append(mismatched, named)
		}
	}
	return mismatched
}
