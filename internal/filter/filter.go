// Package filter narrows the set of resource types targeted by a discovery
// run using glob patterns over type identifiers.
package filter

import (
	"fmt"
	"path"
	"sort"
)

// TypeFilter selects resource types by include and exclude glob patterns.
// Patterns are anchored to the full type identifier and case-sensitive,
// with `*`, `?` and `[...]` wildcards. Include is evaluated first; a type
// matched by any exclude pattern is dropped regardless of includes.
type TypeFilter struct {
	include []string
	exclude []string

	// defaulted marks an include list the user never supplied; the
	// diagnostic pass skips it.
	defaulted bool
}

// New creates a TypeFilter. With no include patterns everything is included;
// with no exclude patterns nothing is excluded.
func New(include, exclude []string) *TypeFilter {
	defaulted := false
	if len(include) == 0 {
		include = []string{"*"}
		defaulted = true
	}
	return &TypeFilter{include: include, exclude: exclude, defaulted: defaulted}
}

// Apply returns the sorted subset of all that is included and not excluded.
func (f *TypeFilter) Apply(all []string) []string {
	selected := make(map[string]struct{})
	for _, t := range all {
		if matchesAny(f.include, t) {
			selected[t] = struct{}{}
		}
	}
	for t := range selected {
		if matchesAny(f.exclude, t) {
			delete(selected, t)
		}
	}

	enabled := make([]string, 0, len(selected))
	for t := range selected {
		enabled = append(enabled, t)
	}
	sort.Strings(enabled)
	return enabled
}

// Unmatched returns the patterns, include and exclude alike, that matched
// none of the given type identifiers. A pattern can be valid in one region
// and match nothing in another, so callers report these per region as
// warnings, never as failures.
func (f *TypeFilter) Unmatched(all []string) []string {
	include := f.include
	if f.defaulted {
		include = nil
	}
	var unmatched []string
	for _, patterns := range [][]string{include, f.exclude} {
		for _, p := range patterns {
			if !patternMatchesAny(p, all) {
				unmatched = append(unmatched, p)
			}
		}
	}
	sort.Strings(unmatched)
	return unmatched
}

// Validate reports the first syntactically malformed pattern.
func Validate(patterns []string) error {
	for _, p := range patterns {
		if _, err := path.Match(p, ""); err != nil {
			return fmt.Errorf("malformed resource type pattern %q: %w", p, err)
		}
	}
	return nil
}

func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		// Validate rejects malformed patterns before discovery starts.
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}

func patternMatchesAny(pattern string, names []string) bool {
	for _, n := range names {
		if ok, _ := path.Match(pattern, n); ok {
			return true
		}
	}
	return false
}
