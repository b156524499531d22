// Package results accumulates discovery output from concurrent workers and
// renders the final report document.
package results

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/welldone-cloud/aws-list-resources/types"
)

// Entry is the per-(region, type) value of the report: the sorted instance
// identifiers, or just their count in counts-only mode.
type Entry struct {
	Identifiers []string
	Count       int
	CountOnly   bool
}

// MarshalJSON renders either the identifier list or the bare count.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.CountOnly {
		return json.Marshal(e.Count)
	}
	return json.Marshal(e.Identifiers)
}

// Aggregate collects discovered resources and per-region denial and error
// logs. It is the only state shared across workers; a single mutex guards
// every mutation. Contention is negligible next to the network calls that
// precede each write.
type Aggregate struct {
	mu         sync.Mutex
	countsOnly bool
	regions    map[string]map[string]Entry
	denied     map[string][]string
	errors     map[string][]string
}

// New creates an empty aggregate with one slot per requested region.
func New(regions []string, countsOnly bool) *Aggregate {
	a := &Aggregate{
		countsOnly: countsOnly,
		regions:    make(map[string]map[string]Entry, len(regions)),
		denied:     make(map[string][]string, len(regions)),
		errors:     make(map[string][]string, len(regions)),
	}
	for _, r := range regions {
		a.regions[r] = make(map[string]Entry)
		a.denied[r] = []string{}
		a.errors[r] = []string{}
	}
	return a
}

// AddResources records the surviving instances of one type in one region.
// Empty sets are dropped: neither an empty list nor a zero count is ever
// stored.
func (a *Aggregate) AddResources(region, resourceType string, resources []types.Resource) {
	if len(resources) == 0 {
		return
	}
	entry := Entry{Count: len(resources), CountOnly: a.countsOnly}
	if !a.countsOnly {
		entry.Identifiers = types.Identifiers(resources)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.regions[region][resourceType] = entry
}

// AddDenied records that listing the given type was denied in the region.
func (a *Aggregate) AddDenied(region, resourceType string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.denied[region] = append(a.denied[region], resourceType)
}

// AddError records a non-denial failure or warning for the region.
func (a *Aggregate) AddError(region, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors[region] = append(a.errors[region], message)
}

// Finalize sorts and de-duplicates the denial and error logs. Call it once,
// after all workers have been joined.
func (a *Aggregate) Finalize() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for r := range a.denied {
		a.denied[r] = sortedUnique(a.denied[r])
	}
	for r := range a.errors {
		a.errors[r] = sortedUnique(a.errors[r])
	}
}

func sortedUnique(in []string) []string {
	sort.Strings(in)
	out := in[:0]
	for i, s := range in {
		if i == 0 || s != in[i-1] {
			out = append(out, s)
		}
	}
	return out
}

// Metadata labels a report with the account and run it came from.
type Metadata struct {
	AccountID    string
	Principal    string
	Invocation   string
	RunTimestamp string
}

// Document is the serializable report. encoding/json emits map keys in
// sorted order, so the same aggregate always serializes byte-identically.
type Document struct {
	Metadata DocumentMetadata            `json:"_metadata"`
	Regions  map[string]map[string]Entry `json:"regions"`
}

// DocumentMetadata is the _metadata section of the report.
type DocumentMetadata struct {
	AccountID            string              `json:"account_id"`
	AccountPrincipal     string              `json:"account_principal"`
	DeniedListOperations map[string][]string `json:"denied_list_operations"`
	Errors               map[string][]string `json:"errors"`
	Invocation           string              `json:"invocation"`
	RunTimestamp         string              `json:"run_timestamp"`
}

// Document snapshots the aggregate into its serializable form. Finalize
// must have run first.
func (a *Aggregate) Document(meta Metadata) Document {
	a.mu.Lock()
	defer a.mu.Unlock()

	regions := make(map[string]map[string]Entry, len(a.regions))
	for r, entries := range a.regions {
		copied := make(map[string]Entry, len(entries))
		for t, e := range entries {
			copied[t] = e
		}
		regions[r] = copied
	}

	return Document{
		Metadata: DocumentMetadata{
			AccountID:            meta.AccountID,
			AccountPrincipal:     meta.Principal,
			DeniedListOperations: copyLog(a.denied),
			Errors:               copyLog(a.errors),
			Invocation:           meta.Invocation,
			RunTimestamp:         meta.RunTimestamp,
		},
		Regions: regions,
	}
}

func copyLog(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for r, msgs := range in {
		copied := make([]string, len(msgs))
		copy(copied, msgs)
		out[r] = copied
	}
	return out
}
