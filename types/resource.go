// Package types defines the resource model shared across discovery.
package types

import "sort"

// Resource is one discovered instance of a resource type. The identifier is
// unique within its type and region. Properties holds the raw property
// document the Cloud Control API returned for the instance, parsed into a
// generic map; it may be nil when the API returned none.
type Resource struct {
	Identifier string
	Properties map[string]any
}

// ListStatus classifies the outcome of one (region, type) listing attempt.
type ListStatus int

const (
	// ListOK means the listing completed; Resources carries the instances.
	ListOK ListStatus = iota
	// ListDenied means the caller lacks permission to list this type.
	ListDenied
	// ListFailed covers every other listing failure; Message carries the
	// cause.
	ListFailed
)

// ListResult is the outcome of listing one resource type in one region.
type ListResult struct {
	Status    ListStatus
	Resources []Resource
	Message   string
}

// Identifiers returns the sorted identifiers of the given resources.
func Identifiers(resources []Resource) []string {
	ids := make([]string, 0, len(resources))
	for _, r := range resources {
		ids = append(ids, r.Identifier)
	}
	sort.Strings(ids)
	return ids
}
