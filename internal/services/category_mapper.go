package services

import (
	"fleet-allocation-service/internal/domain"
	"fmt"
	"strings"
)

// Substring fallback applied when no exact mapping matches. Case-sensitive.
const nurseryRouteMarker = "Nursery Route Level"

// CategoryMapper resolves a route's service-type string to the van category
// it requires. The mapping table is injected at construction rather than
// held process-wide, so tests can run with alternate mappings.
type CategoryMapper struct {
	mapping map[string]domain.Category
}

// NewCategoryMapper validates the mapping table against the closed category
// set. An unknown category in the table is a configuration error and must
// abort the run before any matching begins.
func NewCategoryMapper(mapping map[string]domain.Category) (*CategoryMapper, error) {
	m := make(map[string]domain.Category, len(mapping))
	for serviceType, category := range mapping {
		if !category.Valid() {
			return nil, &ConfigError{
				Setting: "category mapping",
				Detail:  fmt.Sprintf("service type %q maps to unknown category %q", serviceType, category),
			}
		}
		m[serviceType] = category
	}
	return &CategoryMapper{mapping: m}, nil
}

// Resolve returns the required category for a service type.
//
// Exact matches win; otherwise a service type containing the nursery route
// marker resolves to Large. Anything else is unresolved: the second return
// is false and the caller records the route as unmatched. Never an error.
func (m *CategoryMapper) Resolve(serviceType string) (domain.Category, bool) {
	if c, ok := m.mapping[serviceType]; ok {
		return c, true
	}
	if strings.Contains(serviceType, nurseryRouteMarker) {
		return domain.CategoryLarge, true
	}
	return "", false
}
