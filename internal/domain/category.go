package domain

import "fmt"

// Category is the size class of a vehicle, used for matching eligibility.
// The set is closed: matching logic iterates and switches over these values,
// and the mapper validates its configuration against them at construction.
type Category string

const (
	CategoryExtraLarge Category = "Extra Large"
	CategoryLarge      Category = "Large"
	CategoryStepVan    Category = "Step Van"
)

// Categories returns all valid categories in display order.
func Categories() []Category {
	return []Category{CategoryExtraLarge, CategoryLarge, CategoryStepVan}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryExtraLarge, CategoryLarge, CategoryStepVan:
		return true
	}
	return false
}

// ParseCategory converts a raw roster string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("parse category: unknown category %q", s)
	}
	return c, nil
}
