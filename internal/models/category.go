package models

import "strings"

// Category tags the type of a listing.
type Category string

// Storable listing categories.
const (
	CategoryElectronics Category = "Electronics"
	CategoryBooks       Category = "Books"
	CategoryFurniture   Category = "Furniture"
	CategoryClothing    Category = "Clothing"
	CategoryOther       Category = "Other"

	// CategoryAll is a filter-only value meaning "no category filter". It is
	// never stored on a listing.
	CategoryAll Category = "All"
)

// Categories lists the storable categories in display order.
var Categories = []Category{
	CategoryElectronics,
	CategoryBooks,
	CategoryFurniture,
	CategoryClothing,
	CategoryOther,
}

// Valid reports whether c may be stored on a listing. Matching is exact and
// case-sensitive.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MatchesAll reports whether c, used as a filter, selects every listing.
func (c Category) MatchesAll() bool {
	return c == "" || c == CategoryAll
}

// Matches reports whether a listing tagged with stored passes the filter c.
func (c Category) Matches(stored Category) bool {
	return c.MatchesAll() || c == stored
}

// CategoryNames returns the storable categories joined for messages.
func CategoryNames() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
