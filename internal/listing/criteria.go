package listing

import "strings"

const (
	// All disables the location, quality and organic filters.
	All = "all"

	OrganicOnly  = "organic"
	Conventional = "conventional"

	defaultQuality = "standard"
)

// Criteria narrows the cached collection. Zero value matches everything.
type Criteria struct {
	Query    string
	Category string
	Location string
	Quality  string
	Organic  string
	// FarmerID pins the view to one farmer; when set every other field is ignored.
	FarmerID string
	// FarmerName labels the pin. It never takes part in matching.
	FarmerName string
}

// Pinned reports whether the farmer drill-down mode is active.
func (c Criteria) Pinned() bool {
	return c.FarmerID != ""
}

// Narrows reports whether any text or facet criterion would exclude a crop.
// The farmer pin is not considered.
func (c Criteria) Narrows() bool {
	c = c.Normalize()
	return c.Query != "" || c.Category != "" ||
		(c.Location != "" && c.Location != All) ||
		(c.Quality != "" && c.Quality != All) ||
		c.Organic == OrganicOnly || c.Organic == Conventional
}

// Normalize lower-cases and trims the text fields.
func (c Criteria) Normalize() Criteria {
	return Criteria{
		Query:      strings.ToLower(strings.TrimSpace(c.Query)),
		Category:   strings.ToLower(strings.TrimSpace(c.Category)),
		Location:   strings.ToLower(strings.TrimSpace(c.Location)),
		Quality:    strings.ToLower(strings.TrimSpace(c.Quality)),
		Organic:    strings.ToLower(strings.TrimSpace(c.Organic)),
		FarmerID:   strings.TrimSpace(c.FarmerID),
		FarmerName: strings.TrimSpace(c.FarmerName),
	}
}

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "low-high"
	SortPriceDesc SortKey = "high-low"
)

// ParseSortKey falls back to newest for unknown input.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	default:
		return SortNewest
	}
}

func (k SortKey) Label() string {
	switch k {
	case SortPriceAsc:
		return "Sorted by price: Low to High"
	case SortPriceDesc:
		return "Sorted by price: High to Low"
	default:
		return "Sorted by newest"
	}
}
