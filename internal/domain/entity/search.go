package entity

// Backend sort orders a search query can ask for.
const (
	SortRecent     = "recent"
	SortPriceLow   = "price-low"
	SortPriceHigh  = "price-high"
	SortPopularity = "popularity"
)

type PriceRange struct {
	Min int
	Max int
}

// SearchFilters is an ephemeral query description; never persisted.
type SearchFilters struct {
	SearchText  string
	Category    string
	Subcategory string
	Condition   []string
	PriceRange  *PriceRange
	SortBy      string
}
