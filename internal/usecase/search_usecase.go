package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"

	"fyndit/internal/domain/entity"
	"fyndit/internal/domain/repository"
	"fyndit/pkg/errors"
	"fyndit/pkg/utils"
)

const (
	// Sentinel upper bound meaning "no maximum".
	priceRangeMax = 999999

	// When a free-text term is present the backend is asked for this many
	// times the page size, so the substring filter can discard non-matches
	// without starving the page.
	textOverfetchMultiplier = 3

	defaultPageSize = 12
	maxPageSize     = 50

	// Offset-mode browsing fetches one batch and slices it into pages.
	browseBatchSize  = 50
	visiblePageCount = 5
)

type SearchUseCase struct {
	productRepo repository.ProductRepository
}

func NewSearchUseCase(productRepo repository.ProductRepository) *SearchUseCase {
	return &SearchUseCase{
		productRepo: productRepo,
	}
}

// ParsePriceRange parses a "min-max" string, where max may be empty or carry
// a + suffix meaning unbounded. Unparsable parts fall back to 0 and the
// sentinel maximum. An empty string means no price filter at all.
func ParsePriceRange(s string) *entity.PriceRange {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	minPart := s
	maxPart := ""
	if idx := strings.Index(s, "-"); idx >= 0 {
		minPart = s[:idx]
		maxPart = s[idx+1:]
	}

	minVal, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(minPart), "+"))
	if err != nil || minVal < 0 {
		minVal = 0
	}

	maxPart = strings.TrimSpace(maxPart)
	maxVal := priceRangeMax
	if maxPart != "" && !strings.HasSuffix(maxPart, "+") {
		if v, err := strconv.Atoi(maxPart); err == nil && v >= 0 {
			maxVal = v
		}
	}

	return &entity.PriceRange{Min: minVal, Max: maxVal}
}

// SortKey maps a UI sort selection onto a backend sort order. The mapping is
// total: anything unrecognized sorts newest-first.
func SortKey(s string) string {
	switch s {
	case "recent":
		return entity.SortRecent
	case "price-asc", "price-low":
		return entity.SortPriceLow
	case "price-desc", "price-high":
		return entity.SortPriceHigh
	case "popular", "popularity":
		return entity.SortPopularity
	}
	return entity.SortRecent
}

// SearchTerms splits free text into lowercase terms for the AND filter.
func SearchTerms(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// MatchesTerms reports whether every term is a substring of the product's
// combined title, description, and tags.
func MatchesTerms(p *entity.Product, terms []string) bool {
	if len(terms) == 0 {
		return true
	}

	haystack := strings.ToLower(p.Title + " " + p.Description + " " + strings.Join(p.Tags, " "))
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

type SearchInput struct {
	Query       string
	Category    string
	Subcategory string
	Condition   []string
	PriceRange  string
	Sort        string
	PageSize    int
	Cursor      string
}

type SearchResult struct {
	Items   []*entity.Product `json:"items"`
	HasMore bool              `json:"hasMore"`
	Cursor  string            `json:"cursor,omitempty"`
}

func decodeCursor(token string) (*repository.SearchCursor, error) {
	if token == "" {
		return nil, nil
	}

	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, errors.BadRequest("Invalid cursor", err)
	}

	var cursor repository.SearchCursor
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return nil, errors.BadRequest("Invalid cursor", err)
	}

	return &cursor, nil
}

func encodeCursor(sortBy string, p *entity.Product) string {
	cursor := repository.SearchCursor{
		SortBy:    sortBy,
		Time:      p.CreatedAt,
		Price:     p.Price,
		Favorites: p.Favorites,
		DocID:     p.ID,
	}

	raw, err := json.Marshal(cursor)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(raw)
}

// Search runs one cursor-mode page fetch. With a free-text query the backend
// is over-fetched and the results are narrowed by the term filter; the page
// may come back shorter than requested, with no automatic re-fetch.
func (uc *SearchUseCase) Search(ctx context.Context, input SearchInput) (*SearchResult, error) {
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	after, err := decodeCursor(input.Cursor)
	if err != nil {
		return nil, err
	}

	terms := SearchTerms(input.Query)
	filters := entity.SearchFilters{
		SearchText:  input.Query,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Condition:   input.Condition,
		PriceRange:  ParsePriceRange(input.PriceRange),
		SortBy:      SortKey(input.Sort),
	}

	limit := pageSize + 1
	if len(terms) > 0 {
		limit = pageSize*textOverfetchMultiplier + 1
	}

	raw, err := uc.productRepo.Search(ctx, filters, limit, after)
	if err != nil {
		return nil, err
	}

	// hasMore is judged on the raw, pre-filter count.
	hasMore := len(raw) > pageSize

	// The last fetched document only probes for more results; it is never
	// part of this page.
	consumed := raw
	if len(consumed) >= limit {
		consumed = consumed[:limit-1]
	}

	var items []*entity.Product
	var last *entity.Product
	for _, p := range consumed {
		last = p
		if MatchesTerms(p, terms) {
			items = append(items, p)
			if len(items) == pageSize {
				break
			}
		}
	}

	result := &SearchResult{
		Items:   items,
		HasMore: hasMore,
	}
	if hasMore && last != nil {
		result.Cursor = encodeCursor(filters.SortBy, last)
	}

	return result, nil
}

type BrowseInput struct {
	Category    string
	Subcategory string
	Condition   []string
	PriceRange  string
	Sort        string
	Page        int
	PageSize    int
}

// BrowseResult is an offset-mode page plus the page-window numbers the grid
// UI renders.
type BrowseResult struct {
	Items        []*entity.Product `json:"items"`
	Page         int               `json:"page"`
	PageSize     int               `json:"pageSize"`
	Total        int               `json:"total"`
	TotalPages   int               `json:"totalPages"`
	VisiblePages []int             `json:"visiblePages"`
}

// Browse serves category and home grids: it fetches one large batch and
// slices it into fixed-size pages.
func (uc *SearchUseCase) Browse(ctx context.Context, input BrowseInput) (*BrowseResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filters := entity.SearchFilters{
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Condition:   input.Condition,
		PriceRange:  ParsePriceRange(input.PriceRange),
		SortBy:      SortKey(input.Sort),
	}

	batch, err := uc.productRepo.Search(ctx, filters, browseBatchSize, nil)
	if err != nil {
		return nil, err
	}

	total := len(batch)
	totalPages := utils.TotalPages(total, pageSize)
	start, end := utils.PageBounds(page, pageSize, total)

	return &BrowseResult{
		Items:        batch[start:end],
		Page:         page,
		PageSize:     pageSize,
		Total:        total,
		TotalPages:   totalPages,
		VisiblePages: utils.VisiblePages(page, totalPages, visiblePageCount),
	}, nil
}
