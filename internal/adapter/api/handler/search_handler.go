package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"fyndit/internal/usecase"
	"fyndit/pkg/errors"
	"fyndit/pkg/response"
	"fyndit/pkg/utils"
)

type SearchHandler struct {
	searchUseCase *usecase.SearchUseCase
}

func NewSearchHandler(searchUseCase *usecase.SearchUseCase) *SearchHandler {
	return &SearchHandler{
		searchUseCase: searchUseCase,
	}
}

func conditions(c echo.Context) []string {
	raw := c.QueryParam("condition")
	if raw == "" {
		return nil
	}

	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Search serves cursor-mode result pages. Filter state arrives
// query-string-encoded, matching what the client reads back into its URL.
func (h *SearchHandler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" && c.QueryParam("category") == "" {
		return response.Error(c, errors.BadRequest("Search requires a query or a category", nil))
	}

	pageSize, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.searchUseCase.Search(c.Request().Context(), usecase.SearchInput{
		Query:       query,
		Category:    c.QueryParam("category"),
		Subcategory: c.QueryParam("subcategory"),
		Condition:   conditions(c),
		PriceRange:  c.QueryParam("price"),
		Sort:        c.QueryParam("sort"),
		PageSize:    pageSize,
		Cursor:      c.QueryParam("cursor"),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.CursorPage(c, result.Items, result.HasMore, result.Cursor)
}

// Browse serves offset-mode grids for the home and category pages.
func (h *SearchHandler) Browse(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	result, err := h.searchUseCase.Browse(c.Request().Context(), usecase.BrowseInput{
		Category:    c.QueryParam("category"),
		Subcategory: c.QueryParam("subcategory"),
		Condition:   conditions(c),
		PriceRange:  c.QueryParam("price"),
		Sort:        c.QueryParam("sort"),
		Page:        params.Page,
		PageSize:    params.PageSize,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
