package handler

import (
	"github.com/labstack/echo/v4"

	"fyndit/internal/usecase"
	"fyndit/pkg/response"
)

type FavoriteHandler struct {
	favoriteUseCase *usecase.FavoriteUseCase
}

func NewFavoriteHandler(favoriteUseCase *usecase.FavoriteUseCase) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteUseCase: favoriteUseCase,
	}
}

func (h *FavoriteHandler) Toggle(c echo.Context) error {
	uid := c.Get("uid").(string)

	isFavorite, err := h.favoriteUseCase.Toggle(c.Request().Context(), uid, c.Param("productId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"is_favorite": isFavorite})
}

func (h *FavoriteHandler) List(c echo.Context) error {
	uid := c.Get("uid").(string)

	products, err := h.favoriteUseCase.ListFavorites(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, products)
}

// ListIDs returns only the favorited product ids, for cheap set membership
// checks on listing grids.
func (h *FavoriteHandler) ListIDs(c echo.Context) error {
	uid := c.Get("uid").(string)

	ids, err := h.favoriteUseCase.ListFavoriteIDs(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, ids)
}
