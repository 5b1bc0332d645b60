package handler

import (
	"github.com/labstack/echo/v4"

	"fyndit/internal/domain/entity"
	"fyndit/internal/usecase"
	"fyndit/pkg/errors"
	"fyndit/pkg/response"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

func (h *ProductHandler) Create(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.CreateProductInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.CreateProduct(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

// Get serves product detail. Anonymous viewers are allowed; the uid, when
// present, decides visibility of inactive listings and view counting.
func (h *ProductHandler) Get(c echo.Context) error {
	viewerID, _ := c.Get("uid").(string)

	product, err := h.productUseCase.GetProduct(c.Request().Context(), c.Param("id"), viewerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.CreateProductInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.UpdateProduct(c.Request().Context(), c.Param("id"), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) UpdateSaleStatus(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req struct {
		SaleStatus string `json:"sale_status" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.UpdateSaleStatus(c.Request().Context(), c.Param("id"), uid, req.SaleStatus)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.productUseCase.DeleteProduct(c.Request().Context(), c.Param("id"), uid); err != nil {
		return response.Error(c, err)
	}

	return response.SuccessMessage(c, nil, "Product deleted")
}

func (h *ProductHandler) ListMine(c echo.Context) error {
	uid := c.Get("uid").(string)

	products, err := h.productUseCase.ListMyProducts(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, products)
}

// Metadata returns the closed category and condition enums the listing form
// renders from.
func (h *ProductHandler) Metadata(c echo.Context) error {
	return response.Success(c, map[string]interface{}{
		"categories": entity.ProductCategories,
		"conditions": entity.ProductConditions,
	})
}
