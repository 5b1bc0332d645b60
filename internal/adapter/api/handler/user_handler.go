package handler

import (
	"github.com/labstack/echo/v4"

	"fyndit/internal/domain/entity"
	"fyndit/internal/usecase"
	"fyndit/pkg/errors"
	"fyndit/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	user, err := h.userUseCase.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req struct {
		Username    string               `json:"username" validate:"omitempty,min=3"`
		DisplayName string               `json:"display_name"`
		Bio         string               `json:"bio" validate:"omitempty,max=500"`
		PhotoURL    string               `json:"photo_url" validate:"omitempty,url"`
		PhoneNumber string               `json:"phone_number"`
		Location    *entity.UserLocation `json:"location"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), uid, usecase.UpdateProfileInput{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		PhotoURL:    req.PhotoURL,
		PhoneNumber: req.PhoneNumber,
		Location:    req.Location,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) GetSellerProfile(c echo.Context) error {
	sellerID := c.Param("id")

	profile, err := h.userUseCase.GetSellerProfile(c.Request().Context(), sellerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}
