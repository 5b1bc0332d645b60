package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"fyndit/internal/domain/service"
	"fyndit/pkg/errors"
	"fyndit/pkg/logger"
	"fyndit/pkg/response"
)

const maxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type FileHandler struct {
	fileService service.FileUploadService
}

func NewFileHandler(fileService service.FileUploadService) *FileHandler {
	return &FileHandler{
		fileService: fileService,
	}
}

// UploadImage accepts one multipart image and returns its public URL. The
// caller attaches the URL to a product via the product endpoints.
func (h *FileHandler) UploadImage(c echo.Context) error {
	uid := c.Get("uid").(string)

	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	if file.Size > maxImageSize {
		return response.Error(c, errors.BadRequest(
			fmt.Sprintf("File size exceeds maximum allowed (%dMB)", maxImageSize/(1024*1024)), nil))
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return response.Error(c, errors.BadRequest("Unsupported image type", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read uploaded file", err))
	}
	defer src.Close()

	url, err := h.fileService.UploadProductImage(c.Request().Context(), src, contentType, uid)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to store image", err))
	}

	logger.Debug("Uploaded image for %s: %s", uid, url)

	return response.Created(c, map[string]string{"url": url})
}

// DeleteImage is best-effort cleanup for images the client uploaded but
// never attached to a listing.
func (h *FileHandler) DeleteImage(c echo.Context) error {
	var req struct {
		URL string `json:"url" validate:"required,url"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.fileService.DeleteFile(c.Request().Context(), req.URL); err != nil {
		logger.Warn("Failed to delete image %s: %v", req.URL, err)
	}

	return response.SuccessMessage(c, nil, "Image deleted")
}
