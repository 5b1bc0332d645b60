package service

import (
	"context"
	"io"
)

// FileUploadService is the storage boundary used by the upload handler.
type FileUploadService interface {
	UploadProductImage(ctx context.Context, file io.Reader, contentType, ownerID string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
	Close() error
}
