// Package upload hands out presigned URLs for direct image uploads.
package upload

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/auth"
	"github.com/suteetoe/restb/internal/schema"
	"github.com/suteetoe/restb/internal/service/storage"
	"github.com/suteetoe/restb/pkg/logger"
	"go.uber.org/zap"
)

// Signer presigns object uploads
type Signer interface {
	UploadURL(ctx context.Context, filename, contentType string) (*storage.Upload, error)
}

type Handler struct {
	signer Signer
}

func New(signer Signer) *Handler {
	return &Handler{signer: signer}
}

// UploadURL handles PUT /upload-url
func (h *Handler) UploadURL(c echo.Context) error {
	req, err := schema.Bound[schema.UploadURLRequest](c)
	if err != nil {
		return err
	}
	admin, _, err := auth.AdminFrom(c)
	if err != nil {
		return err
	}

	upload, err := h.signer.UploadURL(c.Request().Context(), req.Filename, req.ContentType)
	if err != nil {
		return err
	}

	logger.FromEcho(c).Info("Upload URL issued",
		zap.String("admin_id", admin.ID),
		zap.String("key", upload.Key))
	return c.JSON(http.StatusOK, echo.Map{
		"publicUrl": upload.PublicURL,
		"uploadUrl": upload.UploadURL,
		"key":       upload.Key,
	})
}
