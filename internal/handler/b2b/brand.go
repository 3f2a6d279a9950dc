package b2b

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/internal/handler/view"
	"github.com/suteetoe/restb/internal/schema"
	"github.com/suteetoe/restb/pkg/logger"
	"go.uber.org/zap"
)

const msgBrandNotFound = "Brand was not found"

// GetBrand handles GET /brand/:brandID; only the caller's own brand is visible
func (h *Handler) GetBrand(c echo.Context) error {
	req, err := schema.Bound[schema.BrandIDRequest](c)
	if err != nil {
		return err
	}
	_, brandID, _, err := adminOf(c)
	if err != nil {
		return err
	}
	if req.BrandID != brandID {
		return apperror.NotFound(msgBrandNotFound)
	}

	brand, err := h.brands.FindByID(c.Request().Context(), brandID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"brand": view.NewBrand(brand)})
}

// UpdateBrand handles PATCH /brand/:brandID
func (h *Handler) UpdateBrand(c echo.Context) error {
	req, err := schema.Bound[schema.UpdateBrandRequest](c)
	if err != nil {
		return err
	}
	admin, brandID, _, err := adminOf(c)
	if err != nil {
		return err
	}
	if req.BrandID != brandID {
		return apperror.NotFound(msgBrandNotFound)
	}
	ctx := c.Request().Context()

	changes := map[string]interface{}{"name": req.Name}
	if req.LogoURL != nil {
		changes["logo_url"] = *req.LogoURL
	}
	if err := h.brands.Update(ctx, brandID, changes); err != nil {
		return err
	}
	brand, err := h.brands.FindByID(ctx, brandID)
	if err != nil {
		return err
	}

	logger.FromEcho(c).Info("Brand updated",
		zap.String("brand_id", brandID),
		zap.String("admin_id", admin.ID))
	return c.JSON(http.StatusOK, echo.Map{"brand": view.NewBrand(brand)})
}
