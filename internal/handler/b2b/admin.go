package b2b

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/internal/handler/view"
	"github.com/suteetoe/restb/internal/middleware"
	"github.com/suteetoe/restb/internal/repository"
	"github.com/suteetoe/restb/internal/schema"
	"github.com/suteetoe/restb/pkg/logger"
	"go.uber.org/zap"
)

// GetAdmin handles GET /admin/:adminID
func (h *Handler) GetAdmin(c echo.Context) error {
	req, err := schema.Bound[schema.AdminIDRequest](c)
	if err != nil {
		return err
	}
	self, brandID, _, err := adminOf(c)
	if err != nil {
		return err
	}
	if req.AdminID == self.ID {
		return c.JSON(http.StatusOK, echo.Map{"admin": view.NewAdminProfile(self)})
	}

	admin, err := h.admins.FindInBrand(c.Request().Context(), req.AdminID, brandID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Admin was not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"admin": view.NewAdminProfile(admin)})
}

// UpdateAdmin handles PATCH /admin
func (h *Handler) UpdateAdmin(c echo.Context) error {
	req, err := schema.Bound[schema.UpdateAdminRequest](c)
	if err != nil {
		return err
	}
	self, _, _, err := adminOf(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	changes := req.Changes()
	if len(changes) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"admin": view.NewAdminProfile(self)})
	}
	if err := h.admins.Update(ctx, self.ID, changes); err != nil {
		return err
	}
	admin, err := h.admins.FindByID(ctx, self.ID)
	if err != nil {
		return err
	}

	logger.FromEcho(c).Info("Admin updated", zap.String("admin_id", self.ID))
	return c.JSON(http.StatusOK, echo.Map{"admin": view.NewAdminProfile(admin)})
}

// DeleteAdmin handles DELETE /admin/:adminID. Admins may only delete themselves.
func (h *Handler) DeleteAdmin(c echo.Context) error {
	req, err := schema.Bound[schema.AdminIDRequest](c)
	if err != nil {
		return err
	}
	self, _, p, err := adminOf(c)
	if err != nil {
		return err
	}
	if req.AdminID != self.ID {
		return apperror.Forbidden(middleware.PermissionDenied)
	}
	ctx := c.Request().Context()

	if err := h.admins.SoftDelete(ctx, self.ID); err != nil {
		return err
	}
	sess, err := h.sessions.Load(c)
	if err != nil {
		return err
	}
	if err := h.sessions.Destroy(c, sess); err != nil {
		return err
	}
	if err := h.revoke(ctx, p); err != nil {
		return err
	}

	logger.FromEcho(c).Info("Admin deleted", zap.String("admin_id", self.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"admin":   view.IDOnly{ID: self.ID},
		"message": "Admin was deleted successfully.",
	})
}
