package b2c

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/internal/auth"
	"github.com/suteetoe/restb/internal/handler/view"
	"github.com/suteetoe/restb/internal/repository"
	"github.com/suteetoe/restb/internal/schema"
	"github.com/suteetoe/restb/pkg/logger"
	"go.uber.org/zap"
)

// GetUser handles GET /user/:userID
func (h *Handler) GetUser(c echo.Context) error {
	req, err := schema.Bound[schema.GetUserRequest](c)
	if err != nil {
		return err
	}
	self, _, err := auth.UserFrom(c)
	if err != nil {
		return err
	}
	if req.UserID == self.ID {
		return c.JSON(http.StatusOK, echo.Map{"user": view.NewUserProfile(self)})
	}

	user, err := h.users.FindByID(c.Request().Context(), req.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("User was not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": view.NewUserProfile(user)})
}

// DeleteUser handles DELETE /user
func (h *Handler) DeleteUser(c echo.Context) error {
	user, p, err := auth.UserFrom(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if err := h.users.SoftDelete(ctx, user.ID); err != nil {
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

	logger.FromEcho(c).Info("User deleted", zap.String("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"user":    view.IDOnly{ID: user.ID},
		"message": "User was deleted successfully.",
	})
}
