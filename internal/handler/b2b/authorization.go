package b2b

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/internal/auth"
	"github.com/suteetoe/restb/internal/handler/view"
	"github.com/suteetoe/restb/internal/model"
	"github.com/suteetoe/restb/internal/repository"
	"github.com/suteetoe/restb/internal/schema"
	"github.com/suteetoe/restb/internal/service/email"
	"github.com/suteetoe/restb/pkg/jwtutil"
	"github.com/suteetoe/restb/pkg/logger"
	"github.com/suteetoe/restb/prometheus"
	"go.uber.org/zap"
)

const (
	msgProfileExists     = "Profile already exists. Go to login, or use forgot password"
	msgInvalidCredential = "Password or email is incorrect"
	msgRecoverySent      = "Email with password recovery link was successfully sent"
	msgRegistered        = "Registration was successful"
)

// startSession issues a b2b token and stores it in a new session
func (h *Handler) startSession(c echo.Context, admin *model.Admin) (*view.AdminSession, error) {
	token, err := h.tokens.GenerateToken(admin.ID, jwtutil.AudienceB2B)
	if err != nil {
		return nil, err
	}
	sess, err := h.sessions.Start(c)
	if err != nil {
		return nil, err
	}
	sess.Data.JWT = token
	if err := h.sessions.Save(c, sess); err != nil {
		return nil, err
	}
	return &view.AdminSession{ID: admin.ID, Token: token, Role: admin.Role}, nil
}

func (h *Handler) emailTaken(c echo.Context, address string) (bool, error) {
	_, err := h.admins.FindByEmail(c.Request().Context(), address)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Register handles POST /authorization/register. The first admin of a brand creates it.
func (h *Handler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	req, err := schema.Bound[schema.RegisterAdminRequest](c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	taken, err := h.emailTaken(c, req.Email)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Conflict(msgProfileExists)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	admin := &model.Admin{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  hash,
		Phone:     req.Phone,
		Role:      model.AdminRoleAdmin,
	}
	brand := &model.Brand{Name: strings.TrimSpace(req.FirstName + " " + req.LastName)}
	if err := h.admins.CreateWithBrand(ctx, admin, brand); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperror.Conflict(msgProfileExists)
		}
		return err
	}

	session, err := h.startSession(c, admin)
	if err != nil {
		return err
	}

	h.mailer.Dispatch(ctx, email.Email{
		Type: email.TypeRegistered,
		To:   admin.Email,
		Data: email.RegisteredData{FirstName: admin.FirstName},
	})

	prometheus.RecordRegister(string(jwtutil.AudienceB2B))
	log.Info("Admin registered",
		zap.String("admin_id", admin.ID),
		zap.String("brand_id", brand.ID))
	return c.JSON(http.StatusOK, echo.Map{"admin": session, "message": msgRegistered})
}

// Login handles POST /authorization/login
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	req, err := schema.Bound[schema.LoginRequest](c)
	if err != nil {
		return err
	}

	admin, err := h.admins.FindByEmail(c.Request().Context(), req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		prometheus.RecordAuthError("admin_not_found")
		return apperror.Unauthorized(msgInvalidCredential)
	}
	if err != nil {
		return err
	}
	if !auth.CheckPassword(admin.Password, req.Password) {
		prometheus.RecordAuthError("invalid_password")
		return apperror.Unauthorized(msgInvalidCredential)
	}

	session, err := h.startSession(c, admin)
	if err != nil {
		return err
	}

	prometheus.RecordLogin(string(jwtutil.AudienceB2B))
	log.Info("Admin logged in", zap.String("admin_id", admin.ID))
	return c.JSON(http.StatusOK, echo.Map{"admin": session, "message": "Logged in successfully"})
}

// Logout handles GET /authorization/logout
func (h *Handler) Logout(c echo.Context) error {
	admin, p, err := auth.AdminFrom(c)
	if err != nil {
		return err
	}

	sess, err := h.sessions.Load(c)
	if err != nil {
		return err
	}
	if err := h.sessions.Destroy(c, sess); err != nil {
		return err
	}
	if err := h.revoke(c.Request().Context(), p); err != nil {
		return err
	}

	logger.FromEcho(c).Info("Admin logged out", zap.String("admin_id", admin.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"admin":   view.IDOnly{ID: admin.ID},
		"message": "Admin was logged out",
	})
}

// ForgotPassword handles POST /authorization/forgot-password.
// The reply is the same whether or not the account exists.
func (h *Handler) ForgotPassword(c echo.Context) error {
	log := logger.FromEcho(c)
	req, err := schema.Bound[schema.ForgotPasswordRequest](c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	admin, err := h.admins.FindByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		log.Info("Password recovery for unknown admin email")
	case err != nil:
		return err
	default:
		token, err := h.tokens.GenerateToken(admin.ID, jwtutil.AudienceB2BForgotPassword)
		if err != nil {
			return err
		}
		h.mailer.Dispatch(ctx, email.Email{
			Type: email.TypeForgotPassword,
			To:   admin.Email,
			Data: email.ForgotPasswordData{
				FirstName: admin.FirstName,
				Link:      h.frontendURL + "/b2b/reset-password?token=" + token,
			},
		})
		log.Info("Password recovery sent", zap.String("admin_id", admin.ID))
	}

	return c.JSON(http.StatusOK, echo.Map{"message": msgRecoverySent})
}

// ResetPassword handles POST /authorization/reset-password
func (h *Handler) ResetPassword(c echo.Context) error {
	req, err := schema.Bound[schema.ResetPasswordRequest](c)
	if err != nil {
		return err
	}
	admin, p, err := auth.AdminFrom(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := h.admins.Update(ctx, admin.ID, map[string]interface{}{"password": hash}); err != nil {
		return err
	}
	if err := h.revoke(ctx, p); err != nil {
		return err
	}

	logger.FromEcho(c).Info("Admin password reset", zap.String("admin_id", admin.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"admin":   view.IDOnly{ID: admin.ID},
		"message": "Password was successfully reset",
	})
}

// Invite handles POST /authorization/auth/invite
func (h *Handler) Invite(c echo.Context) error {
	log := logger.FromEcho(c)
	req, err := schema.Bound[schema.InviteEmployeeRequest](c)
	if err != nil {
		return err
	}
	admin, brandID, _, err := adminOf(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	taken, err := h.emailTaken(c, req.Email)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Conflict(msgProfileExists)
	}

	brand, err := h.brands.FindByID(ctx, brandID)
	if err != nil {
		return err
	}
	token, err := h.tokens.GenerateInviteToken(admin.ID, brandID, req.Email)
	if err != nil {
		return err
	}
	h.mailer.Dispatch(ctx, email.Email{
		Type: email.TypeEmployeeInvite,
		To:   req.Email,
		Data: email.EmployeeInviteData{
			BrandName: brand.Name,
			Link:      h.frontendURL + "/b2b/employee/register?token=" + token,
		},
	})

	log.Info("Employee invited",
		zap.String("admin_id", admin.ID),
		zap.String("brand_id", brandID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Invitation was sent"})
}

// RegisterEmployee handles POST /authorization/auth/employee/register
func (h *Handler) RegisterEmployee(c echo.Context) error {
	log := logger.FromEcho(c)
	req, err := schema.Bound[schema.RegisterEmployeeRequest](c)
	if err != nil {
		return err
	}
	p, err := auth.PrincipalFrom(c)
	if err != nil {
		return err
	}
	if p.Kind != auth.KindInvite || p.Invite == nil {
		return auth.ErrNoPrincipal
	}
	invite := p.Invite
	ctx := c.Request().Context()

	taken, err := h.emailTaken(c, invite.Email)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Conflict(msgProfileExists)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	brandID := invite.BrandID
	admin := &model.Admin{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     schema.NormalizeEmail(invite.Email),
		Password:  hash,
		Phone:     req.Phone,
		Role:      model.AdminRoleEmployee,
		BrandID:   &brandID,
	}
	if err := h.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperror.Conflict(msgProfileExists)
		}
		return err
	}
	// an invitation registers one account
	if err := h.revoke(ctx, p); err != nil {
		return err
	}

	session, err := h.startSession(c, admin)
	if err != nil {
		return err
	}

	prometheus.RecordRegister(string(jwtutil.AudienceB2BInvite))
	log.Info("Employee registered",
		zap.String("admin_id", admin.ID),
		zap.String("brand_id", brandID),
		zap.String("inviter_id", invite.InviterID))
	return c.JSON(http.StatusOK, echo.Map{"admin": session, "message": msgRegistered})
}
