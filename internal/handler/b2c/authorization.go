package b2c

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
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
	msgUserExists        = "User already exists. Try to login again, or use forgot password"
	msgInvalidCredential = "Password or email is incorrect"
	msgRecoverySent      = "Email with password recovery link was successfully sent"
)

// startSession replaces the caller's session with one holding a fresh b2c token
func (h *Handler) startSession(c echo.Context, userID string) error {
	token, err := h.tokens.GenerateToken(userID, jwtutil.AudienceB2C)
	if err != nil {
		return err
	}
	sess, err := h.sessions.Start(c)
	if err != nil {
		return err
	}
	sess.Data.JWT = token
	return h.sessions.Save(c, sess)
}

// Register handles POST /authorization/register
func (h *Handler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	req, err := schema.Bound[schema.RegisterUserRequest](c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	existing, err := h.users.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if existing != nil {
		return apperror.Conflict(msgUserExists)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	user := &model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  &hash,
		Type:      model.UserTypeDefault,
	}
	if err := h.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperror.Conflict(msgUserExists)
		}
		return err
	}

	if err := h.startSession(c, user.ID); err != nil {
		return err
	}

	h.mailer.Dispatch(ctx, email.Email{
		Type: email.TypeRegistered,
		To:   user.Email,
		Data: email.RegisteredData{FirstName: user.FirstName},
	})

	prometheus.RecordRegister(string(jwtutil.AudienceB2C))
	log.Info("User registered", zap.String("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"user": view.IDOnly{ID: user.ID}})
}

// Login handles POST /authorization/login
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	req, err := schema.Bound[schema.LoginRequest](c)
	if err != nil {
		return err
	}

	user, err := h.users.FindByEmail(c.Request().Context(), req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		prometheus.RecordAuthError("user_not_found")
		return apperror.Unauthorized(msgInvalidCredential)
	}
	if err != nil {
		return err
	}
	if user.Password == nil || !auth.CheckPassword(*user.Password, req.Password) {
		prometheus.RecordAuthError("invalid_password")
		return apperror.Unauthorized(msgInvalidCredential)
	}

	if err := h.startSession(c, user.ID); err != nil {
		return err
	}

	prometheus.RecordLogin(string(jwtutil.AudienceB2C))
	log.Info("User logged in", zap.String("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"user": view.IDOnly{ID: user.ID}})
}

// Google handles GET /authorization/google
func (h *Handler) Google(c echo.Context) error {
	sess, err := h.sessions.Load(c)
	if err != nil {
		return err
	}
	sess.Data.OAuthState = uuid.NewString()
	if err := h.sessions.Save(c, sess); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, h.oauth.AuthCodeURL(sess.Data.OAuthState))
}

// GoogleRedirect handles GET /authorization/google/redirect
func (h *Handler) GoogleRedirect(c echo.Context) error {
	log := logger.FromEcho(c)
	req, err := schema.Bound[schema.GoogleCallbackRequest](c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	sess, err := h.sessions.Load(c)
	if err != nil {
		return err
	}
	if sess.Data.OAuthState == "" || sess.Data.OAuthState != req.State {
		prometheus.RecordAuthError("oauth_state")
		return apperror.Unauthorized("Invalid OAuth state")
	}

	profile, err := h.oauth.Exchange(ctx, req.Code)
	if err != nil {
		prometheus.RecordAuthError("oauth_exchange")
		return apperror.Unauthorized("Google authentication failed").Wrap(err)
	}
	if profile.Email == "" {
		return apperror.Unauthorized("Google account has no email")
	}

	user, err := h.users.FindByEmailOrGoogleID(ctx, schema.NormalizeEmail(profile.Email), profile.ID)
	if err != nil {
		return err
	}
	if user == nil {
		googleID := profile.ID
		user = &model.User{
			FirstName:       profile.GivenName,
			LastName:        profile.FamilyName,
			Email:           schema.NormalizeEmail(profile.Email),
			EmailVerified:   profile.VerifiedEmail,
			Type:            model.UserTypeDefault,
			GoogleProfileID: &googleID,
		}
		if err := h.users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.Conflict(msgUserExists)
			}
			return err
		}
		prometheus.RecordRegister("google")
	} else if user.GoogleProfileID == nil {
		if err := h.users.Update(ctx, user.ID, map[string]interface{}{"google_profile_id": profile.ID}); err != nil {
			return err
		}
	}

	sess, err = h.sessions.Start(c)
	if err != nil {
		return err
	}
	sess.Data.Principal = &auth.SessionPrincipal{ID: user.ID, Kind: auth.KindUser}
	if err := h.sessions.Save(c, sess); err != nil {
		return err
	}

	prometheus.RecordLogin("google")
	log.Info("User logged in with Google", zap.String("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "callback URI",
		"user":    view.IDOnly{ID: user.ID},
	})
}

// Logout handles GET /authorization/logout
func (h *Handler) Logout(c echo.Context) error {
	user, p, err := auth.UserFrom(c)
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

	logger.FromEcho(c).Info("User logged out", zap.String("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"user":    view.IDOnly{ID: user.ID},
		"message": "User was logged out",
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

	user, err := h.users.FindByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		log.Info("Password recovery for unknown email")
	case err != nil:
		return err
	default:
		token, err := h.tokens.GenerateToken(user.ID, jwtutil.AudienceB2CForgotPassword)
		if err != nil {
			return err
		}
		h.mailer.Dispatch(ctx, email.Email{
			Type: email.TypeForgotPassword,
			To:   user.Email,
			Data: email.ForgotPasswordData{
				FirstName: user.FirstName,
				Link:      h.frontendURL + "/reset-password?token=" + token,
			},
		})
		log.Info("Password recovery sent", zap.String("user_id", user.ID))
	}

	return c.JSON(http.StatusOK, echo.Map{"message": msgRecoverySent})
}

// ResetPassword handles POST /authorization/reset-password
func (h *Handler) ResetPassword(c echo.Context) error {
	req, err := schema.Bound[schema.ResetPasswordRequest](c)
	if err != nil {
		return err
	}
	user, p, err := auth.UserFrom(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := h.users.Update(ctx, user.ID, map[string]interface{}{"password": hash}); err != nil {
		return err
	}
	// recovery links are single use
	if p.Strategy == auth.StrategyJWTB2CForgotPassword {
		if err := h.revoke(ctx, p); err != nil {
			return err
		}
	}

	logger.FromEcho(c).Info("User password reset", zap.String("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"user": view.IDOnly{ID: user.ID}})
}
