package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/model"
	"github.com/suteetoe/restb/internal/repository"
	"github.com/suteetoe/restb/pkg/jwtutil"
)

// StrategyName identifies an authentication strategy
type StrategyName string

const (
	StrategyGoogleSession        StrategyName = "google-session"
	StrategyJWTB2C               StrategyName = "jwt-b2c"
	StrategyJWTB2CForgotPassword StrategyName = "jwt-b2c-forgot-password"
	StrategyJWTB2B               StrategyName = "jwt-b2b"
	StrategyJWTB2BForgotPassword StrategyName = "jwt-b2b-forgot-password"
	StrategyJWTB2BInvite         StrategyName = "jwt-b2b-invite"
)

var (
	// ErrNoCredentials means the strategy found nothing to check
	ErrNoCredentials = errors.New("no credentials")
	// ErrRevoked means the token was logged out
	ErrRevoked = errors.New("token revoked")
	// ErrPrincipalGone means the token subject no longer exists
	ErrPrincipalGone = errors.New("principal not found")
)

// Strategy resolves a principal from a request
type Strategy interface {
	Name() StrategyName
	Resolve(c echo.Context) (*Principal, error)
}

// UserFinder loads live consumers
type UserFinder interface {
	FindByID(ctx context.Context, id string, opts ...repository.FindOption) (*model.User, error)
}

// AdminFinder loads live admins
type AdminFinder interface {
	FindByID(ctx context.Context, id string, opts ...repository.FindOption) (*model.Admin, error)
}

// BrandFinder loads live brands
type BrandFinder interface {
	FindByID(ctx context.Context, id string, opts ...repository.FindOption) (*model.Brand, error)
}

// Strategies is the closed set of strategies routes choose from
type Strategies struct {
	GoogleSession        Strategy
	JWTB2C               Strategy
	JWTB2CForgotPassword Strategy
	JWTB2B               Strategy
	JWTB2BForgotPassword Strategy
	JWTB2BInvite         Strategy
}

// Deps are the collaborators strategies resolve principals with
type Deps struct {
	Sessions *SessionStore
	Denylist *Denylist
	Tokens   *jwtutil.JWTUtil
	Users    UserFinder
	Admins   AdminFinder
	Brands   BrandFinder
	Now      func() time.Time
}

// NewStrategies builds every strategy over deps
func NewStrategies(deps Deps) *Strategies {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Strategies{
		GoogleSession: &sessionStrategy{deps: deps},
		JWTB2C: &tokenStrategy{
			name: StrategyJWTB2C, audience: jwtutil.AudienceB2C, kind: KindUser, fromSession: true, deps: deps,
		},
		JWTB2CForgotPassword: &tokenStrategy{
			name: StrategyJWTB2CForgotPassword, audience: jwtutil.AudienceB2CForgotPassword, kind: KindUser, deps: deps,
		},
		JWTB2B: &tokenStrategy{
			name: StrategyJWTB2B, audience: jwtutil.AudienceB2B, kind: KindAdmin, fromSession: true, deps: deps,
		},
		JWTB2BForgotPassword: &tokenStrategy{
			name: StrategyJWTB2BForgotPassword, audience: jwtutil.AudienceB2BForgotPassword, kind: KindAdmin, deps: deps,
		},
		JWTB2BInvite: &inviteStrategy{deps: deps},
	}
}

// BearerToken extracts the token of an "Authorization: Bearer" header
func BearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func loadPrincipal(ctx context.Context, deps Deps, kind Kind, id string) (*Principal, error) {
	switch kind {
	case KindUser:
		user, err := deps.Users.FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrincipalGone
		}
		if err != nil {
			return nil, err
		}
		return &Principal{Kind: KindUser, User: user}, nil
	case KindAdmin:
		admin, err := deps.Admins.FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrincipalGone
		}
		if err != nil {
			return nil, err
		}
		return &Principal{Kind: KindAdmin, Admin: admin}, nil
	}
	return nil, fmt.Errorf("unknown principal kind %q", kind)
}

type sessionStrategy struct {
	deps Deps
}

func (s *sessionStrategy) Name() StrategyName { return StrategyGoogleSession }

func (s *sessionStrategy) Resolve(c echo.Context) (*Principal, error) {
	sess, err := s.deps.Sessions.Load(c)
	if err != nil {
		return nil, err
	}
	if sess.Data.Principal == nil {
		return nil, ErrNoCredentials
	}

	p, err := loadPrincipal(c.Request().Context(), s.deps, sess.Data.Principal.Kind, sess.Data.Principal.ID)
	if err != nil {
		return nil, err
	}
	p.Strategy = StrategyGoogleSession
	return p, nil
}

type tokenStrategy struct {
	name        StrategyName
	audience    jwtutil.Audience
	kind        Kind
	fromSession bool
	deps        Deps
}

func (s *tokenStrategy) Name() StrategyName { return s.name }

func (s *tokenStrategy) token(c echo.Context) (string, error) {
	if s.fromSession {
		sess, err := s.deps.Sessions.Load(c)
		if err != nil {
			return "", err
		}
		if sess.Data.JWT != "" {
			// a session may hold a token of the other surface
			if _, err := s.deps.Tokens.ValidateToken(sess.Data.JWT, s.audience); err == nil {
				return sess.Data.JWT, nil
			}
		}
	}
	return BearerToken(c), nil
}

func (s *tokenStrategy) Resolve(c echo.Context) (*Principal, error) {
	token, err := s.token(c)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNoCredentials
	}

	claims, err := s.deps.Tokens.ValidateToken(token, s.audience)
	if err != nil {
		return nil, err
	}

	ctx := c.Request().Context()
	revoked, err := s.deps.Denylist.IsRevoked(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevoked
	}

	p, err := loadPrincipal(ctx, s.deps, s.kind, claims.ID)
	if err != nil {
		return nil, err
	}
	p.Strategy = s.name
	p.Token = token
	p.Claims = claims
	return p, nil
}

type inviteStrategy struct {
	deps Deps
}

func (s *inviteStrategy) Name() StrategyName { return StrategyJWTB2BInvite }

func (s *inviteStrategy) Resolve(c echo.Context) (*Principal, error) {
	token := BearerToken(c)
	if token == "" {
		return nil, ErrNoCredentials
	}

	claims, err := s.deps.Tokens.ValidateToken(token, jwtutil.AudienceB2BInvite)
	if err != nil {
		return nil, err
	}
	if claims.BrandID == "" || claims.Email == "" {
		return nil, jwtutil.ErrInvalidToken
	}

	ctx := c.Request().Context()
	revoked, err := s.deps.Denylist.IsRevoked(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevoked
	}

	if _, err := s.deps.Brands.FindByID(ctx, claims.BrandID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrincipalGone
		}
		return nil, err
	}

	return &Principal{
		Kind:     KindInvite,
		Strategy: StrategyJWTB2BInvite,
		Invite: &Invite{
			InviterID: claims.ID,
			BrandID:   claims.BrandID,
			Email:     claims.Email,
		},
		Token:  token,
		Claims: claims,
	}, nil
}
