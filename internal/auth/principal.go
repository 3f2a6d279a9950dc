package auth

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/model"
	"github.com/suteetoe/restb/pkg/jwtutil"
)

// Kind tells which actor a principal wraps
type Kind string

const (
	KindUser   Kind = "user"
	KindAdmin  Kind = "admin"
	KindInvite Kind = "invite"
)

const principalKey = "auth.principal"

// ErrNoPrincipal means the route was reached without authentication
var ErrNoPrincipal = errors.New("no principal on request")

// Invite is a pending employee registration carried by an invitation token
type Invite struct {
	InviterID string
	BrandID   string
	Email     string
}

// Principal is the authenticated actor of a request
type Principal struct {
	Kind     Kind
	Strategy StrategyName
	User     *model.User
	Admin    *model.Admin
	Invite   *Invite

	// Token is the bearer or session JWT that authenticated the request, if any
	Token  string
	Claims *jwtutil.Claims
}

// ID returns the id of the wrapped user or admin
func (p *Principal) ID() string {
	switch p.Kind {
	case KindUser:
		return p.User.ID
	case KindAdmin:
		return p.Admin.ID
	case KindInvite:
		return p.Invite.InviterID
	}
	return ""
}

// SetPrincipal attaches p to the request
func SetPrincipal(c echo.Context, p *Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the request principal
func PrincipalFrom(c echo.Context) (*Principal, error) {
	p, ok := c.Get(principalKey).(*Principal)
	if !ok || p == nil {
		return nil, ErrNoPrincipal
	}
	return p, nil
}

// UserFrom returns the consumer principal
func UserFrom(c echo.Context) (*model.User, *Principal, error) {
	p, err := PrincipalFrom(c)
	if err != nil {
		return nil, nil, err
	}
	if p.Kind != KindUser || p.User == nil {
		return nil, nil, ErrNoPrincipal
	}
	return p.User, p, nil
}

// AdminFrom returns the business principal
func AdminFrom(c echo.Context) (*model.Admin, *Principal, error) {
	p, err := PrincipalFrom(c)
	if err != nil {
		return nil, nil, err
	}
	if p.Kind != KindAdmin || p.Admin == nil {
		return nil, nil, ErrNoPrincipal
	}
	return p.Admin, p, nil
}
