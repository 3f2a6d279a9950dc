package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Audience restricts a token to a single flow
type Audience string

const (
	AudienceB2C               Audience = "b2c"
	AudienceB2CForgotPassword Audience = "b2cfps"
	AudienceB2B               Audience = "b2b"
	AudienceB2BForgotPassword Audience = "b2bfps"
	AudienceB2BInvite         Audience = "b2binv"
)

var (
	// ErrInvalidToken covers bad signatures, malformed and expired tokens
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongAudience is returned when a valid token was issued for another flow
	ErrWrongAudience = errors.New("token audience mismatch")
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// Claims represents the JWT claims issued by the service
type Claims struct {
	ID      string `json:"id"`
	BrandID string `json:"brandID,omitempty"` // invitation tokens only
	Email   string `json:"email,omitempty"`   // invitation tokens only
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *JWTConfig
	now    func() time.Time
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config *JWTConfig) *JWTUtil {
	return &JWTUtil{
		config: config,
		now:    time.Now,
	}
}

// GenerateToken signs a token for the principal id and audience
func (j *JWTUtil) GenerateToken(id string, aud Audience) (string, error) {
	return j.sign(Claims{ID: id}, aud)
}

// GenerateInviteToken signs an employee invitation carrying the inviting brand and invitee email
func (j *JWTUtil) GenerateInviteToken(inviterID, brandID, email string) (string, error) {
	return j.sign(Claims{ID: inviterID, BrandID: brandID, Email: email}, AudienceB2BInvite)
}

func (j *JWTUtil) sign(claims Claims, aud Audience) (string, error) {
	if j.config == nil {
		return "", errors.New("JWT configuration not provided")
	}

	now := j.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{string(aud)},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(j.config.ExpirationHours) * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken parses the token and checks it was issued for aud
func (j *JWTUtil) ValidateToken(tokenString string, aud Audience) (*Claims, error) {
	if j.config == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyAudience(string(aud), true) {
		return nil, ErrWrongAudience
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// TTL reports how long the token remains valid
func (c *Claims) TTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}
