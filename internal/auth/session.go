package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/suteetoe/restb/pkg/config"
)

// SessionPrincipal is the principal remembered by an OAuth login
type SessionPrincipal struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
}

// SessionData is the server-side session state
type SessionData struct {
	JWT        string            `json:"jwt,omitempty"`
	Principal  *SessionPrincipal `json:"principal,omitempty"`
	OAuthState string            `json:"oauthState,omitempty"`
}

// Session is one loaded session
type Session struct {
	ID   string
	Data SessionData
}

const sessionContextKey = "auth.session"

// SessionStore keeps sessions in Redis behind a signed cookie
type SessionStore struct {
	client     redis.Cmdable
	cookieName string
	prefix     string
	secret     []byte
	ttl        time.Duration
	secure     bool
}

// NewSessionStore creates a store using cfg
func NewSessionStore(client redis.Cmdable, cfg config.SessionConfig) *SessionStore {
	return &SessionStore{
		client:     client,
		cookieName: cfg.CookieName,
		prefix:     cfg.KeyPrefix,
		secret:     []byte(cfg.Secret),
		ttl:        cfg.MaxAge,
		secure:     cfg.Secure,
	}
}

func (s *SessionStore) key(id string) string {
	return s.prefix + id
}

func (s *SessionStore) sign(id string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(id))
	return id + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (s *SessionStore) unsign(value string) (string, bool) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 {
		return "", false
	}
	id := value[:i]
	if !hmac.Equal([]byte(s.sign(id)), []byte(value)) {
		return "", false
	}
	return id, true
}

// Load returns the request's session, or a fresh unsaved one
func (s *SessionStore) Load(c echo.Context) (*Session, error) {
	if sess, ok := c.Get(sessionContextKey).(*Session); ok {
		return sess, nil
	}

	sess, err := s.read(c)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		sess = &Session{ID: uuid.NewString()}
	}
	c.Set(sessionContextKey, sess)
	return sess, nil
}

func (s *SessionStore) read(c echo.Context) (*Session, error) {
	cookie, err := c.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	id, ok := s.unsign(cookie.Value)
	if !ok {
		return nil, nil
	}

	raw, err := s.client.Get(c.Request().Context(), s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	sess := &Session{ID: id}
	if err := json.Unmarshal(raw, &sess.Data); err != nil {
		// unreadable sessions are treated as absent
		return nil, nil
	}
	return sess, nil
}

// Start discards any current session and begins a new one
func (s *SessionStore) Start(c echo.Context) (*Session, error) {
	if old, err := s.read(c); err == nil && old != nil {
		if err := s.client.Del(c.Request().Context(), s.key(old.ID)).Err(); err != nil {
			return nil, fmt.Errorf("drop previous session: %w", err)
		}
	}
	sess := &Session{ID: uuid.NewString()}
	c.Set(sessionContextKey, sess)
	return sess, nil
}

// Save persists sess and refreshes the cookie
func (s *SessionStore) Save(c echo.Context, sess *Session) error {
	raw, err := json.Marshal(sess.Data)
	if err != nil {
		return err
	}
	if err := s.client.Set(c.Request().Context(), s.key(sess.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	c.SetCookie(s.cookie(s.sign(sess.ID), int(s.ttl/time.Second)))
	return nil
}

// Destroy removes the session and clears the cookie
func (s *SessionStore) Destroy(c echo.Context, sess *Session) error {
	if sess != nil {
		if err := s.client.Del(c.Request().Context(), s.key(sess.ID)).Err(); err != nil {
			return fmt.Errorf("destroy session: %w", err)
		}
	}
	c.Set(sessionContextKey, nil)
	c.SetCookie(s.cookie("", -1))
	return nil
}

func (s *SessionStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Ping checks the backing store
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
