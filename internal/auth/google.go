package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/suteetoe/restb/pkg/config"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProfile is the subset of the userinfo document used for sign-in
type GoogleProfile struct {
	ID            string
	Email         string
	VerifiedEmail bool
	GivenName     string
	FamilyName    string
}

// GoogleOAuth runs the authorization code flow against Google
type GoogleOAuth struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewGoogleOAuth configures the flow for the profile and email scopes
func NewGoogleOAuth(cfg config.GoogleConfig) *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.profile",
				"https://www.googleapis.com/auth/userinfo.email",
			},
		},
		userInfoURL: googleUserInfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthCodeURL returns the consent screen URL carrying state
func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state)
}

// Exchange trades code for a token and fetches the caller's profile
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: status %d", resp.StatusCode)
	}

	doc := gjson.ParseBytes(body)
	profile := &GoogleProfile{
		ID:            doc.Get("id").String(),
		Email:         doc.Get("email").String(),
		VerifiedEmail: doc.Get("verified_email").Bool(),
		GivenName:     doc.Get("given_name").String(),
		FamilyName:    doc.Get("family_name").String(),
	}
	if profile.ID == "" || profile.Email == "" {
		return nil, fmt.Errorf("userinfo is missing id or email")
	}
	return profile, nil
}
