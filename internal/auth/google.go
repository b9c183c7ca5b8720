package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProfile is the subset of the Google userinfo response the
// storefront cares about.
type GoogleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Google wraps the OAuth code flow for Google sign-in. It is disabled
// (Enabled() false) when the client credentials are not configured, in
// which case the login routes answer 404.
type Google struct {
	config *oauth2.Config
}

// NewGoogle builds the Google sign-in flow from client credentials.
// Returns a disabled instance when any credential is missing.
func NewGoogle(clientID, clientSecret, callbackURL string) *Google {
	if clientID == "" || clientSecret == "" || callbackURL == "" {
		return &Google{}
	}
	return &Google{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Enabled reports whether Google sign-in is configured
func (g *Google) Enabled() bool {
	return g.config != nil
}

// AuthCodeURL returns the consent-screen redirect URL for a state token
func (g *Google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for the user's Google profile
func (g *Google) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	client := g.config.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request returned status %d", resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if profile.ID == "" || profile.Email == "" {
		return nil, fmt.Errorf("incomplete user info from Google")
	}
	return &profile, nil
}
