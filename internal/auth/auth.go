package auth

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scopes requested from Google. Both APIs are called read-only.
var Scopes = []string{
	"https://www.googleapis.com/auth/tasks.readonly",
	"https://www.googleapis.com/auth/youtube.readonly",
}

var (
	// ErrNoClientSecrets is returned when the client secrets file is missing.
	ErrNoClientSecrets = errors.New("missing client_secrets.json file")

	// ErrConsentDenied is returned when the user declines the Google consent screen.
	ErrConsentDenied = errors.New("consent denied")

	// ErrTokenRefresh is returned when a stored token cannot be refreshed.
	ErrTokenRefresh = errors.New("token refresh failed")
)

// LoadConfig reads a Google OAuth client configuration from a
// client_secrets.json file (the format downloaded from the Google Cloud
// console) and sets the redirect URL used by the web callback.
// Returns ErrNoClientSecrets if the file does not exist.
func LoadConfig(path, redirectURL string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoClientSecrets
		}
		return nil, fmt.Errorf("reading client secrets: %w", err)
	}

	cfg, err := google.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parsing client secrets: %w", err)
	}

	cfg.RedirectURL = redirectURL
	return cfg, nil
}

// RefreshIfExpired returns the token unchanged when it is still valid,
// otherwise exchanges its refresh token for a fresh one. The caller is
// responsible for persisting the returned token.
// Returns ErrTokenRefresh (wrapped) when the refresh round-trip fails.
func RefreshIfExpired(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (*oauth2.Token, error) {
	if token == nil {
		return nil, errors.New("nil token")
	}
	if token.Valid() {
		return token, nil
	}
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token", ErrTokenRefresh)
	}

	refreshed, err := cfg.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenRefresh, err)
	}
	return refreshed, nil
}
