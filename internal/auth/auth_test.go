package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

const testClientSecrets = `{
  "web": {
    "client_id": "test-client-id.apps.googleusercontent.com",
    "project_id": "yt-gt-browser",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "client_secret": "test-secret",
    "redirect_uris": ["http://127.0.0.1:8080/callback"]
  }
}`

func TestTokenCache_SaveAndLoad(t *testing.T) {
	tests := []struct {
		name  string
		token *oauth2.Token
	}{
		{
			name: "basic token",
			token: &oauth2.Token{
				AccessToken:  "test-access-token",
				TokenType:    "Bearer",
				RefreshToken: "test-refresh-token",
				Expiry:       time.Now().Add(time.Hour),
			},
		},
		{
			name: "token without refresh",
			token: &oauth2.Token{
				AccessToken: "access-only",
				TokenType:   "Bearer",
				Expiry:      time.Now().Add(30 * time.Minute),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "token.json")
			cache := NewTokenCache(path)

			if err := cache.Save(tt.token); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			loaded, err := cache.Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if loaded == nil {
				t.Fatal("Load() returned nil token")
			}

			if loaded.AccessToken != tt.token.AccessToken {
				t.Errorf("AccessToken = %q, want %q", loaded.AccessToken, tt.token.AccessToken)
			}

			if loaded.RefreshToken != tt.token.RefreshToken {
				t.Errorf("RefreshToken = %q, want %q", loaded.RefreshToken, tt.token.RefreshToken)
			}
		})
	}
}

func TestTokenCache_LoadNonExistent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent", "token.json")
	cache := NewTokenCache(path)

	token, err := cache.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if token != nil {
		t.Errorf("Load() = %v, want nil for non-existent file", token)
	}
}

func TestTokenCache_SaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeply", "token.json")
	cache := NewTokenCache(path)

	token := &oauth2.Token{
		AccessToken: "test-token",
		TokenType:   "Bearer",
	}

	if err := cache.Save(token); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("Save() did not create token file")
	}
}

func TestTokenCache_SaveNilToken(t *testing.T) {
	cache := NewTokenCache(filepath.Join(t.TempDir(), "token.json"))

	if err := cache.Save(nil); err == nil {
		t.Error("Save(nil) should return error")
	}
}

func TestTokenCache_RenewedGrantKeepsRefreshToken(t *testing.T) {
	cache := NewTokenCache(filepath.Join(t.TempDir(), "token.json"))

	initial := &oauth2.Token{
		AccessToken:  "first-access",
		TokenType:    "Bearer",
		RefreshToken: "long-lived-refresh",
		Expiry:       time.Now().Add(time.Hour),
	}
	if err := cache.Save(initial); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Renewed grants come back without a refresh token.
	renewed := &oauth2.Token{
		AccessToken: "second-access",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}
	if err := cache.Save(renewed); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if renewed.RefreshToken != "" {
		t.Error("Save() should not mutate the caller's token")
	}

	loaded, err := cache.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.AccessToken != "second-access" {
		t.Errorf("AccessToken = %q, want second-access", loaded.AccessToken)
	}
	if loaded.RefreshToken != "long-lived-refresh" {
		t.Errorf("RefreshToken = %q, want the original refresh token kept", loaded.RefreshToken)
	}
}

func TestTokenCache_OverwriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	cache := NewTokenCache(filepath.Join(dir, "token.json"))

	for _, access := range []string{"one", "two", "three"} {
		token := &oauth2.Token{AccessToken: access, TokenType: "Bearer"}
		if err := cache.Save(token); err != nil {
			t.Fatalf("Save(%q) error = %v", access, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("cache dir contains %v, want only token.json", names)
	}

	loaded, err := cache.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.AccessToken != "three" {
		t.Errorf("AccessToken = %q, want the last saved value", loaded.AccessToken)
	}
}

func TestTokenCache_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	cache := NewTokenCache(path)

	token := &oauth2.Token{AccessToken: "test-token", TokenType: "Bearer"}
	if err := cache.Save(token); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := cache.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Delete() did not remove token file")
	}
}

func TestTokenCache_DeleteNonExistent(t *testing.T) {
	cache := NewTokenCache(filepath.Join(t.TempDir(), "nonexistent.json"))

	if err := cache.Delete(); err != nil {
		t.Errorf("Delete() error = %v, want nil for non-existent file", err)
	}
}

func TestTokenCache_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	cache := NewTokenCache(path)

	token := &oauth2.Token{AccessToken: "secret-token", TokenType: "Bearer"}
	if err := cache.Save(token); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}

	// Token files hold credentials, no group/other access.
	mode := info.Mode().Perm()
	if mode&0077 != 0 {
		t.Errorf("File permissions = %o, want 0600 (no group/other access)", mode)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client_secrets.json")
	if err := os.WriteFile(path, []byte(testClientSecrets), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path, "http://127.0.0.1:9000/callback")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.ClientID != "test-client-id.apps.googleusercontent.com" {
		t.Errorf("ClientID = %q", cfg.ClientID)
	}
	if cfg.RedirectURL != "http://127.0.0.1:9000/callback" {
		t.Errorf("RedirectURL = %q", cfg.RedirectURL)
	}
	if len(cfg.Scopes) != len(Scopes) {
		t.Errorf("Scopes = %v, want %v", cfg.Scopes, Scopes)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"), "")
	if err != ErrNoClientSecrets {
		t.Errorf("LoadConfig() error = %v, want ErrNoClientSecrets", err)
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client_secrets.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path, ""); err == nil {
		t.Error("LoadConfig() should fail on malformed JSON")
	}
}

func TestRefreshIfExpired_ValidToken(t *testing.T) {
	cfg := &oauth2.Config{}
	token := &oauth2.Token{
		AccessToken: "still-good",
		Expiry:      time.Now().Add(time.Hour),
	}

	got, err := RefreshIfExpired(context.Background(), cfg, token)
	if err != nil {
		t.Fatalf("RefreshIfExpired() error = %v", err)
	}

	if got != token {
		t.Error("RefreshIfExpired() should return a valid token unchanged")
	}
}

func TestRefreshIfExpired_NoRefreshToken(t *testing.T) {
	cfg := &oauth2.Config{}
	token := &oauth2.Token{
		AccessToken: "expired",
		Expiry:      time.Now().Add(-time.Hour),
	}

	_, err := RefreshIfExpired(context.Background(), cfg, token)
	if err == nil {
		t.Fatal("RefreshIfExpired() should fail without a refresh token")
	}
}

func TestRefreshIfExpired_NilToken(t *testing.T) {
	if _, err := RefreshIfExpired(context.Background(), &oauth2.Config{}, nil); err == nil {
		t.Error("RefreshIfExpired(nil) should return error")
	}
}
