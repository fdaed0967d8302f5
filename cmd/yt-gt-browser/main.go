// Command yt-gt-browser serves a web UI for browsing YouTube videos
// referenced in the user's Google Tasks.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/xbito/yt-gt-browser/internal/auth"
	"github.com/xbito/yt-gt-browser/internal/config"
	"github.com/xbito/yt-gt-browser/internal/db"
	"github.com/xbito/yt-gt-browser/internal/web"
	webfs "github.com/xbito/yt-gt-browser/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file is optional; missing is fine.
	_ = godotenv.Load()

	cfg, err := config.Load("config.toml")
	if err != nil {
		return err
	}

	logger := newLogger()

	// A missing client_secrets.json is not fatal: the login page shows
	// setup instructions instead.
	oauthCfg, err := auth.LoadConfig(cfg.Google.ClientSecrets, redirectURL(cfg))
	if err != nil {
		if !errors.Is(err, auth.ErrNoClientSecrets) {
			return err
		}
		logger.Warn("client secrets not found, login disabled until configured",
			"path", cfg.Google.ClientSecrets)
		oauthCfg = nil
	}

	tokens, err := auth.DefaultTokenCache()
	if err != nil {
		return fmt.Errorf("creating token cache: %w", err)
	}

	cacheMaxAge := time.Duration(cfg.YouTube.CacheMaxAgeHours) * time.Hour

	var database *db.DB
	if cfg.Database.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		database, err = db.New(ctx, cfg.Database.URL)
		if err != nil {
			cancel()
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		// Housekeeping: drop rows that went stale since the last run.
		if err := database.Sessions().DeleteExpired(ctx); err != nil {
			logger.Warn("expired session cleanup failed", "err", err)
		}
		if err := database.Videos().Purge(ctx, cacheMaxAge); err != nil {
			logger.Warn("video cache purge failed", "err", err)
		}
		cancel()
		logger.Info("database connected")
	}

	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	server, err := web.NewServer(web.ServerConfig{
		Addr:        cfg.Server.Addr(),
		OAuth:       oauthCfg,
		TokenCache:  tokens,
		TemplatesFS: templates,
		StaticFS:    static,
		Logger:      logger,
		Database:    database,
		BatchSize:   cfg.YouTube.BatchSize,
		RateLimit:   cfg.YouTube.RateLimit,
		CacheMaxAge: cacheMaxAge,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}

// redirectURL is the OAuth callback registered with the Google client.
func redirectURL(cfg *config.Config) string {
	return fmt.Sprintf("http://%s/callback", cfg.Server.Addr())
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if os.Getenv("YTGT_DEBUG") != "" {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
