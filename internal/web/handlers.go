package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/xbito/yt-gt-browser/internal/auth"
	"github.com/xbito/yt-gt-browser/internal/videos"
)

const (
	sortCookieName = "sort_key"
	darkCookieName = "dark_mode"
)

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	oauth     *oauth2.Config
	sessions  SessionManager
	templates *Templates
	tokens    *auth.TokenCache
	snapshots SnapshotStore
	pipeline  PipelineFactory
	logger    *log.Logger

	// Last pipeline result per session, so sort changes re-render
	// without refetching. Session-scoped, never shared across sessions.
	mu      sync.Mutex
	results map[string]*videos.BrowseResult
}

// PipelineFactory builds a pipeline service bound to a session's token.
type PipelineFactory func(token *oauth2.Token) *videos.Service

// SnapshotStore persists a record of each successful pipeline run.
// Implemented by db.SnapshotRepository; nil disables recording.
type SnapshotStore interface {
	Record(ctx context.Context, videoCount, totalSeconds int) error
	LastRun(ctx context.Context) (time.Time, error)
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(oauthCfg *oauth2.Config, sessions SessionManager, templates *Templates, tokens *auth.TokenCache, snapshots SnapshotStore, pipeline PipelineFactory, logger *log.Logger) *Handlers {
	return &Handlers{
		oauth:     oauthCfg,
		sessions:  sessions,
		templates: templates,
		tokens:    tokens,
		snapshots: snapshots,
		pipeline:  pipeline,
		logger:    logger,
		results:   make(map[string]*videos.BrowseResult),
	}
}

// Home handles the home page (GET /). Authenticated users land on the
// video grid; everyone else sees the login page.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.GetFromRequest(r)
	if session == nil {
		session = h.tryAutoLogin(w, r)
	}

	if session != nil {
		http.Redirect(w, r, "/videos", http.StatusTemporaryRedirect)
		return
	}

	data := HomePageData{
		PageData: PageData{
			Title:       "YouTube Videos from Google Tasks",
			DarkMode:    darkMode(r),
			CurrentPath: r.URL.Path,
		},
		HasClientSecrets: h.oauth != nil,
	}

	h.renderPage(w, "home", data)
}

// tryAutoLogin creates a session from a cached token when one is still
// valid or refreshable, avoiding a new consent round-trip after restart.
func (h *Handlers) tryAutoLogin(w http.ResponseWriter, r *http.Request) *Session {
	if h.oauth == nil || h.tokens == nil {
		return nil
	}

	token, err := h.tokens.Load()
	if err != nil || token == nil {
		return nil
	}

	refreshed, err := auth.RefreshIfExpired(r.Context(), h.oauth, token)
	if err != nil {
		h.logger.Warn("cached token unusable, login required", "err", err)
		_ = h.tokens.Delete()
		return nil
	}

	if refreshed.AccessToken != token.AccessToken {
		if err := h.tokens.Save(refreshed); err != nil {
			h.logger.Warn("failed to persist refreshed token", "err", err)
		}
	}

	session, err := h.sessions.Create(r.Context(), refreshed)
	if err != nil {
		h.logger.Error("creating session from cached token", "err", err)
		return nil
	}

	h.sessions.SetCookie(w, session)
	h.logger.Info("restored session from cached token")
	return session
}

// Login initiates the Google OAuth flow (GET /auth/login).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	state, err := generateOAuthState()
	if err != nil {
		http.Error(w, "Failed to generate state", http.StatusInternalServerError)
		return
	}

	// Store state in cookie for validation on callback
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300, // 5 minutes
	})

	// Offline access so Google issues a refresh token.
	url := h.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// Callback handles the OAuth callback from Google (GET /callback).
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		http.Error(w, "Login is not configured", http.StatusServiceUnavailable)
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil {
		http.Error(w, "Missing state cookie", http.StatusBadRequest)
		return
	}

	state := r.URL.Query().Get("state")
	if state != stateCookie.Value {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		return
	}

	// Clear state cookie
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	// A missing code with an error param means the user declined consent.
	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		h.logger.Warn("consent declined", "err", errMsg)
		http.Error(w, "Google auth error: "+errMsg, http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("exchanging code for token", "err", err)
		http.Error(w, "Failed to get token", http.StatusInternalServerError)
		return
	}

	// Persist the token so restarts skip the consent screen.
	if h.tokens != nil {
		if err := h.tokens.Save(token); err != nil {
			h.logger.Warn("failed to cache token", "err", err)
		}
	}

	session, err := h.sessions.Create(r.Context(), token)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	h.sessions.SetCookie(w, session)
	h.logger.Info("authenticated with Google")
	http.Redirect(w, r, "/videos", http.StatusTemporaryRedirect)
}

// Logout clears the session and the cached token (POST /auth/logout).
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.GetFromRequest(r)
	if session != nil {
		h.sessions.Delete(r.Context(), session.ID)
		h.dropResult(session.ID)
	}

	if h.tokens != nil {
		if err := h.tokens.Delete(); err != nil {
			h.logger.Warn("failed to delete cached token", "err", err)
		}
	}

	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// Videos renders the video grid page (GET /videos).
// ?refresh=1 re-runs the whole pipeline; ?sort= re-orders the last result.
func (h *Handlers) Videos(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.GetFromRequest(r)
	if session == nil {
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	grid, errMsg := h.buildGrid(w, r, session)

	data := VideosPageData{
		PageData: PageData{
			Title:       "YouTube Videos from Google Tasks",
			DarkMode:    darkMode(r),
			CurrentPath: r.URL.Path,
		},
		Grid: grid,
	}

	if errMsg != "" {
		data.Flash = &FlashMessage{Type: "error", Message: errMsg}
	} else if grid.Warning != "" {
		data.Flash = &FlashMessage{Type: "warning", Message: grid.Warning}
	}

	h.renderPage(w, "videos", data)
}

// VideosGrid renders just the grid partial (GET /videos/grid), used when
// the sort selector changes.
func (h *Handlers) VideosGrid(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.GetFromRequest(r)
	if session == nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	grid, errMsg := h.buildGrid(w, r, session)
	if errMsg != "" {
		http.Error(w, errMsg, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.RenderPartial(w, "video_grid", grid); err != nil {
		h.logger.Error("rendering grid partial", "err", err)
		http.Error(w, "Failed to render grid", http.StatusInternalServerError)
	}
}

// buildGrid resolves the session's pipeline result (running or re-running
// the pipeline as needed), applies the requested sort and assembles the
// grid view model. A non-empty errMsg means the pipeline run failed.
func (h *Handlers) buildGrid(w http.ResponseWriter, r *http.Request, session *Session) (GridData, string) {
	sortKey := h.resolveSort(w, r)

	result := h.loadResult(session.ID)
	if result == nil || r.URL.Query().Get("refresh") == "1" {
		token, err := h.refreshSession(r.Context(), session)
		if err != nil {
			h.logger.Error("session token refresh failed", "err", err)
			return h.emptyGrid(r.Context(), sortKey),
				"Your Google session has expired. Please log out and log in again."
		}

		fresh, err := h.pipeline(token).Browse(r.Context())
		if err != nil {
			h.logger.Error("pipeline run failed", "err", err)
			return h.emptyGrid(r.Context(), sortKey),
				"Could not load your tasks from Google. Please try again."
		}
		result = fresh
		h.storeResult(session.ID, fresh)
		h.recordRun(r.Context(), fresh)
	}

	// Sort a copy so the cached order stays deterministic.
	sorted := make([]videos.VideoInfo, len(result.Videos))
	copy(sorted, result.Videos)
	videos.Sort(sorted, sortKey)

	count, totalSeconds := videos.Stats(sorted)

	return GridData{
		Videos:        sorted,
		SortKey:       sortKey,
		SortKeys:      videos.SortKeys,
		Count:         count,
		TotalDuration: videos.FormatDuration(totalSeconds),
		Buckets:       videos.Buckets(sorted, videos.DefaultBucketCount),
		LastRefreshed: result.FetchedAt,
		Warning:       result.Warning,
	}, ""
}

// refreshSession returns a usable token for the session, exchanging the
// refresh token when the access token has expired and persisting the
// result to the session store and the token cache.
func (h *Handlers) refreshSession(ctx context.Context, session *Session) (*oauth2.Token, error) {
	refreshed, err := auth.RefreshIfExpired(ctx, h.oauth, session.Token)
	if err != nil {
		return nil, err
	}

	if refreshed.AccessToken != session.Token.AccessToken {
		session.Token = refreshed
		h.sessions.UpdateToken(ctx, session.ID, refreshed)
		if h.tokens != nil {
			if err := h.tokens.Save(refreshed); err != nil {
				h.logger.Warn("failed to persist refreshed token", "err", err)
			}
		}
		h.logger.Debug("access token refreshed")
	}

	return refreshed, nil
}

// recordRun persists a snapshot of a successful pipeline run.
func (h *Handlers) recordRun(ctx context.Context, result *videos.BrowseResult) {
	if h.snapshots == nil {
		return
	}

	count, totalSeconds := videos.Stats(result.Videos)
	if err := h.snapshots.Record(ctx, count, totalSeconds); err != nil {
		h.logger.Warn("failed to record run snapshot", "err", err)
	}
}

// emptyGrid is the grid shown when a run fails. The last-refreshed line
// falls back to the most recent recorded run so the footer still says
// when data was last fetched successfully.
func (h *Handlers) emptyGrid(ctx context.Context, sortKey videos.SortKey) GridData {
	grid := GridData{SortKey: sortKey, SortKeys: videos.SortKeys}
	if h.snapshots != nil {
		if lastRun, err := h.snapshots.LastRun(ctx); err == nil {
			grid.LastRefreshed = lastRun
		}
	}
	return grid
}

// resolveSort picks the sort key from the query, falling back to the
// cookie, and persists an explicit choice back to the cookie.
func (h *Handlers) resolveSort(w http.ResponseWriter, r *http.Request) videos.SortKey {
	if raw := r.URL.Query().Get("sort"); raw != "" {
		key := videos.ParseSortKey(raw)
		http.SetCookie(w, &http.Cookie{
			Name:     sortCookieName,
			Value:    string(key),
			Path:     "/",
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(sessionTTL.Seconds()),
		})
		return key
	}

	if cookie, err := r.Cookie(sortCookieName); err == nil {
		return videos.ParseSortKey(cookie.Value)
	}

	return videos.SortAlphabetical
}

func (h *Handlers) loadResult(sessionID string) *videos.BrowseResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.results[sessionID]
}

func (h *Handlers) storeResult(sessionID string, result *videos.BrowseResult) {
	h.mu.Lock()
	h.results[sessionID] = result
	h.mu.Unlock()
}

func (h *Handlers) dropResult(sessionID string) {
	h.mu.Lock()
	delete(h.results, sessionID)
	h.mu.Unlock()
}

func (h *Handlers) renderPage(w http.ResponseWriter, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, page, data); err != nil {
		h.logger.Error("rendering page", "page", page, "err", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}

// darkMode reads the dark-mode preference cookie.
func darkMode(r *http.Request) bool {
	cookie, err := r.Cookie(darkCookieName)
	return err == nil && cookie.Value == "1"
}

// generateOAuthState creates a random state string for OAuth.
func generateOAuthState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
