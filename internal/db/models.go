package db

import (
	"time"

	"github.com/google/uuid"
)

// Session represents an authenticated web session.
type Session struct {
	ID           string
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// CachedVideo represents an enriched video detail row.
type CachedVideo struct {
	ID           string
	Title        string
	ChannelTitle string
	ChannelID    string
	Duration     string // ISO-8601 as returned by the API
	PublishedAt  time.Time
	ThumbnailURL string
	FetchedAt    time.Time
}

// Snapshot records the outcome of one pipeline run, for the
// "last refreshed" line in the stats footer.
type Snapshot struct {
	ID           uuid.UUID
	VideoCount   int
	TotalSeconds int
	CreatedAt    time.Time
}
