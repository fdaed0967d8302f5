package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xbito/yt-gt-browser/internal/youtube"
)

// VideoRepository is a read-through cache of enriched video details.
// It implements the pipeline's DetailCache interface.
type VideoRepository struct {
	pool *pgxpool.Pool
}

// GetMany returns cached details for the given ids that are younger than
// maxAge. Missing or stale ids are simply absent from the result.
func (r *VideoRepository) GetMany(ctx context.Context, ids []string, maxAge time.Duration) (map[string]youtube.VideoDetail, error) {
	if len(ids) == 0 {
		return map[string]youtube.VideoDetail{}, nil
	}

	query := `
		SELECT id, title, channel_title, channel_id, duration, published_at, thumbnail_url
		FROM video_cache
		WHERE id = ANY($1) AND fetched_at > $2
	`
	cutoff := time.Now().Add(-maxAge)

	rows, err := r.pool.Query(ctx, query, ids, cutoff)
	if err != nil {
		return nil, fmt.Errorf("querying video cache: %w", err)
	}
	defer rows.Close()

	details := make(map[string]youtube.VideoDetail)
	for rows.Next() {
		var d youtube.VideoDetail
		if err := rows.Scan(
			&d.ID,
			&d.Title,
			&d.ChannelTitle,
			&d.ChannelID,
			&d.Duration,
			&d.PublishedAt,
			&d.ThumbnailURL,
		); err != nil {
			return nil, fmt.Errorf("scanning cached video: %w", err)
		}
		details[d.ID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading video cache rows: %w", err)
	}

	return details, nil
}

// PutMany upserts enriched details, refreshing fetched_at.
func (r *VideoRepository) PutMany(ctx context.Context, details map[string]youtube.VideoDetail) error {
	query := `
		INSERT INTO video_cache (id, title, channel_title, channel_id, duration, published_at, thumbnail_url, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			channel_title = EXCLUDED.channel_title,
			channel_id = EXCLUDED.channel_id,
			duration = EXCLUDED.duration,
			published_at = EXCLUDED.published_at,
			thumbnail_url = EXCLUDED.thumbnail_url,
			fetched_at = NOW()
	`
	for _, d := range details {
		_, err := r.pool.Exec(ctx, query,
			d.ID,
			d.Title,
			d.ChannelTitle,
			d.ChannelID,
			d.Duration,
			d.PublishedAt,
			d.ThumbnailURL,
		)
		if err != nil {
			return fmt.Errorf("upserting cached video %s: %w", d.ID, err)
		}
	}
	return nil
}

// Purge removes cache rows older than maxAge.
func (r *VideoRepository) Purge(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)
	_, err := r.pool.Exec(ctx, `DELETE FROM video_cache WHERE fetched_at <= $1`, cutoff)
	if err != nil {
		return fmt.Errorf("purging video cache: %w", err)
	}
	return nil
}
