package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotRepository records pipeline runs.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// Record inserts a snapshot for a completed pipeline run, assigning it a
// fresh id.
func (r *SnapshotRepository) Record(ctx context.Context, videoCount, totalSeconds int) error {
	query := `
		INSERT INTO snapshots (id, video_count, total_seconds, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query, uuid.New(), videoCount, totalSeconds, time.Now())
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recent snapshot, or ErrNotFound when none exist.
func (r *SnapshotRepository) Latest(ctx context.Context) (*Snapshot, error) {
	query := `
		SELECT id, video_count, total_seconds, created_at
		FROM snapshots
		ORDER BY created_at DESC
		LIMIT 1
	`
	var snapshot Snapshot
	err := r.pool.QueryRow(ctx, query).Scan(
		&snapshot.ID,
		&snapshot.VideoCount,
		&snapshot.TotalSeconds,
		&snapshot.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest snapshot: %w", err)
	}
	return &snapshot, nil
}

// LastRun returns the time of the most recent recorded run, or the zero
// time when none exist.
func (r *SnapshotRepository) LastRun(ctx context.Context) (time.Time, error) {
	snapshot, err := r.Latest(ctx)
	if errors.Is(err, ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return snapshot.CreatedAt, nil
}
