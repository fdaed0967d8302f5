package videos

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xbito/yt-gt-browser/internal/extract"
	"github.com/xbito/yt-gt-browser/internal/gtasks"
	"github.com/xbito/yt-gt-browser/internal/youtube"
)

// TaskSource yields the user's tasks. Implemented by gtasks.Client.
type TaskSource interface {
	FetchAllTasks(ctx context.Context) ([]gtasks.Task, error)
}

// DetailSource yields video metadata. Implemented by youtube.Client.
type DetailSource interface {
	VideoDetails(ctx context.Context, ids []string) (map[string]youtube.VideoDetail, error)
}

// DetailCache is an optional read-through cache for enriched details.
// Implemented by db.VideoRepository.
type DetailCache interface {
	GetMany(ctx context.Context, ids []string, maxAge time.Duration) (map[string]youtube.VideoDetail, error)
	PutMany(ctx context.Context, details map[string]youtube.VideoDetail) error
}

// BrowseResult is one full pipeline run.
type BrowseResult struct {
	Videos    []VideoInfo
	Warning   string // non-fatal problem worth surfacing in the UI
	FetchedAt time.Time
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithCache enables the read-through detail cache.
func WithCache(cache DetailCache, maxAge time.Duration) ServiceOption {
	return func(s *Service) {
		s.cache = cache
		s.cacheMaxAge = maxAge
	}
}

// Service runs the fetch, extract, enrich pipeline.
type Service struct {
	tasks       TaskSource
	yt          DetailSource
	cache       DetailCache
	cacheMaxAge time.Duration
	logger      *log.Logger
}

// NewService creates a pipeline service.
func NewService(tasks TaskSource, yt DetailSource, logger *log.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		tasks:  tasks,
		yt:     yt,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Browse fetches all tasks, extracts video references, enriches them and
// merges everything into display records. A tasks fetch failure is fatal
// to the run; an enrichment failure drops the affected videos and comes
// back as a warning; a malformed duration drops just that video.
func (s *Service) Browse(ctx context.Context) (*BrowseResult, error) {
	tasks, err := s.tasks.FetchAllTasks(ctx)
	if err != nil {
		return nil, err
	}

	refs := extract.VideoRefs(tasks)
	s.logger.Info("extracted video references", "tasks", len(tasks), "videos", len(refs))

	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.VideoID
	}

	details, warning := s.enrich(ctx, ids)

	result := &BrowseResult{
		Warning:   warning,
		FetchedAt: time.Now(),
	}

	for _, ref := range refs {
		detail, ok := details[ref.VideoID]
		if !ok {
			continue
		}

		seconds, err := youtube.ParseDuration(detail.Duration)
		if err != nil {
			s.logger.Warn("skipping video with malformed duration",
				"video", ref.VideoID, "duration", detail.Duration)
			continue
		}

		result.Videos = append(result.Videos, VideoInfo{
			ID:              ref.VideoID,
			Title:           detail.Title,
			Channel:         detail.ChannelTitle,
			ChannelID:       detail.ChannelID,
			DurationSeconds: seconds,
			ThumbnailURL:    detail.ThumbnailURL,
			PublishedAt:     detail.PublishedAt,
			ListName:        ref.ListName,
			TaskID:          ref.TaskID,
			TaskTitle:       ref.TaskTitle,
			TaskURL:         ref.TaskURL,
		})
	}

	return result, nil
}

// enrich resolves ids to details, consulting the cache first when one is
// configured. Enrichment is best-effort: a failed batch leaves its ids
// unresolved and produces a warning instead of failing the run.
func (s *Service) enrich(ctx context.Context, ids []string) (map[string]youtube.VideoDetail, string) {
	details := make(map[string]youtube.VideoDetail, len(ids))

	missing := ids
	if s.cache != nil {
		cached, err := s.cache.GetMany(ctx, ids, s.cacheMaxAge)
		if err != nil {
			s.logger.Warn("video cache read failed", "err", err)
		} else {
			for id, d := range cached {
				details[id] = d
			}
			missing = nil
			for _, id := range ids {
				if _, ok := details[id]; !ok {
					missing = append(missing, id)
				}
			}
			s.logger.Debug("video cache hit", "cached", len(cached), "missing", len(missing))
		}
	}

	if len(missing) == 0 {
		return details, ""
	}

	fetched, err := s.yt.VideoDetails(ctx, missing)
	for id, d := range fetched {
		details[id] = d
	}

	warning := ""
	if err != nil {
		s.logger.Warn("video enrichment incomplete", "err", err,
			"resolved", len(fetched), "requested", len(missing))
		warning = "Some videos could not be loaded from YouTube."
	}

	if s.cache != nil && len(fetched) > 0 {
		if err := s.cache.PutMany(ctx, fetched); err != nil {
			s.logger.Warn("video cache write failed", "err", err)
		}
	}

	return details, warning
}
