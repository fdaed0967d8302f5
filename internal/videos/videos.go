// Package videos runs the fetch, extract, enrich pipeline and prepares
// the result for display.
package videos

import (
	"fmt"
	"strings"
	"time"
)

// VideoInfo is a fully enriched video record ready for display.
type VideoInfo struct {
	ID              string
	Title           string
	Channel         string
	ChannelID       string
	DurationSeconds int
	ThumbnailURL    string
	PublishedAt     time.Time
	ListName        string
	TaskID          string
	TaskTitle       string
	TaskURL         string
}

// URL returns the full watch URL for this video.
func (v VideoInfo) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// ChannelURL returns the full URL for this video's channel.
func (v VideoInfo) ChannelURL() string {
	return "https://www.youtube.com/channel/" + v.ChannelID
}

// Stats returns the number of videos and their combined duration in seconds.
func Stats(videos []VideoInfo) (count, totalSeconds int) {
	for _, v := range videos {
		totalSeconds += v.DurationSeconds
	}
	return len(videos), totalSeconds
}

// FormatDuration renders seconds as a compact human string, e.g. "1h 2m 3s".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0s"
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if secs > 0 {
		parts = append(parts, fmt.Sprintf("%ds", secs))
	}

	return strings.Join(parts, " ")
}

// RelativeAge summarizes how long ago t was, relative to now ("3 months ago").
func RelativeAge(t, now time.Time) string {
	if t.IsZero() || !t.Before(now) {
		return "just now"
	}

	d := now.Sub(t)
	switch {
	case d >= 365*24*time.Hour:
		return plural(int(d.Hours()/(365*24)), "year")
	case d >= 30*24*time.Hour:
		return plural(int(d.Hours()/(30*24)), "month")
	case d >= 24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	case d >= time.Hour:
		return plural(int(d.Hours()), "hour")
	case d >= time.Minute:
		return plural(int(d.Minutes()), "minute")
	default:
		return "just now"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
