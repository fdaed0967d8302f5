// Package extract finds YouTube video references in free text.
package extract

import (
	"regexp"

	"github.com/xbito/yt-gt-browser/internal/gtasks"
)

// videoURLPattern matches the common YouTube URL shapes:
// youtube.com/watch?v=ID (with optional extra query params before v=),
// youtu.be/ID and youtube.com/shorts/ID. Scheme and www./m. prefixes
// are optional. The video id is the first capture group.
var videoURLPattern = regexp.MustCompile(
	`(?:https?://)?(?:www\.|m\.)?(?:youtube\.com/(?:watch\?(?:\S*&)?v=|shorts/)|youtu\.be/)([A-Za-z0-9_-]+)`)

// VideoRef is an extracted, not-yet-enriched reference to a YouTube video
// plus the task it came from.
type VideoRef struct {
	VideoID   string
	TaskID    string
	TaskTitle string
	TaskURL   string
	ListName  string
}

// VideoIDs returns the video ids found in text, in order of appearance.
// Duplicate ids within the same text are returned once.
func VideoIDs(text string) []string {
	if text == "" {
		return nil
	}

	var ids []string
	seen := make(map[string]bool)
	for _, match := range videoURLPattern.FindAllStringSubmatch(text, -1) {
		id := match[1]
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// VideoRefs scans each task's title and notes for YouTube URLs and returns
// one VideoRef per distinct video id. When a video appears in multiple
// tasks, the first task seen wins the annotation.
func VideoRefs(tasks []gtasks.Task) []VideoRef {
	var refs []VideoRef
	seen := make(map[string]bool)

	for _, task := range tasks {
		ids := VideoIDs(task.Title + "\n" + task.Notes)
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			refs = append(refs, VideoRef{
				VideoID:   id,
				TaskID:    task.ID,
				TaskTitle: task.Title,
				TaskURL:   task.WebViewLink,
				ListName:  task.ListName,
			})
		}
	}

	return refs
}
