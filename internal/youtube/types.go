package youtube

import "time"

// VideoDetail carries the snippet and contentDetails fields the UI needs.
type VideoDetail struct {
	ID           string
	Title        string
	ChannelTitle string
	ChannelID    string
	Duration     string // ISO-8601, e.g. "PT1H2M3S"
	PublishedAt  time.Time
	ThumbnailURL string
}

// URL returns the full watch URL for this video.
func (v VideoDetail) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// ChannelURL returns the full URL for this video's channel.
func (v VideoDetail) ChannelURL() string {
	return "https://www.youtube.com/channel/" + v.ChannelID
}

type videoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			ChannelID    string `json:"channelId"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
