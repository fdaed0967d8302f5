package videos

import (
	"math/rand"
	"sort"
	"strings"
)

// SortKey selects an ordering for the video grid.
type SortKey string

// Supported sort keys.
const (
	SortAlphabetical SortKey = "alphabetical"
	SortList         SortKey = "list"
	SortDuration     SortKey = "duration"
	SortChannel      SortKey = "channel"
	SortShuffle      SortKey = "shuffle"
)

// SortKeys lists the supported keys in display order.
var SortKeys = []SortKey{SortAlphabetical, SortList, SortDuration, SortChannel, SortShuffle}

// Label returns the human name for the key.
func (k SortKey) Label() string {
	switch k {
	case SortAlphabetical:
		return "Alphabetical"
	case SortList:
		return "Task List"
	case SortDuration:
		return "Duration"
	case SortChannel:
		return "Channel"
	case SortShuffle:
		return "Shuffle"
	default:
		return string(k)
	}
}

// ParseSortKey maps a raw string to a SortKey, defaulting to alphabetical.
func ParseSortKey(s string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range SortKeys {
		if key == k {
			return k
		}
	}
	return SortAlphabetical
}

// Sort orders videos in place. Text keys compare case-insensitively and
// the sort is stable; shuffle produces a fresh uniform permutation on
// every call.
func Sort(videos []VideoInfo, key SortKey) {
	switch key {
	case SortList:
		sort.SliceStable(videos, func(i, j int) bool {
			return strings.ToLower(videos[i].ListName) < strings.ToLower(videos[j].ListName)
		})
	case SortDuration:
		sort.SliceStable(videos, func(i, j int) bool {
			return videos[i].DurationSeconds < videos[j].DurationSeconds
		})
	case SortChannel:
		sort.SliceStable(videos, func(i, j int) bool {
			return strings.ToLower(videos[i].Channel) < strings.ToLower(videos[j].Channel)
		})
	case SortShuffle:
		rand.Shuffle(len(videos), func(i, j int) {
			videos[i], videos[j] = videos[j], videos[i]
		})
	default:
		sort.SliceStable(videos, func(i, j int) bool {
			return strings.ToLower(videos[i].Title) < strings.ToLower(videos[j].Title)
		})
	}
}
