package youtube

import (
	"fmt"
	"regexp"
	"strconv"
)

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration converts an ISO-8601 video duration ("PT1H2M3S") into
// total seconds. Durations with day components or other shapes the
// videos.list endpoint never returns are rejected.
func ParseDuration(iso string) (int, error) {
	match := durationPattern.FindStringSubmatch(iso)
	if match == nil {
		return 0, fmt.Errorf("malformed ISO-8601 duration %q", iso)
	}

	hours := atoiDefault(match[1])
	minutes := atoiDefault(match[2])
	seconds := atoiDefault(match[3])

	return hours*3600 + minutes*60 + seconds, nil
}

func atoiDefault(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
