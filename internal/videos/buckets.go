package videos

import (
	"sort"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// DefaultBucketCount is the number of watch-time buckets shown in the
// stats area.
const DefaultBucketCount = 3

// Bucket groups videos of similar length.
type Bucket struct {
	Label      string // "Quick", "Medium", "Long", ...
	MinSeconds int
	MaxSeconds int
	Count      int
}

var bucketLabels = []string{"Quick", "Medium", "Long", "Marathon", "Epic"}

// videoObservation wraps a video's duration for k-means.
type videoObservation struct {
	video  *VideoInfo
	coords clusters.Coordinates
}

func (o videoObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o videoObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Buckets partitions videos into k watch-time groups using k-means over
// duration. Buckets come back ordered short to long and every video lands
// in exactly one bucket. Fewer videos than k, or a clustering failure,
// yields a single bucket covering everything.
func Buckets(videos []VideoInfo, k int) []Bucket {
	if len(videos) == 0 {
		return nil
	}
	if k <= 0 {
		k = DefaultBucketCount
	}
	if k > len(bucketLabels) {
		k = len(bucketLabels)
	}

	if len(videos) < k {
		return []Bucket{catchAll(videos)}
	}

	var obs clusters.Observations
	for i := range videos {
		obs = append(obs, videoObservation{
			video:  &videos[i],
			coords: clusters.Coordinates{float64(videos[i].DurationSeconds)},
		})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, k)
	if err != nil {
		return []Bucket{catchAll(videos)}
	}

	var buckets []Bucket
	for _, cluster := range result {
		if len(cluster.Observations) == 0 {
			continue
		}

		b := Bucket{MinSeconds: -1}
		for _, o := range cluster.Observations {
			vo, ok := o.(videoObservation)
			if !ok {
				continue
			}
			secs := vo.video.DurationSeconds
			if b.MinSeconds < 0 || secs < b.MinSeconds {
				b.MinSeconds = secs
			}
			if secs > b.MaxSeconds {
				b.MaxSeconds = secs
			}
			b.Count++
		}
		if b.Count > 0 {
			buckets = append(buckets, b)
		}
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].MinSeconds < buckets[j].MinSeconds
	})

	for i := range buckets {
		buckets[i].Label = bucketLabels[i]
	}

	return buckets
}

func catchAll(videos []VideoInfo) Bucket {
	b := Bucket{Label: bucketLabels[0], MinSeconds: -1}
	for _, v := range videos {
		if b.MinSeconds < 0 || v.DurationSeconds < b.MinSeconds {
			b.MinSeconds = v.DurationSeconds
		}
		if v.DurationSeconds > b.MaxSeconds {
			b.MaxSeconds = v.DurationSeconds
		}
		b.Count++
	}
	return b
}
