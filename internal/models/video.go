package models

import "time"

// TimedSegment is one caption entry of a video, in chronological order.
type TimedSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript is the cached unit for one video: the flat spoken text plus the
// timed segments it was built from. Segments may be empty when only the
// transcript-API fallback path succeeded.
type Transcript struct {
	VideoID   string         `json:"video_id"`
	Text      string         `json:"text"`
	Segments  []TimedSegment `json:"segments"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// EndSeconds is the end time of the last segment, or 0 when no timing is
// available.
func (t *Transcript) EndSeconds() float64 {
	if len(t.Segments) == 0 {
		return 0
	}
	last := t.Segments[len(t.Segments)-1]
	return last.Start + last.Duration
}

// VideoMetadata is the small slice of YouTube metadata the summary artifact
// needs.
type VideoMetadata struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	DurationSeconds int    `json:"duration_seconds"`
}
