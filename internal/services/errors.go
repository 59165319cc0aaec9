package services

import "fmt"

// TranscriptUnavailableError means the upstream source has no captions for
// the video (disabled captions, private, age-restricted, live stream).
// Never retried.
type TranscriptUnavailableError struct {
	VideoID string
	Err     error
}

func (e *TranscriptUnavailableError) Error() string {
	return fmt.Sprintf("no transcript available for video %s: %v", e.VideoID, e.Err)
}

func (e *TranscriptUnavailableError) Unwrap() error { return e.Err }

// TranscriptTooShortError means a transcript exists but is below the usable
// length threshold. Detected before any generation call is made.
type TranscriptTooShortError struct {
	VideoID string
	Length  int
}

func (e *TranscriptTooShortError) Error() string {
	return fmt.Sprintf("transcript for video %s is too short to use (%d chars)", e.VideoID, e.Length)
}

// GenerationFailedError means the generation client exhausted its retry
// budget. Timeout marks a per-attempt deadline as the final cause.
type GenerationFailedError struct {
	Attempts int
	Timeout  bool
	Err      error
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("generation failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *GenerationFailedError) Unwrap() error { return e.Err }

// MalformedOutputError means a JSON-mode response could not even be coarsely
// parsed as the expected top-level shape.
type MalformedOutputError struct {
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("failed to parse model output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }
