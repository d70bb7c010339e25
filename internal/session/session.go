package session

import (
	"skinsight/internal/diagnosis"
	"skinsight/internal/scan"
)

// ErrorState is the surfaced failure on the analyzing screen.
type ErrorState struct {
	Message   string
	Retryable bool
}

// Session is the app's mutable state. All access goes through the Manager.
type Session struct {
	Step           Step
	Captures       []scan.Capture
	Profile        diagnosis.Profile
	Analysis       *diagnosis.Analysis
	ScannedProduct *diagnosis.ScannedProduct
	Settings       diagnosis.Settings
	Environment    diagnosis.Environment
	TransientError *ErrorState

	// SubmissionID is issued when a capture set completes and consumed by
	// the first successful diagnosis to make the reward idempotent.
	SubmissionID string
	awardedFor   string
}

// CaptureFrames returns the raw frames in capture order.
func (s *Session) CaptureFrames() [][]byte {
	frames := make([][]byte, 0, len(s.Captures))
	for _, capture := range s.Captures {
		frames = append(frames, capture.Frame)
	}
	return frames
}
