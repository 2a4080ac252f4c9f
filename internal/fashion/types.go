package fashion

import (
	"encoding/base64"
)

// Model names for the two generation models consumed by the app.
const (
	// ModelBackgroundReplace takes a single person photo and returns it
	// with a clean studio background. Used when preparing the avatar.
	ModelBackgroundReplace = "background-replace-v2"
	// ModelGarmentCompose takes a base person image and one garment image
	// and returns the person wearing the garment. Used once per garment by
	// the dress-up pipeline.
	ModelGarmentCompose = "garment-try-on-v2"
)

// Job status values reported by the remote service.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// runRequest is the payload for the run endpoint.
type runRequest struct {
	Model  string            `json:"model"`
	Inputs map[string]string `json:"inputs"`
}

// runResponse carries the job id for a queued generation.
type runResponse struct {
	JobID string `json:"job_id"`
}

// JobStatus is the poll response for a generation job.
type JobStatus struct {
	JobID  string   `json:"job_id"`
	Status string   `json:"status"`
	Output []string `json:"output,omitempty"` // Image URLs, present when completed
	Error  string   `json:"error,omitempty"`  // Present when failed
}

// Terminal reports whether the status will never change again.
func (s *JobStatus) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}

// DataURI encodes a normalized JPEG as an inline payload the generation
// service accepts in place of a remote URL.
func DataURI(jpegData []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegData)
}
