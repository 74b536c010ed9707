package job

import "time"

// Job represents one point cloud conversion run for a project.
type Job struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"project_id"`
	Status          Status     `json:"status"`
	CurrentStep     Step       `json:"current_step,omitempty"`
	ProgressMessage string     `json:"progress_message,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	SourcePath      string     `json:"-"` // Local temp file holding the upload
	SourceKey       string     `json:"-"` // Raw upload object key in storage
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}
