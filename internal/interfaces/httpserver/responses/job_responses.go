package responses

import (
	"time"

	"github.com/lidarhub/potree-api/internal/domain/job"
)

// JobResponse represents the state of a conversion job
type JobResponse struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"project_id"`
	Status          string     `json:"status"`
	CurrentStep     string     `json:"current_step,omitempty"`
	ProgressMessage string     `json:"progress_message,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// BuildJobResponse creates response from domain object
func BuildJobResponse(j *job.Job) *JobResponse {
	return &JobResponse{
		ID:              j.ID,
		ProjectID:       j.ProjectID,
		Status:          string(j.Status),
		CurrentStep:     string(j.CurrentStep),
		ProgressMessage: j.ProgressMessage,
		ErrorMessage:    j.ErrorMessage,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
		CompletedAt:     j.CompletedAt,
	}
}

// BuildJobListResponse maps a slice of jobs
func BuildJobListResponse(jobs []*job.Job) []*JobResponse {
	out := make([]*JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, BuildJobResponse(j))
	}
	return out
}

// AcceptedResponse acknowledges an upload that was queued for processing
type AcceptedResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}
