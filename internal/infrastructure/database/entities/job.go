package entities

import "time"

// Job represents the persisted conversion job.
type Job struct {
	ID              string `gorm:"type:varchar(40);primaryKey"`
	ProjectID       string `gorm:"type:varchar(64);index;not null"`
	Status          string `gorm:"type:varchar(16);index:idx_jobs_status_created,priority:1;not null"`
	CurrentStep     string `gorm:"type:varchar(16)"`
	ProgressMessage string `gorm:"type:text"`
	ErrorMessage    string `gorm:"type:text"`
	SourcePath      string `gorm:"type:text"`
	SourceKey       string `gorm:"type:text"`

	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_jobs_status_created,priority:2"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
	CompletedAt *time.Time
}

func (Job) TableName() string {
	return "jobs"
}
