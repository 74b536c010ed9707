package entities

import (
	"time"

	"github.com/lib/pq"
)

// Project represents the persisted survey project.
type Project struct {
	ID          string         `gorm:"type:varchar(64);primaryKey"`
	Name        string         `gorm:"type:varchar(255)"`
	Client      string         `gorm:"type:varchar(255)"`
	Description string         `gorm:"type:text"`
	Tags        pq.StringArray `gorm:"type:text[]"`
	Date        *time.Time

	CRSID    string `gorm:"type:varchar(16)"`
	CRSName  string `gorm:"type:varchar(128)"`
	CRSProj4 string `gorm:"type:text"`

	LocationLat float64
	LocationLon float64
	LocationZ   float64

	PointCount   int64
	CloudURL     string `gorm:"type:text"`
	ThumbnailURL string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}
