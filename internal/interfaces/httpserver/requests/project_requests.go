package requests

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lidarhub/potree-api/internal/domain/project"
)

// CreateProjectRequest represents a new survey project
type CreateProjectRequest struct {
	ID          string          `json:"id" binding:"required"`
	Name        string          `json:"name"`
	Client      string          `json:"client"`
	Description string          `json:"description"`
	Tags        json.RawMessage `json:"tags"`
	Date        string          `json:"date"`
	CRS         CRSRequest      `json:"crs" binding:"required"`
}

// CRSRequest describes the project coordinate reference system
type CRSRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Proj4 string `json:"proj4" binding:"required"`
}

// UpdateProjectRequest represents a partial metadata update
type UpdateProjectRequest struct {
	Name        *string         `json:"name"`
	Client      *string         `json:"client"`
	Description *string         `json:"description"`
	Tags        json.RawMessage `json:"tags"`
	Date        *string         `json:"date"`
}

// ToDomain converts request to domain model
func (r *CreateProjectRequest) ToDomain() (*project.Project, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &project.Project{
		ID:          strings.TrimSpace(r.ID),
		Name:        r.Name,
		Client:      r.Client,
		Description: r.Description,
		Tags:        parseTagsField(r.Tags),
		Date:        date,
		CRS: project.CRS{
			ID:    r.CRS.ID,
			Name:  r.CRS.Name,
			Proj4: strings.TrimSpace(r.CRS.Proj4),
		},
	}, nil
}

// ToUpdate converts request to a domain update
func (r *UpdateProjectRequest) ToUpdate() (project.Update, error) {
	update := project.Update{
		Name:        r.Name,
		Client:      r.Client,
		Description: r.Description,
	}
	if r.Tags != nil {
		update.Tags = parseTagsField(r.Tags)
	}
	if r.Date != nil {
		date, err := parseDate(*r.Date)
		if err != nil {
			return update, err
		}
		update.Date = date
	}
	return update, nil
}

// parseTagsField accepts either a JSON array of strings or a single
// comma separated string.
func parseTagsField(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return project.ParseTags(s)
	}
	return project.ParseTags(string(raw))
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q; expected RFC3339 or YYYY-MM-DD", s)
}
