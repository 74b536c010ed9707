package requests_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/lidarhub/potree-api/internal/interfaces/httpserver/requests"
)

func TestCreateProjectRequest_ToDomain(t *testing.T) {
	req := requests.CreateProjectRequest{
		ID:          " culvert-survey ",
		Name:        "Culvert Survey",
		Client:      "ACME",
		Description: "Drainage culvert scan",
		Tags:        json.RawMessage(`"FIELD, LOI"`),
		Date:        "2025-06-15",
		CRS: requests.CRSRequest{
			ID:    "26916",
			Name:  "NAD83 / UTM zone 16N",
			Proj4: "+proj=utm +zone=16 +datum=NAD83 ",
		},
	}

	p, err := req.ToDomain()
	if err != nil {
		t.Fatalf("ToDomain() error = %v", err)
	}
	if p.ID != "culvert-survey" {
		t.Errorf("id = %q, want trimmed", p.ID)
	}
	if !reflect.DeepEqual(p.Tags, []string{"FIELD", "LOI"}) {
		t.Errorf("tags = %v", p.Tags)
	}
	if p.Date == nil || p.Date.Year() != 2025 || p.Date.Month() != 6 {
		t.Errorf("date = %v, want 2025-06-15", p.Date)
	}
	if p.CRS.Proj4 != "+proj=utm +zone=16 +datum=NAD83" {
		t.Errorf("proj4 = %q, want trimmed", p.CRS.Proj4)
	}
}

func TestCreateProjectRequest_TagsAsArray(t *testing.T) {
	req := requests.CreateProjectRequest{
		ID:   "p",
		Tags: json.RawMessage(`["a", "b"]`),
		CRS:  requests.CRSRequest{Proj4: "+proj=longlat"},
	}

	p, err := req.ToDomain()
	if err != nil {
		t.Fatalf("ToDomain() error = %v", err)
	}
	if !reflect.DeepEqual(p.Tags, []string{"a", "b"}) {
		t.Errorf("tags = %v, want [a b]", p.Tags)
	}
}

func TestCreateProjectRequest_InvalidDate(t *testing.T) {
	req := requests.CreateProjectRequest{
		ID:   "p",
		Date: "15/06/2025",
		CRS:  requests.CRSRequest{Proj4: "+proj=longlat"},
	}

	if _, err := req.ToDomain(); err == nil {
		t.Error("ToDomain() should reject an unrecognized date format")
	}
}

func TestUpdateProjectRequest_ToUpdate(t *testing.T) {
	name := "new name"
	date := "2025-01-02T00:00:00Z"
	req := requests.UpdateProjectRequest{
		Name: &name,
		Tags: json.RawMessage(`"one"`),
		Date: &date,
	}

	update, err := req.ToUpdate()
	if err != nil {
		t.Fatalf("ToUpdate() error = %v", err)
	}
	if update.Name == nil || *update.Name != "new name" {
		t.Errorf("name = %v", update.Name)
	}
	if update.Client != nil {
		t.Error("client should remain nil when omitted")
	}
	if !reflect.DeepEqual(update.Tags, []string{"one"}) {
		t.Errorf("tags = %v", update.Tags)
	}
	if update.Date == nil || update.Date.Year() != 2025 {
		t.Errorf("date = %v", update.Date)
	}
}

func TestUpdateProjectRequest_OmittedTagsStayNil(t *testing.T) {
	update, err := (&requests.UpdateProjectRequest{}).ToUpdate()
	if err != nil {
		t.Fatalf("ToUpdate() error = %v", err)
	}
	if update.Tags != nil {
		t.Errorf("tags = %v, want nil for omitted field", update.Tags)
	}
}
