package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/lidarhub/potree-api/internal/config"
	"github.com/lidarhub/potree-api/internal/domain/project"
	"github.com/lidarhub/potree-api/internal/interfaces/httpserver/handlers"
	"github.com/lidarhub/potree-api/internal/utils/platformerrors"
)

// MockProjectRepository is a func-field mock of project.Repository.
type MockProjectRepository struct {
	CreateFunc  func(ctx context.Context, p *project.Project) error
	GetByIDFunc func(ctx context.Context, id string) (*project.Project, error)
	ListFunc    func(ctx context.Context) ([]*project.Project, error)
	UpdateFunc  func(ctx context.Context, p *project.Project) error
	DeleteFunc  func(ctx context.Context, id string) error
	ExistsFunc  func(ctx context.Context, id string) (bool, error)
}

func (m *MockProjectRepository) Create(ctx context.Context, p *project.Project) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id string) (*project.Project, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &project.Project{ID: id}, nil
}

func (m *MockProjectRepository) List(ctx context.Context) ([]*project.Project, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*project.Project{}, nil
}

func (m *MockProjectRepository) Update(ctx context.Context, p *project.Project) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}

func (m *MockProjectRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockProjectRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return false, nil
}

// MockProjectStorage is a func-field mock of project.Storage.
type MockProjectStorage struct {
	DeletePrefixFunc func(ctx context.Context, prefix string) error
}

func (m *MockProjectStorage) DeletePrefix(ctx context.Context, prefix string) error {
	if m.DeletePrefixFunc != nil {
		return m.DeletePrefixFunc(ctx, prefix)
	}
	return nil
}

func notFoundError(msg string) error {
	return platformerrors.NewError(
		context.Background(),
		platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound,
		msg,
		nil,
		"1f2e3d4c-5b6a-4978-8c7d-6e5f4a3b2c1d",
	)
}

func setupProjectRouter(repo *MockProjectRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	service := project.NewService(repo, &MockProjectStorage{}, zerolog.Nop())
	handler := handlers.NewProjectHandler(cfg, service, zerolog.Nop())

	router := gin.New()
	router.GET("/v1/projects", handler.List)
	router.POST("/v1/projects", handler.Create)
	router.GET("/v1/projects/:id", handler.Get)
	router.PUT("/v1/projects/:id", handler.Update)
	router.DELETE("/v1/projects/:id", handler.Delete)
	return router
}

func TestProjectHandler_Create(t *testing.T) {
	router := setupProjectRouter(&MockProjectRepository{})

	body := `{
		"id": "culvert-survey",
		"name": "Culvert Survey",
		"tags": "FIELD, LOI",
		"crs": {"id": "26916", "proj4": "+proj=utm +zone=16 +datum=NAD83"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/projects", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}

	var created project.Project
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID != "culvert-survey" {
		t.Errorf("id = %q", created.ID)
	}
	if len(created.Tags) != 2 {
		t.Errorf("tags = %v, want 2 entries", created.Tags)
	}
}

func TestProjectHandler_Create_Duplicate(t *testing.T) {
	repo := &MockProjectRepository{
		ExistsFunc: func(ctx context.Context, id string) (bool, error) {
			return true, nil
		},
	}
	router := setupProjectRouter(repo)

	body := `{"id": "culvert-survey", "crs": {"proj4": "+proj=longlat"}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/projects", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409; body: %s", w.Code, w.Body.String())
	}
}

func TestProjectHandler_Create_MissingProj4(t *testing.T) {
	router := setupProjectRouter(&MockProjectRepository{})

	body := `{"id": "culvert-survey", "crs": {"id": "26916"}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/projects", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}
}

func TestProjectHandler_Get_NotFound(t *testing.T) {
	repo := &MockProjectRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*project.Project, error) {
			return nil, notFoundError("project not found")
		},
	}
	router := setupProjectRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/projects/ghost", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404; body: %s", w.Code, w.Body.String())
	}
}

func TestProjectHandler_List(t *testing.T) {
	repo := &MockProjectRepository{
		ListFunc: func(ctx context.Context) ([]*project.Project, error) {
			return []*project.Project{{ID: "a"}, {ID: "b"}}, nil
		},
	}
	router := setupProjectRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var list []*project.Project
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("len = %d, want 2", len(list))
	}
}

func TestProjectHandler_Update(t *testing.T) {
	repo := &MockProjectRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*project.Project, error) {
			return &project.Project{ID: id, Name: "old", Client: "keep"}, nil
		},
	}
	router := setupProjectRouter(repo)

	body := `{"name": "new"}`
	req := httptest.NewRequest(http.MethodPut, "/v1/projects/culvert-survey", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var updated project.Project
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if updated.Name != "new" || updated.Client != "keep" {
		t.Errorf("updated = %+v", updated)
	}
}

func TestProjectHandler_Delete(t *testing.T) {
	router := setupProjectRouter(&MockProjectRepository{})

	req := httptest.NewRequest(http.MethodDelete, "/v1/projects/culvert-survey", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204; body: %s", w.Code, w.Body.String())
	}
}
