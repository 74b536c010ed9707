package httpserver_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lidarhub/potree-api/internal/config"
	"github.com/lidarhub/potree-api/internal/domain/job"
	"github.com/lidarhub/potree-api/internal/domain/pipeline"
	"github.com/lidarhub/potree-api/internal/domain/project"
	"github.com/lidarhub/potree-api/internal/infrastructure/auth"
	"github.com/lidarhub/potree-api/internal/interfaces/httpserver"
)

type noopProjectRepo struct{}

func (noopProjectRepo) Create(ctx context.Context, p *project.Project) error { return nil }
func (noopProjectRepo) GetByID(ctx context.Context, id string) (*project.Project, error) {
	return &project.Project{ID: id}, nil
}
func (noopProjectRepo) List(ctx context.Context) ([]*project.Project, error) { return nil, nil }
func (noopProjectRepo) Update(ctx context.Context, p *project.Project) error { return nil }
func (noopProjectRepo) Delete(ctx context.Context, id string) error          { return nil }
func (noopProjectRepo) Exists(ctx context.Context, id string) (bool, error)  { return false, nil }

type noopJobRepo struct{}

func (noopJobRepo) Create(ctx context.Context, j *job.Job) error { return nil }
func (noopJobRepo) GetByID(ctx context.Context, id string) (*job.Job, error) {
	return &job.Job{ID: id}, nil
}
func (noopJobRepo) ListByProject(ctx context.Context, projectID string) ([]*job.Job, error) {
	return nil, nil
}
func (noopJobRepo) UpdateProgress(ctx context.Context, id string, step job.Step, message string) error {
	return nil
}
func (noopJobRepo) MarkCompleted(ctx context.Context, id string) error                { return nil }
func (noopJobRepo) MarkFailed(ctx context.Context, id string, errorMessage string) error { return nil }
func (noopJobRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type noopStorage struct{}

func (noopStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	return nil
}

func (noopStorage) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return io.NopCloser(strings.NewReader("")), "application/octet-stream", nil
}

func (noopStorage) Delete(ctx context.Context, key string) error          { return nil }
func (noopStorage) DeletePrefix(ctx context.Context, prefix string) error { return nil }

func (noopStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

type noopConverter struct{}

func (noopConverter) Convert(ctx context.Context, inputPath, outputDir, proj4 string) error {
	return nil
}

func newTestHandler(t *testing.T, validator *auth.Validator) http.Handler {
	t.Helper()

	cfg := &config.Config{
		ServiceName:  "potree-api",
		Environment:  "development",
		UploadDir:    t.TempDir(),
		S3PresignTTL: time.Hour,
	}
	projectSvc := project.NewService(noopProjectRepo{}, noopStorage{}, zerolog.Nop())
	jobSvc := job.NewService(noopJobRepo{}, zerolog.Nop())
	pipelineSvc := pipeline.NewService(cfg, jobSvc, projectSvc, noopConverter{}, noopStorage{}, zerolog.Nop())

	server := httpserver.New(cfg, zerolog.Nop(), projectSvc, jobSvc, pipelineSvc, validator)
	return server.Handler()
}

func TestServer_CoreRoutes(t *testing.T) {
	handler := newTestHandler(t, nil)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/", http.StatusOK},
		{"/health", http.StatusOK},
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestServer_RootReportsServiceName(t *testing.T) {
	handler := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Body.String(), "potree-api") {
		t.Errorf("root body = %q, want service name", rec.Body.String())
	}
}

// Probes and the API surface must stay reachable when auth is configured
// but disabled.
func TestServer_DisabledAuthLeavesRoutesOpen(t *testing.T) {
	validator, err := auth.NewValidator(context.Background(), &config.Config{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}
	handler := newTestHandler(t, validator)

	for _, path := range []string{"/health", "/readyz", "/v1/projects"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}
