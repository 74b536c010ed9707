// Package pipeline runs uploaded point clouds through metadata
// extraction, preview rendering, octree conversion and publication.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/lidarhub/potree-api/internal/config"
	"github.com/lidarhub/potree-api/internal/domain/job"
	"github.com/lidarhub/potree-api/internal/domain/project"
	"github.com/lidarhub/potree-api/internal/infrastructure/geo"
	"github.com/lidarhub/potree-api/internal/infrastructure/lasfile"
	"github.com/lidarhub/potree-api/internal/infrastructure/metrics"
	"github.com/lidarhub/potree-api/internal/infrastructure/observability"
	"github.com/lidarhub/potree-api/internal/infrastructure/queue"
	"github.com/lidarhub/potree-api/internal/infrastructure/thumbnail"
	"github.com/lidarhub/potree-api/internal/utils/platformerrors"
	"github.com/lidarhub/potree-api/utils/jobid"
)

// thumbnailSamples bounds how many point records are decoded for the
// preview render.
const thumbnailSamples = 50000

var allowedExtensions = map[string]struct{}{
	".las": {},
	".laz": {},
}

// Storage defines the object storage operations the pipeline needs.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Converter produces a Potree octree from a LAS/LAZ file.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputDir, proj4 string) error
}

// Service drives a point cloud from upload to published octree.
type Service struct {
	cfg       *config.Config
	jobs      *job.Service
	projects  *project.Service
	converter Converter
	storage   Storage
	renderer  *thumbnail.Renderer
	log       zerolog.Logger
}

func NewService(
	cfg *config.Config,
	jobs *job.Service,
	projects *project.Service,
	converter Converter,
	storage Storage,
	log zerolog.Logger,
) *Service {
	return &Service{
		cfg:       cfg,
		jobs:      jobs,
		projects:  projects,
		converter: converter,
		storage:   storage,
		renderer:  thumbnail.NewRenderer(thumbnail.DefaultSize),
		log:       log.With().Str("component", "pipeline").Logger(),
	}
}

// Submit accepts an uploaded point cloud for a project, stages it on
// disk and in object storage, and enqueues a pending job.
func (s *Service) Submit(ctx context.Context, projectID, filename string, body io.Reader, size int64) (*job.Job, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unsupported file type %q; expected .las or .laz", ext),
			nil,
			"f3b9a8d1-6c2e-4f7a-b5d0-9e8c7a6b5d4e",
		)
	}

	id := jobid.New()
	sourcePath := filepath.Join(s.cfg.UploadDir, id+ext)
	sourceKey := path.Join("jobs", id+ext)

	if err := os.MkdirAll(s.cfg.UploadDir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	written, err := stageFile(sourcePath, body)
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	if size > 0 && written != size {
		_ = os.Remove(sourcePath)
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"upload was truncated",
			nil,
			"2c1d0e9f-8a7b-4c6d-b5e4-3f2a1b0c9d8e",
		)
	}
	metrics.UploadBytesTotal.Add(float64(written))

	// Keep a durable copy so a restarted worker on another node can
	// re-fetch the source if the local file is gone.
	if err := s.uploadSource(ctx, sourceKey, sourcePath, written, ext); err != nil {
		s.log.Warn().Err(err).Str("key", sourceKey).Msg("source backup upload failed; continuing with local copy")
		sourceKey = ""
	}

	jb := &job.Job{
		ID:         id,
		ProjectID:  projectID,
		SourcePath: sourcePath,
		SourceKey:  sourceKey,
	}
	if err := s.jobs.Create(ctx, jb); err != nil {
		s.discardStaged(sourcePath, sourceKey)
		return nil, err
	}

	s.log.Info().
		Str("job_id", id).
		Str("project_id", projectID).
		Int64("bytes", written).
		Msg("upload accepted")
	return jb, nil
}

// Execute runs a claimed job through the full pipeline. A non-nil error
// means the job failed; the caller records the terminal status.
func (s *Service) Execute(ctx context.Context, task *queue.Task) error {
	ctx, span := observability.StartJobSpan(ctx, task.JobID, task.ProjectID)
	defer span.End()

	// Cleanup runs on every exit, including failures before the first step.
	outputDir := strings.TrimSuffix(task.SourcePath, filepath.Ext(task.SourcePath)) + "_octree"
	defer s.cleanup(task, outputDir)

	proj, err := s.projects.Get(ctx, task.ProjectID)
	if err != nil {
		observability.RecordError(span, err)
		return fmt.Errorf("load project %s: %w", task.ProjectID, err)
	}

	if err := s.restoreSource(ctx, task); err != nil {
		observability.RecordError(span, err)
		return err
	}

	if err := s.stepMetadata(ctx, task, proj); err != nil {
		observability.RecordError(span, err)
		return err
	}

	// Thumbnail failures never fail the job; LAZ sources in particular
	// cannot be sampled without decompression.
	s.stepThumbnail(ctx, task, proj)

	if err := s.stepConversion(ctx, task, proj, outputDir); err != nil {
		observability.RecordError(span, err)
		return err
	}

	if err := s.stepUpload(ctx, task, proj, outputDir); err != nil {
		observability.RecordError(span, err)
		return err
	}

	if err := s.projects.Save(ctx, proj); err != nil {
		observability.RecordError(span, err)
		return fmt.Errorf("save project: %w", err)
	}

	return nil
}

func (s *Service) stepMetadata(ctx context.Context, task *queue.Task, proj *project.Project) error {
	ctx, span := observability.StartStepSpan(ctx, task.JobID, string(job.StepMetadata))
	defer span.End()
	start := time.Now()
	defer func() { metrics.RecordStep(string(job.StepMetadata), time.Since(start).Seconds()) }()

	if err := s.jobs.UpdateProgress(ctx, task.JobID, job.StepMetadata, "Reading point cloud metadata"); err != nil {
		return err
	}

	header, err := lasfile.Open(task.SourcePath)
	if err != nil {
		return fmt.Errorf("read las header: %w", err)
	}

	proj.PointCount = int64(header.PointCount())

	x, y, z := header.Center()
	transformer, err := geo.NewTransformer(proj.CRS.Proj4)
	if err != nil {
		if errors.Is(err, geo.ErrUnsupportedProjection) {
			s.log.Warn().
				Str("job_id", task.JobID).
				Str("proj4", proj.CRS.Proj4).
				Msg("projection not supported for geolocation; skipping")
			return nil
		}
		return fmt.Errorf("parse projection: %w", err)
	}
	lat, lon := transformer.ToWGS84(x, y)
	proj.Location = project.Location{Lat: lat, Lon: lon, Z: z}

	return nil
}

func (s *Service) stepThumbnail(ctx context.Context, task *queue.Task, proj *project.Project) {
	ctx, span := observability.StartStepSpan(ctx, task.JobID, string(job.StepThumbnail))
	defer span.End()
	start := time.Now()
	defer func() { metrics.RecordStep(string(job.StepThumbnail), time.Since(start).Seconds()) }()

	if err := s.jobs.UpdateProgress(ctx, task.JobID, job.StepThumbnail, "Rendering preview image"); err != nil {
		s.log.Warn().Err(err).Str("job_id", task.JobID).Msg("progress update failed")
	}

	points, err := lasfile.SamplePoints(task.SourcePath, thumbnailSamples)
	if err != nil {
		s.log.Warn().Err(err).Str("job_id", task.JobID).Msg("point sampling failed; skipping thumbnail")
		return
	}

	png, err := s.renderer.Render(points)
	if err != nil {
		s.log.Warn().Err(err).Str("job_id", task.JobID).Msg("thumbnail render failed; skipping")
		return
	}

	key := path.Join(proj.ID, "thumbnail.png")
	if err := s.storage.Upload(ctx, key, bytes.NewReader(png), int64(len(png)), "image/png"); err != nil {
		s.log.Warn().Err(err).Str("job_id", task.JobID).Msg("thumbnail upload failed; skipping")
		return
	}

	url, err := s.storage.PresignGet(ctx, key, s.cfg.S3PresignTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("job_id", task.JobID).Msg("thumbnail presign failed; skipping")
		return
	}
	proj.Thumbnail = url
}

func (s *Service) stepConversion(ctx context.Context, task *queue.Task, proj *project.Project, outputDir string) error {
	ctx, span := observability.StartStepSpan(ctx, task.JobID, string(job.StepConversion))
	defer span.End()
	start := time.Now()
	defer func() { metrics.RecordStep(string(job.StepConversion), time.Since(start).Seconds()) }()

	if err := s.jobs.UpdateProgress(ctx, task.JobID, job.StepConversion, "Converting to Potree octree"); err != nil {
		return err
	}

	if err := s.converter.Convert(ctx, task.SourcePath, outputDir, proj.CRS.Proj4); err != nil {
		metrics.RecordConversion("error")
		return fmt.Errorf("conversion failed: %w", err)
	}
	metrics.RecordConversion("success")
	return nil
}

func (s *Service) stepUpload(ctx context.Context, task *queue.Task, proj *project.Project, outputDir string) error {
	ctx, span := observability.StartStepSpan(ctx, task.JobID, string(job.StepUpload))
	defer span.End()
	start := time.Now()
	defer func() { metrics.RecordStep(string(job.StepUpload), time.Since(start).Seconds()) }()

	if err := s.jobs.UpdateProgress(ctx, task.JobID, job.StepUpload, "Uploading converted octree"); err != nil {
		return err
	}

	var files int
	err := filepath.WalkDir(outputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(outputDir, p)
		if err != nil {
			return err
		}
		key := path.Join(proj.ID, filepath.ToSlash(rel))

		if err := s.uploadFile(ctx, key, p); err != nil {
			return fmt.Errorf("upload %s: %w", rel, err)
		}
		files++
		return nil
	})
	if err != nil {
		return err
	}
	if files == 0 {
		return errors.New("converter produced no output files")
	}

	cloudURL, err := s.storage.PresignGet(ctx, path.Join(proj.ID, "metadata.json"), s.cfg.S3PresignTTL)
	if err != nil {
		return fmt.Errorf("presign octree metadata: %w", err)
	}
	proj.CloudURL = cloudURL

	s.log.Info().
		Str("job_id", task.JobID).
		Str("project_id", proj.ID).
		Int("files", files).
		Msg("octree uploaded")
	return nil
}

// restoreSource re-fetches the staged upload from object storage when the
// local copy is gone, e.g. after the claiming worker moved hosts.
func (s *Service) restoreSource(ctx context.Context, task *queue.Task) error {
	if _, err := os.Stat(task.SourcePath); err == nil {
		return nil
	}
	if task.SourceKey == "" {
		return fmt.Errorf("source file %s is missing and no backup object exists", task.SourcePath)
	}

	body, _, err := s.storage.Download(ctx, task.SourceKey)
	if err != nil {
		return fmt.Errorf("restore source from %s: %w", task.SourceKey, err)
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(task.SourcePath), 0755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	if _, err := stageFile(task.SourcePath, body); err != nil {
		return fmt.Errorf("restore source from %s: %w", task.SourceKey, err)
	}

	s.log.Info().
		Str("job_id", task.JobID).
		Str("key", task.SourceKey).
		Msg("restored staged upload from object storage")
	return nil
}

func (s *Service) uploadFile(ctx context.Context, key, p string) error {
	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(p); err == nil {
		contentType = mt.String()
	}

	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	return s.storage.Upload(ctx, key, f, info.Size(), contentType)
}

func (s *Service) uploadSource(ctx context.Context, key, sourcePath string, size int64, ext string) error {
	f, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer f.Close()

	contentType := "application/vnd.las"
	if ext == ".laz" {
		contentType = "application/vnd.laszip"
	}
	return s.storage.Upload(ctx, key, f, size, contentType)
}

// cleanup removes the staged source and converter output once a job has
// reached a terminal state. Failures here are logged, not fatal.
func (s *Service) cleanup(task *queue.Task, outputDir string) {
	s.discardStaged(task.SourcePath, task.SourceKey)
	if err := os.RemoveAll(outputDir); err != nil {
		s.log.Warn().Err(err).Str("path", outputDir).Msg("failed to remove converter output")
	}
}

// discardStaged removes a staged upload and its backup object.
func (s *Service) discardStaged(sourcePath, sourceKey string) {
	if err := os.Remove(sourcePath); err != nil && !os.IsNotExist(err) {
		s.log.Warn().Err(err).Str("path", sourcePath).Msg("failed to remove staged upload")
	}
	if sourceKey == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.storage.Delete(ctx, sourceKey); err != nil {
		s.log.Warn().Err(err).Str("key", sourceKey).Msg("failed to remove source backup")
	}
}

func stageFile(dst string, body io.Reader) (int64, error) {
	f, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	written, err := io.Copy(f, body)
	if err != nil {
		_ = os.Remove(dst)
		return 0, err
	}
	if err := f.Sync(); err != nil {
		return written, err
	}
	return written, nil
}
