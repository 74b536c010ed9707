package project

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/lidarhub/potree-api/internal/domain/project"
	"github.com/lidarhub/potree-api/internal/infrastructure/database/entities"
	"github.com/lidarhub/potree-api/internal/utils/platformerrors"
)

// Repository handles project persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, p *domain.Project) error {
	entity := mapDomain(p)
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict,
				"project already exists",
				err,
				"a1b2c3d4-5e6f-4a7b-8c9d-0e1f2a3b4c5d",
			)
		}
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create project",
			err,
			"b2c3d4e5-6f7a-4b8c-9d0e-1f2a3b4c5d6e",
		)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var entity entities.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"project not found",
				err,
				"c3d4e5f6-7a8b-4c9d-0e1f-2a3b4c5d6e7f",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get project by id",
			err,
			"d4e5f6a7-8b9c-4d0e-1f2a-3b4c5d6e7f8a",
		)
	}
	obj := mapEntity(entity)
	return &obj, nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Project, error) {
	var rows []entities.Project
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list projects",
			err,
			"e5f6a7b8-9c0d-4e1f-2a3b-4c5d6e7f8a9b",
		)
	}
	projects := make([]*domain.Project, 0, len(rows))
	for _, row := range rows {
		obj := mapEntity(row)
		projects = append(projects, &obj)
	}
	return projects, nil
}

func (r *Repository) Update(ctx context.Context, p *domain.Project) error {
	entity := mapDomain(p)
	result := r.db.WithContext(ctx).Model(&entities.Project{}).
		Where("id = ?", p.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&entity)
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update project",
			result.Error,
			"f6a7b8c9-0d1e-4f2a-3b4c-5d6e7f8a9b0c",
		)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			"project not found",
			nil,
			"a7b8c9d0-1e2f-4a3b-4c5d-6e7f8a9b0c1d",
		)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Project{}).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete project",
			err,
			"b8c9d0e1-2f3a-4b4c-5d6e-7f8a9b0c1d2e",
		)
	}
	return nil
}

func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Project{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to check project existence",
			err,
			"c9d0e1f2-3a4b-4c5d-6e7f-8a9b0c1d2e3f",
		)
	}
	return count > 0, nil
}

func mapEntity(entity entities.Project) domain.Project {
	return domain.Project{
		ID:          entity.ID,
		Name:        entity.Name,
		Client:      entity.Client,
		Description: entity.Description,
		Tags:        entity.Tags,
		Date:        entity.Date,
		CRS: domain.CRS{
			ID:    entity.CRSID,
			Name:  entity.CRSName,
			Proj4: entity.CRSProj4,
		},
		Location: domain.Location{
			Lat: entity.LocationLat,
			Lon: entity.LocationLon,
			Z:   entity.LocationZ,
		},
		PointCount: entity.PointCount,
		CloudURL:   entity.CloudURL,
		Thumbnail:  entity.ThumbnailURL,
		CreatedAt:  entity.CreatedAt,
		UpdatedAt:  entity.UpdatedAt,
	}
}

func mapDomain(p *domain.Project) entities.Project {
	return entities.Project{
		ID:           p.ID,
		Name:         p.Name,
		Client:       p.Client,
		Description:  p.Description,
		Tags:         p.Tags,
		Date:         p.Date,
		CRSID:        p.CRS.ID,
		CRSName:      p.CRS.Name,
		CRSProj4:     p.CRS.Proj4,
		LocationLat:  p.Location.Lat,
		LocationLon:  p.Location.Lon,
		LocationZ:    p.Location.Z,
		PointCount:   p.PointCount,
		CloudURL:     p.CloudURL,
		ThumbnailURL: p.Thumbnail,
	}
}
