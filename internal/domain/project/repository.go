package project

import "context"

// Repository defines persistence operations needed by the project service.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// Storage defines the object storage operations the project service needs.
type Storage interface {
	DeletePrefix(ctx context.Context, prefix string) error
}
