package patient

import "context"

// Repository persists patients. Lookups of an unknown id return an error
// matching apperr.ErrNotFound.
type Repository interface {
	List(ctx context.Context) ([]*Patient, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	Create(ctx context.Context, p *Patient) error
	Update(ctx context.Context, p *Patient) error
	SetStatus(ctx context.Context, id, status string) error
}
