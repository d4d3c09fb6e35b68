package billing

import "context"

type Repository interface {
	List(ctx context.Context) ([]*Entry, error)
	GetByID(ctx context.Context, id string) (*Entry, error)
	Create(ctx context.Context, e *Entry) error
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id string) error
}
