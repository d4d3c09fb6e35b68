package note

import "context"

// Repository stores at most one note per session.
type Repository interface {
	List(ctx context.Context) ([]*Note, error)
	GetBySessionID(ctx context.Context, sessionID string) (*Note, error)
	// Upsert replaces the session's note or creates it.
	Upsert(ctx context.Context, n *Note) error
	DeleteBySessionID(ctx context.Context, sessionID string) error
}
