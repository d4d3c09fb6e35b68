package session

import "context"

// Repository persists sessions. Unknown ids yield apperr.ErrNotFound.
type Repository interface {
	List(ctx context.Context) ([]*Session, error)
	GetByID(ctx context.Context, id string) (*Session, error)
	Create(ctx context.Context, s *Session) error
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// HistorySearcher is implemented by repositories that can filter, sort and
// page the history themselves. Others are searched in memory.
type HistorySearcher interface {
	SearchHistory(ctx context.Context, q HistoryQuery) ([]*Session, int, error)
}

// Transactor groups the session write and its note write. Backends without
// transactions run fn directly.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
