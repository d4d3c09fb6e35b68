// Package invalidatetest provides an in-memory invalidate.Invalidator for
// tests.
package invalidatetest

import (
	"context"
	"sync"

	"github.com/clinic/clinic/internal/platform/invalidate"
)

var _ invalidate.Invalidator = (*Recorder)(nil)

// Recorder keeps every invalidated path in memory.
type Recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *Recorder) Invalidate(_ context.Context, paths ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, paths...)
}

// Paths returns the recorded paths in order.
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

// Reset forgets recorded paths.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = nil
}
