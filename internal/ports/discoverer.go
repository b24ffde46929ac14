package ports

import (
	"context"

	"github.com/maxWiklund/txConverter/internal/domain"
)

// SequenceDiscoverer finds image sequences on disk
type SequenceDiscoverer interface {
	// Discover walks root and calls fn once per sequence, in discovery
	// order. Returning an error from fn stops the walk.
	Discover(ctx context.Context, root string, fn func(*domain.Sequence) error) error

	// IsDir reports whether path is an existing directory
	IsDir(path string) bool
}
