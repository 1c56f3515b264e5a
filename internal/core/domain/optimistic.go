package domain

import "context"

// OptimisticMutation lets a caller apply a predicted state change before the
// persistence write confirms. The caller owns the snapshot: Apply produces
// the predicted view for immediate display, Commit performs the real write,
// and Rollback returns the untouched prior snapshot to restore on failure.
// The engine never merges partial state.
type OptimisticMutation[T any] struct {
	prior  T
	apply  func(T) T
	commit func(ctx context.Context) error
}

func NewOptimisticMutation[T any](prior T, apply func(T) T, commit func(ctx context.Context) error) *OptimisticMutation[T] {
	return &OptimisticMutation[T]{
		prior:  prior,
		apply:  apply,
		commit: commit,
	}
}

// Apply returns the predicted snapshot. Pure: the prior snapshot is not
// modified.
func (m *OptimisticMutation[T]) Apply() T {
	return m.apply(m.prior)
}

// Commit performs the persistence write backing the prediction.
func (m *OptimisticMutation[T]) Commit(ctx context.Context) error {
	return m.commit(ctx)
}

// Rollback returns the snapshot as it was before Apply, for exact
// restoration after a failed or abandoned commit.
func (m *OptimisticMutation[T]) Rollback() T {
	return m.prior
}
