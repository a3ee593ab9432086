package store

import (
	"context"

	"github.com/google/uuid"
)

// Op is the pending outcome of a mutation. The in-memory change is already
// visible when the Op is returned.
type Op[T any] struct {
	// TempID identifies the optimistic entry. For updates and deletes it is
	// the target id.
	TempID uuid.UUID

	done  chan struct{}
	value T
	err   error
}

func newOp[T any](id uuid.UUID) *Op[T] {
	return &Op[T]{TempID: id, done: make(chan struct{})}
}

func finishedOp[T any](id uuid.UUID, value T, err error) *Op[T] {
	op := newOp[T](id)
	op.finish(value, err)
	return op
}

func (o *Op[T]) finish(value T, err error) {
	o.value, o.err = value, err
	close(o.done)
}

// Done is closed once the backend answered.
func (o *Op[T]) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the backend answered or ctx ends. For inserts the value
// carries the store-assigned id.
func (o *Op[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-o.done:
		return o.value, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
