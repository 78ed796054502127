package async

import (
	"context"
	"errors"
)

// Future represents the result of a computation that settles once.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await blocks until the future settles and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// Settled reports whether the future has settled, without blocking.
func (f *Future[U]) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async runs fn on its own goroutine and returns a Future for its result.
// A context that is already canceled settles the future immediately with
// the context's error, without invoking fn.
func Async[T, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.result, f.err = fn(ctx, param)
	}()

	return f
}

// WaitSettled awaits every future and returns all results in launch order
// together with the joined errors. Unlike a first-error wait, a failing
// future never prevents the others from being awaited, so the result slice
// is always fully populated (failed slots hold the zero value).
func WaitSettled[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))
	var errs []error

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			errs = append(errs, err)
		}
	}

	return results, errors.Join(errs...)
}
