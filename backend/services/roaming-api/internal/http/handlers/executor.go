package handlers

import (
	"context"
	"time"
)

// execute runs call with a deadline. When the deadline passes or the client goes away
// before call returns, onTimeout's result is used and call's eventual result is dropped.
func execute[R any](ctx context.Context, timeout time.Duration, call func(context.Context) R, onTimeout func() R) R {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan R, 1)
	go func() {
		done <- call(ctx)
	}()

	select {
	case result := <-done:
		return result
	case <-ctx.Done():
		return onTimeout()
	}
}
