// Package screens holds what every screen controller shares: the lifetime
// scope its I/O runs under and the mapping from errors to user alerts.
package screens

import (
	"context"
	"sync"
)

// Scope ties background work to a screen's lifetime. Close cancels the
// context handed to every task and waits for them to return.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

func (s *Scope) Context() context.Context {
	return s.ctx
}

// Go runs fn in its own goroutine under the scope's context.
func (s *Scope) Go(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}

// Done reports whether the scope was closed.
func (s *Scope) Done() bool {
	return s.ctx.Err() != nil
}

func (s *Scope) Close() {
	s.cancel()
	s.wg.Wait()
}
