// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

package fanout

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
)

// ErrSpawnerClosed is returned by Go after Shutdown has begun.
var ErrSpawnerClosed = errors.New("spawner is shut down")

// Spawner runs fire-and-forget background tasks outside any request
// lifetime. Tasks are in-process only: anything still running when the
// process dies is lost.
type Spawner struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewSpawner creates a Spawner. A nil logger uses slog.Default.
func NewSpawner(logger *slog.Logger) *Spawner {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Spawner{ctx: ctx, cancel: cancel, logger: logger}
}

// Go starts fn in its own goroutine with the spawner's base context. The
// caller does not wait for it. A panic in fn is recovered and logged.
func (s *Spawner) Go(name string, fn func(ctx context.Context)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSpawnerClosed
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("background task panicked",
					"task", name,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn(s.ctx)
	}()
	return nil
}

// Shutdown stops accepting tasks and waits for running ones. If ctx ends
// first, running tasks have their context cancelled and ctx's error is
// returned.
func (s *Spawner) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done
		return ctx.Err()
	}
}
