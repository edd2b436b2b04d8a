// Package runguard allows one recommendation run per system at a time.
package runguard

import (
	"errors"
	"fmt"
	"sync"

	"canistertransfer/internal/core/domain/model/kernel"
)

var ErrAlreadyRunning = errors.New("transfer recommendation already running")

// Guard is a non-blocking per-system lock. The zero value is ready to use.
type Guard struct {
	mu      sync.Mutex
	running map[kernel.SystemID]struct{}
}

func New() *Guard {
	return &Guard{running: make(map[kernel.SystemID]struct{})}
}

// TryAcquire marks system as running. It fails fast with ErrAlreadyRunning
// when a run already holds the system. The returned release is idempotent.
func (g *Guard) TryAcquire(system kernel.SystemID) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running == nil {
		g.running = make(map[kernel.SystemID]struct{})
	}
	if _, busy := g.running[system]; busy {
		return nil, fmt.Errorf("system %d: %w", system, ErrAlreadyRunning)
	}
	g.running[system] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.running, system)
			g.mu.Unlock()
		})
	}, nil
}

// IsRunning reports whether system is held.
func (g *Guard) IsRunning(system kernel.SystemID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.running[system]
	return busy
}
