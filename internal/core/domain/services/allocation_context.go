package services

import (
	"sort"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/location"
)

// AllocationContext carries the mutable state of one recommendation run: the
// policy, the location pool and the CSR locations reserved so far. It is owned
// by a single run and passed by pointer to every service.
type AllocationContext struct {
	Policy      Policy
	Pool        *location.Pool
	reservedCSR map[kernel.LocationID]struct{}
}

// NewAllocationContext starts the state of a run over a snapshot pool.
//
// Parameters:
//   - policy: allocation rules of the run
//   - pool: location snapshot of the system; the run consumes it
//
// Returns:
//   - *AllocationContext: a context with no CSR locations reserved
//
// Example:
//
//	actx := NewAllocationContext(DefaultPolicy(), pool)
//	alloc := NewLocationAllocator().Allocate(actx, demands)
func NewAllocationContext(policy Policy, pool *location.Pool) *AllocationContext {
	return &AllocationContext{
		Policy:      policy,
		Pool:        pool,
		reservedCSR: make(map[kernel.LocationID]struct{}),
	}
}

// ReserveCSR records a CSR location handed out during the run. It returns false
// if the location was already reserved.
func (c *AllocationContext) ReserveCSR(id kernel.LocationID) bool {
	if _, ok := c.reservedCSR[id]; ok {
		return false
	}
	c.reservedCSR[id] = struct{}{}
	return true
}

// ReservedCSR returns the reserved CSR locations in ascending order.
func (c *AllocationContext) ReservedCSR() []kernel.LocationID {
	out := make([]kernel.LocationID, 0, len(c.reservedCSR))
	for id := range c.reservedCSR {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
