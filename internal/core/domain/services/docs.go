// Package services provides the domain services of one recommendation run.
//
// The package includes:
//   - DemandCollector: filters and tags the pending demands of a batch
//   - LocationAllocator: resolves a robot drawer slot per demand through a tier chain
//   - CSROverflow: sends bumped, removed and unresolvable canisters to CSR shelving
//   - CapacityPlanner: derives the trolleys a plan needs per class
//   - CycleScheduler: places canisters into trolley drawers, cycle after cycle
//
// All services are synchronous and share one AllocationContext per run. Only
// CSROverflow calls out of the domain, through the CSRRecommender interface.
package services
