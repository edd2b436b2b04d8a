// Package transfer models the outcome of a recommendation run and the physical
// progress of each canister through it.
//
// The package includes:
//   - Plan: the aggregate persisted by one run (assignments, cycles, unassigned canisters)
//   - Assignment: canister to trolley location and destination, immutable once written
//   - Cycle: one wave of trolleys with per-device bookkeeping
//   - Status: per-canister state machine with an append-only StatusRecord history
//   - Stage: per-device, per-cycle progress of the operator wizard
//   - Event: outbox record consumed by the wizard document projection
//
// Per-canister state transitions:
//
//	Pending ──> ToTrolleyDone ──┬──> ToRobotDone ──┬──> Done
//	   │             │          └──> ToCSRDone ────┘
//	   │             └──> Skipped | SkippedAndAlternate | DeactivatedAndSkipped
//	   └──> Skipped | SkippedAndAlternate | DeactivatedAndSkipped | TransferLater
package transfer
