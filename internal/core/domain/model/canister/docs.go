// Package canister models the transfer demands of a batch: canisters whose
// computed target placement differs from their current placement.
//
// A Demand is an immutable value object. The demand collector derives tags
// (same-device reshelf, low drawer needed) and returns new values with the
// tags applied; the allocator never mutates a Demand.
package canister
