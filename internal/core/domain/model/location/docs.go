// Package location models the robot drawer positions a canister can be placed into
// and the pool the allocator draws them from during one recommendation run.
//
// Every Slot belongs to exactly one Tier, derived from its occupant at snapshot
// time. The Pool indexes slots by a flat composite PoolKey
// (device, quadrant, canister type, tier) and keeps a taken set, so a slot
// popped under one key is invisible under every other key.
package location
