package location

// Tier is the occupancy class of a slot, in the order the allocator consumes them.
type Tier int

const (
	UnknownTier Tier = iota
	// Empty slots hold no canister.
	Empty
	// UnreservedNonDelicate slots hold a canister that is not reserved by the
	// batch and is not delicate.
	UnreservedNonDelicate
	// UnreservedDelicate slots hold an unreserved delicate canister.
	UnreservedDelicate
	// ReservedSlowMover slots hold a reserved canister of a slow moving drug.
	ReservedSlowMover
	// ReservedNonSlowMover slots hold any other reserved canister.
	ReservedNonSlowMover
	// Freed slots were vacated during the run by a same-device reshelf and may
	// only receive bumped occupants of the same robot.
	Freed
)

func getTierStrings() map[Tier]string {
	return map[Tier]string{
		UnknownTier:           "Unknown",
		Empty:                 "Empty",
		UnreservedNonDelicate: "UnreservedNonDelicate",
		UnreservedDelicate:    "UnreservedDelicate",
		ReservedSlowMover:     "ReservedSlowMover",
		ReservedNonSlowMover:  "ReservedNonSlowMover",
		Freed:                 "Freed",
	}
}

func (t Tier) String() string {
	if s, ok := getTierStrings()[t]; ok {
		return s
	}
	return "Unknown"
}

// IsReserved reports whether the occupant is reserved for the batch.
func (t Tier) IsReserved() bool {
	return t == ReservedSlowMover || t == ReservedNonSlowMover
}

// IsOccupied reports whether taking the slot bumps a canister.
func (t Tier) IsOccupied() bool {
	return t != Empty && t != Freed && t != UnknownTier
}
