package services

import (
	"canistertransfer/internal/core/domain/model/canister"
	"canistertransfer/internal/core/domain/model/kernel"
)

// DemandCollector turns the raw pending-transfer rows of a batch into the
// demands the allocator works on.
//
// Rules:
//   - a canister already on its target robot and quadrant is dropped, unless it
//     is delicate, sits above the delicate drawer range and is Small (or Big with
//     RetainBigSameDeviceDelicate); such canisters become same-device reshelf demands
//   - at most SameDeviceTransferLimit reshelf demands are kept per robot
//   - delicate demands are tagged NeedsLowDrawer
//
// The output keeps the input order.
type DemandCollector struct {
	policy Policy
}

// NewDemandCollector creates a collector applying the reshelf rules of policy.
//
// Parameters:
//   - policy: supplies the delicate drawer range, RetainBigSameDeviceDelicate
//     and SameDeviceTransferLimit
func NewDemandCollector(policy Policy) DemandCollector {
	return DemandCollector{policy: policy}
}

// Collect filters and tags demands. It has no side effects.
func (c DemandCollector) Collect(demands []canister.Demand) []canister.Demand {
	out := make([]canister.Demand, 0, len(demands))
	reshelves := make(map[kernel.DeviceID]int)

	for _, d := range demands {
		if d.IsSameDevice() {
			if !c.keepsReshelf(d) {
				continue
			}
			src := d.Source().Device
			if reshelves[src] >= c.policy.SameDeviceTransferLimit {
				continue
			}
			reshelves[src]++
			d = d.WithTags(canister.SameDeviceReshelf)
		}

		if d.IsDelicate() {
			d = d.WithTags(canister.NeedsLowDrawer)
		}
		out = append(out, d)
	}

	return out
}

func (c DemandCollector) keepsReshelf(d canister.Demand) bool {
	if !d.IsDelicate() {
		return false
	}
	if d.Source().DrawerLevel <= c.policy.MaxDelicateDrawerLevel {
		return false
	}
	return d.CanisterType() == kernel.Small || c.policy.RetainBigSameDeviceDelicate
}
