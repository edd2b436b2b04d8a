package services_test

import (
	"context"
	"testing"

	"canistertransfer/internal/core/domain/model/canister"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/location"
	"canistertransfer/internal/core/domain/model/trolley"
	"canistertransfer/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

func robotAt(device kernel.DeviceID, quadrant kernel.Quadrant, level kernel.DrawerLevel, loc kernel.LocationID) canister.Placement {
	return canister.Placement{Device: device, Kind: kernel.Robot, Quadrant: quadrant, DrawerLevel: level, Location: loc}
}

func csrAt(device kernel.DeviceID, level kernel.DrawerLevel, loc kernel.LocationID) canister.Placement {
	return canister.Placement{Device: device, Kind: kernel.CSR, DrawerLevel: level, Location: loc}
}

func to(device kernel.DeviceID, quadrant kernel.Quadrant) canister.Target {
	return canister.Target{Device: device, Quadrant: quadrant}
}

func newDemand(
	t *testing.T,
	id kernel.CanisterID,
	typ kernel.CanisterType,
	delicate bool,
	src canister.Placement,
	target canister.Target,
) canister.Demand {
	t.Helper()
	d, err := canister.NewDemand(id, typ, delicate, 0, src, target)
	require.NoError(t, err)
	return d
}

func newSlot(
	t *testing.T,
	id kernel.LocationID,
	device kernel.DeviceID,
	quadrant kernel.Quadrant,
	level kernel.DrawerLevel,
	typ kernel.CanisterType,
	occ *location.Occupant,
) *location.Slot {
	t.Helper()
	s, err := location.NewSlot(id, device, quadrant, level, typ, occ)
	require.NoError(t, err)
	return s
}

func newPool(t *testing.T, slots ...*location.Slot) *location.Pool {
	t.Helper()
	p, err := location.NewPool(slots)
	require.NoError(t, err)
	return p
}

func newTrolley(t *testing.T, id kernel.DeviceID, class trolley.Class, drawers, perDrawer int, firstLocation kernel.LocationID) trolley.Trolley {
	t.Helper()
	ds := make([]trolley.Drawer, drawers)
	next := firstLocation
	for i := range ds {
		locs := make([]kernel.LocationID, perDrawer)
		for j := range locs {
			locs[j] = next
			next++
		}
		ds[i] = trolley.Drawer{ID: int64(i + 1), Locations: locs}
	}
	tr, err := trolley.NewTrolley(id, class, ds)
	require.NoError(t, err)
	return tr
}

// fakeCSR hands out consecutive CSR locations and records what it was asked.
type fakeCSR struct {
	device   kernel.DeviceID
	next     kernel.LocationID
	level    kernel.DrawerLevel
	capacity int
	calls    []kernel.CanisterID
	reserved [][]kernel.LocationID
	err      error
}

func newFakeCSR(capacity int) *fakeCSR {
	return &fakeCSR{device: 900, next: 9001, level: 2, capacity: capacity}
}

func (f *fakeCSR) RecommendCSRLocation(
	_ context.Context,
	_ kernel.SystemID,
	canisterID kernel.CanisterID,
	_ kernel.CanisterType,
	reserved []kernel.LocationID,
) (*services.CSRLocation, error) {
	f.calls = append(f.calls, canisterID)
	f.reserved = append(f.reserved, reserved)
	if f.err != nil {
		return nil, f.err
	}
	if f.capacity == 0 {
		return nil, nil
	}
	f.capacity--
	loc := &services.CSRLocation{Device: f.device, Location: f.next, DrawerLevel: f.level}
	f.next++
	return loc, nil
}

func destinations(alloc services.Allocation) map[kernel.CanisterID]kernel.LocationID {
	out := make(map[kernel.CanisterID]kernel.LocationID, len(alloc.Placements))
	for _, p := range alloc.Placements {
		out[p.Demand.CanisterID()] = p.Destination.Location
	}
	return out
}

func canisterIDs(demands []canister.Demand) []kernel.CanisterID {
	out := make([]kernel.CanisterID, 0, len(demands))
	for _, d := range demands {
		out = append(out, d.CanisterID())
	}
	return out
}
