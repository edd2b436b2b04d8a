package services

import (
	"sort"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/trolley"
)

// GroupKey identifies placements that share trolley drawers.
type GroupKey struct {
	Device   kernel.DeviceID
	Kind     kernel.DeviceKind
	Class    trolley.Class
	Quadrant kernel.Quadrant
	Delicate bool
}

// Group is a set of placements loaded together.
type Group struct {
	Key        GroupKey
	Placements []Placement
}

// GroupPlacements buckets placements by destination device, trolley class,
// quadrant and delicacy. A placement counts as delicate only when it lands in
// the delicate drawer range of a robot. Groups are ordered by device, Lift
// before Normal, delicate first and then quadrant; placements keep their order.
func GroupPlacements(p Policy, placements []Placement) []Group {
	index := make(map[GroupKey]int)
	var groups []Group

	for _, pl := range placements {
		dest := pl.Destination
		key := GroupKey{
			Device:   dest.Device,
			Kind:     dest.Kind,
			Class:    dest.Class,
			Quadrant: dest.Quadrant,
			Delicate: pl.Demand.IsDelicate() && dest.Kind == kernel.Robot && p.InDelicateRange(dest.DrawerLevel),
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Placements = append(groups[i].Placements, pl)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Key, groups[j].Key
		if a.Device != b.Device {
			return a.Device < b.Device
		}
		if a.Class != b.Class {
			return a.Class == trolley.Lift
		}
		if a.Delicate != b.Delicate {
			return a.Delicate
		}
		if a.Quadrant != b.Quadrant {
			return a.Quadrant < b.Quadrant
		}
		return a.Kind < b.Kind
	})

	return groups
}
