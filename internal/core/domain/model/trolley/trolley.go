package trolley

import (
	"errors"
	"sort"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/pkg/errs"
	"canistertransfer/internal/pkg/guard"
)

var (
	ErrTrolleyIDIsRequired     = errs.NewValueIsRequiredError("trolley id")
	ErrDrawersAreRequired      = errs.NewValueIsRequiredError("trolley drawers")
	ErrTrolleyIsNotConstructed = errors.New("Trolley must be created via NewTrolley constructor")
)

// Drawer is one trolley drawer and the canister locations inside it.
type Drawer struct {
	ID        int64
	Locations []kernel.LocationID
}

// Trolley is an idle cart available for the run.
type Trolley struct {
	id      kernel.DeviceID
	class   Class
	drawers []Drawer
	guard   guard.ConstructorGuard
}

// NewTrolley copies the drawers and orders them by drawer id, and each drawer's
// locations by location id, so scheduling does not depend on query order.
func NewTrolley(id kernel.DeviceID, class Class, drawers []Drawer) (Trolley, error) {
	if id == kernel.NoDevice {
		return Trolley{}, ErrTrolleyIDIsRequired
	}
	if err := class.Validate(); err != nil {
		return Trolley{}, err
	}
	if len(drawers) == 0 {
		return Trolley{}, ErrDrawersAreRequired
	}

	cp := make([]Drawer, len(drawers))
	for i, d := range drawers {
		locs := append([]kernel.LocationID(nil), d.Locations...)
		sort.Slice(locs, func(a, b int) bool { return locs[a] < locs[b] })
		cp[i] = Drawer{ID: d.ID, Locations: locs}
	}
	sort.SliceStable(cp, func(a, b int) bool { return cp[a].ID < cp[b].ID })

	return Trolley{id: id, class: class, drawers: cp, guard: guard.NewConstructorGuard()}, nil
}

func (t Trolley) Validate() error {
	return t.guard.Validate(ErrTrolleyIsNotConstructed)
}

func (t Trolley) ID() kernel.DeviceID { return t.id }

func (t Trolley) Class() Class { return t.class }

func (t Trolley) Drawers() []Drawer {
	out := make([]Drawer, len(t.drawers))
	copy(out, t.drawers)
	return out
}

// Fleet is a set of trolleys.
type Fleet []Trolley

// OfClass returns the trolleys of one class ordered by device id.
func (f Fleet) OfClass(c Class) Fleet {
	out := make(Fleet, 0, len(f))
	for _, t := range f {
		if t.class == c {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}
