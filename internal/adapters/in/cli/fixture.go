package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"canistertransfer/internal/core/domain/model/canister"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/location"
	"canistertransfer/internal/core/domain/model/trolley"
	"canistertransfer/internal/core/domain/services"

	"gopkg.in/yaml.v3"
)

// Fixture is an offline snapshot of one batch: the canisters to move, the
// robot slots, the idle trolleys and the free CSR shelf positions.
type Fixture struct {
	System   kernel.SystemID  `yaml:"system"`
	Demands  []DemandFixture  `yaml:"demands"`
	Slots    []SlotFixture    `yaml:"slots"`
	Trolleys []TrolleyFixture `yaml:"trolleys"`
	CSR      []CSRFixture     `yaml:"csr"`
}

type PlacementFixture struct {
	Device      kernel.DeviceID    `yaml:"device"`
	Kind        string             `yaml:"kind"`
	Quadrant    kernel.Quadrant    `yaml:"quadrant"`
	DrawerLevel kernel.DrawerLevel `yaml:"drawer_level"`
	Location    kernel.LocationID  `yaml:"location"`
}

type DemandFixture struct {
	Canister  kernel.CanisterID `yaml:"canister"`
	Type      string            `yaml:"type"`
	Delicate  bool              `yaml:"delicate"`
	DrugUsage int               `yaml:"drug_usage"`
	Source    PlacementFixture  `yaml:"source"`
	// Target device zero sends the canister to CSR.
	Target struct {
		Device   kernel.DeviceID `yaml:"device"`
		Quadrant kernel.Quadrant `yaml:"quadrant"`
	} `yaml:"target"`
}

type OccupantFixture struct {
	Canister  kernel.CanisterID `yaml:"canister"`
	Type      string            `yaml:"type"`
	Delicate  bool              `yaml:"delicate"`
	DrugUsage int               `yaml:"drug_usage"`
	Reserved  bool              `yaml:"reserved"`
	SlowMover bool              `yaml:"slow_mover"`
}

type SlotFixture struct {
	ID          kernel.LocationID  `yaml:"id"`
	Device      kernel.DeviceID    `yaml:"device"`
	Quadrant    kernel.Quadrant    `yaml:"quadrant"`
	DrawerLevel kernel.DrawerLevel `yaml:"drawer_level"`
	Capacity    string             `yaml:"capacity"`
	Occupant    *OccupantFixture   `yaml:"occupant"`
}

type TrolleyFixture struct {
	ID      kernel.DeviceID `yaml:"id"`
	Kind    string          `yaml:"kind"`
	Drawers []struct {
		ID        int64               `yaml:"id"`
		Locations []kernel.LocationID `yaml:"locations"`
	} `yaml:"drawers"`
}

type CSRFixture struct {
	Device      kernel.DeviceID    `yaml:"device"`
	Location    kernel.LocationID  `yaml:"location"`
	DrawerLevel kernel.DrawerLevel `yaml:"drawer_level"`
	Capacity    string             `yaml:"capacity"`
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}

	var f Fixture
	if err = yaml.Unmarshal(raw, &f); err != nil {
		return Fixture{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func (f Fixture) demands() ([]canister.Demand, error) {
	out := make([]canister.Demand, 0, len(f.Demands))
	var errList []error
	for _, d := range f.Demands {
		typ, err := kernel.ParseCanisterType(d.Type)
		if err != nil {
			errList = append(errList, fmt.Errorf("demand %d: %w", d.Canister, err))
			continue
		}
		kind, err := kernel.ParseDeviceKind(d.Source.Kind)
		if err != nil {
			errList = append(errList, fmt.Errorf("demand %d: %w", d.Canister, err))
			continue
		}

		demand, err := canister.NewDemand(
			d.Canister,
			typ,
			d.Delicate,
			d.DrugUsage,
			canister.Placement{
				Device:      d.Source.Device,
				Kind:        kind,
				Quadrant:    d.Source.Quadrant,
				DrawerLevel: d.Source.DrawerLevel,
				Location:    d.Source.Location,
			},
			canister.Target{Device: d.Target.Device, Quadrant: d.Target.Quadrant},
		)
		if err != nil {
			errList = append(errList, fmt.Errorf("demand %d: %w", d.Canister, err))
			continue
		}
		out = append(out, demand)
	}
	return out, errors.Join(errList...)
}

func (f Fixture) pool() (*location.Pool, error) {
	slots := make([]*location.Slot, 0, len(f.Slots))
	var errList []error
	for _, s := range f.Slots {
		capacity, err := kernel.ParseCanisterType(s.Capacity)
		if err != nil {
			errList = append(errList, fmt.Errorf("slot %d: %w", s.ID, err))
			continue
		}

		var occupant *location.Occupant
		if s.Occupant != nil {
			typ, err := kernel.ParseCanisterType(s.Occupant.Type)
			if err != nil {
				errList = append(errList, fmt.Errorf("slot %d occupant: %w", s.ID, err))
				continue
			}
			occupant = &location.Occupant{
				Canister:  s.Occupant.Canister,
				Type:      typ,
				Delicate:  s.Occupant.Delicate,
				DrugUsage: s.Occupant.DrugUsage,
				Reserved:  s.Occupant.Reserved,
				SlowMover: s.Occupant.SlowMover,
			}
		}

		slot, err := location.NewSlot(s.ID, s.Device, s.Quadrant, s.DrawerLevel, capacity, occupant)
		if err != nil {
			errList = append(errList, fmt.Errorf("slot %d: %w", s.ID, err))
			continue
		}
		slots = append(slots, slot)
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	return location.NewPool(slots)
}

func (f Fixture) fleet() (trolley.Fleet, error) {
	fleet := make(trolley.Fleet, 0, len(f.Trolleys))
	var errList []error
	for _, t := range f.Trolleys {
		kind, err := kernel.ParseDeviceKind(t.Kind)
		if err != nil {
			errList = append(errList, fmt.Errorf("trolley %d: %w", t.ID, err))
			continue
		}
		if !kind.IsTrolley() {
			errList = append(errList, fmt.Errorf("trolley %d: %s is not a trolley kind", t.ID, kind))
			continue
		}

		drawers := make([]trolley.Drawer, 0, len(t.Drawers))
		for _, d := range t.Drawers {
			drawers = append(drawers, trolley.Drawer{ID: d.ID, Locations: d.Locations})
		}
		cart, err := trolley.NewTrolley(t.ID, trolley.ClassOf(kind), drawers)
		if err != nil {
			errList = append(errList, fmt.Errorf("trolley %d: %w", t.ID, err))
			continue
		}
		fleet = append(fleet, cart)
	}
	return fleet, errors.Join(errList...)
}

// fixtureCSR hands out the fixture's CSR positions, lowest drawer first.
// A position is given to one canister only.
type fixtureCSR struct {
	free  []CSRFixture
	taken map[kernel.LocationID]kernel.CanisterID
}

func newFixtureCSR(locations []CSRFixture) *fixtureCSR {
	free := append([]CSRFixture(nil), locations...)
	sort.SliceStable(free, func(i, j int) bool {
		if free[i].DrawerLevel != free[j].DrawerLevel {
			return free[i].DrawerLevel < free[j].DrawerLevel
		}
		return free[i].Location < free[j].Location
	})
	return &fixtureCSR{free: free, taken: make(map[kernel.LocationID]kernel.CanisterID)}
}

func (r *fixtureCSR) RecommendCSRLocation(
	_ context.Context,
	_ kernel.SystemID,
	canisterID kernel.CanisterID,
	canisterType kernel.CanisterType,
	reserved []kernel.LocationID,
) (*services.CSRLocation, error) {
	if err := canisterType.Validate(); err != nil {
		return nil, err
	}

	skip := make(map[kernel.LocationID]struct{}, len(reserved))
	for _, id := range reserved {
		skip[id] = struct{}{}
	}

	for _, loc := range r.free {
		if _, ok := skip[loc.Location]; ok {
			continue
		}
		if owner, ok := r.taken[loc.Location]; ok && owner != canisterID {
			continue
		}
		capacity, err := kernel.ParseCanisterType(loc.Capacity)
		if err != nil || !canisterType.Fits(capacity) {
			continue
		}
		r.taken[loc.Location] = canisterID
		return &services.CSRLocation{Device: loc.Device, Location: loc.Location, DrawerLevel: loc.DrawerLevel}, nil
	}
	return nil, nil
}
