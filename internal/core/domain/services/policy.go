package services

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

// Policy holds the allocation constants of a site. It is loaded from a YAML
// file; fields missing from the file keep their DefaultPolicy value.
type Policy struct {
	MinDelicateDrawerLevel kernel.DrawerLevel   `yaml:"min_delicate_drawer_level"`
	MaxDelicateDrawerLevel kernel.DrawerLevel   `yaml:"max_delicate_drawer_level"`
	RobotLiftDrawerLevels  []kernel.DrawerLevel `yaml:"robot_lift_drawer_levels"`
	CSRLiftDrawerLevels    []kernel.DrawerLevel `yaml:"csr_lift_drawer_levels"`

	// SameDeviceTransferLimit caps the same-device reshelf demands per robot.
	SameDeviceTransferLimit int `yaml:"same_device_transfer_limit"`
	// RetainBigSameDeviceDelicate keeps Big delicate canisters eligible for a
	// same-device reshelf.
	RetainBigSameDeviceDelicate bool `yaml:"retain_big_same_device_delicate"`
	// DelicateAnyLevelFallback lets a delicate canister with no slot in the
	// delicate drawer range take an empty or unreserved slot at any level.
	DelicateAnyLevelFallback bool `yaml:"delicate_any_level_fallback"`
	// QuadrantEmptyBuffer is the number of empty slots a robot quadrant should
	// keep; removal canisters are only sent to CSR to restore it.
	QuadrantEmptyBuffer int `yaml:"quadrant_empty_buffer"`

	NormalCanistersPerDrawer   int `yaml:"normal_canisters_per_drawer"`
	ElevatorCanistersPerDrawer int `yaml:"elevator_canisters_per_drawer"`
	NormalDrawersPerTrolley    int `yaml:"normal_drawers_per_trolley"`
	ElevatorDrawersPerTrolley  int `yaml:"elevator_drawers_per_trolley"`

	// MaxCycles bounds the cycle scheduler.
	MaxCycles int `yaml:"max_cycles"`
}

// DefaultPolicy returns the constants used when no policy file is configured.
func DefaultPolicy() Policy {
	return Policy{
		MinDelicateDrawerLevel:      1,
		MaxDelicateDrawerLevel:      4,
		RobotLiftDrawerLevels:       []kernel.DrawerLevel{9, 10, 11, 12},
		CSRLiftDrawerLevels:         []kernel.DrawerLevel{7, 8, 9},
		SameDeviceTransferLimit:     5,
		RetainBigSameDeviceDelicate: false,
		DelicateAnyLevelFallback:    false,
		QuadrantEmptyBuffer:         5,
		NormalCanistersPerDrawer:    10,
		ElevatorCanistersPerDrawer:  6,
		NormalDrawersPerTrolley:     6,
		ElevatorDrawersPerTrolley:   8,
		MaxCycles:                   10,
	}
}

// LoadPolicy reads a policy file. An empty path yields DefaultPolicy.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy: %w", err)
	}
	if err = yaml.Unmarshal(raw, &p); err != nil {
		return Policy{}, fmt.Errorf("%s: %w", path, err)
	}
	if err = p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate checks every field of the policy and joins all violations.
//
// Returns:
//   - error: nil when valid, otherwise errs.ErrValueIsOutOfRange for
//     non-positive sizes and errs.ErrValueIsInvalid for an empty delicate
//     drawer range or negative limits
func (p Policy) Validate() error {
	positive := func(name string, v int) error {
		if v < 1 {
			return errs.NewValueIsOutOfRangeError(name, v, 1, "unbounded")
		}
		return nil
	}

	var levelErr error
	if p.MinDelicateDrawerLevel < 1 || p.MaxDelicateDrawerLevel < p.MinDelicateDrawerLevel {
		levelErr = errs.NewValueIsInvalidErrorWithCause(
			"delicate drawer levels",
			fmt.Errorf("range [%d, %d] is empty", p.MinDelicateDrawerLevel, p.MaxDelicateDrawerLevel),
		)
	}

	var limitErr error
	if p.SameDeviceTransferLimit < 0 || p.QuadrantEmptyBuffer < 0 {
		limitErr = errs.NewValueIsInvalidError("same device limit and quadrant buffer must not be negative")
	}

	return errors.Join(
		levelErr,
		limitErr,
		positive("normal_canisters_per_drawer", p.NormalCanistersPerDrawer),
		positive("elevator_canisters_per_drawer", p.ElevatorCanistersPerDrawer),
		positive("normal_drawers_per_trolley", p.NormalDrawersPerTrolley),
		positive("elevator_drawers_per_trolley", p.ElevatorDrawersPerTrolley),
		positive("max_cycles", p.MaxCycles),
	)
}

// InDelicateRange reports whether level may hold a delicate canister.
func (p Policy) InDelicateRange(level kernel.DrawerLevel) bool {
	return level >= p.MinDelicateDrawerLevel && level <= p.MaxDelicateDrawerLevel
}

// IsLiftLevel reports whether reaching level on a device of kind needs a lift trolley.
func (p Policy) IsLiftLevel(kind kernel.DeviceKind, level kernel.DrawerLevel) bool {
	if kind == kernel.CSR {
		return slices.Contains(p.CSRLiftDrawerLevels, level)
	}
	return slices.Contains(p.RobotLiftDrawerLevels, level)
}
