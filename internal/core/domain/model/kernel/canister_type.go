package kernel

import (
	"fmt"
	"strings"

	"canistertransfer/internal/pkg/errs"
)

// CanisterType is the size class of a canister and of the slot able to hold it.
// A Big slot can hold a Small canister; a Small slot never holds a Big one.
type CanisterType int

const (
	UnknownCanisterType CanisterType = iota
	Small
	Big
)

func getCanisterTypeStrings() map[CanisterType]string {
	return map[CanisterType]string{
		UnknownCanisterType: "Unknown",
		Small:               "Small",
		Big:                 "Big",
	}
}

// ParseCanisterType accepts the names produced by String, case-insensitively.
func ParseCanisterType(s string) (CanisterType, error) {
	for t, name := range getCanisterTypeStrings() {
		if t != UnknownCanisterType && strings.EqualFold(name, s) {
			return t, nil
		}
	}
	return UnknownCanisterType, errs.NewValueIsInvalidErrorWithCause(
		"canister type",
		fmt.Errorf("%q is not a known canister type", s),
	)
}

func (t CanisterType) Validate() error {
	if t != Small && t != Big {
		return errs.NewValueIsInvalidErrorWithCause("canister type", fmt.Errorf("%d is not a valid canister type", t))
	}
	return nil
}

func (t CanisterType) String() string {
	if s, ok := getCanisterTypeStrings()[t]; ok {
		return s
	}
	return "Unknown"
}

// Fits reports whether a canister of type t can be placed into a slot of type slot.
func (t CanisterType) Fits(slot CanisterType) bool {
	return t == slot || (t == Small && slot == Big)
}

// MarshalText and UnmarshalText let YAML fixtures and JSON payloads use names.
func (t CanisterType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *CanisterType) UnmarshalText(text []byte) error {
	parsed, err := ParseCanisterType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
