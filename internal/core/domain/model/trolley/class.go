package trolley

import (
	"fmt"
	"strings"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/pkg/errs"
)

// Class is the trolley category a demand needs.
type Class int

const (
	UnknownClass Class = iota
	Normal
	Lift
)

func getClassStrings() map[Class]string {
	return map[Class]string{
		UnknownClass: "Unknown",
		Normal:       "Normal",
		Lift:         "Lift",
	}
}

func ParseClass(s string) (Class, error) {
	for c, name := range getClassStrings() {
		if c != UnknownClass && strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return UnknownClass, errs.NewValueIsInvalidErrorWithCause("trolley class", fmt.Errorf("%q is not a known class", s))
}

func (c Class) Validate() error {
	if c != Normal && c != Lift {
		return errs.NewValueIsInvalidErrorWithCause("trolley class", fmt.Errorf("%d is not a valid class", c))
	}
	return nil
}

func (c Class) String() string {
	if s, ok := getClassStrings()[c]; ok {
		return s
	}
	return "Unknown"
}

// DeviceKind maps the class to the trolley device family.
func (c Class) DeviceKind() kernel.DeviceKind {
	if c == Lift {
		return kernel.ElevatorTrolley
	}
	return kernel.NormalTrolley
}

// ClassOf maps a trolley device kind back to its class.
func ClassOf(kind kernel.DeviceKind) Class {
	switch kind {
	case kernel.ElevatorTrolley:
		return Lift
	case kernel.NormalTrolley:
		return Normal
	default:
		return UnknownClass
	}
}

func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Class) UnmarshalText(text []byte) error {
	parsed, err := ParseClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
