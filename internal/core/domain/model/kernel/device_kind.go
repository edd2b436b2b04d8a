package kernel

import (
	"fmt"
	"strings"

	"canistertransfer/internal/pkg/errs"
)

// DeviceKind distinguishes the physical device families that hold canisters.
type DeviceKind int

const (
	UnknownDeviceKind DeviceKind = iota
	Robot
	CSR
	NormalTrolley
	ElevatorTrolley
)

func getDeviceKindStrings() map[DeviceKind]string {
	return map[DeviceKind]string{
		UnknownDeviceKind: "Unknown",
		Robot:             "Robot",
		CSR:               "CSR",
		NormalTrolley:     "NormalTrolley",
		ElevatorTrolley:   "ElevatorTrolley",
	}
}

func ParseDeviceKind(s string) (DeviceKind, error) {
	for k, name := range getDeviceKindStrings() {
		if k != UnknownDeviceKind && strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return UnknownDeviceKind, errs.NewValueIsInvalidErrorWithCause(
		"device kind",
		fmt.Errorf("%q is not a known device kind", s),
	)
}

func (k DeviceKind) Validate() error {
	if k < Robot || k > ElevatorTrolley {
		return errs.NewValueIsInvalidErrorWithCause("device kind", fmt.Errorf("%d is not a valid device kind", k))
	}
	return nil
}

func (k DeviceKind) String() string {
	if s, ok := getDeviceKindStrings()[k]; ok {
		return s
	}
	return "Unknown"
}

// IsTrolley reports whether the device is a cart used to carry canisters.
func (k DeviceKind) IsTrolley() bool {
	return k == NormalTrolley || k == ElevatorTrolley
}

func (k DeviceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *DeviceKind) UnmarshalText(text []byte) error {
	parsed, err := ParseDeviceKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
