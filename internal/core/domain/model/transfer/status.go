package transfer

import (
	"fmt"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/pkg/errs"
)

// Status is the per-canister transfer state within a batch.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	ToTrolleyDone
	ToRobotDone
	ToCSRDone
	Done
	Skipped
	SkippedAndAlternate
	TransferLater
	DeactivatedAndSkipped
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:               "Unknown",
		Pending:               "Pending",
		ToTrolleyDone:         "ToTrolleyDone",
		ToRobotDone:           "ToRobotDone",
		ToCSRDone:             "ToCSRDone",
		Done:                  "Done",
		Skipped:               "Skipped",
		SkippedAndAlternate:   "SkippedAndAlternate",
		TransferLater:         "TransferLater",
		DeactivatedAndSkipped: "DeactivatedAndSkipped",
	}
}

// Validate rejects Unknown and out of range values read from storage.
func (s Status) Validate() error {
	if s <= Unknown || s > DeactivatedAndSkipped {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	switch s {
	case Done, Skipped, SkippedAndAlternate, TransferLater, DeactivatedAndSkipped:
		return true
	default:
		return false
	}
}

// IsSkipBranch reports whether the canister left the plan without reaching its destination.
func (s Status) IsSkipBranch() bool {
	switch s {
	case Skipped, SkippedAndAlternate, TransferLater, DeactivatedAndSkipped:
		return true
	default:
		return false
	}
}

func invalidTransition(s Status, action string) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%s is not a valid status to %s", s.String(), action),
	)
}

// PlaceInTrolley confirms the canister was scanned into its trolley location.
//
// Valid transitions:
//   - Pending -> ToTrolleyDone
func (s Status) PlaceInTrolley() (Status, error) {
	if s != Pending {
		return 0, invalidTransition(s, "place in trolley")
	}
	return ToTrolleyDone, nil
}

// PlaceAtDestination confirms the canister was taken out of the trolley at a
// robot or at CSR shelving.
//
// Valid transitions:
//   - ToTrolleyDone -> ToRobotDone (kind Robot)
//   - ToTrolleyDone -> ToCSRDone (kind CSR)
func (s Status) PlaceAtDestination(kind kernel.DeviceKind) (Status, error) {
	if s != ToTrolleyDone {
		return 0, invalidTransition(s, "place at destination")
	}
	switch kind {
	case kernel.Robot:
		return ToRobotDone, nil
	case kernel.CSR:
		return ToCSRDone, nil
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"destination kind",
			fmt.Errorf("%s is not a transfer destination", kind),
		)
	}
}

// Complete closes a delivered canister once its cycle is finished.
//
// Valid transitions:
//   - ToRobotDone -> Done
//   - ToCSRDone -> Done
func (s Status) Complete() (Status, error) {
	if s != ToRobotDone && s != ToCSRDone {
		return 0, invalidTransition(s, "complete")
	}
	return Done, nil
}

// Skip removes the canister from the plan. A deactivated canister always ends
// in DeactivatedAndSkipped, even when an alternate takes its place.
//
// Valid transitions:
//   - Pending | ToTrolleyDone -> Skipped | SkippedAndAlternate | DeactivatedAndSkipped
func (s Status) Skip(withAlternate, deactivate bool) (Status, error) {
	if s != Pending && s != ToTrolleyDone {
		return 0, invalidTransition(s, "skip")
	}
	switch {
	case deactivate:
		return DeactivatedAndSkipped, nil
	case withAlternate:
		return SkippedAndAlternate, nil
	default:
		return Skipped, nil
	}
}

// Later postpones a canister that has not been picked yet to a future run.
//
// Valid transitions:
//   - Pending -> TransferLater
func (s Status) Later() (Status, error) {
	if s != Pending {
		return 0, invalidTransition(s, "transfer later")
	}
	return TransferLater, nil
}

// Advance applies the transition a confirmation of the given stage implies.
func (s Status) Advance(stage Stage, destination kernel.DeviceKind) (Status, error) {
	switch stage {
	case StageToTrolleyDone:
		return s.PlaceInTrolley()
	case StageToRobotDone:
		if destination != kernel.Robot {
			return 0, invalidTransition(s, "place at a robot")
		}
		return s.PlaceAtDestination(kernel.Robot)
	case StageToCSRDone:
		if destination != kernel.CSR {
			return 0, invalidTransition(s, "place at CSR")
		}
		return s.PlaceAtDestination(kernel.CSR)
	default:
		return 0, invalidTransition(s, "advance to "+stage.String())
	}
}

// Satisfies reports whether a canister in status s no longer blocks the
// completion of stage on its device.
func (s Status) Satisfies(stage Stage) bool {
	if s.IsSkipBranch() {
		return true
	}
	switch stage {
	case StageToTrolleyDone:
		return s != Pending && s != Unknown
	case StageToRobotDone:
		return s == ToRobotDone || s == Done
	case StageToCSRDone:
		return s == ToCSRDone || s == Done
	default:
		return false
	}
}
