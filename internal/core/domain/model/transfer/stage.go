package transfer

import (
	"fmt"

	"canistertransfer/internal/pkg/errs"
)

// Stage is the progress of one device within one cycle.
//
//	StagePending -> StageToTrolleyDone -> StageToRobotDone -> StageToCSRDone
//
// Stages without work are skipped automatically, see Complete.
type Stage int

const (
	StageUnknown Stage = iota
	StagePending
	StageToTrolleyDone
	StageToRobotDone
	StageToCSRDone
)

func getStageStrings() map[Stage]string {
	return map[Stage]string{
		StageUnknown:       "Unknown",
		StagePending:       "Pending",
		StageToTrolleyDone: "ToTrolleyDone",
		StageToRobotDone:   "ToRobotDone",
		StageToCSRDone:     "ToCSRDone",
	}
}

func (s Stage) String() string {
	if str, ok := getStageStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

func (s Stage) Validate() error {
	if s < StagePending || s > StageToCSRDone {
		return errs.NewValueIsInvalidErrorWithCause("stage is invalid", fmt.Errorf("%d is not a valid stage", s))
	}
	return nil
}

// ParseStage accepts the names produced by String.
func ParseStage(name string) (Stage, error) {
	for st, str := range getStageStrings() {
		if st != StageUnknown && str == name {
			return st, nil
		}
	}
	return StageUnknown, errs.NewValueIsInvalidErrorWithCause("stage is invalid", fmt.Errorf("%q is not a known stage", name))
}

// StageWork tells Complete which stages of a device have canisters to handle.
type StageWork struct {
	RobotBound bool
	CSRBound   bool
}

// Complete moves the device to target, which must be the next stage, then
// skips over following stages that have no work.
//
// Example:
//
//	// a robot that only gives canisters away
//	next, _ := StagePending.Complete(StageToTrolleyDone, StageWork{RobotBound: false, CSRBound: true})
//	// next == StageToRobotDone
func (s Stage) Complete(target Stage, work StageWork) (Stage, error) {
	if target != s+1 || target > StageToCSRDone || s < StagePending {
		return StageUnknown, errs.NewValueIsInvalidErrorWithCause(
			"stage is invalid",
			fmt.Errorf("cannot complete %s from %s", target, s),
		)
	}

	next := target
	if next == StageToTrolleyDone && !work.RobotBound {
		next = StageToRobotDone
	}
	if next == StageToRobotDone && !work.CSRBound {
		next = StageToCSRDone
	}
	return next, nil
}

// IsFinal reports whether the device has nothing left to do in its cycle.
func (s Stage) IsFinal() bool {
	return s == StageToCSRDone
}
