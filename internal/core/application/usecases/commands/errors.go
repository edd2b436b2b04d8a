package commands

import (
	"errors"

	"canistertransfer/internal/pkg/runguard"
)

var (
	ErrAlreadyRunning          = runguard.ErrAlreadyRunning
	ErrPriorBatchPending       = errors.New("canisters of a prior batch are still in a trolley")
	ErrRecommendationExists    = errors.New("transfer recommendation already exists for batch")
	ErrPlaceRemainingCanisters = errors.New("kindly place remaining canisters")
	ErrTransferNotFound        = errors.New("canister transfer not found")
	ErrCycleIsNotActive        = errors.New("cycle is not the active transfer cycle")

	ErrBatchIDIsRequired    = errors.New("batch id is required")
	ErrSystemIDIsInvalid    = errors.New("system id must not be negative")
	ErrCanisterIDIsRequired = errors.New("canister id is required")
	ErrCanistersAreRequired = errors.New("at least one canister is required")
	ErrCycleIsInvalid       = errors.New("cycle must be greater than 0")
	ErrDeviceIDIsRequired   = errors.New("device id is required")
	ErrAlternateIsInvalid   = errors.New("alternate must differ from the skipped canister")
	ErrStageIsInvalid       = errors.New("stage must be ToTrolleyDone, ToRobotDone or ToCSRDone")
)
