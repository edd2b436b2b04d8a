package queries

import (
	"errors"
	"time"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/pkg/errs"
	"canistertransfer/internal/pkg/guard"
)

var (
	ErrGetCanisterHistoryQueryIsNotConstructed = errors.New(
		"GetCanisterHistoryQuery must be created via NewGetCanisterHistoryQuery constructor",
	)
	ErrCanisterIDIsRequired = errs.NewValueIsRequiredError("canister id")
)

// GetCanisterHistoryQuery returns the status history of one canister within
// a batch, oldest row first.
type GetCanisterHistoryQuery struct {
	batchID  kernel.BatchID
	canister kernel.CanisterID
	guard    guard.ConstructorGuard
}

// NewGetCanisterHistoryQuery creates a validated history query.
//
// Returns:
//   - error: ErrBatchIDIsRequired and ErrCanisterIDIsRequired, joined
func NewGetCanisterHistoryQuery(batchID kernel.BatchID, canister kernel.CanisterID) (GetCanisterHistoryQuery, error) {
	var batchErr, canisterErr error
	if batchID <= 0 {
		batchErr = ErrBatchIDIsRequired
	}
	if canister <= 0 {
		canisterErr = ErrCanisterIDIsRequired
	}
	if err := errors.Join(batchErr, canisterErr); err != nil {
		return GetCanisterHistoryQuery{}, err
	}
	return GetCanisterHistoryQuery{batchID: batchID, canister: canister, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCanisterHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetCanisterHistoryQueryIsNotConstructed)
}

func (q GetCanisterHistoryQuery) BatchID() kernel.BatchID { return q.batchID }

func (q GetCanisterHistoryQuery) Canister() kernel.CanisterID { return q.canister }

type StatusView struct {
	Seq     int       `json:"seq"`
	Status  string    `json:"status"`
	Comment string    `json:"comment,omitempty"`
	UserID  int64     `json:"user_id,omitempty"`
	At      time.Time `json:"at"`
}
