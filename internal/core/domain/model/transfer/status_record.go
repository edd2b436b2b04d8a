package transfer

import (
	"time"

	"canistertransfer/internal/core/domain/model/kernel"
)

// StatusRecord is one row of a canister's status history. Seq increases by one
// per row and the latest row is the current status.
type StatusRecord struct {
	Canister kernel.CanisterID
	Seq      int
	Status   Status
	Comment  string
	UserID   int64
	At       time.Time
}

// InitialRecord opens the history of a planned canister.
func InitialRecord(canister kernel.CanisterID, at time.Time) StatusRecord {
	return StatusRecord{Canister: canister, Seq: 1, Status: Pending, At: at}
}

// Next returns the row that follows r.
func (r StatusRecord) Next(status Status, comment string, userID int64, at time.Time) StatusRecord {
	return StatusRecord{
		Canister: r.Canister,
		Seq:      r.Seq + 1,
		Status:   status,
		Comment:  comment,
		UserID:   userID,
		At:       at,
	}
}
