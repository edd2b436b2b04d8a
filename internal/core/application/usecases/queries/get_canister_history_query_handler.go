package queries

import (
	"context"
	"fmt"

	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetCanisterHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetCanisterHistoryQueryHandler(db *gorm.DB) GetCanisterHistoryQueryHandler {
	return GetCanisterHistoryQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound when the canister has no history in
// the batch.
func (h GetCanisterHistoryQueryHandler) Handle(ctx context.Context, query GetCanisterHistoryQuery) ([]StatusView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT seq, status, comment, user_id, at
		FROM canister_transfer_status_history
		WHERE batch_id = ? AND canister = ?
		ORDER BY seq
	`, query.BatchID(), query.Canister()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]StatusView, 0)
	for rows.Next() {
		var (
			view   StatusView
			status int
		)
		if err = rows.Scan(&view.Seq, &status, &view.Comment, &view.UserID, &view.At); err != nil {
			return nil, err
		}
		view.Status = transfer.Status(status).String()
		view.At = view.At.UTC()
		history = append(history, view)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(history) == 0 {
		return nil, errs.NewObjectNotFoundError("canister history", fmt.Sprintf("%d/%d", query.BatchID(), query.Canister()))
	}
	return history, nil
}
