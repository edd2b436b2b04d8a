package queries

import (
	"context"
	"encoding/json"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetTransferCyclesQueryHandler reads a plan with raw SQL over the transfer
// tables.
type GetTransferCyclesQueryHandler struct {
	db *gorm.DB
}

func NewGetTransferCyclesQueryHandler(db *gorm.DB) GetTransferCyclesQueryHandler {
	return GetTransferCyclesQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound when the batch has no plan.
// CurrentCycle is the lowest cycle with a device that has not reached its
// final stage, or the last cycle when all are done.
func (h GetTransferCyclesQueryHandler) Handle(
	ctx context.Context,
	query GetTransferCyclesQuery,
) (*GetTransferCyclesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	db := h.db.WithContext(ctx)
	batch := query.BatchID()

	resp, err := h.loadRun(db, batch)
	if err != nil {
		return nil, err
	}
	first := resp.CurrentCycle

	byID, err := h.loadDevices(db, batch, resp)
	if err != nil {
		return nil, err
	}
	if err = h.loadCanisters(db, batch, byID); err != nil {
		return nil, err
	}

	resp.CurrentCycle = currentCycle(resp.Cycles, first)
	return resp, nil
}

func (h GetTransferCyclesQueryHandler) loadRun(db *gorm.DB, batch kernel.BatchID) (*GetTransferCyclesQueryResponse, error) {
	rows, err := db.Raw(`
		SELECT id::text, system_id, first_cycle, unassigned
		FROM canister_transfer_runs
		WHERE batch_id = ?
	`, batch).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return nil, errs.NewObjectNotFoundError("transfer run", batch)
	}

	resp := &GetTransferCyclesQueryResponse{
		BatchID:    batch,
		Unassigned: make([]kernel.CanisterID, 0),
		Cycles:     make([]CycleView, 0),
	}
	var unassigned []byte
	if err = rows.Scan(&resp.RunID, &resp.SystemID, &resp.CurrentCycle, &unassigned); err != nil {
		return nil, err
	}
	if len(unassigned) > 0 && string(unassigned) != "null" {
		if err = json.Unmarshal(unassigned, &resp.Unassigned); err != nil {
			return nil, err
		}
	}
	return resp, rows.Err()
}

func (h GetTransferCyclesQueryHandler) loadDevices(
	db *gorm.DB,
	batch kernel.BatchID,
	resp *GetTransferCyclesQueryResponse,
) (map[int]*CycleView, error) {
	rows, err := db.Raw(`
		SELECT cycle, device, to_cart_count, from_cart_count, stage
		FROM canister_transfer_cycle_devices
		WHERE batch_id = ?
		ORDER BY cycle, position
	`, batch).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cycle, stage int
			view         DeviceView
		)
		if err = rows.Scan(&cycle, &view.Device, &view.ToCartCount, &view.FromCartCount, &stage); err != nil {
			return nil, err
		}
		view.Stage = transfer.Stage(stage).String()

		if n := len(resp.Cycles); n == 0 || resp.Cycles[n-1].ID != cycle {
			resp.Cycles = append(resp.Cycles, CycleView{
				ID:        cycle,
				Devices:   make([]DeviceView, 0),
				Canisters: make([]CanisterView, 0),
			})
		}
		last := &resp.Cycles[len(resp.Cycles)-1]
		last.Devices = append(last.Devices, view)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	byID := make(map[int]*CycleView, len(resp.Cycles))
	for i := range resp.Cycles {
		byID[resp.Cycles[i].ID] = &resp.Cycles[i]
	}
	return byID, nil
}

func (h GetTransferCyclesQueryHandler) loadCanisters(db *gorm.DB, batch kernel.BatchID, byID map[int]*CycleView) error {
	rows, err := db.Raw(`
		SELECT
			a.cycle,
			a.canister,
			a.canister_type,
			a.trolley_device,
			a.trolley_location,
			a.dest_device,
			a.dest_kind,
			a.dest_location,
			a.alternate_for,
			COALESCE(s.status, 0),
			COALESCE(s.seq, 0)
		FROM canister_transfer_assignments a
		LEFT JOIN (
			SELECT DISTINCT ON (canister) canister, status, seq
			FROM canister_transfer_status_history
			WHERE batch_id = ?
			ORDER BY canister, seq DESC
		) s ON s.canister = a.canister
		WHERE a.batch_id = ? AND a.id IN (
			SELECT MAX(id) FROM canister_transfer_assignments WHERE batch_id = ? GROUP BY canister
		)
		ORDER BY a.cycle, a.trolley_location, a.canister
	`, batch, batch, batch).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cycle, canisterType, kind, status int
			view                              CanisterView
		)
		err = rows.Scan(
			&cycle,
			&view.Canister,
			&canisterType,
			&view.TrolleyDevice,
			&view.TrolleyLocation,
			&view.DestinationDevice,
			&kind,
			&view.DestinationLocation,
			&view.AlternateFor,
			&status,
			&view.Seq,
		)
		if err != nil {
			return err
		}
		view.CanisterType = kernel.CanisterType(canisterType).String()
		view.DestinationKind = kernel.DeviceKind(kind).String()
		view.Status = transfer.Status(status).String()

		c, ok := byID[cycle]
		if !ok {
			continue
		}
		c.Canisters = append(c.Canisters, view)
	}
	return rows.Err()
}

func currentCycle(cycles []CycleView, first int) int {
	if len(cycles) == 0 {
		return first
	}
	final := transfer.StageToCSRDone.String()
	for _, c := range cycles {
		for _, d := range c.Devices {
			if d.Stage != final {
				return c.ID
			}
		}
	}
	return cycles[len(cycles)-1].ID
}
