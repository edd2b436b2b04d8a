package inventoryrepo

import (
	"context"
	"errors"
	"fmt"

	"canistertransfer/internal/core/domain/model/canister"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/location"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/core/domain/model/trolley"
	"canistertransfer/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormInventoryReader implements ports.InventoryReader using GORM.
type GormInventoryReader struct {
	db *gorm.DB
}

func NewGormInventoryReader(db *gorm.DB) *GormInventoryReader {
	return &GormInventoryReader{db: db}
}

func (r *GormInventoryReader) BatchSystem(ctx context.Context, batch kernel.BatchID) (kernel.SystemID, error) {
	var dto BatchDTO
	if err := r.db.WithContext(ctx).Where("id = ?", batch).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errs.NewObjectNotFoundError("batch", batch)
		}
		return 0, err
	}
	return dto.SystemID, nil
}

func (r *GormInventoryReader) PendingDemands(ctx context.Context, batch kernel.BatchID) ([]canister.Demand, error) {
	var dtos []PendingTransferDTO
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batch).
		Order("canister_id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	out := make([]canister.Demand, 0, len(dtos))
	for _, dto := range dtos {
		d, err := demandToDomain(dto)
		if err != nil {
			return nil, fmt.Errorf("pending transfer of canister %d: %w", dto.CanisterID, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// LocationSnapshot returns the slots of the active robots of the system.
func (r *GormInventoryReader) LocationSnapshot(ctx context.Context, system kernel.SystemID) ([]*location.Slot, error) {
	var dtos []LocationDTO
	err := r.db.WithContext(ctx).Raw(`
		SELECT l.*
		FROM device_locations l
		JOIN devices d ON d.id = l.device_id
		WHERE d.system_id = ? AND d.kind = ? AND d.active
		ORDER BY l.id
	`, system, int(kernel.Robot)).Scan(&dtos).Error
	if err != nil {
		return nil, err
	}

	out := make([]*location.Slot, 0, len(dtos))
	for _, dto := range dtos {
		slot, err := slotToDomain(dto)
		if err != nil {
			return nil, fmt.Errorf("location %d: %w", dto.ID, err)
		}
		out = append(out, slot)
	}
	return out, nil
}

// IdleTrolleys skips trolleys holding an assignment whose canister has not
// reached a terminal status yet.
func (r *GormInventoryReader) IdleTrolleys(ctx context.Context, system kernel.SystemID) (trolley.Fleet, error) {
	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT d.id, d.kind, l.drawer_id, l.id
		FROM devices d
		JOIN device_locations l ON l.device_id = d.id
		WHERE d.system_id = ? AND d.kind IN (?, ?) AND d.active
		AND NOT EXISTS (
			SELECT 1
			FROM canister_transfer_assignments a
			JOIN (
				SELECT DISTINCT ON (batch_id, canister) batch_id, canister, status
				FROM canister_transfer_status_history
				ORDER BY batch_id, canister, seq DESC
			) s ON s.batch_id = a.batch_id AND s.canister = a.canister
			WHERE a.trolley_device = d.id AND s.status BETWEEN ? AND ?
		)
		ORDER BY d.id, l.drawer_id, l.id
	`, system, int(kernel.NormalTrolley), int(kernel.ElevatorTrolley),
		int(transfer.Pending), int(transfer.ToCSRDone)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type cart struct {
		id      kernel.DeviceID
		kind    kernel.DeviceKind
		drawers []trolley.Drawer
	}
	var carts []*cart
	for rows.Next() {
		var (
			id, drawerID, locationID int64
			kind                     int
		)
		if err = rows.Scan(&id, &kind, &drawerID, &locationID); err != nil {
			return nil, err
		}
		if len(carts) == 0 || carts[len(carts)-1].id != kernel.DeviceID(id) {
			carts = append(carts, &cart{id: kernel.DeviceID(id), kind: kernel.DeviceKind(kind)})
		}
		c := carts[len(carts)-1]
		if len(c.drawers) == 0 || c.drawers[len(c.drawers)-1].ID != drawerID {
			c.drawers = append(c.drawers, trolley.Drawer{ID: drawerID})
		}
		last := &c.drawers[len(c.drawers)-1]
		last.Locations = append(last.Locations, kernel.LocationID(locationID))
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	fleet := make(trolley.Fleet, 0, len(carts))
	for _, c := range carts {
		t, err := trolley.NewTrolley(c.id, trolley.ClassOf(c.kind), c.drawers)
		if err != nil {
			return nil, fmt.Errorf("trolley %d: %w", c.id, err)
		}
		fleet = append(fleet, t)
	}
	return fleet, nil
}
