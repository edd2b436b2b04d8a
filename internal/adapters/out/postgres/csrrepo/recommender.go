// Package csrrepo picks free CSR shelf positions for canisters leaving robots.
package csrrepo

import (
	"context"
	"errors"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/core/domain/services"

	"gorm.io/gorm"
)

// GormCSRRecommender implements services.CSRRecommender over the device
// location tables.
type GormCSRRecommender struct {
	db *gorm.DB
}

func NewGormCSRRecommender(db *gorm.DB) *GormCSRRecommender {
	return &GormCSRRecommender{db: db}
}

type candidate struct {
	DeviceID    kernel.DeviceID
	ID          kernel.LocationID
	DrawerLevel kernel.DrawerLevel
}

// RecommendCSRLocation returns the lowest empty CSR location that fits the
// canister, skipping reserved locations and locations another unfinished
// transfer is heading to. Returns nil when CSR is full.
func (r *GormCSRRecommender) RecommendCSRLocation(
	ctx context.Context,
	system kernel.SystemID,
	canisterID kernel.CanisterID,
	canisterType kernel.CanisterType,
	reserved []kernel.LocationID,
) (*services.CSRLocation, error) {
	if err := canisterType.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Table("device_locations AS l").
		Select("l.device_id, l.id, l.drawer_level").
		Joins("JOIN devices d ON d.id = l.device_id").
		Where("d.system_id = ? AND d.kind = ? AND d.active", system, int(kernel.CSR)).
		Where("l.canister_id IS NULL AND l.capacity >= ?", int(canisterType)).
		Where(`NOT EXISTS (
			SELECT 1
			FROM canister_transfer_assignments a
			JOIN (
				SELECT DISTINCT ON (batch_id, canister) batch_id, canister, status
				FROM canister_transfer_status_history
				ORDER BY batch_id, canister, seq DESC
			) s ON s.batch_id = a.batch_id AND s.canister = a.canister
			WHERE a.dest_location = l.id AND a.canister <> ? AND s.status BETWEEN ? AND ?
		)`, canisterID, int(transfer.Pending), int(transfer.ToTrolleyDone))
	if len(reserved) > 0 {
		query = query.Where("l.id NOT IN ?", reserved)
	}

	var c candidate
	err := query.Order("l.drawer_level, l.id").Limit(1).Take(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &services.CSRLocation{
		Device:      c.DeviceID,
		Location:    c.ID,
		DrawerLevel: c.DrawerLevel,
	}, nil
}
