package transferrepo

import (
	"context"
	"errors"
	"fmt"

	"canistertransfer/internal/adapters/out/postgres/pgerr"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/core/ports"
	"canistertransfer/internal/pkg/errs"

	"gorm.io/gorm"
)

const insertBatchSize = 200

// GormTransferRepository implements ports.TransferRepository using GORM.
type GormTransferRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormTransferRepository(db *gorm.DB, tracker aggregateTracker) *GormTransferRepository {
	return &GormTransferRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormTransferRepository) HasPlan(ctx context.Context, batch kernel.BatchID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&RunDTO{}).Where("batch_id = ?", batch).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CanistersInCart returns the canisters of other batches of the system whose
// latest status is ToTrolleyDone.
func (r *GormTransferRepository) CanistersInCart(
	ctx context.Context,
	system kernel.SystemID,
	except kernel.BatchID,
) ([]kernel.CanisterID, error) {
	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT latest.canister
		FROM (
			SELECT DISTINCT ON (h.batch_id, h.canister) h.batch_id, h.canister, h.status
			FROM canister_transfer_status_history h
			JOIN canister_transfer_runs r ON r.batch_id = h.batch_id
			WHERE r.system_id = ? AND h.batch_id <> ?
			ORDER BY h.batch_id, h.canister, h.seq DESC
		) latest
		WHERE latest.status = ?
		ORDER BY latest.canister
	`, system, except, int(transfer.ToTrolleyDone)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]kernel.CanisterID, 0)
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, kernel.CanisterID(id))
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// SavePlan writes the run, its assignments, the cycle devices and the first
// status row of every assigned canister.
func (r *GormTransferRepository) SavePlan(ctx context.Context, plan *transfer.Plan) error {
	if err := plan.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	batch := plan.BatchID()

	run := runFromDomain(plan)
	if err := db.Create(&run).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return fmt.Errorf("run for batch %d: %w", batch, ports.ErrConflict)
		}
		return err
	}

	assignments := plan.Assignments()
	if len(assignments) > 0 {
		rows := make([]AssignmentDTO, 0, len(assignments))
		statuses := make([]StatusDTO, 0, len(assignments))
		for _, a := range assignments {
			rows = append(rows, assignmentFromDomain(batch, a))
			statuses = append(statuses, statusFromDomain(batch, transfer.InitialRecord(a.Canister, run.CreatedAt)))
		}
		if err := db.CreateInBatches(&rows, insertBatchSize).Error; err != nil {
			return err
		}
		if err := db.CreateInBatches(&statuses, insertBatchSize).Error; err != nil {
			return err
		}
	}

	if devices := cycleDevicesFromDomain(batch, plan.Cycles()); len(devices) > 0 {
		if err := db.CreateInBatches(&devices, insertBatchSize).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(plan.RunID(), plan)
	return nil
}

func (r *GormTransferRepository) ActiveAssignments(ctx context.Context, batch kernel.BatchID) ([]transfer.Assignment, error) {
	var dtos []AssignmentDTO
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batch).
		Where("id IN (?)", r.db.Model(&AssignmentDTO{}).
			Select("MAX(id)").
			Where("batch_id = ?", batch).
			Group("canister")).
		Order("cycle, trolley_location, canister").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	out := make([]transfer.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, assignmentToDomain(dto))
	}
	return out, nil
}

func (r *GormTransferRepository) AppendAssignment(ctx context.Context, batch kernel.BatchID, a transfer.Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	dto := assignmentFromDomain(batch, a)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormTransferRepository) LatestStatuses(
	ctx context.Context,
	batch kernel.BatchID,
) (map[kernel.CanisterID]transfer.StatusRecord, error) {
	var dtos []StatusDTO
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (canister) *
		FROM canister_transfer_status_history
		WHERE batch_id = ?
		ORDER BY canister, seq DESC
	`, batch).Scan(&dtos).Error
	if err != nil {
		return nil, err
	}

	out := make(map[kernel.CanisterID]transfer.StatusRecord, len(dtos))
	for _, dto := range dtos {
		record, err := statusToDomain(dto)
		if err != nil {
			return nil, err
		}
		out[record.Canister] = record
	}
	return out, nil
}

// AppendStatus returns ports.ErrConflict when another writer already stored
// the same sequence number.
func (r *GormTransferRepository) AppendStatus(ctx context.Context, batch kernel.BatchID, record transfer.StatusRecord) error {
	if err := record.Status.Validate(); err != nil {
		return err
	}
	dto := statusFromDomain(batch, record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return fmt.Errorf("canister %d seq %d: %w", record.Canister, record.Seq, ports.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *GormTransferRepository) CycleStages(
	ctx context.Context,
	batch kernel.BatchID,
	cycle int,
) (map[kernel.DeviceID]transfer.Stage, error) {
	var dtos []CycleDeviceDTO
	err := r.db.WithContext(ctx).
		Where("batch_id = ? AND cycle = ?", batch, cycle).
		Order("position").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, errs.NewObjectNotFoundError("cycle", fmt.Sprintf("%d/%d", batch, cycle))
	}

	out := make(map[kernel.DeviceID]transfer.Stage, len(dtos))
	for _, dto := range dtos {
		out[dto.Device] = transfer.Stage(dto.Stage)
	}
	return out, nil
}

func (r *GormTransferRepository) CurrentCycle(ctx context.Context, batch kernel.BatchID) (int, error) {
	var row struct {
		Open *int
		Last *int
	}
	err := r.db.WithContext(ctx).
		Model(&CycleDeviceDTO{}).
		Select("MIN(cycle) FILTER (WHERE stage <> ?) AS open, MAX(cycle) AS last", int(transfer.StageToCSRDone)).
		Where("batch_id = ?", batch).
		Scan(&row).Error
	if err != nil {
		return 0, err
	}
	switch {
	case row.Open != nil:
		return *row.Open, nil
	case row.Last != nil:
		return *row.Last, nil
	default:
		return 0, errs.NewObjectNotFoundError("cycle", batch)
	}
}

func (r *GormTransferRepository) UpdateCycleStage(
	ctx context.Context,
	batch kernel.BatchID,
	cycle int,
	device kernel.DeviceID,
	stage transfer.Stage,
) error {
	if err := stage.Validate(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&CycleDeviceDTO{}).
		Where("batch_id = ? AND cycle = ? AND device = ?", batch, cycle, device).
		Update("stage", int(stage))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("cycle device", fmt.Sprintf("%d/%d/%d", batch, cycle, device))
	}
	return nil
}

func (r *GormTransferRepository) Cycles(ctx context.Context, batch kernel.BatchID) ([]*transfer.Cycle, error) {
	var dtos []CycleDeviceDTO
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batch).
		Order("cycle, position").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return cyclesToDomain(dtos), nil
}

func (r *GormTransferRepository) RunSystem(ctx context.Context, batch kernel.BatchID) (kernel.UUID, kernel.SystemID, error) {
	var dto RunDTO
	if err := r.db.WithContext(ctx).Where("batch_id = ?", batch).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kernel.UUID{}, 0, errs.NewObjectNotFoundError("transfer run", batch)
		}
		return kernel.UUID{}, 0, err
	}

	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return kernel.UUID{}, 0, err
	}
	return id, dto.SystemID, nil
}
