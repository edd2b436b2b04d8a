// Package transferrepo stores transfer plans and the append-only history of
// assignments, statuses and device stages that follows them.
package transferrepo

import (
	"time"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/core/domain/model/trolley"

	"github.com/google/uuid"
)

// RunDTO is one recommendation run. A batch has at most one run.
type RunDTO struct {
	ID         uuid.UUID           `gorm:"type:uuid;primaryKey"`
	BatchID    kernel.BatchID      `gorm:"not null;uniqueIndex"`
	SystemID   kernel.SystemID     `gorm:"not null;index"`
	FirstCycle int                 `gorm:"not null"`
	Unassigned []kernel.CanisterID `gorm:"type:jsonb;serializer:json"`
	CreatedAt  time.Time
}

func (RunDTO) TableName() string {
	return "canister_transfer_runs"
}

// AssignmentDTO is one assignment row. The row with the highest ID per
// canister and batch is the active one.
type AssignmentDTO struct {
	ID              int64               `gorm:"primaryKey;autoIncrement"`
	BatchID         kernel.BatchID      `gorm:"not null;index:idx_assignment_batch_canister"`
	Canister        kernel.CanisterID   `gorm:"not null;index:idx_assignment_batch_canister"`
	CanisterType    int                 `gorm:"type:smallint;not null"`
	Cycle           int                 `gorm:"not null"`
	TrolleyDevice   kernel.DeviceID     `gorm:"not null"`
	TrolleyLocation kernel.LocationID   `gorm:"not null"`
	Destination     DestinationDTO      `gorm:"embedded;embeddedPrefix:dest_"`
	SourceDevice    kernel.DeviceID
	SourceLocation  kernel.LocationID
	AlternateFor    kernel.CanisterID
	CreatedAt       time.Time
}

func (AssignmentDTO) TableName() string {
	return "canister_transfer_assignments"
}

// DestinationDTO is embedded into the assignment row.
type DestinationDTO struct {
	Device      kernel.DeviceID    `gorm:"not null"`
	Kind        int                `gorm:"type:smallint;not null"`
	Quadrant    kernel.Quadrant    `gorm:"type:smallint"`
	Location    kernel.LocationID  `gorm:"not null"`
	DrawerLevel kernel.DrawerLevel `gorm:"type:smallint"`
	Class       int                `gorm:"type:smallint;not null"`
}

// StatusDTO is one status history row.
type StatusDTO struct {
	ID       int64             `gorm:"primaryKey;autoIncrement"`
	BatchID  kernel.BatchID    `gorm:"not null;uniqueIndex:idx_status_batch_canister_seq"`
	Canister kernel.CanisterID `gorm:"not null;uniqueIndex:idx_status_batch_canister_seq"`
	Seq      int               `gorm:"not null;uniqueIndex:idx_status_batch_canister_seq"`
	Status   int               `gorm:"type:smallint;not null"`
	Comment  string            `gorm:"type:varchar(512)"`
	UserID   int64
	At       time.Time `gorm:"not null"`
}

func (StatusDTO) TableName() string {
	return "canister_transfer_status_history"
}

// CycleDeviceDTO is the bookkeeping and stage of one device within a cycle.
type CycleDeviceDTO struct {
	BatchID       kernel.BatchID    `gorm:"primaryKey;autoIncrement:false"`
	Cycle         int               `gorm:"primaryKey;autoIncrement:false"`
	Device        kernel.DeviceID   `gorm:"primaryKey;autoIncrement:false"`
	Position      int               `gorm:"not null"`
	ToCartCount   int               `gorm:"not null"`
	FromCartCount int               `gorm:"not null"`
	NormalCarts   []kernel.DeviceID `gorm:"type:jsonb;serializer:json"`
	ElevatorCarts []kernel.DeviceID `gorm:"type:jsonb;serializer:json"`
	Stage         int               `gorm:"type:smallint;not null"`
}

func (CycleDeviceDTO) TableName() string {
	return "canister_transfer_cycle_devices"
}

func runFromDomain(plan *transfer.Plan) RunDTO {
	return RunDTO{
		ID:         plan.RunID().Bytes(),
		BatchID:    plan.BatchID(),
		SystemID:   plan.SystemID(),
		FirstCycle: plan.FirstCycleID(),
		Unassigned: plan.Unassigned(),
	}
}

func assignmentFromDomain(batch kernel.BatchID, a transfer.Assignment) AssignmentDTO {
	return AssignmentDTO{
		BatchID:         batch,
		Canister:        a.Canister,
		CanisterType:    int(a.CanisterType),
		Cycle:           a.Cycle,
		TrolleyDevice:   a.TrolleyDevice,
		TrolleyLocation: a.TrolleyLocation,
		Destination: DestinationDTO{
			Device:      a.Destination.Device,
			Kind:        int(a.Destination.Kind),
			Quadrant:    a.Destination.Quadrant,
			Location:    a.Destination.Location,
			DrawerLevel: a.Destination.DrawerLevel,
			Class:       int(a.Destination.Class),
		},
		SourceDevice:   a.SourceDevice,
		SourceLocation: a.SourceLocation,
		AlternateFor:   a.AlternateFor,
	}
}

func assignmentToDomain(dto AssignmentDTO) transfer.Assignment {
	return transfer.Assignment{
		Canister:        dto.Canister,
		CanisterType:    kernel.CanisterType(dto.CanisterType),
		Cycle:           dto.Cycle,
		TrolleyDevice:   dto.TrolleyDevice,
		TrolleyLocation: dto.TrolleyLocation,
		Destination: transfer.Destination{
			Device:      dto.Destination.Device,
			Kind:        kernel.DeviceKind(dto.Destination.Kind),
			Quadrant:    dto.Destination.Quadrant,
			Location:    dto.Destination.Location,
			DrawerLevel: dto.Destination.DrawerLevel,
			Class:       trolley.Class(dto.Destination.Class),
		},
		SourceDevice:   dto.SourceDevice,
		SourceLocation: dto.SourceLocation,
		AlternateFor:   dto.AlternateFor,
	}
}

func statusFromDomain(batch kernel.BatchID, r transfer.StatusRecord) StatusDTO {
	return StatusDTO{
		BatchID:  batch,
		Canister: r.Canister,
		Seq:      r.Seq,
		Status:   int(r.Status),
		Comment:  r.Comment,
		UserID:   r.UserID,
		At:       r.At,
	}
}

func statusToDomain(dto StatusDTO) (transfer.StatusRecord, error) {
	status := transfer.Status(dto.Status)
	if err := status.Validate(); err != nil {
		return transfer.StatusRecord{}, err
	}
	return transfer.StatusRecord{
		Canister: dto.Canister,
		Seq:      dto.Seq,
		Status:   status,
		Comment:  dto.Comment,
		UserID:   dto.UserID,
		At:       dto.At.UTC(),
	}, nil
}

// cycleDevicesFromDomain flattens the cycles of a plan. Every device starts
// in StagePending.
func cycleDevicesFromDomain(batch kernel.BatchID, cycles []*transfer.Cycle) []CycleDeviceDTO {
	var out []CycleDeviceDTO
	for _, c := range cycles {
		for pos, device := range c.Devices {
			info := c.Info[device]
			out = append(out, CycleDeviceDTO{
				BatchID:       batch,
				Cycle:         c.ID,
				Device:        device,
				Position:      pos,
				ToCartCount:   info.ToCartCount,
				FromCartCount: info.FromCartCount,
				NormalCarts:   info.NormalCarts,
				ElevatorCarts: info.ElevatorCarts,
				Stage:         int(transfer.StagePending),
			})
		}
	}
	return out
}

// cyclesToDomain rebuilds cycles from rows ordered by cycle and position.
func cyclesToDomain(dtos []CycleDeviceDTO) []*transfer.Cycle {
	var out []*transfer.Cycle
	var current *transfer.Cycle
	for _, dto := range dtos {
		if current == nil || current.ID != dto.Cycle {
			current = transfer.NewCycle(dto.Cycle)
			out = append(out, current)
		}
		current.Devices = append(current.Devices, dto.Device)
		current.Info[dto.Device] = &transfer.DeviceInfo{
			ToCartCount:   dto.ToCartCount,
			FromCartCount: dto.FromCartCount,
			NormalCarts:   dto.NormalCarts,
			ElevatorCarts: dto.ElevatorCarts,
		}
	}
	return out
}
