// Package inventoryrepo reads the pack analysis and device tables a
// recommendation run starts from. The tables belong to the surrounding
// pharmacy system; the DTOs only describe the columns this engine reads.
package inventoryrepo

import (
	"canistertransfer/internal/core/domain/model/canister"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/location"
)

type BatchDTO struct {
	ID       kernel.BatchID  `gorm:"primaryKey;autoIncrement:false"`
	SystemID kernel.SystemID `gorm:"not null;index"`
}

func (BatchDTO) TableName() string {
	return "pack_batches"
}

// DeviceDTO is a robot, a CSR shelving unit or a trolley.
type DeviceDTO struct {
	ID       kernel.DeviceID `gorm:"primaryKey;autoIncrement:false"`
	SystemID kernel.SystemID `gorm:"not null;index"`
	Kind     int             `gorm:"type:smallint;not null"`
	Active   bool            `gorm:"not null"`
}

func (DeviceDTO) TableName() string {
	return "devices"
}

// LocationDTO is one canister position of a device. Trolley locations carry
// the drawer they belong to.
type LocationDTO struct {
	ID           kernel.LocationID  `gorm:"primaryKey;autoIncrement:false"`
	DeviceID     kernel.DeviceID    `gorm:"not null;index"`
	Quadrant     kernel.Quadrant    `gorm:"type:smallint"`
	DrawerLevel  kernel.DrawerLevel `gorm:"type:smallint"`
	DrawerID     int64
	Capacity     int                `gorm:"type:smallint;not null"`
	CanisterID   *kernel.CanisterID `gorm:"uniqueIndex"`
	CanisterType int                `gorm:"type:smallint"`
	Delicate     bool
	DrugUsage    int
	Reserved     bool
	SlowMover    bool
}

func (LocationDTO) TableName() string {
	return "device_locations"
}

// PendingTransferDTO is one canister move requested by pack analysis.
type PendingTransferDTO struct {
	BatchID           kernel.BatchID    `gorm:"primaryKey;autoIncrement:false"`
	CanisterID        kernel.CanisterID `gorm:"primaryKey;autoIncrement:false"`
	CanisterType      int               `gorm:"type:smallint;not null"`
	Delicate          bool
	DrugUsage         int
	SourceDevice      kernel.DeviceID `gorm:"not null"`
	SourceKind        int             `gorm:"type:smallint;not null"`
	SourceQuadrant    kernel.Quadrant
	SourceDrawerLevel kernel.DrawerLevel
	SourceLocation    kernel.LocationID
	TargetDevice      kernel.DeviceID
	TargetQuadrant    kernel.Quadrant
}

func (PendingTransferDTO) TableName() string {
	return "pending_canister_transfers"
}

func demandToDomain(dto PendingTransferDTO) (canister.Demand, error) {
	return canister.NewDemand(
		dto.CanisterID,
		kernel.CanisterType(dto.CanisterType),
		dto.Delicate,
		dto.DrugUsage,
		canister.Placement{
			Device:      dto.SourceDevice,
			Kind:        kernel.DeviceKind(dto.SourceKind),
			Quadrant:    dto.SourceQuadrant,
			DrawerLevel: dto.SourceDrawerLevel,
			Location:    dto.SourceLocation,
		},
		canister.Target{
			Device:   dto.TargetDevice,
			Quadrant: dto.TargetQuadrant,
		},
	)
}

func slotToDomain(dto LocationDTO) (*location.Slot, error) {
	var occupant *location.Occupant
	if dto.CanisterID != nil {
		occupant = &location.Occupant{
			Canister:  *dto.CanisterID,
			Type:      kernel.CanisterType(dto.CanisterType),
			Delicate:  dto.Delicate,
			DrugUsage: dto.DrugUsage,
			Reserved:  dto.Reserved,
			SlowMover: dto.SlowMover,
		}
	}
	return location.NewSlot(
		dto.ID,
		dto.DeviceID,
		dto.Quadrant,
		dto.DrawerLevel,
		kernel.CanisterType(dto.Capacity),
		occupant,
	)
}
