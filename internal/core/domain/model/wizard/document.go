package wizard

import (
	"fmt"
	"strconv"
	"time"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
)

// NoTransfersMessage is shown when a run found nothing to move.
const NoTransfersMessage = "No transfers available for this batch"

// State is the body of a wizard document.
type State struct {
	SystemID     kernel.SystemID   `json:"system_id"`
	BatchID      kernel.BatchID    `json:"batch_id"`
	RunID        string            `json:"run_id,omitempty"`
	CurrentCycle int               `json:"transfer_cycle_id"`
	Message      string            `json:"message,omitempty"`
	Canisters    map[string]string `json:"canisters,omitempty"`
	Stages       map[string]string `json:"stages,omitempty"`
	Alternates   map[string]string `json:"alternates,omitempty"`
	LastEventID  int64             `json:"last_event_id"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Document is one wizard document. Version 0 means it was never stored.
type Document struct {
	name    string
	version int
	state   State
}

// DocumentName returns the document name of a system.
func DocumentName(system kernel.SystemID) string {
	return fmt.Sprintf("canister_transfer_%d", system)
}

// NewDocument returns an unsaved empty document for a system.
func NewDocument(system kernel.SystemID) *Document {
	return &Document{name: DocumentName(system), state: State{SystemID: system}}
}

// RestoreDocument rebuilds a stored document.
func RestoreDocument(name string, version int, state State) *Document {
	return &Document{name: name, version: version, state: state}
}

func (d *Document) Name() string { return d.name }

func (d *Document) Version() int { return d.version }

func (d *Document) State() State { return d.state }

// Apply folds one event into the document. Events at or below LastEventID
// are ignored so a replayed batch of events is harmless.
func (d *Document) Apply(e transfer.Event) bool {
	if e.ID != 0 && e.ID <= d.state.LastEventID {
		return false
	}

	switch e.Type {
	case transfer.PlanRecommended:
		d.state = State{
			SystemID:     d.state.SystemID,
			BatchID:      e.BatchID,
			RunID:        e.RunID,
			CurrentCycle: e.Cycle,
			Message:      e.Value,
		}
	case transfer.StatusChanged:
		setKey(&d.state.Canisters, strconv.FormatInt(int64(e.Canister), 10), e.Value)
	case transfer.DeviceStageChanged:
		setKey(&d.state.Stages, fmt.Sprintf("%d:%d", e.Cycle, e.Device), e.Value)
		if e.Cycle > d.state.CurrentCycle {
			d.state.CurrentCycle = e.Cycle
		}
	case transfer.CanisterSubstituted:
		setKey(&d.state.Alternates, strconv.FormatInt(int64(e.Canister), 10), e.Value)
	case transfer.ReplenishRequested:
		// consumed by the replenishment service, nothing to show
	}

	if e.ID > d.state.LastEventID {
		d.state.LastEventID = e.ID
	}
	d.state.UpdatedAt = e.OccurredAt
	return true
}

func setKey(m *map[string]string, k, v string) {
	if *m == nil {
		*m = make(map[string]string)
	}
	(*m)[k] = v
}
