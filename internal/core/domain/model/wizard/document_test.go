package wizard_test

import (
	"testing"
	"time"

	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/core/domain/model/wizard"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Apply(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := wizard.NewDocument(4)
	doc.Apply(transfer.Event{ID: 1, Type: transfer.StatusChanged, Canister: 99, Value: "Pending", OccurredAt: at})

	applied := doc.Apply(transfer.Event{ID: 2, Type: transfer.PlanRecommended, BatchID: 8, RunID: "run", Cycle: 1, OccurredAt: at})
	doc.Apply(transfer.Event{ID: 3, Type: transfer.StatusChanged, Canister: 11, Value: "ToTrolleyDone", OccurredAt: at})
	doc.Apply(transfer.Event{ID: 4, Type: transfer.DeviceStageChanged, Cycle: 2, Device: 5, Value: "ToCSRDone", OccurredAt: at})

	state := doc.State()
	assert.True(t, applied)
	assert.Equal(t, "canister_transfer_4", doc.Name())
	assert.Equal(t, 0, doc.Version())
	assert.Equal(t, "run", state.RunID)
	assert.Equal(t, map[string]string{"11": "ToTrolleyDone"}, state.Canisters, "a new plan resets canister states")
	assert.Equal(t, "ToCSRDone", state.Stages["2:5"])
	assert.Equal(t, 2, state.CurrentCycle)
	assert.Equal(t, int64(4), state.LastEventID)
}

func TestDocument_IgnoresReplayedEvents(t *testing.T) {
	doc := wizard.RestoreDocument("canister_transfer_1", 3, wizard.State{LastEventID: 10})

	applied := doc.Apply(transfer.Event{ID: 9, Type: transfer.StatusChanged, Canister: 1, Value: "Done"})

	assert.False(t, applied)
	assert.Empty(t, doc.State().Canisters)
}
