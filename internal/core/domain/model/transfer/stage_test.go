package transfer_test

import (
	"testing"

	"canistertransfer/internal/core/domain/model/transfer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStage_Complete(t *testing.T) {
	tests := []struct {
		name   string
		from   transfer.Stage
		target transfer.Stage
		work   transfer.StageWork
		want   transfer.Stage
	}{
		{"trolley with robot work", transfer.StagePending, transfer.StageToTrolleyDone,
			transfer.StageWork{RobotBound: true, CSRBound: true}, transfer.StageToTrolleyDone},
		{"trolley without robot work", transfer.StagePending, transfer.StageToTrolleyDone,
			transfer.StageWork{CSRBound: true}, transfer.StageToRobotDone},
		{"trolley without any destination work", transfer.StagePending, transfer.StageToTrolleyDone,
			transfer.StageWork{}, transfer.StageToCSRDone},
		{"robot without csr work", transfer.StageToTrolleyDone, transfer.StageToRobotDone,
			transfer.StageWork{RobotBound: true}, transfer.StageToCSRDone},
		{"csr", transfer.StageToRobotDone, transfer.StageToCSRDone,
			transfer.StageWork{CSRBound: true}, transfer.StageToCSRDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Complete(tt.target, tt.work)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStage_CompleteRejectsJumps(t *testing.T) {
	_, err := transfer.StagePending.Complete(transfer.StageToRobotDone, transfer.StageWork{})
	require.Error(t, err)

	_, err = transfer.StageToCSRDone.Complete(transfer.StageToCSRDone+1, transfer.StageWork{})
	require.Error(t, err)

	_, err = transfer.StageToTrolleyDone.Complete(transfer.StageToTrolleyDone, transfer.StageWork{})
	require.Error(t, err)
}

func TestParseStage(t *testing.T) {
	st, err := transfer.ParseStage("ToRobotDone")
	require.NoError(t, err)
	assert.Equal(t, transfer.StageToRobotDone, st)

	_, err = transfer.ParseStage("Unknown")
	require.Error(t, err)
}
