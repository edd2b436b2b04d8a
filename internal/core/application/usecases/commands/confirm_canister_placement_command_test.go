package commands_test

import (
	"testing"

	"canistertransfer/internal/core/application/usecases/commands"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfirmCanisterPlacementCommand_ValidInput(t *testing.T) {
	cmd, err := commands.NewConfirmCanisterPlacementCommand(42, 101, transfer.StageToRobotDone, 5)
	require.NoError(t, err)
	assert.Equal(t, kernel.BatchID(42), cmd.BatchID())
	assert.Equal(t, kernel.CanisterID(101), cmd.CanisterID())
	assert.Equal(t, transfer.StageToRobotDone, cmd.Stage())
	assert.Equal(t, int64(5), cmd.UserID())
}

func TestNewConfirmCanisterPlacementCommand_InvalidInput(t *testing.T) {
	_, err := commands.NewConfirmCanisterPlacementCommand(0, 0, transfer.StagePending, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrBatchIDIsRequired)
	assert.ErrorIs(t, err, commands.ErrCanisterIDIsRequired)
	assert.ErrorIs(t, err, commands.ErrStageIsInvalid)
}
