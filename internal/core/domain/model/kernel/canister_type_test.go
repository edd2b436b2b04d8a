package kernel_test

import (
	"testing"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanisterType_Fits(t *testing.T) {
	tests := []struct {
		canister kernel.CanisterType
		slot     kernel.CanisterType
		fits     bool
	}{
		{kernel.Small, kernel.Small, true},
		{kernel.Small, kernel.Big, true},
		{kernel.Big, kernel.Big, true},
		{kernel.Big, kernel.Small, false},
	}

	for _, tt := range tests {
		t.Run(tt.canister.String()+"_in_"+tt.slot.String(), func(t *testing.T) {
			assert.Equal(t, tt.fits, tt.canister.Fits(tt.slot))
		})
	}
}

func TestCanisterType_ParseAndValidate(t *testing.T) {
	got, err := kernel.ParseCanisterType("big")
	require.NoError(t, err)
	assert.Equal(t, kernel.Big, got)

	_, err = kernel.ParseCanisterType("jumbo")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	require.ErrorIs(t, kernel.UnknownCanisterType.Validate(), errs.ErrValueIsInvalid)
	require.NoError(t, kernel.Small.Validate())
}

func TestCanisterType_TextRoundTrip(t *testing.T) {
	text, err := kernel.Big.MarshalText()
	require.NoError(t, err)

	var decoded kernel.CanisterType
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, kernel.Big, decoded)
}

func TestDeviceKind(t *testing.T) {
	kind, err := kernel.ParseDeviceKind("ElevatorTrolley")
	require.NoError(t, err)
	assert.True(t, kind.IsTrolley())
	assert.False(t, kernel.Robot.IsTrolley())

	require.Error(t, kernel.UnknownDeviceKind.Validate())
	assert.Equal(t, "CSR", kernel.CSR.String())
	assert.Equal(t, "Unknown", kernel.DeviceKind(42).String())
}
