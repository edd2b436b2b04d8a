package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"canistertransfer/internal/core/application/usecases/commands"
	"canistertransfer/internal/core/application/usecases/queries"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/ports"
	"canistertransfer/internal/generated/servers"
	"canistertransfer/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

func recommendResponse(r commands.RecommendTransfersResult) servers.RecommendResponse {
	resp := servers.RecommendResponse{
		Result:          servers.RecommendResponseResult(r.Code.String()),
		TransferCycleId: r.FirstCycle,
		Cycles:          r.Cycles,
		Assigned:        r.Assigned,
		Unassigned:      int64s(r.Unassigned),
		Deferred:        int64s(r.Deferred),
	}
	if len(r.InCart) > 0 {
		resp.InCart = int64s(r.InCart)
	}
	if r.RunID.Validate() == nil {
		resp.RunId = r.RunID.String()
	}
	return resp
}

func skipResponse(r commands.SkipCanisterTransfersResult) servers.SkipResponse {
	substituted := make(map[string]int64, len(r.Substituted))
	for skipped, alternate := range r.Substituted {
		substituted[strconv.FormatInt(int64(skipped), 10)] = int64(alternate)
	}
	return servers.SkipResponse{
		Skipped:     int64s(r.Skipped),
		Redirected:  int64s(r.Redirected),
		Substituted: substituted,
	}
}

func transferCycles(plan *queries.GetTransferCyclesQueryResponse) servers.TransferCycles {
	resp := servers.TransferCycles{
		RunId:        plan.RunID,
		BatchId:      int64(plan.BatchID),
		SystemId:     int64(plan.SystemID),
		CurrentCycle: plan.CurrentCycle,
		Unassigned:   int64s(plan.Unassigned),
		Cycles:       make([]servers.TransferCycle, len(plan.Cycles)),
	}
	for i, cycle := range plan.Cycles {
		devices := make([]servers.CycleDevice, len(cycle.Devices))
		for j, d := range cycle.Devices {
			devices[j] = servers.CycleDevice{
				DeviceId:      int64(d.Device),
				Stage:         d.Stage,
				ToCartCount:   d.ToCartCount,
				FromCartCount: d.FromCartCount,
			}
		}
		canisters := make([]servers.CycleCanister, len(cycle.Canisters))
		for j, c := range cycle.Canisters {
			canisters[j] = servers.CycleCanister{
				CanisterId:            int64(c.Canister),
				CanisterType:          c.CanisterType,
				TrolleyId:             int64(c.TrolleyDevice),
				TrolleyLocationId:     int64(c.TrolleyLocation),
				DestinationDeviceId:   int64(c.DestinationDevice),
				DestinationKind:       c.DestinationKind,
				DestinationLocationId: int64(c.DestinationLocation),
				AlternateFor:          int64(c.AlternateFor),
				Status:                c.Status,
				Seq:                   c.Seq,
			}
		}
		resp.Cycles[i] = servers.TransferCycle{Id: cycle.ID, Devices: devices, Canisters: canisters}
	}
	return resp
}

// alternatesOf parses the alternates object, whose keys are canister ids.
func alternatesOf(raw map[string]int64) (map[kernel.CanisterID]kernel.CanisterID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[kernel.CanisterID]kernel.CanisterID, len(raw))
	for key, alternate := range raw {
		skipped, err := strconv.ParseInt(key, 10, 64)
		if err != nil || skipped <= 0 {
			return nil, fmt.Errorf("invalid alternates key %q: want a canister id", key)
		}
		out[kernel.CanisterID(skipped)] = kernel.CanisterID(alternate)
	}
	return out, nil
}

func canisterIDs(ids []int64) []kernel.CanisterID {
	out := make([]kernel.CanisterID, len(ids))
	for i, id := range ids {
		out[i] = kernel.CanisterID(id)
	}
	return out
}

func int64s(ids []kernel.CanisterID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

// statusOf maps use case errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, commands.ErrRecommendationExists),
		errors.Is(err, commands.ErrAlreadyRunning),
		errors.Is(err, commands.ErrPriorBatchPending),
		errors.Is(err, ports.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, commands.ErrTransferNotFound),
		errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, commands.ErrPlaceRemainingCanisters),
		errors.Is(err, commands.ErrCycleIsNotActive),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the error text for client errors and with fallback
// for everything else. Internal errors are logged, not returned.
func writeError(c echo.Context, err error, fallback string) error {
	code := statusOf(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		c.Logger().Errorf("%s: %v", fallback, err)
		message = fallback
	}
	return c.JSON(code, servers.Error{Code: code, Message: message})
}
