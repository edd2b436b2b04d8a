package http

import (
	"context"
	"fmt"
	"net/http"

	"canistertransfer/internal/core/application/usecases/commands"
	"canistertransfer/internal/core/application/usecases/queries"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// Use case contracts the server depends on. The command and query handlers
// satisfy them as they are.
type (
	RecommendTransfersHandler interface {
		Handle(ctx context.Context, command commands.RecommendTransfersCommand) (commands.RecommendTransfersResult, error)
	}

	ConfirmCanisterPlacementHandler interface {
		Handle(ctx context.Context, command commands.ConfirmCanisterPlacementCommand) (transfer.Status, error)
	}

	CompleteDeviceStageHandler interface {
		Handle(ctx context.Context, command commands.CompleteDeviceStageCommand) (commands.CompleteDeviceStageResult, error)
	}

	SkipCanisterTransfersHandler interface {
		Handle(ctx context.Context, command commands.SkipCanisterTransfersCommand) (commands.SkipCanisterTransfersResult, error)
	}

	TransferLaterHandler interface {
		Handle(ctx context.Context, command commands.TransferLaterCommand) error
	}

	GetTransferCyclesHandler interface {
		Handle(ctx context.Context, query queries.GetTransferCyclesQuery) (*queries.GetTransferCyclesQueryResponse, error)
	}

	GetCanisterHistoryHandler interface {
		Handle(ctx context.Context, query queries.GetCanisterHistoryQuery) ([]queries.StatusView, error)
	}
)

// Server implements servers.ServerInterface. It maps the transfer REST API
// onto the application use cases.
type Server struct {
	// Command handlers
	recommend RecommendTransfersHandler
	confirm   ConfirmCanisterPlacementHandler
	complete  CompleteDeviceStageHandler
	skip      SkipCanisterTransfersHandler
	later     TransferLaterHandler

	// Query handlers
	cycles  GetTransferCyclesHandler
	history GetCanisterHistoryHandler
}

// NewServer creates the HTTP server over the command and query handlers.
// Every handler is required.
func NewServer(
	recommend RecommendTransfersHandler,
	confirm ConfirmCanisterPlacementHandler,
	complete CompleteDeviceStageHandler,
	skip SkipCanisterTransfersHandler,
	later TransferLaterHandler,
	cycles GetTransferCyclesHandler,
	history GetCanisterHistoryHandler,
) *Server {
	return &Server{
		recommend: recommend,
		confirm:   confirm,
		complete:  complete,
		skip:      skip,
		later:     later,
		cycles:    cycles,
		history:   history,
	}
}

var _ servers.ServerInterface = (*Server)(nil)

// Register mounts the API behind OpenAPI request validation, the Swagger UI,
// the health check and, when metrics is not nil, the Prometheus endpoint.
func (s *Server) Register(e *echo.Echo, metrics http.Handler) error {
	swagger, err := servers.GetSwagger()
	if err != nil {
		return fmt.Errorf("load openapi document: %w", err)
	}
	if err = registerSwaggerDoc(swagger); err != nil {
		return err
	}
	validator, err := RequestValidator(swagger)
	if err != nil {
		return err
	}

	e.Use(validator)
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
	e.GET("/swagger/*", swaggerUI)
	servers.RegisterHandlers(e, s)
	return nil
}

// RecommendTransfers handles POST /api/v1/batches/{batchId}/transfer-recommendations.
func (s *Server) RecommendTransfers(c echo.Context, batchID servers.BatchId) error {
	var body servers.RecommendTransfersJSONRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	command, err := commands.NewRecommendTransfersCommand(kernel.BatchID(batchID), kernel.SystemID(body.SystemId))
	if err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid recommendation request: " + err.Error(),
		})
	}

	result, err := s.recommend.Handle(c.Request().Context(), command)
	response := recommendResponse(result)
	if err != nil {
		if result.Code == commands.AlreadyRunning || result.Code == commands.PriorBatchPending {
			return c.JSON(http.StatusConflict, response)
		}
		return writeError(c, err, "Transfer recommendation failed")
	}

	return c.JSON(http.StatusOK, response)
}

// GetTransferCycles handles GET /api/v1/batches/{batchId}/transfer-cycles.
func (s *Server) GetTransferCycles(c echo.Context, batchID servers.BatchId) error {
	query, err := queries.NewGetTransferCyclesQuery(kernel.BatchID(batchID))
	if err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	plan, err := s.cycles.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err, "Failed to retrieve transfer cycles")
	}
	return c.JSON(http.StatusOK, transferCycles(plan))
}

// GetCanisterHistory handles GET /api/v1/batches/{batchId}/canisters/{canisterId}/history.
func (s *Server) GetCanisterHistory(c echo.Context, batchID servers.BatchId, canisterID servers.CanisterId) error {
	query, err := queries.NewGetCanisterHistoryQuery(kernel.BatchID(batchID), kernel.CanisterID(canisterID))
	if err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	history, err := s.history.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err, "Failed to retrieve canister history")
	}

	response := make([]servers.StatusEntry, len(history))
	for i, h := range history {
		response[i] = servers.StatusEntry{
			Seq:     h.Seq,
			Status:  h.Status,
			Comment: h.Comment,
			UserId:  h.UserID,
			At:      h.At,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// ConfirmCanisterPlacement handles POST /api/v1/batches/{batchId}/canisters/{canisterId}/confirmations.
func (s *Server) ConfirmCanisterPlacement(c echo.Context, batchID servers.BatchId, canisterID servers.CanisterId) error {
	var body servers.ConfirmCanisterPlacementJSONRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	stage, err := transfer.ParseStage(string(body.Stage))
	if err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	command, err := commands.NewConfirmCanisterPlacementCommand(
		kernel.BatchID(batchID), kernel.CanisterID(canisterID), stage, body.UserId,
	)
	if err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid confirmation: " + err.Error(),
		})
	}

	status, err := s.confirm.Handle(c.Request().Context(), command)
	if err != nil {
		return writeError(c, err, "Failed to confirm canister placement")
	}
	return c.JSON(http.StatusOK, servers.StatusResponse{CanisterId: canisterID, Status: status.String()})
}

// CompleteDeviceStage handles POST /api/v1/batches/{batchId}/cycles/{cycleId}/devices/{deviceId}/stages.
func (s *Server) CompleteDeviceStage(
	c echo.Context,
	batchID servers.BatchId,
	cycleID servers.CycleId,
	deviceID servers.DeviceId,
) error {
	var body servers.CompleteDeviceStageJSONRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	stage, err := transfer.ParseStage(string(body.Stage))
	if err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	command, err := commands.NewCompleteDeviceStageCommand(
		kernel.BatchID(batchID), cycleID, kernel.DeviceID(deviceID), stage, body.UserId,
	)
	if err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid stage completion: " + err.Error(),
		})
	}

	result, err := s.complete.Handle(c.Request().Context(), command)
	if err != nil {
		return writeError(c, err, "Failed to complete device stage")
	}
	return c.JSON(http.StatusOK, servers.StageResponse{Stage: result.Stage.String(), CycleDone: result.CycleDone})
}

// SkipCanisterTransfers handles POST /api/v1/batches/{batchId}/transfers/skip.
func (s *Server) SkipCanisterTransfers(c echo.Context, batchID servers.BatchId) error {
	var body servers.SkipCanisterTransfersJSONRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	stage, err := transfer.ParseStage(string(body.Stage))
	if err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}
	alternates, err := alternatesOf(body.Alternates)
	if err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	command, err := commands.NewSkipCanisterTransfersCommand(
		kernel.BatchID(batchID),
		stage,
		canisterIDs(body.Canisters),
		alternates,
		body.Deactivate,
		body.Comment,
		body.UserId,
	)
	if err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid skip request: " + err.Error(),
		})
	}

	result, err := s.skip.Handle(c.Request().Context(), command)
	if err != nil {
		return writeError(c, err, "Failed to skip canister transfers")
	}
	return c.JSON(http.StatusOK, skipResponse(result))
}

// TransferLater handles POST /api/v1/batches/{batchId}/transfers/later.
func (s *Server) TransferLater(c echo.Context, batchID servers.BatchId) error {
	var body servers.TransferLaterJSONRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	command, err := commands.NewTransferLaterCommand(
		kernel.BatchID(batchID), canisterIDs(body.Canisters), body.Comment, body.UserId,
	)
	if err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid transfer later request: " + err.Error(),
		})
	}

	if err = s.later.Handle(c.Request().Context(), command); err != nil {
		return writeError(c, err, "Failed to postpone canister transfers")
	}
	return c.NoContent(http.StatusNoContent)
}
