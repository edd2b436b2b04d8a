package queries_test

import (
	"context"
	"testing"
	"time"

	"canistertransfer/internal/adapters/out/postgres/transferrepo"
	"canistertransfer/internal/core/application/usecases/queries"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/core/domain/model/trolley"
	"canistertransfer/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const testBatch kernel.BatchID = 42

func batchID(v int64) kernel.BatchID { return kernel.BatchID(v) }

func canisterID(v int64) kernel.CanisterID { return kernel.CanisterID(v) }

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

type QueryHandlersTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *transferrepo.GormTransferRepository
	cycles    queries.GetTransferCyclesQueryHandler
	history   queries.GetCanisterHistoryQueryHandler
}

func (suite *QueryHandlersTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&transferrepo.RunDTO{},
		&transferrepo.AssignmentDTO{},
		&transferrepo.StatusDTO{},
		&transferrepo.CycleDeviceDTO{},
	)
	suite.Require().NoError(err)

	suite.repo = transferrepo.NewGormTransferRepository(db, noopTracker{})
	suite.cycles = queries.NewGetTransferCyclesQueryHandler(db)
	suite.history = queries.NewGetCanisterHistoryQueryHandler(db)
}

func (suite *QueryHandlersTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *QueryHandlersTestSuite) SetupTest() {
	err := suite.db.Exec(`TRUNCATE TABLE
		canister_transfer_runs,
		canister_transfer_assignments,
		canister_transfer_status_history,
		canister_transfer_cycle_devices`).Error
	suite.Require().NoError(err)
}

func toRobot(canister kernel.CanisterID, cycle int, trolleyLocation kernel.LocationID) transfer.Assignment {
	return transfer.Assignment{
		Canister:        canister,
		CanisterType:    kernel.Small,
		Cycle:           cycle,
		TrolleyDevice:   300,
		TrolleyLocation: trolleyLocation,
		Destination: transfer.Destination{
			Device:      20,
			Kind:        kernel.Robot,
			Quadrant:    1,
			Location:    kernel.LocationID(2000 + canister),
			DrawerLevel: 5,
			Class:       trolley.Normal,
		},
		SourceDevice:   10,
		SourceLocation: kernel.LocationID(1000 + canister),
	}
}

// savePlan stores two cycles: canisters 101 and 102 in cycle 1, 103 in cycle 2.
func (suite *QueryHandlersTestSuite) savePlan() *transfer.Plan {
	assignments := []transfer.Assignment{
		toRobot(101, 1, 501),
		toRobot(102, 1, 502),
		toRobot(103, 2, 501),
	}
	cycles := []*transfer.Cycle{transfer.NewCycle(1), transfer.NewCycle(2)}
	for _, a := range assignments {
		cycles[a.Cycle-1].RecordTransfer(a.SourceDevice, a.Destination.Device, a.TrolleyDevice, a.Destination.Class)
	}

	plan, err := transfer.NewPlan(kernel.NewUUID(), testBatch, 7, assignments, cycles, []kernel.CanisterID{104})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.SavePlan(context.Background(), plan))
	return plan
}

func (suite *QueryHandlersTestSuite) TestGetTransferCycles_ReturnsPlanWithLatestStatuses() {
	ctx := context.Background()
	plan := suite.savePlan()

	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	suite.Require().NoError(suite.repo.AppendStatus(ctx, testBatch, transfer.InitialRecord(101, at).Next(transfer.ToTrolleyDone, "", 5, at)))

	query, err := queries.NewGetTransferCyclesQuery(testBatch)
	suite.Require().NoError(err)

	result, err := suite.cycles.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(plan.RunID().String(), result.RunID)
	suite.Equal(kernel.SystemID(7), result.SystemID)
	suite.Equal(1, result.CurrentCycle)
	suite.Equal([]kernel.CanisterID{104}, result.Unassigned)
	suite.Require().Len(result.Cycles, 2)

	first := result.Cycles[0]
	suite.Equal(1, first.ID)
	suite.Equal([]queries.DeviceView{
		{Device: 10, Stage: "Pending", ToCartCount: 2},
		{Device: 20, Stage: "Pending", FromCartCount: 2},
	}, first.Devices)
	suite.Require().Len(first.Canisters, 2)
	suite.Equal(queries.CanisterView{
		Canister:            101,
		CanisterType:        "Small",
		TrolleyDevice:       300,
		TrolleyLocation:     501,
		DestinationDevice:   20,
		DestinationKind:     "Robot",
		DestinationLocation: 2101,
		Status:              "ToTrolleyDone",
		Seq:                 2,
	}, first.Canisters[0])
	suite.Equal("Pending", first.Canisters[1].Status)

	suite.Require().Len(result.Cycles[1].Canisters, 1)
	suite.Equal(kernel.CanisterID(103), result.Cycles[1].Canisters[0].Canister)
}

func (suite *QueryHandlersTestSuite) TestGetTransferCycles_CurrentCycleFollowsStages() {
	ctx := context.Background()
	suite.savePlan()

	for _, device := range []kernel.DeviceID{10, 20} {
		suite.Require().NoError(suite.repo.UpdateCycleStage(ctx, testBatch, 1, device, transfer.StageToCSRDone))
	}

	query, err := queries.NewGetTransferCyclesQuery(testBatch)
	suite.Require().NoError(err)

	result, err := suite.cycles.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(2, result.CurrentCycle)
	suite.Equal("ToCSRDone", result.Cycles[0].Devices[0].Stage)
}

func (suite *QueryHandlersTestSuite) TestGetTransferCycles_UnknownBatch() {
	query, err := queries.NewGetTransferCyclesQuery(999)
	suite.Require().NoError(err)

	result, err := suite.cycles.Handle(context.Background(), query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Nil(result)
}

func (suite *QueryHandlersTestSuite) TestGetTransferCycles_InvalidQuery() {
	result, err := suite.cycles.Handle(context.Background(), queries.GetTransferCyclesQuery{})
	suite.Require().ErrorIs(err, queries.ErrGetTransferCyclesQueryIsNotConstructed)
	suite.Nil(result)
}

func (suite *QueryHandlersTestSuite) TestGetCanisterHistory_OldestFirst() {
	ctx := context.Background()
	suite.savePlan()

	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	next := transfer.InitialRecord(102, at).Next(transfer.TransferLater, "no time", 5, at.Add(time.Minute))
	suite.Require().NoError(suite.repo.AppendStatus(ctx, testBatch, next))

	query, err := queries.NewGetCanisterHistoryQuery(testBatch, 102)
	suite.Require().NoError(err)

	history, err := suite.history.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(history, 2)
	suite.Equal("Pending", history[0].Status)
	suite.Equal(queries.StatusView{
		Seq:     2,
		Status:  "TransferLater",
		Comment: "no time",
		UserID:  5,
		At:      at.Add(time.Minute),
	}, history[1])
}

func (suite *QueryHandlersTestSuite) TestGetCanisterHistory_UnknownCanister() {
	query, err := queries.NewGetCanisterHistoryQuery(testBatch, 555)
	suite.Require().NoError(err)

	_, err = suite.history.Handle(context.Background(), query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueryHandlersTestSuite) TestHandle_ContextCancellation_ReturnsError() {
	suite.savePlan()

	query, err := queries.NewGetTransferCyclesQuery(testBatch)
	suite.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := suite.cycles.Handle(ctx, query)
	suite.Require().Error(err)
	suite.Nil(result)
}

func TestQueryHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(QueryHandlersTestSuite))
}
