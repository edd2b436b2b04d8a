package outboxrepo_test

import (
	"context"
	"testing"
	"time"

	"canistertransfer/internal/adapters/out/postgres/outboxrepo"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type EventOutboxIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	outbox    *outboxrepo.GormEventOutbox
}

func (suite *EventOutboxIntegrationTestSuite) SetupSuite() {
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

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&outboxrepo.EventDTO{}))
}

func (suite *EventOutboxIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE canister_transfer_events RESTART IDENTITY").Error)
	suite.outbox = outboxrepo.NewGormEventOutbox(suite.db)
}

func (suite *EventOutboxIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func event(typ transfer.EventType, value string) transfer.Event {
	return transfer.Event{
		Type:       typ,
		RunID:      "8f14e45f-ceea-4e7a-9c1b-2f5a3e6d7c80",
		BatchID:    42,
		SystemID:   7,
		Cycle:      1,
		Canister:   101,
		Value:      value,
		Attributes: map[string]string{"comment": "scan"},
		OccurredAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func (suite *EventOutboxIntegrationTestSuite) TestAppend_AssignsIDs() {
	ctx := context.Background()
	events := []transfer.Event{
		event(transfer.StatusChanged, "ToTrolleyDone"),
		event(transfer.StatusChanged, "ToRobotDone"),
	}

	suite.Require().NoError(suite.outbox.Append(ctx, events...))

	suite.Positive(events[0].ID)
	suite.Greater(events[1].ID, events[0].ID)

	pending, err := suite.outbox.Pending(ctx, 10)
	suite.Require().NoError(err)
	suite.Equal(events, pending)
}

func (suite *EventOutboxIntegrationTestSuite) TestAppend_RejectsUntypedEvent() {
	err := suite.outbox.Append(context.Background(), transfer.Event{})
	suite.Require().ErrorIs(err, errs.ErrValueIsRequired)
}

func (suite *EventOutboxIntegrationTestSuite) TestPending_RespectsLimitAndPublished() {
	ctx := context.Background()
	events := []transfer.Event{
		event(transfer.PlanRecommended, ""),
		event(transfer.StatusChanged, "ToTrolleyDone"),
		event(transfer.DeviceStageChanged, "ToTrolleyDone"),
	}
	suite.Require().NoError(suite.outbox.Append(ctx, events...))

	first, err := suite.outbox.Pending(ctx, 2)
	suite.Require().NoError(err)
	suite.Require().Len(first, 2)
	suite.Equal(events[0].ID, first[0].ID)

	suite.Require().NoError(suite.outbox.MarkPublished(ctx, []int64{first[0].ID, first[1].ID}))

	rest, err := suite.outbox.Pending(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(rest, 1)
	suite.Equal(events[2].ID, rest[0].ID)
}

func (suite *EventOutboxIntegrationTestSuite) TestPending_InvalidLimit() {
	_, err := suite.outbox.Pending(context.Background(), 0)
	suite.Require().ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func (suite *EventOutboxIntegrationTestSuite) TestMarkPublished_NoIDs() {
	suite.Require().NoError(suite.outbox.MarkPublished(context.Background(), nil))
}

func TestEventOutboxIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(EventOutboxIntegrationTestSuite))
}
