package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"cylindertrack/internal/adapters/out/postgres/orderrepo"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"
	"cylindertrack/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
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

	// Get connection string and connect to database
	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Auto-migrate the schema
	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.LineDTO{},
		&orderrepo.ReworkRequestDTO{},
		&orderrepo.LifecycleEventDTO{},
		&orderrepo.PromiseChangeEventDTO{},
	))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	// Clean the database before each test
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE orders, order_lines, rework_requests, order_lifecycle_events, order_promise_change_events").Error)

	// Create fresh repository and tracker for each test
	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(orderNo string) *order.Order {
	aggregate, err := order.NewOrder(kernel.NewUUID(), orderNo, kernel.NewUUID(), kernel.NewUUID(), nil)
	suite.Require().NoError(err)
	_, err = aggregate.AddLine(kernel.NewUUID(), kernel.NewUUID(), "Cylinder", 3, nil, nil)
	suite.Require().NoError(err)
	return aggregate
}

func (suite *OrderRepositoryIntegrationTestSuite) restoreInStatus(orderNo string, status order.Status) *order.Order {
	aggregate, err := order.RestoreOrder(
		kernel.NewUUID(), orderNo, kernel.NewUUID(), kernel.NewUUID(),
		status, order.OverlayNone, "", kernel.RoleUnspecified, "",
		time.Now().UTC(), 1)
	suite.Require().NoError(err)
	return aggregate
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAddAndGet() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("SO-5001")
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())
	suite.Equal("SO-5001", retrieved.OrderNo())
	suite.Equal(order.Draft, retrieved.Status())
	suite.Equal(order.OverlayNone, retrieved.HoldOverlay())
	suite.Require().Len(retrieved.Lines(), 1)
	suite.Equal(1, retrieved.Lines()[0].LineNo())
	suite.Equal(3, retrieved.Lines()[0].Quantity())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetNotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetByOrderNo() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("SO-5002")
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.GetByOrderNo(ctx, "SO-5002")
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())

	_, err = suite.repository.GetByOrderNo(ctx, "SO-9999")
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdatePersistsStatusChange() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("SO-5003")
	suite.tracker.On("TrackAggregate", testOrder.ID(), mock.Anything).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	actor := kernel.SystemActor("test")
	suite.Require().NoError(retrieved.Advance(order.PendingOrderEntryValidation, actor))
	suite.Require().NoError(suite.repository.Update(ctx, retrieved))

	reloaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.PendingOrderEntryValidation, reloaded.Status())
	suite.Equal(2, reloaded.Version())
	suite.Equal(reloaded.Version(), retrieved.Version(),
		"the loaded aggregate must carry the version the row was written under")
}

func (suite *OrderRepositoryIntegrationTestSuite) TestSequentialUpdatesOfSameAggregate() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("SO-5012")
	suite.tracker.On("TrackAggregate", testOrder.ID(), mock.Anything).Times(3)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	actor := kernel.SystemActor("test")

	suite.Require().NoError(retrieved.Advance(order.PendingOrderEntryValidation, actor))
	suite.Require().NoError(suite.repository.Update(ctx, retrieved))

	suite.Require().NoError(retrieved.Advance(order.InboundLogisticsPlanned, actor))
	suite.Require().NoError(suite.repository.Update(ctx, retrieved))

	reloaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.InboundLogisticsPlanned, reloaded.Status())
	suite.Equal(3, reloaded.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateAppendsLifecycleEvents() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("SO-5013")
	suite.tracker.On("TrackAggregate", testOrder.ID(), mock.Anything).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	actor := kernel.Actor{EmpNo: "E301", Role: kernel.RoleOffice, Source: "web"}
	suite.Require().NoError(retrieved.Advance(order.PendingOrderEntryValidation, actor))
	suite.Require().NoError(suite.repository.Update(ctx, retrieved))

	suite.Empty(retrieved.PendingEvents(),
		"persisted events must be cleared from the aggregate")

	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.LifecycleEventDTO{}).
		Where("order_id = ?", testOrder.ID().Bytes()).Count(&count).Error)
	suite.Require().EqualValues(1, count)

	var row orderrepo.LifecycleEventDTO
	suite.Require().NoError(suite.db.
		First(&row, "order_id = ?", testOrder.ID().Bytes()).Error)
	suite.Equal(string(order.EventStatusChanged), row.EventType)
	suite.Equal(order.Draft.String(), row.FromStatus)
	suite.Equal(order.PendingOrderEntryValidation.String(), row.ToStatus)
	suite.Equal("E301", row.ActorEmpNo)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateAppendsPromiseChangeEvents() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("SO-5014")
	suite.Require().NoError(testOrder.SetPromisedDate(time.Now().UTC().Add(72 * time.Hour)))
	suite.tracker.On("TrackAggregate", testOrder.ID(), mock.Anything).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	actor := kernel.Actor{EmpNo: "E302", Role: kernel.RoleOffice, Source: "web"}
	newDate := time.Now().UTC().Add(120 * time.Hour)
	suite.Require().NoError(retrieved.RevisePromiseDate(newDate, "SUPPLY-DELAY", actor))
	suite.Require().NoError(suite.repository.Update(ctx, retrieved))

	suite.Empty(retrieved.PendingPromiseEvents())

	var row orderrepo.PromiseChangeEventDTO
	suite.Require().NoError(suite.db.
		First(&row, "order_id = ?", testOrder.ID().Bytes()).Error)
	suite.Equal("SUPPLY-DELAY", row.ReasonCode)
	suite.Equal(1, row.RevisionNo)
	suite.Equal("E302", row.ActorEmpNo)
	suite.WithinDuration(newDate, row.NewDate, time.Second)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdatePersistsReworkRequests() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("SO-5015")
	lineID := testOrder.Lines()[0].ID()
	suite.tracker.On("TrackAggregate", testOrder.ID(), mock.Anything).Times(3)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	actor := kernel.Actor{EmpNo: "E303", Role: kernel.RoleSupervisor, Source: "web"}
	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(retrieved.OpenRework(lineID, "RW-01", actor))
	suite.Require().NoError(suite.repository.Update(ctx, retrieved))

	reloaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(reloaded.ReworkRequests(), 1)
	request := reloaded.ReworkRequests()[0]
	suite.True(request.Open())
	suite.Equal("RW-01", request.ReasonCode())
	suite.Equal("E303", request.RequestedBy())
	suite.Equal(1, reloaded.OpenReworkCount())

	suite.Require().NoError(reloaded.CloseRework(lineID, actor, "defect reground"))
	suite.Require().NoError(suite.repository.Update(ctx, reloaded))

	final, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(final.ReworkRequests(), 1)
	closed := final.ReworkRequests()[0]
	suite.False(closed.Open())
	suite.Require().NotNil(closed.ClosedAt())
	suite.Equal("E303", closed.ClosedBy())
	suite.Equal("defect reground", closed.Note())
	suite.Equal(0, final.OpenReworkCount())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateDetectsConcurrentWriter() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("SO-5004")
	suite.tracker.On("TrackAggregate", testOrder.ID(), mock.Anything).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	first, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	actor := kernel.SystemActor("test")
	suite.Require().NoError(first.Advance(order.PendingOrderEntryValidation, actor))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.Advance(order.PendingOrderEntryValidation, actor))
	err = suite.repository.Update(ctx, second)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrConcurrencyConflict)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllInvoiceReady() {
	ctx := context.Background()
	ready := suite.restoreInStatus("SO-5005", order.InvoiceReady)
	submitted := suite.restoreInStatus("SO-5006", order.InvoiceReady)
	now := time.Now().UTC()
	submitted.RestoreAuxiliary(nil, nil, nil, nil, 0, "", nil, "Staged", "ERP-1", &now, 0, "", nil)
	draft := suite.restoreInStatus("SO-5007", order.Draft)

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Times(3)
	suite.Require().NoError(suite.repository.Add(ctx, ready))
	suite.Require().NoError(suite.repository.Add(ctx, submitted))
	suite.Require().NoError(suite.repository.Add(ctx, draft))

	result, err := suite.repository.GetAllInvoiceReady(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(ready.ID(), result[0].ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllWithLegacyStatus() {
	ctx := context.Background()
	unmigrated := suite.restoreInStatus("SO-5008", order.Draft)
	unmigrated.RestoreAuxiliary(nil, nil, nil, nil, 0, "", nil, "", "", nil, 0, "received", nil)
	now := time.Now().UTC()
	migrated := suite.restoreInStatus("SO-5009", order.ReceivedPendingReconciliation)
	migrated.RestoreAuxiliary(nil, nil, nil, nil, 0, "", nil, "", "", nil, 0, "received", &now)

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, unmigrated))
	suite.Require().NoError(suite.repository.Add(ctx, migrated))

	result, err := suite.repository.GetAllWithLegacyStatus(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(unmigrated.ID(), result[0].ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllCustomerHoldDue() {
	ctx := context.Background()
	now := time.Now().UTC()

	due, err := order.RestoreOrder(
		kernel.NewUUID(), "SO-5010", kernel.NewUUID(), kernel.NewUUID(),
		order.ReadyForProduction, order.OnHoldCustomer, "CustomerNotReady", kernel.RoleOffice, "",
		now, 1)
	suite.Require().NoError(err)
	due.RestoreAuxiliary(&order.CustomerHoldDetails{
		ReadyRetryUtc:  now.Add(-time.Hour),
		LastContactUtc: now.Add(-48 * time.Hour),
		ContactName:    "Pat",
	}, nil, nil, nil, 0, "", nil, "", "", nil, 0, "", nil)

	notDue, err := order.RestoreOrder(
		kernel.NewUUID(), "SO-5011", kernel.NewUUID(), kernel.NewUUID(),
		order.ReadyForProduction, order.OnHoldCustomer, "CustomerNotReady", kernel.RoleOffice, "",
		now, 1)
	suite.Require().NoError(err)
	notDue.RestoreAuxiliary(&order.CustomerHoldDetails{
		ReadyRetryUtc:  now.Add(time.Hour),
		LastContactUtc: now.Add(-48 * time.Hour),
		ContactName:    "Pat",
	}, nil, nil, nil, 0, "", nil, "", "", nil, 0, "", nil)

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, due))
	suite.Require().NoError(suite.repository.Add(ctx, notDue))

	result, err := suite.repository.GetAllCustomerHoldDue(ctx, now)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(due.ID(), result[0].ID())
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
