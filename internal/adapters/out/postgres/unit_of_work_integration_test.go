package postgres_test

import (
	"context"
	"testing"
	"time"

	"ordering/internal/adapters/out/postgres"
	"ordering/internal/adapters/out/postgres/idemrepo"
	"ordering/internal/adapters/out/postgres/orderrepo"
	"ordering/internal/adapters/out/postgres/stockrepo"
	"ordering/internal/core/domain/model/idempotency"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/model/stock"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies that the order lifecycle's atomic
// units really are atomic: reservation plus order placement commit or roll
// back as a whole, and the idempotency claim survives a rolled-back
// transaction because it lives on the base connection.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
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

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}, &orderrepo.StatusChangeDTO{},
		&stockrepo.StockDTO{}, &idemrepo.RecordDTO{},
	))

	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE orders, order_items, order_status_changes, stock_records, idempotency_records",
	).Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	// Begin is idempotent within one unit of work.
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Commit(ctx))

	// Closed transaction cannot be reused.
	suite.ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_MakesAllWritesVisible() {
	ctx := context.Background()
	item := suite.seedStock(10)
	testOrder := suite.newOrder(item.ItemID(), 3)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(uow.StockRepository().Reserve(ctx, item.ItemID(), 3))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	suite.Require().NoError(uow.Commit(ctx))

	verifier := suite.factory.Create()
	loaded, err := verifier.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(loaded.IsEqual(testOrder))

	remaining, err := verifier.StockRepository().Get(ctx, item.ItemID())
	suite.Require().NoError(err)
	suite.Equal(7, remaining.Available())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsAllWrites() {
	ctx := context.Background()
	item := suite.seedStock(10)
	testOrder := suite.newOrder(item.ItemID(), 3)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(uow.StockRepository().Reserve(ctx, item.ItemID(), 3))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	suite.Require().NoError(uow.Rollback(ctx))

	verifier := suite.factory.Create()
	_, err := verifier.OrderRepository().Get(ctx, testOrder.ID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)

	remaining, err := verifier.StockRepository().Get(ctx, item.ItemID())
	suite.Require().NoError(err)
	suite.Equal(10, remaining.Available())
}

// The claim taken before Begin lands on the base connection, so it is not
// undone when the transaction rolls back. This is what keeps a failed
// placement attempt visible to concurrent duplicates.
func (suite *UnitOfWorkIntegrationTestSuite) TestClaimBeforeBegin_SurvivesRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	guard := uow.IdempotencyRepository()
	record, err := idempotency.NewRecord("create-order:req-1", time.Now().UTC(), 24*time.Hour)
	suite.Require().NoError(err)

	existing, err := guard.Claim(ctx, record)
	suite.Require().NoError(err)
	suite.Nil(existing)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))

	verifier := suite.factory.Create()
	loaded, err := verifier.IdempotencyRepository().Get(ctx, record.Key())
	suite.Require().NoError(err)
	suite.Equal(idempotency.StatusInProgress, loaded.Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCompletionInsideTransaction_RollsBackWithIt() {
	ctx := context.Background()
	uow := suite.factory.Create()

	guard := uow.IdempotencyRepository()
	record, err := idempotency.NewRecord("create-order:req-1", time.Now().UTC(), 24*time.Hour)
	suite.Require().NoError(err)

	_, err = guard.Claim(ctx, record)
	suite.Require().NoError(err)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(record.Complete("some-order-id"))
	suite.Require().NoError(uow.IdempotencyRepository().Update(ctx, record))
	suite.Require().NoError(uow.Rollback(ctx))

	verifier := suite.factory.Create()
	loaded, err := verifier.IdempotencyRepository().Get(ctx, record.Key())
	suite.Require().NoError(err)
	suite.Equal(idempotency.StatusInProgress, loaded.Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCancellationWorkflow_RestoresStockAtomically() {
	ctx := context.Background()
	item := suite.seedStock(10)
	testOrder := suite.newOrder(item.ItemID(), 4)

	// Place the order.
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.StockRepository().Reserve(ctx, item.ItemID(), 4))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.Commit(ctx))

	// Cancel it, restoring stock in the same transaction as the status write.
	cancelUow := suite.factory.Create()
	suite.Require().NoError(cancelUow.Begin(ctx))

	loaded, err := cancelUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	changed, err := loaded.ChangeStatus(order.Cancelled, kernel.NewUUID(), time.Now().UTC())
	suite.Require().NoError(err)
	suite.True(changed)

	suite.Require().NoError(cancelUow.OrderRepository().Update(ctx, loaded))
	suite.Require().NoError(cancelUow.StockRepository().Restore(ctx, item.ItemID(), 4))
	suite.Require().NoError(cancelUow.Commit(ctx))

	verifier := suite.factory.Create()
	final, err := verifier.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Cancelled, final.Status())

	remaining, err := verifier.StockRepository().Get(ctx, item.ItemID())
	suite.Require().NoError(err)
	suite.Equal(10, remaining.Available())
}

func (suite *UnitOfWorkIntegrationTestSuite) seedStock(available int) *stock.StockRecord {
	record, err := stock.NewStockRecord(kernel.NewUUID(), available)
	suite.Require().NoError(err)

	repo := stockrepo.NewGormStockRepository(suite.db)
	suite.Require().NoError(repo.Add(context.Background(), record))
	return record
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(itemID kernel.UUID, quantity int) *order.Order {
	item, err := order.NewLineItem(itemID, "espresso", 350, quantity)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]order.LineItem{item}, time.Now().UTC(),
	)
	suite.Require().NoError(err)
	return testOrder
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
