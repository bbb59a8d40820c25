package observed_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/orderstore/internal/domain"
	"github.com/vladislavdragonenkov/orderstore/internal/metrics"
	"github.com/vladislavdragonenkov/orderstore/internal/storage/memory"
	"github.com/vladislavdragonenkov/orderstore/internal/storage/observed"
	"github.com/vladislavdragonenkov/orderstore/internal/storage/storagetest"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []domain.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.OrderEvent(nil), p.events...)
}

func newLogger() (*log.Entry, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	return log.NewEntry(logger).WithField("component", "test"), hook
}

func newOrder(id string) domain.Order {
	return domain.Order{
		ID:         id,
		CustomerID: "customer-1",
		Items: []domain.OrderItem{
			{ID: id + "-item", Name: "Produto 1", PriceMinor: 100, ProductID: "product-1", Quantity: 3},
		},
	}
}

func TestObservedRepositories_Contract(t *testing.T) {
	suite.Run(t, &storagetest.ContractSuite{
		NewRepositories: func(*testing.T) storagetest.Repositories {
			logger, _ := newLogger()
			m := metrics.NewRepositoryMetrics(prometheus.NewRegistry())
			return storagetest.Repositories{
				Customers: observed.Customers(memory.NewCustomerRepository(), logger, m),
				Products:  observed.Products(memory.NewProductRepository(), logger, m),
				Orders:    observed.Orders(memory.NewOrderRepository(), &recordingPublisher{}, logger, m),
			}
		},
	})
}

func TestOrders_PublishesEventsAfterWrites(t *testing.T) {
	ctx := context.Background()
	logger, _ := newLogger()
	publisher := &recordingPublisher{}
	repo := observed.Orders(memory.NewOrderRepository(), publisher, logger, nil)

	order := newOrder("order-1")
	require.NoError(t, repo.Create(ctx, order))

	order.CustomerID = "customer-2"
	require.NoError(t, repo.Update(ctx, order))

	events := publisher.Events()
	require.Len(t, events, 2)

	assert.Equal(t, domain.OrderEventCreated, events[0].Type)
	assert.Equal(t, "order-1", events[0].OrderID)
	assert.Equal(t, "customer-1", events[0].CustomerID)
	assert.EqualValues(t, 300, events[0].TotalMinor)
	assert.Equal(t, 1, events[0].ItemCount)

	assert.Equal(t, domain.OrderEventUpdated, events[1].Type)
	assert.Equal(t, "customer-2", events[1].CustomerID)
}

func TestOrders_FailedWriteDoesNotPublish(t *testing.T) {
	ctx := context.Background()
	logger, _ := newLogger()
	publisher := &recordingPublisher{}
	repo := observed.Orders(memory.NewOrderRepository(), publisher, logger, nil)

	err := repo.Update(ctx, newOrder("missing"))
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	require.NoError(t, repo.Create(ctx, newOrder("order-1")))
	require.ErrorIs(t, repo.Create(ctx, newOrder("order-1")), domain.ErrAlreadyExists)

	assert.Len(t, publisher.Events(), 1)
}

func TestOrders_PublishFailureIsNotReturned(t *testing.T) {
	ctx := context.Background()
	logger, hook := newLogger()
	reg := prometheus.NewRegistry()
	m := metrics.NewRepositoryMetrics(reg)
	publisher := &recordingPublisher{err: errors.New("broker unavailable")}
	inner := memory.NewOrderRepository()
	repo := observed.Orders(inner, publisher, logger, m)

	require.NoError(t, repo.Create(ctx, newOrder("order-1")))

	stored, err := inner.Find(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, newOrder("order-1"), stored)

	failures, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, family := range failures {
		if family.GetName() == "orderstore_order_event_publish_failures_total" {
			found = true
			assert.Equal(t, 1.0, family.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found)

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == log.WarnLevel && entry.Message == "Failed to publish order event" {
			warned = true
			assert.Equal(t, "order-1", entry.Data["order_id"])
		}
	}
	assert.True(t, warned)
}

func TestOrders_NilPublisher(t *testing.T) {
	logger, _ := newLogger()
	repo := observed.Orders(memory.NewOrderRepository(), nil, logger, nil)

	assert.NoError(t, repo.Create(context.Background(), newOrder("order-1")))
}

func TestRepository_RecordsOperationResults(t *testing.T) {
	ctx := context.Background()
	logger, hook := newLogger()
	reg := prometheus.NewRegistry()
	m := metrics.NewRepositoryMetrics(reg)
	repo := observed.Customers(memory.NewCustomerRepository(), logger, m)

	customer := domain.Customer{ID: "c-1", Name: "Carlos Henrique"}
	require.NoError(t, repo.Create(ctx, customer))
	require.ErrorIs(t, repo.Create(ctx, customer), domain.ErrAlreadyExists)
	_, err := repo.Find(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	expected := `
# HELP orderstore_repository_operations_total Total number of repository operations by entity, operation and result
# TYPE orderstore_repository_operations_total counter
orderstore_repository_operations_total{entity="customer",operation="create",result="conflict"} 1
orderstore_repository_operations_total{entity="customer",operation="create",result="ok"} 1
orderstore_repository_operations_total{entity="customer",operation="find",result="not_found"} 1
orderstore_repository_operations_total{entity="customer",operation="find_all",result="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "orderstore_repository_operations_total"))

	var rejected int
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Repository operation rejected" {
			rejected++
			assert.Equal(t, "customer", entry.Data["entity"])
			assert.Equal(t, "test", entry.Data["component"])
		}
	}
	assert.Equal(t, 2, rejected)
}
