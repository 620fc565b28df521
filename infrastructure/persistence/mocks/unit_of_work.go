package mocks

import (
	"context"

	"github.com/dschaly/developer-store-sales-api-sub000/domain/shared"
	"github.com/dschaly/developer-store-sales-api-sub000/pkg/logger"

	"go.uber.org/zap"
)

// MockUnitOfWork is a UnitOfWork without real transactions, used when the
// service runs against in-memory repositories. It still drains events from
// registered aggregates so event-recording behavior stays observable.
type MockUnitOfWork struct {
	aggregates []shared.AggregateRoot

	// Published collects every event drained across Execute calls so tests
	// can assert on what would have reached the outbox.
	Published []shared.DomainEvent
}

// NewMockUnitOfWork creates a new MockUnitOfWork instance
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		aggregates: make([]shared.AggregateRoot, 0),
	}
}

// Execute runs the business function without transaction management and
// drains events from registered aggregates.
func (u *MockUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.aggregates = make([]shared.AggregateRoot, 0)

	if err := fn(ctx); err != nil {
		return err
	}

	for _, agg := range u.aggregates {
		for _, event := range agg.PullEvents() {
			u.Published = append(u.Published, event)
			logger.Debug("Mock outbox event",
				zap.String("event", event.EventName()),
				zap.String("aggregate_id", event.GetAggregateID()),
			)
		}
	}

	return nil
}

// RegisterNew registers a newly created aggregate root for event collection
func (u *MockUnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterDirty registers a modified aggregate root for event collection
func (u *MockUnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterRemoved registers a deleted aggregate root for event collection
func (u *MockUnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// MockUnitOfWorkFactory hands out MockUnitOfWork instances. The shared
// instance is kept so tests can inspect collected events after the fact.
type MockUnitOfWorkFactory struct {
	Last *MockUnitOfWork
}

// NewMockUnitOfWorkFactory creates the factory.
func NewMockUnitOfWorkFactory() *MockUnitOfWorkFactory {
	return &MockUnitOfWorkFactory{}
}

// New returns a fresh MockUnitOfWork and remembers it.
func (f *MockUnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewMockUnitOfWork()
	f.Last = uow
	return uow
}

var _ shared.UnitOfWork = (*MockUnitOfWork)(nil)
var _ shared.UnitOfWorkFactory = (*MockUnitOfWorkFactory)(nil)
