package shared

import "context"

// UnitOfWork manages the transaction boundary and aggregate event collection.
// State changes and their events commit atomically; publishing happens
// afterwards from the outbox (commit first, then attempt publish).
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
	RegisterRemoved(aggregate AggregateRoot)
}

type UnitOfWorkFactory interface {
	New() UnitOfWork
}

type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
