package shared

// AggregateRoot The entry point of an aggregate, maintaining its consistency
// boundary. All modifications go through the root; the root records the
// domain events describing them.
type AggregateRoot interface {
	// ID returns the globally unique identity of the aggregate
	ID() string

	// Version returns the optimistic lock version
	Version() int

	// PullEvents returns and clears the recorded domain events.
	// The unit of work calls this inside the commit transaction to hand the
	// events to the outbox.
	PullEvents() []DomainEvent
}

// Entity An object with identity; equality is by ID, not by attributes.
type Entity interface {
	ID() string
}
