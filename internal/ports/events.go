package ports

import "context"

const (
	// EventFormCompiled is emitted after a form definition finishes compiling.
	EventFormCompiled = "form.compiled"
	// EventFormCompileFailed is emitted when compilation fails.
	EventFormCompileFailed = "form.compile_failed"
	// EventTransitionStarted is emitted before a SUBMIT transition begins
	// evaluating; LOAD/ACCESS/ACTION publish no start or completion event.
	EventTransitionStarted = "transition.started"
	// EventTransitionCompleted is emitted when a SUBMIT transition finishes.
	EventTransitionCompleted = "transition.completed"
	// EventTransitionFailed is emitted when a transition evaluation errors.
	EventTransitionFailed = "transition.failed"
	// EventValidationFailed is emitted when an onSubmit validation pass
	// produces one or more ValidationMessage entries.
	EventValidationFailed = "validation.failed"
	// EventEffectExecuted is emitted after a FUNCTION_EFFECT node runs.
	EventEffectExecuted = "effect.executed"
)

// DomainEvent represents a significant occurrence within the domain or
// application layer. Events carry structured payloads that downstream
// subscribers can use for logging, UI updates, or integrations.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to interested subscribers. Dispatch is
// synchronous: Publish blocks until all handlers run, ensuring observability
// signals appear before the request completes. Handlers may spawn goroutines
// for async processing if work should continue in the background.
// Implementations must be thread-safe.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type. Handlers should avoid
// panicking; failures should be surfaced via returned errors so publishers can
// log diagnostics and continue delivering to remaining subscribers.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler. Callers must invoke
// Unsubscribe to stop receiving events and release resources.
type Subscription interface {
	Unsubscribe()
}
