package ports

import "context"

// FormLoader loads a raw form definition document from an external source
// (filesystem, embedded asset, remote service) as a decoded JSON value.
// Implementations must be deterministic, respect context cancellation, and
// translate infrastructure failures into form-friendly error codes.
//
// Error mapping expectations:
//   - io/fs.ErrNotExist → form.ErrCodeNotFound
//   - JSON parsing / validator failures → form.ErrCodeInvalid
//   - context cancellation/deadline → form.ErrCodeUnavailable
//   - unexpected I/O issues → form.ErrCodeInternal with wrapped cause
//
// FormLoader is consumed exclusively by application-layer use cases; domain
// packages never depend on concrete infrastructure concerns.
type FormLoader interface {
	// Load reads and JSON-decodes a form definition from path.
	Load(ctx context.Context, path string) (map[string]interface{}, error)

	// Validate performs a lightweight structural check without compiling the
	// whole form, so a CLI or watch loop can surface errors quickly.
	Validate(ctx context.Context, path string) error
}

// AnswerStore persists and retrieves field answers across the lifetime of a
// journey (spec §6's "remote answers" concept: a later step reading a value
// submitted on an earlier step). The engine treats it as opaque key/value
// storage scoped by a journey session identifier.
type AnswerStore interface {
	Get(ctx context.Context, sessionID, fieldCode string) (interface{}, bool, error)
	Set(ctx context.Context, sessionID, fieldCode string, value interface{}) error
	GetAll(ctx context.Context, sessionID string) (map[string]interface{}, error)
}

// FrameworkAdapter is the HTTP-facing collaborator the engine never owns: it
// routes requests into LOAD/ACCESS/ACTION/SUBMIT transitions and turns a
// form.RenderContext into an actual HTTP response. The engine's job ends at
// producing the RenderContext or transition outcome.
type FrameworkAdapter interface {
	RouteParams(ctx context.Context) map[string]interface{}
	RouteQuery(ctx context.Context) map[string]interface{}
}
