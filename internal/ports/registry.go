package ports

import (
	"context"
	"time"
)

// FormRegistryStore persists named form registrations so operators can
// compile/watch a form without remembering its source path. Implementations
// should be durable (e.g., file-backed) and safe for concurrent reads/writes.
// Error mapping rules:
//   - Missing registrations → form.ErrCodeNotFound
//   - Validation issues → form.ErrCodeInvalid
//   - Duplicate IDs → form.ErrCodeConflict
//   - I/O failures → form.ErrCodeInternal with wrapped cause
type FormRegistryStore interface {
	Store(ctx context.Context, registration *FormRegistration) error
	Get(ctx context.Context, id string) (*FormRegistration, error)
	List(ctx context.Context) ([]FormRegistration, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status CompileStatus) error
}

// FormRegistration captures the metadata persisted for one registered form.
type FormRegistration struct {
	ID               string
	Name             string
	SourcePath       string
	RegisteredAt     time.Time
	LastCompiledAt   *time.Time
	LastCompileState CompileStatus
	Metadata         map[string]string
}

// CompileStatus records the last known compilation outcome.
type CompileStatus struct {
	Status    CompileOutcome
	Message   string
	Timestamp time.Time
	Duration  time.Duration
	Error     *string
}

// CompileOutcome is the coarse-grained health of a registered form's last
// compile.
type CompileOutcome string

const (
	CompileOutcomeOK      CompileOutcome = "ok"
	CompileOutcomeStale   CompileOutcome = "stale"
	CompileOutcomeFailed  CompileOutcome = "failed"
	CompileOutcomeUnknown CompileOutcome = "unknown"
)
