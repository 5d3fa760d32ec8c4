package form

import (
	"context"

	"github.com/formwright/formengine/internal/ports"
)

// AutosaveUseCase persists in-progress answer values outside of a SUBMIT
// transition — e.g. a debounced client-side "save as you type" call — so a
// session resuming mid-journey sees its prior input on the next LOAD.
type AutosaveUseCase struct {
	answers ports.AnswerStore
	logger  ports.Logger
}

func NewAutosaveUseCase(answers ports.AnswerStore, logger ports.Logger) *AutosaveUseCase {
	return &AutosaveUseCase{answers: answers, logger: logger}
}

// Save writes one field's value into the session's answer store.
func (u *AutosaveUseCase) Save(ctx context.Context, sessionID, fieldCode string, value interface{}) error {
	if u.logger != nil {
		u.logger.Debug(ctx, "autosaving field answer", "session", sessionID, "field", fieldCode)
	}
	return u.answers.Set(ctx, sessionID, fieldCode, value)
}

// SaveAll writes every provided field value in one call, stopping at the
// first failure — partial autosave failures are surfaced to the caller
// rather than silently dropped.
func (u *AutosaveUseCase) SaveAll(ctx context.Context, sessionID string, values map[string]interface{}) error {
	for code, value := range values {
		if err := u.Save(ctx, sessionID, code, value); err != nil {
			return err
		}
	}
	return nil
}
