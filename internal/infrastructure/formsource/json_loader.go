// Package formsource implements the FormLoader port by reading JSON form
// definitions from disk, grounded on the teacher's
// internal/infrastructure/config.YAMLLoader load-then-validate idiom, adapted
// from YAML+go-yaml to JSON+goccy/go-json and DTO struct validation via
// go-playground/validator.
package formsource

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	gojson "github.com/goccy/go-json"

	"github.com/formwright/formengine/internal/domain/form"
	"github.com/formwright/formengine/internal/ports"
)

// envelope is the top-level shape every form definition file must satisfy
// before the transformer ever sees it: an id and at least one step.
type envelope struct {
	ID    string                   `json:"id" validate:"required"`
	Steps []map[string]interface{} `json:"steps" validate:"required,min=1"`
}

// JSONLoader implements ports.FormLoader by reading and validating JSON files
// from the filesystem.
type JSONLoader struct {
	logger   ports.Logger
	validate *validator.Validate
}

func NewJSONLoader(logger ports.Logger) *JSONLoader {
	return &JSONLoader{logger: logger, validate: validator.New()}
}

func (l *JSONLoader) Load(ctx context.Context, path string) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, form.NewDomainError(form.ErrCodeUnavailable, "load cancelled", err, map[string]interface{}{"path": path})
	}

	l.logDebug(ctx, "loading form definition", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, form.NewDomainError(form.ErrCodeNotFound, "form definition not found", err, map[string]interface{}{"path": path})
		}
		return nil, form.NewDomainError(form.ErrCodeInternal, "failed to read form definition", err, map[string]interface{}{"path": path})
	}

	var env envelope
	if err := gojson.Unmarshal(data, &env); err != nil {
		return nil, form.NewDomainError(form.ErrCodeInvalid, "malformed form definition JSON", err, map[string]interface{}{"path": path})
	}
	if err := l.validate.Struct(env); err != nil {
		return nil, form.NewDomainError(form.ErrCodeInvalid, "form definition failed validation", err, map[string]interface{}{"path": path})
	}

	var doc map[string]interface{}
	if err := gojson.Unmarshal(data, &doc); err != nil {
		return nil, form.NewDomainError(form.ErrCodeInvalid, "malformed form definition JSON", err, map[string]interface{}{"path": path})
	}

	l.logInfo(ctx, "form definition loaded", "path", path, "steps", len(env.Steps))
	return doc, nil
}

func (l *JSONLoader) Validate(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return form.NewDomainError(form.ErrCodeNotFound, "form definition path stat failed", err, map[string]interface{}{"path": path})
	}
	if info.IsDir() {
		return form.NewDomainError(form.ErrCodeInvalid, "form definition path is a directory", nil, map[string]interface{}{"path": path})
	}
	if ext := filepath.Ext(path); ext != ".json" {
		return form.NewDomainError(form.ErrCodeInvalid, "unsupported form definition extension", nil, map[string]interface{}{"path": path, "extension": ext})
	}
	_, err = l.Load(ctx, path)
	return err
}

func (l *JSONLoader) logDebug(ctx context.Context, msg string, fields ...interface{}) {
	if l.logger != nil {
		l.logger.Debug(ctx, msg, fields...)
	}
}

func (l *JSONLoader) logInfo(ctx context.Context, msg string, fields ...interface{}) {
	if l.logger != nil {
		l.logger.Info(ctx, msg, fields...)
	}
}

var _ ports.FormLoader = (*JSONLoader)(nil)
