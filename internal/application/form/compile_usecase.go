// Package form holds the application-layer use cases orchestrating form
// loading, compilation, and transition evaluation, grounded on the teacher's
// internal/application/pipeline package (PrepareUseCase/ApplyUseCase/
// VerifyUseCase): structured logging around each phase, domain events
// published on success/failure, pure orchestration with no business logic of
// its own — that lives in internal/compile and internal/eval.
package form

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	gojson "github.com/goccy/go-json"

	"github.com/formwright/formengine/internal/domain/form"
	"github.com/formwright/formengine/internal/infrastructure/formcache"
	"github.com/formwright/formengine/internal/ports"
)

// CompileUseCase loads a form definition from its source, compiles it, and
// records the outcome in the compiled-form cache and, if registered, the form
// registry store.
type CompileUseCase struct {
	loader  ports.FormLoader
	builder ports.GraphBuilder
	cache   *formcache.CompiledFormCache
	store   ports.FormRegistryStore
	logger  ports.Logger
	events  ports.EventPublisher
}

func NewCompileUseCase(loader ports.FormLoader, builder ports.GraphBuilder, cache *formcache.CompiledFormCache, store ports.FormRegistryStore, logger ports.Logger, events ports.EventPublisher) *CompileUseCase {
	return &CompileUseCase{loader: loader, builder: builder, cache: cache, store: store, logger: logger, events: events}
}

// Compile loads the form at path and compiles it, regardless of cache state
// — callers wanting cache-aware compilation should check NeedsRecompile
// first via Checksum.
func (u *CompileUseCase) Compile(ctx context.Context, path string) (*ports.CompiledForm, error) {
	if u.logger != nil {
		u.logger.Info(ctx, "loading form definition", "path", path)
	}
	doc, err := u.loader.Load(ctx, path)
	if err != nil {
		if u.logger != nil {
			u.logger.Error(ctx, "failed to load form definition", "path", path, "error", err)
		}
		return nil, err
	}

	compiled, err := u.builder.Build(ctx, doc)
	if err != nil {
		return nil, err
	}

	checksum, cerr := Checksum(doc)
	if cerr == nil && u.cache != nil {
		order, _ := compiled.Graph.Order()
		edgeCount := 0
		for _, id := range order {
			edgeCount += len(compiled.Graph.Dependents(id))
		}
		entry := formcache.ManifestEntry{
			NodeCount: compiled.Nodes.Len(),
			EdgeCount: edgeCount,
		}
		if err := u.cache.Record(ctx, checksum, entry); err != nil && u.logger != nil {
			u.logger.Warn(ctx, "failed to record compile manifest", "path", path, "error", err)
		}
	}

	if u.store != nil {
		id := checksum
		if id == "" {
			id = path
		}
		_ = u.store.UpdateStatus(ctx, id, ports.CompileStatus{Status: ports.CompileOutcomeOK})
	}

	return compiled, nil
}

// Checksum computes a stable content hash for a decoded form document, used
// to key compiled-form-cache entries independent of source file path.
func Checksum(doc map[string]interface{}) (string, error) {
	data, err := gojson.Marshal(doc)
	if err != nil {
		return "", form.NewDomainError(form.ErrCodeInvalid, "failed to checksum form document", err, nil)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
