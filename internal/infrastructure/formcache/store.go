// Package formcache implements ports.FormRegistryStore as a JSON file on
// disk, grounded on the teacher's internal/registry.Registry: same
// path/mutex/version shape, same load-whole-file-then-mutate-in-memory
// pattern, same atomic write-to-temp-then-rename on Save. Where the teacher
// persisted Pipeline records, this persists FormRegistration records; where
// the teacher tracked PipelineStatus for a pipeline's last run, this tracks
// CompileStatus for a form's last compile.
package formcache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/formwright/formengine/internal/domain/form"
	"github.com/formwright/formengine/internal/ports"
)

// Store is a file-backed ports.FormRegistryStore.
type Store struct {
	path string
	mu   sync.RWMutex

	version       int
	registrations map[string]ports.FormRegistration
}

// NewStore opens (or initializes) the registration file at path.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, form.NewDomainError(form.ErrCodeInternal, "failed to create form registry directory", err, map[string]interface{}{"path": path})
	}

	s := &Store{path: path, registrations: make(map[string]ports.FormRegistration)}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		s.version = currentVersion
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return form.NewDomainError(form.ErrCodeInternal, "failed to read form registry", err, map[string]interface{}{"path": s.path})
	}

	var rf registryFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return form.NewDomainError(form.ErrCodeInvalid, "malformed form registry file", err, map[string]interface{}{"path": s.path})
	}

	s.version = rf.Version
	s.registrations = make(map[string]ports.FormRegistration, len(rf.Registrations))
	for _, r := range rf.Registrations {
		s.registrations[r.ID] = r
	}
	return nil
}

func (s *Store) save() error {
	rf := registryFile{Version: s.version, Registrations: make([]ports.FormRegistration, 0, len(s.registrations))}
	for _, r := range s.registrations {
		rf.Registrations = append(rf.Registrations, r)
	}

	data, err := json.MarshalIndent(rf, "", "  ")
	if err != nil {
		return form.NewDomainError(form.ErrCodeInternal, "failed to marshal form registry", err, nil)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return form.NewDomainError(form.ErrCodeInternal, "failed to write form registry", err, map[string]interface{}{"path": tmp})
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return form.NewDomainError(form.ErrCodeInternal, "failed to finalize form registry write", err, map[string]interface{}{"path": s.path})
	}
	return nil
}

func (s *Store) Store(ctx context.Context, registration *ports.FormRegistration) error {
	if registration == nil || registration.ID == "" {
		return form.NewDomainError(form.ErrCodeInvalid, "form registration requires an id", nil, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.registrations[registration.ID]; exists {
		return form.NewDomainError(form.ErrCodeConflict, "form already registered", nil, map[string]interface{}{"id": registration.ID})
	}
	if registration.RegisteredAt.IsZero() {
		registration.RegisteredAt = time.Now().UTC()
	}
	s.registrations[registration.ID] = *registration
	return s.save()
}

func (s *Store) Get(ctx context.Context, id string) (*ports.FormRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.registrations[id]
	if !ok {
		return nil, form.NewDomainError(form.ErrCodeNotFound, "form not registered", nil, map[string]interface{}{"id": id})
	}
	return &r, nil
}

func (s *Store) List(ctx context.Context) ([]ports.FormRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.FormRegistration, 0, len(s.registrations))
	for _, r := range s.registrations {
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.registrations[id]; !ok {
		return form.NewDomainError(form.ErrCodeNotFound, "form not registered", nil, map[string]interface{}{"id": id})
	}
	delete(s.registrations, id)
	return s.save()
}

func (s *Store) UpdateStatus(ctx context.Context, id string, status ports.CompileStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.registrations[id]
	if !ok {
		return form.NewDomainError(form.ErrCodeNotFound, "form not registered", nil, map[string]interface{}{"id": id})
	}
	now := status.Timestamp
	if now.IsZero() {
		now = time.Now().UTC()
		status.Timestamp = now
	}
	r.LastCompiledAt = &now
	r.LastCompileState = status
	s.registrations[id] = r
	return s.save()
}

var _ ports.FormRegistryStore = (*Store)(nil)
