package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentStoreRegisterAndGet(t *testing.T) {
	s := NewComponentStore()
	require.NoError(t, s.Register("text-field", func(ctx context.Context, variant string, props map[string]interface{}) (interface{}, error) {
		return props, nil
	}))

	renderer, err := s.Get("text-field")
	require.NoError(t, err)
	out, err := renderer(context.Background(), "text-field", map[string]interface{}{"label": "Name"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"label": "Name"}, out)

	assert.Equal(t, []string{"text-field"}, s.Variants())
}

func TestComponentStoreGetMissingNotFound(t *testing.T) {
	s := NewComponentStore()
	_, err := s.Get("missing")
	require.Error(t, err)
}
