package answerstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGet(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set(context.Background(), "sess1", "email", "a@example.com"))

	v, ok, err := m.Get(context.Background(), "sess1", "email")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a@example.com", v)
}

func TestMemoryGetMissingSessionReturnsFalse(t *testing.T) {
	m := NewMemory()
	_, ok, err := m.Get(context.Background(), "missing", "email")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryGetAll(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set(context.Background(), "sess1", "email", "a@example.com"))
	require.NoError(t, m.Set(context.Background(), "sess1", "age", 30))

	all, err := m.GetAll(context.Background(), "sess1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
