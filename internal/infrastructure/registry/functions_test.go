package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionStoreRegisterAndGet(t *testing.T) {
	s := NewFunctionStore()
	require.NoError(t, s.RegisterCondition("isAdult", func(ctx context.Context, args []interface{}) (bool, error) {
		return true, nil
	}))

	fn, err := s.GetCondition("isAdult")
	require.NoError(t, err)
	v, err := fn(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, v)
}

func TestFunctionStoreDuplicateConflicts(t *testing.T) {
	s := NewFunctionStore()
	noop := func(ctx context.Context, args []interface{}) error { return nil }
	require.NoError(t, s.RegisterEffect("sendEmail", noop))
	err := s.RegisterEffect("sendEmail", noop)
	require.Error(t, err)
}

func TestFunctionStoreGetMissingNotFound(t *testing.T) {
	s := NewFunctionStore()
	_, err := s.GetTransformer("missing")
	require.Error(t, err)
}
