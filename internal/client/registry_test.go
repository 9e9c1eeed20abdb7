package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistryRejectsDuplicateKey(t *testing.T) {
	r := NewRegistry()

	first, err := New(testConfig(t, "on_demand"), &fakeAPI{}, zap.NewNop(), nil)
	require.NoError(t, err)
	require.NoError(t, r.Register("key-1", first))

	second, err := New(testConfig(t, "on_demand"), &fakeAPI{}, zap.NewNop(), nil)
	require.NoError(t, err)

	err = r.Register("key-1", second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateInstance))

	// A different key is unaffected.
	require.NoError(t, r.Register("key-2", second))
}

func TestRegistryReleaseAllowsReRegister(t *testing.T) {
	r := NewRegistry()

	c, err := New(testConfig(t, "on_demand"), &fakeAPI{}, zap.NewNop(), nil)
	require.NoError(t, err)

	require.NoError(t, r.Register("key-1", c))
	r.Release("key-1")
	require.NoError(t, r.Register("key-1", c))
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Get("key-1")
	assert.False(t, ok)

	c, err := New(testConfig(t, "on_demand"), &fakeAPI{}, zap.NewNop(), nil)
	require.NoError(t, err)
	require.NoError(t, r.Register("key-1", c))

	got, ok := r.Get("key-1")
	require.True(t, ok)
	assert.Same(t, c, got)
}
