package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "gironomall-backend/pkg/errors"
)

func TestInflightGuard(t *testing.T) {
	t.Run("second acquire of the same key conflicts", func(t *testing.T) {
		guard := NewInflightGuard()
		key := WorkspaceKey("ws-1")

		require.NoError(t, guard.Acquire(key))
		err := guard.Acquire(key)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsConflict(err))
	})

	t.Run("release frees the key", func(t *testing.T) {
		guard := NewInflightGuard()
		key := NodeKey("n-1")

		require.NoError(t, guard.Acquire(key))
		guard.Release(key)
		assert.NoError(t, guard.Acquire(key))
	})

	t.Run("distinct keys do not contend", func(t *testing.T) {
		guard := NewInflightGuard()
		require.NoError(t, guard.Acquire(WorkspaceKey("ws-1")))
		assert.NoError(t, guard.Acquire(WorkspaceKey("ws-2")))
		assert.NoError(t, guard.Acquire(NodeKey("ws-1")))
	})

	t.Run("releasing an unheld key is a no-op", func(t *testing.T) {
		guard := NewInflightGuard()
		guard.Release("never-acquired")
		assert.NoError(t, guard.Acquire("never-acquired"))
	})
}
