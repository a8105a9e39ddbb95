package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/valueobjects"
	pkgerrors "gironomall-backend/pkg/errors"
)

func makeWorkspace(t *testing.T, id, theme string, createdAt time.Time) *entities.Workspace {
	t.Helper()
	wid, err := valueobjects.NewWorkspaceIDFromString(id)
	require.NoError(t, err)
	return &entities.Workspace{
		ID:        wid,
		Theme:     theme,
		Config:    entities.WorkspaceConfig{FollowupCount: entities.DefaultFollowupCount},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestWorkspaceRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save and get round-trip", func(t *testing.T) {
		repo := NewWorkspaceRepository()
		ws := makeWorkspace(t, "ws-1", "Theme", time.Now())

		require.NoError(t, repo.Save(ctx, ws))
		got, err := repo.GetByID(ctx, ws.ID)
		require.NoError(t, err)
		assert.Equal(t, "Theme", got.Theme)
	})

	t.Run("get missing returns not found", func(t *testing.T) {
		repo := NewWorkspaceRepository()
		wid, err := valueobjects.NewWorkspaceIDFromString("nope")
		require.NoError(t, err)

		_, err = repo.GetByID(ctx, wid)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("stored state is isolated from caller mutation", func(t *testing.T) {
		repo := NewWorkspaceRepository()
		ws := makeWorkspace(t, "ws-1", "Original", time.Now())
		require.NoError(t, repo.Save(ctx, ws))

		ws.Theme = "Mutated"
		got, err := repo.GetByID(ctx, ws.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", got.Theme)

		got.Theme = "Mutated again"
		again, err := repo.GetByID(ctx, ws.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", again.Theme)
	})

	t.Run("list sorts by creation time", func(t *testing.T) {
		repo := NewWorkspaceRepository()
		base := time.Now()
		require.NoError(t, repo.Save(ctx, makeWorkspace(t, "ws-b", "B", base.Add(time.Minute))))
		require.NoError(t, repo.Save(ctx, makeWorkspace(t, "ws-a", "A", base)))
		require.NoError(t, repo.Save(ctx, makeWorkspace(t, "ws-c", "C", base.Add(2*time.Minute))))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "A", list[0].Theme)
		assert.Equal(t, "B", list[1].Theme)
		assert.Equal(t, "C", list[2].Theme)
	})

	t.Run("delete removes and is idempotent", func(t *testing.T) {
		repo := NewWorkspaceRepository()
		ws := makeWorkspace(t, "ws-1", "Theme", time.Now())
		require.NoError(t, repo.Save(ctx, ws))

		require.NoError(t, repo.Delete(ctx, ws.ID))
		_, err := repo.GetByID(ctx, ws.ID)
		assert.True(t, pkgerrors.IsNotFound(err))

		assert.NoError(t, repo.Delete(ctx, ws.ID))
	})
}
