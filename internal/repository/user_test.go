package repository

import (
	"context"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Create and GetByEmail", func(t *testing.T) {
		user := &models.User{Username: "alice", Email: "alice@example.com", Password: "hashed"}
		err := repo.Create(ctx, user)
		require.NoError(t, err)
		assert.NotZero(t, user.ID)

		found, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "alice", found.Username)
		assert.Equal(t, models.RoleUser, found.Role)
	})

	t.Run("Create duplicate returns conflict", func(t *testing.T) {
		dup := &models.User{Username: "alice", Email: "other@example.com", Password: "hashed"}
		err := repo.Create(ctx, dup)
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "CONFLICT", appErr.Code)
		assert.Equal(t, "User already exists", appErr.Message)
	})

	t.Run("GetByEmail missing returns nil nil", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "ghost@example.com")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("GetByUsername missing returns nil nil", func(t *testing.T) {
		found, err := repo.GetByUsername(ctx, "ghost")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("GetByID not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("Update then GetByUsername", func(t *testing.T) {
		user, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)

		user.Bio = "writes about databases"
		require.NoError(t, repo.Update(ctx, user))

		found, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "writes about databases", found.Bio)
	})

	t.Run("List respects limit and offset", func(t *testing.T) {
		for _, name := range []string{"bob", "carol", "dave"} {
			require.NoError(t, repo.Create(ctx, &models.User{
				Username: name,
				Email:    name + "@example.com",
				Password: "hashed",
			}))
		}

		page, err := repo.List(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, page, 2)

		rest, err := repo.List(ctx, 10, 2)
		require.NoError(t, err)
		assert.Len(t, rest, 2)
	})

	t.Run("Delete", func(t *testing.T) {
		user, err := repo.GetByUsername(ctx, "dave")
		require.NoError(t, err)
		require.NotNil(t, user)

		require.NoError(t, repo.Delete(ctx, user.ID))

		found, err := repo.GetByUsername(ctx, "dave")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestUserRepository_CachedReads(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "$2a$10$somebcrypthash", Bio: "v1"}
	require.NoError(t, repo.Create(ctx, user))

	first, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$somebcrypthash", first.Password)

	// Change the row underneath the cache; a stale read proves the second
	// fetch was served from Redis.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("bio", "v2").Error)

	cached, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", cached.Bio)

	// The hash must survive the cache round trip: saving a cached record
	// back must not blank the stored password.
	assert.Equal(t, "$2a$10$somebcrypthash", cached.Password)
	cached.Bio = "v3"
	require.NoError(t, repo.Update(ctx, cached))

	stored, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$somebcrypthash", stored.Password)
	assert.Equal(t, "v3", stored.Bio)

	// Update invalidated the cache entry, so the next read is fresh.
	fresh, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "v3", fresh.Bio)
	assert.Equal(t, "$2a$10$somebcrypthash", fresh.Password)
}

func TestUserRepository_FollowEdges(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := &models.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	bob := &models.User{Username: "bob", Email: "bob@example.com", Password: "x"}
	carol := &models.User{Username: "carol", Email: "carol@example.com", Password: "x"}
	for _, u := range []*models.User{alice, bob, carol} {
		require.NoError(t, repo.Create(ctx, u))
	}

	t.Run("AddFollow creates the edge once", func(t *testing.T) {
		created, err := repo.AddFollow(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, created)

		// Second insert hits the conflict clause and reports no change.
		created, err = repo.AddFollow(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, created)

		followed, err := repo.FollowedAuthorIDs(ctx, alice.ID, []uint{bob.ID})
		require.NoError(t, err)
		assert.True(t, followed[bob.ID])
	})

	t.Run("Edge is directed", func(t *testing.T) {
		followed, err := repo.FollowedAuthorIDs(ctx, bob.ID, []uint{alice.ID})
		require.NoError(t, err)
		assert.False(t, followed[alice.ID])
	})

	t.Run("FollowedAuthorIDs batches lookups", func(t *testing.T) {
		_, err := repo.AddFollow(ctx, alice.ID, carol.ID)
		require.NoError(t, err)

		followed, err := repo.FollowedAuthorIDs(ctx, alice.ID, []uint{bob.ID, carol.ID, 9999})
		require.NoError(t, err)
		assert.True(t, followed[bob.ID])
		assert.True(t, followed[carol.ID])
		assert.False(t, followed[9999])

		empty, err := repo.FollowedAuthorIDs(ctx, alice.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("RemoveFollow reports whether an edge existed", func(t *testing.T) {
		removed, err := repo.RemoveFollow(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = repo.RemoveFollow(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, removed)

		followed, err := repo.FollowedAuthorIDs(ctx, alice.ID, []uint{bob.ID})
		require.NoError(t, err)
		assert.False(t, followed[bob.ID])
	})
}
