package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/resumekit/cv-service/internal/domain"
)

// unreachableRedis points at a port nothing listens on so every command
// fails fast.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCachedCVRepository_DegradesWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewCachedCVRepository(store.CVs(), unreachableRedis(t), time.Minute, zap.NewNop())

	cv := &domain.CV{OwnerID: "acc-1", PersonalInfo: domain.PersonalInfo{FullName: "Ada"}}
	require.NoError(t, repo.UpsertPrimary(ctx, cv))

	got, err := repo.GetByID(ctx, cv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.PersonalInfo.FullName)

	primary, err := repo.GetPrimary(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, cv.ID, primary.ID)

	snap := &domain.CV{OwnerID: "acc-1"}
	require.NoError(t, repo.CreateSnapshot(ctx, snap))
	require.NoError(t, repo.DeleteSnapshot(ctx, snap.ID, "acc-1"))

	_, err = repo.GetByID(ctx, snap.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
