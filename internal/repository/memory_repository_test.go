package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumekit/cv-service/internal/domain"
)

func TestMemoryAccounts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Accounts()

	acc := &domain.Account{Email: "ada@example.com", Name: "Ada", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, acc))
	assert.NotEmpty(t, acc.ID)

	err := repo.Create(ctx, &domain.Account{Email: "ada@example.com", Name: "Other"})
	assert.ErrorIs(t, err, ErrDuplicate)

	byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "ADA@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCVs_UpsertPrimaryKeepsOneSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().CVs()

	first := &domain.CV{OwnerID: "acc-1", Skills: []domain.Skill{{Category: "Go"}}}
	require.NoError(t, repo.UpsertPrimary(ctx, first))

	second := &domain.CV{OwnerID: "acc-1", Skills: []domain.Skill{{Category: "SQL"}}}
	require.NoError(t, repo.UpsertPrimary(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.GetPrimary(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, got.Skills, 1)
	assert.Equal(t, "SQL", got.Skills[0].Category)
	assert.Equal(t, domain.CVKindPrimary, got.Kind)
}

func TestMemoryCVs_ConcurrentUpsertSingleRow(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().CVs()

	var wg sync.WaitGroup
	ids := make([]string, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cv := &domain.CV{OwnerID: "acc-1"}
			if err := repo.UpsertPrimary(ctx, cv); err == nil {
				ids[i] = cv.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestMemoryCVs_SnapshotsAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().CVs()

	primary := &domain.CV{OwnerID: "acc-1"}
	require.NoError(t, repo.UpsertPrimary(ctx, primary))

	snap := &domain.CV{OwnerID: "acc-1", PersonalInfo: domain.PersonalInfo{FullName: "Ada"}}
	require.NoError(t, repo.CreateSnapshot(ctx, snap))
	assert.NotEqual(t, primary.ID, snap.ID)

	assert.ErrorIs(t, repo.DeleteSnapshot(ctx, snap.ID, "acc-2"), ErrNotFound)
	assert.ErrorIs(t, repo.DeleteSnapshot(ctx, primary.ID, "acc-1"), ErrNotFound)
	require.NoError(t, repo.DeleteSnapshot(ctx, snap.ID, "acc-1"))

	_, err := repo.GetByID(ctx, snap.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCVs_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().CVs()

	cv := &domain.CV{OwnerID: "acc-1", Skills: []domain.Skill{{Category: "Go", Items: []string{"chan"}}}}
	require.NoError(t, repo.UpsertPrimary(ctx, cv))
	cv.Skills[0].Items[0] = "mutated"

	got, err := repo.GetByID(ctx, cv.ID)
	require.NoError(t, err)
	assert.Equal(t, "chan", got.Skills[0].Items[0])
}
