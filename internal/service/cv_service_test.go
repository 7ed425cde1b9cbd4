package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumekit/cv-service/internal/domain"
	"github.com/resumekit/cv-service/internal/events"
	"github.com/resumekit/cv-service/internal/repository"
)

func newCVService(t *testing.T) (*CVService, *recorder) {
	t.Helper()
	rec := &recorder{}
	d := events.NewInMemoryDispatcher(nil)
	for _, et := range []events.EventType{events.EventCVSaved, events.EventCVShared, events.EventCVDeleted} {
		d.Subscribe(et, rec.handle)
	}
	return NewCVService(CVDependencies{CVRepo: repository.NewMemoryStore().CVs(), Dispatcher: d}), rec
}

func sampleCV() *domain.CV {
	start := time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC)
	return &domain.CV{
		ID:      "client-supplied",
		OwnerID: "someone-else",
		PersonalInfo: domain.PersonalInfo{
			FullName: "Ada Lovelace",
			Email:    "ada@example.com",
		},
		Education: []domain.Education{{ID: "e1", Institution: "UCL", Degree: "BSc", Field: "Maths", StartDate: start}},
		Skills: []domain.Skill{
			{ID: "s1", Category: "Languages", Items: []string{"Go", "SQL"}},
			{ID: "s2", Category: "Tools", Items: []string{"Postgres"}},
		},
		Experience: []domain.Experience{{Title: "Engineer", Company: "Analytical", StartDate: start, Responsibilities: []string{"Notes"}}},
		Projects:   []domain.Project{{Title: "Engine", StartDate: start, Description: []string{"Bernoulli numbers"}}},
	}
}

func TestSaveOwn_TargetsCallerRegardlessOfBody(t *testing.T) {
	svc, rec := newCVService(t)
	ctx := context.Background()

	saved, err := svc.SaveOwn(ctx, "owner-1", sampleCV())
	require.NoError(t, err)
	assert.Equal(t, "owner-1", saved.OwnerID)
	assert.NotEqual(t, "client-supplied", saved.ID)
	assert.Equal(t, domain.CVKindPrimary, saved.Kind)

	got, err := svc.GetOwn(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Len(t, got.Skills, 2)

	_, err = svc.GetOwn(ctx, "someone-else")
	assert.ErrorIs(t, err, ErrCVNotFound)
	assert.Equal(t, []events.EventType{events.EventCVSaved}, rec.types())
}

func TestSaveOwn_ReplacesChildren(t *testing.T) {
	svc, _ := newCVService(t)
	ctx := context.Background()

	first, err := svc.SaveOwn(ctx, "owner-1", sampleCV())
	require.NoError(t, err)

	next := sampleCV()
	next.Skills = []domain.Skill{{Category: "Languages", Items: []string{"Rust"}}}
	next.Education = nil
	second, err := svc.SaveOwn(ctx, "owner-1", next)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := svc.GetOwn(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, got.Skills, 1)
	assert.Equal(t, []string{"Rust"}, got.Skills[0].Items)
	assert.Empty(t, got.Education)
	assert.Len(t, got.Experience, 1)
}

func TestSaveOwn_ConcurrentFirstSaves(t *testing.T) {
	svc, _ := newCVService(t)
	ctx := context.Background()

	ids := make(chan string, 10)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cv, err := svc.SaveOwn(ctx, "owner-1", sampleCV())
			if assert.NoError(t, err) {
				ids <- cv.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]struct{}{}
	for id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 1)
}

func TestGet_Public(t *testing.T) {
	svc, _ := newCVService(t)
	ctx := context.Background()

	saved, err := svc.SaveOwn(ctx, "owner-1", sampleCV())
	require.NoError(t, err)

	got, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.PersonalInfo.FullName)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCVNotFound)
}

func TestShare(t *testing.T) {
	svc, rec := newCVService(t)
	ctx := context.Background()

	primary, err := svc.SaveOwn(ctx, "owner-1", sampleCV())
	require.NoError(t, err)

	snapshot, err := svc.Share(ctx, "owner-1", sampleCV())
	require.NoError(t, err)
	assert.NotEqual(t, primary.ID, snapshot.ID)
	assert.Equal(t, domain.CVKindSnapshot, snapshot.Kind)
	assert.Equal(t, "owner-1", snapshot.OwnerID)

	// later edits of the primary do not leak into the snapshot
	edited := sampleCV()
	edited.PersonalInfo.FullName = "Countess"
	_, err = svc.SaveOwn(ctx, "owner-1", edited)
	require.NoError(t, err)

	got, err := svc.Get(ctx, snapshot.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.PersonalInfo.FullName)

	own, err := svc.GetOwn(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, primary.ID, own.ID)
	assert.Contains(t, rec.types(), events.EventCVShared)
}

func TestShare_FromSaved(t *testing.T) {
	svc, _ := newCVService(t)
	ctx := context.Background()

	_, err := svc.Share(ctx, "owner-1", nil)
	assert.ErrorIs(t, err, ErrCVNotFound)

	primary, err := svc.SaveOwn(ctx, "owner-1", sampleCV())
	require.NoError(t, err)

	snapshot, err := svc.Share(ctx, "owner-1", nil)
	require.NoError(t, err)
	assert.NotEqual(t, primary.ID, snapshot.ID)
	assert.Equal(t, primary.PersonalInfo, snapshot.PersonalInfo)
	assert.Len(t, snapshot.Skills, len(primary.Skills))
}

func TestDeleteSnapshot(t *testing.T) {
	svc, rec := newCVService(t)
	ctx := context.Background()

	primary, err := svc.SaveOwn(ctx, "owner-1", sampleCV())
	require.NoError(t, err)
	snapshot, err := svc.Share(ctx, "owner-1", sampleCV())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteSnapshot(ctx, "owner-2", snapshot.ID), ErrNotOwner)
	assert.ErrorIs(t, svc.DeleteSnapshot(ctx, "owner-1", primary.ID), ErrPrimaryCV)
	assert.ErrorIs(t, svc.DeleteSnapshot(ctx, "owner-1", "missing"), ErrCVNotFound)

	require.NoError(t, svc.DeleteSnapshot(ctx, "owner-1", snapshot.ID))
	_, err = svc.Get(ctx, snapshot.ID)
	assert.ErrorIs(t, err, ErrCVNotFound)
	assert.Contains(t, rec.types(), events.EventCVDeleted)
}
