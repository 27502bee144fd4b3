package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/bimtodo/internal/domain/activity"
	"github.com/rpggio/bimtodo/internal/repository"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	base := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	entry1 := &activity.ActivityEntry{
		AnnotationID: ptr("a1"),
		ActivityType: activity.TypeAnnotationCreated,
		Summary:      "created High annotation \"Check beam A\"",
		Details:      `{"priority":"High"}`,
		CreatedAt:    base,
	}
	entry2 := &activity.ActivityEntry{
		ActivityType: activity.TypeHighlightToggled,
		Summary:      "priority highlight on",
		CreatedAt:    base.Add(time.Minute),
	}

	require.NoError(t, repo.Log(ctx, entry1))
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)
	require.NotEqual(t, entry1.ID, entry2.ID)

	entries, err := repo.List(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Nil(t, entries[0].AnnotationID)
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
	require.Equal(t, "a1", *entries[1].AnnotationID)
	require.Equal(t, entry1.Details, entries[1].Details)
	require.True(t, base.Equal(entries[1].CreatedAt))
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	for _, e := range []*activity.ActivityEntry{
		{AnnotationID: ptr("a1"), ActivityType: activity.TypeAnnotationCreated, Summary: "created"},
		{AnnotationID: ptr("a1"), ActivityType: activity.TypeAnnotationActivated, Summary: "activated"},
		{AnnotationID: ptr("a2"), ActivityType: activity.TypeAnnotationCreated, Summary: "created"},
	} {
		require.NoError(t, repo.Log(ctx, e))
	}

	entries, err := repo.List(ctx, activity.ListActivityOptions{AnnotationID: ptr("a1")})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = repo.List(ctx, activity.ListActivityOptions{
		AnnotationID: ptr("a1"),
		ActivityType: ptr(activity.TypeAnnotationCreated),
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Offset: 2})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestActivityRepository_Get(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	entry := &activity.ActivityEntry{ActivityType: activity.TypeCameraModeChanged, Summary: "camera mode orthographic"}
	require.NoError(t, repo.Log(ctx, entry))

	got, err := repo.Get(ctx, entry.ID)
	require.NoError(t, err)
	require.Equal(t, entry.Summary, got.Summary)

	_, err = repo.Get(ctx, entry.ID+100)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestActivityRepository_Search(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{
		AnnotationID: ptr("a1"), ActivityType: activity.TypeAnnotationCreated, Summary: "created annotation \"Check beam A\"",
	}))
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{
		AnnotationID: ptr("a2"), ActivityType: activity.TypeAnnotationCreated, Summary: "created annotation \"Paint wall\"",
	}))

	results, err := repo.Search(ctx, "beam", activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "a1", *results[0].AnnotationID)

	results, err = repo.Search(ctx, "created", activity.ListActivityOptions{AnnotationID: ptr("a2")})
	require.NoError(t, err)
	require.Len(t, results, 1)

	_, err = repo.Search(ctx, "\"unterminated", activity.ListActivityOptions{})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}
