package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/bimtodo/internal/domain/activity"
	"github.com/rpggio/bimtodo/internal/domain/annotation"
	"github.com/rpggio/bimtodo/internal/domain/highlight"
	"github.com/rpggio/bimtodo/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		ActivityType: activity.TypeHighlightToggled,
		Summary:      "priority highlight on",
	}

	repo.On("Log", ctx, entry).Return(nil)
	repo.On("List", ctx, activity.ListActivityOptions{Limit: 5}).Return([]activity.ActivityEntry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, entry))
	require.False(t, entry.CreatedAt.IsZero())

	entries, err := svc.GetRecentActivity(ctx, activity.ListActivityOptions{Limit: 5})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	repo.AssertExpectations(t)
}

func TestActivityService_LogRejectsEmptyEntry(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	require.ErrorIs(t, svc.LogActivity(context.Background(), nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.LogActivity(context.Background(), &activity.ActivityEntry{}), activity.ErrInvalidInput)
}

func TestActivityService_Search(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Search", ctx, "beam", activity.ListActivityOptions{}).Return([]activity.ActivityEntry{{ID: 1}}, nil)

	svc := activity.NewService(repo, nil)
	entries, err := svc.SearchActivity(ctx, "beam", activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = svc.SearchActivity(ctx, "  ", activity.ListActivityOptions{})
	require.ErrorIs(t, err, activity.ErrInvalidInput)
	repo.AssertNumberOfCalls(t, "Search", 1)
}

type fakeEvents struct {
	created, deleted, activated []func(annotation.Annotation)
	unsubscribed                int
}

func (f *fakeEvents) OnCreated(fn func(annotation.Annotation)) func() {
	f.created = append(f.created, fn)
	return func() { f.unsubscribed++ }
}

func (f *fakeEvents) OnDeleted(fn func(annotation.Annotation)) func() {
	f.deleted = append(f.deleted, fn)
	return func() { f.unsubscribed++ }
}

func (f *fakeEvents) OnActivated(fn func(annotation.Annotation)) func() {
	f.activated = append(f.activated, fn)
	return func() { f.unsubscribed++ }
}

func TestActivityService_TrackRecordsAnnotationEvents(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}

	var logged []*activity.ActivityEntry
	repo.On("Log", ctx, mock.Anything).Run(func(args mock.Arguments) {
		logged = append(logged, args.Get(1).(*activity.ActivityEntry))
	}).Return(nil)

	events := &fakeEvents{}
	svc := activity.NewService(repo, nil)
	stop := svc.Track(ctx, events)

	a := annotation.Annotation{
		ID:          "a1",
		Description: "Check beam A",
		Priority:    annotation.PriorityHigh,
		References:  highlight.SelectionMap{"m1": {42}},
	}
	events.created[0](a)
	events.activated[0](a)
	events.deleted[0](a)

	require.Len(t, logged, 3)
	require.Equal(t, activity.TypeAnnotationCreated, logged[0].ActivityType)
	require.Equal(t, activity.TypeAnnotationActivated, logged[1].ActivityType)
	require.Equal(t, activity.TypeAnnotationDeleted, logged[2].ActivityType)
	require.Equal(t, "a1", *logged[0].AnnotationID)
	require.Contains(t, logged[0].Details, `"priority":"High"`)
	require.Contains(t, logged[0].Details, `"objects":1`)

	stop()
	require.Equal(t, 3, events.unsubscribed)
}

func TestActivityService_TrackSwallowsRepositoryErrors(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, mock.Anything).Return(errors.New("disk full"))

	events := &fakeEvents{}
	svc := activity.NewService(repo, nil)
	svc.Track(ctx, events)

	require.NotPanics(t, func() {
		events.created[0](annotation.Annotation{ID: "a1"})
	})
	repo.AssertNumberOfCalls(t, "Log", 1)
}
