package mocks

import (
	"context"

	"github.com/rpggio/bimtodo/internal/domain/activity"
	"github.com/rpggio/bimtodo/internal/domain/highlight"
	"github.com/stretchr/testify/mock"
)

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) Get(ctx context.Context, id int64) (*activity.ActivityEntry, error) {
	args := m.Called(ctx, id)
	if entry, ok := args.Get(0).(*activity.ActivityEntry); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) Search(ctx context.Context, query string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, query, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Highlighter is a mock for highlight.Highlighter.
type Highlighter struct {
	mock.Mock
}

func (m *Highlighter) AddGroup(key string, style highlight.Style) error {
	args := m.Called(key, style)
	return args.Error(0)
}

func (m *Highlighter) HighlightByID(key string, sel highlight.SelectionMap) error {
	args := m.Called(key, sel)
	return args.Error(0)
}

func (m *Highlighter) Clear(key string) {
	m.Called(key)
}

func (m *Highlighter) Selection(key string) highlight.SelectionMap {
	args := m.Called(key)
	if sel, ok := args.Get(0).(highlight.SelectionMap); ok {
		return sel
	}
	return nil
}
