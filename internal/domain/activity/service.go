package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/bimtodo/internal/domain/annotation"
)

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// LogActivity logs an activity entry with the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, entry *ActivityEntry) error {
	if entry == nil || entry.ActivityType == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// GetRecentActivity lists activity entries with filtering.
func (s *Service) GetRecentActivity(ctx context.Context, opts ListActivityOptions) ([]ActivityEntry, error) {
	return s.repo.List(ctx, opts)
}

// SearchActivity runs a full-text query over activity summaries and details.
func (s *Service) SearchActivity(ctx context.Context, query string, opts ListActivityOptions) ([]ActivityEntry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrInvalidInput)
	}
	return s.repo.Search(ctx, query, opts)
}

// Track records created, deleted and activated annotations until the
// returned func is called. Logging failures are reported, never returned.
func (s *Service) Track(ctx context.Context, events AnnotationEvents) func() {
	stops := []func(){
		events.OnCreated(func(a annotation.Annotation) {
			s.record(ctx, TypeAnnotationCreated, a, fmt.Sprintf("created %s annotation %q", a.Priority, a.Description))
		}),
		events.OnDeleted(func(a annotation.Annotation) {
			s.record(ctx, TypeAnnotationDeleted, a, fmt.Sprintf("deleted annotation %q", a.Description))
		}),
		events.OnActivated(func(a annotation.Annotation) {
			s.record(ctx, TypeAnnotationActivated, a, fmt.Sprintf("activated annotation %q", a.Description))
		}),
	}
	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}

type annotationDetails struct {
	Priority  annotation.Priority `json:"priority"`
	Objects   int                 `json:"objects"`
	Viewpoint any                 `json:"viewpoint"`
}

func (s *Service) record(ctx context.Context, kind ActivityType, a annotation.Annotation, summary string) {
	details, err := json.Marshal(annotationDetails{
		Priority:  a.Priority,
		Objects:   a.References.Count(),
		Viewpoint: a.Viewpoint,
	})
	if err != nil {
		details = []byte("{}")
	}
	id := a.ID
	entry := &ActivityEntry{
		AnnotationID: &id,
		ActivityType: kind,
		Summary:      summary,
		Details:      string(details),
	}
	if err := s.LogActivity(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to record activity", "type", kind, "annotation_id", id, "error", err)
	}
}
