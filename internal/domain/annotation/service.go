package annotation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/bimtodo/internal/domain/highlight"
	"github.com/rpggio/bimtodo/internal/domain/viewpoint"
	"github.com/rpggio/bimtodo/internal/event"
)

// Service is the ordered store of annotations.
type Service struct {
	tools  Tools
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	order  []string
	byID   map[string]*Annotation
	closed bool

	created   event.Listeners[Annotation]
	deleted   event.Listeners[Annotation]
	activated event.Listeners[Annotation]
}

// NewService creates a new annotation service.
func NewService(tools Tools, logger *slog.Logger) *Service {
	return &Service{
		tools:  tools,
		logger: logger,
		now:    time.Now,
		byID:   make(map[string]*Annotation),
	}
}

// CreateRequest describes an annotation creation request.
type CreateRequest struct {
	Description string
	Priority    Priority
}

// Create captures the current viewpoint and selection and appends a new annotation.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Annotation, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}
	if s.isClosed() {
		return nil, ErrStoreClosed
	}

	cam, err := s.tools.Camera(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving camera: %w", err)
	}
	vp, err := viewpoint.Capture(cam)
	if err != nil {
		return nil, fmt.Errorf("capturing viewpoint: %w", err)
	}

	hl, err := s.tools.Highlighter(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving highlighter: %w", err)
	}

	a := &Annotation{
		ID:          uuid.NewString(),
		Description: req.Description,
		CreatedAt:   s.now(),
		References:  hl.Selection(highlight.SelectGroup).Clone(),
		Viewpoint:   vp,
		Priority:    req.Priority,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrStoreClosed
	}
	s.order = append(s.order, a.ID)
	s.byID[a.ID] = a
	s.mu.Unlock()

	s.debug("annotation created", "id", a.ID, "priority", a.Priority, "objects", a.References.Count())
	s.created.Emit(a.clone())

	out := a.clone()
	return &out, nil
}

// Delete removes the annotation with the given ID.
func (s *Service) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	a, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ErrAnnotationNotFound
	}
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.debug("annotation deleted", "id", id)
	s.deleted.Emit(a.clone())
	return nil
}

// Get returns an annotation by ID.
func (s *Service) Get(id string) (*Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, ErrAnnotationNotFound
	}
	out := a.clone()
	return &out, nil
}

// List returns a snapshot of all annotations in creation order.
func (s *Service) List() []Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Annotation, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].clone())
	}
	return out
}

// Count returns the number of annotations.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Activate moves the camera back to the annotation's viewpoint and
// re-selects its referenced objects.
func (s *Service) Activate(ctx context.Context, id string) error {
	a, err := s.Get(id)
	if err != nil {
		return err
	}

	cam, err := s.tools.Camera(ctx)
	if err != nil {
		return fmt.Errorf("resolving camera: %w", err)
	}
	if err := viewpoint.Restore(cam, a.Viewpoint); err != nil {
		return fmt.Errorf("restoring viewpoint: %w", err)
	}

	if a.HasReferences() {
		hl, err := s.tools.Highlighter(ctx)
		if err != nil {
			return fmt.Errorf("resolving highlighter: %w", err)
		}
		if err := hl.HighlightByID(highlight.SelectGroup, a.References); err != nil {
			return fmt.Errorf("highlighting references: %w", err)
		}
	}

	s.activated.Emit(*a)
	return nil
}

// OnCreated registers fn for every new annotation. The returned func unsubscribes.
func (s *Service) OnCreated(fn func(Annotation)) func() {
	return s.created.Add(fn)
}

// OnDeleted registers fn for every deleted annotation.
func (s *Service) OnDeleted(fn func(Annotation)) func() {
	return s.deleted.Add(fn)
}

// OnActivated registers fn for every activated annotation.
func (s *Service) OnActivated(fn func(Annotation)) func() {
	return s.activated.Add(fn)
}

// Close drops every annotation and subscription. Create fails afterwards.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.order = nil
	s.byID = make(map[string]*Annotation)
	s.mu.Unlock()

	s.created.Reset()
	s.deleted.Reset()
	s.activated.Reset()
}

func (s *Service) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Service) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (a *Annotation) clone() Annotation {
	out := *a
	out.References = a.References.Clone()
	return out
}
