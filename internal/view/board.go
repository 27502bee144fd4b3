package view

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/rpggio/bimtodo/internal/domain/annotation"
)

// ErrCardNotFound indicates no card displays the given annotation.
var ErrCardNotFound = errors.New("card not found")

// AnnotationService defines the annotation operations the board drives.
type AnnotationService interface {
	Activate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Get(id string) (*annotation.Annotation, error)
	List() []annotation.Annotation
	OnCreated(fn func(annotation.Annotation)) func()
	OnDeleted(fn func(annotation.Annotation)) func()
}

// Board keeps one card per annotation in the list container and mirrors
// the cards matching the current filter query into the filter container.
type Board struct {
	ctx      context.Context
	svc      AnnotationService
	list     Container
	filtered Container
	logger   *slog.Logger

	mu    sync.Mutex
	cards []*Card
	byID  map[string]*Card
	query string
	stops []func()
}

// NewBoard creates cards for the annotations already in svc and follows
// its created/deleted events until Close. Card interactions run against ctx.
func NewBoard(ctx context.Context, svc AnnotationService, list, filtered Container, logger *slog.Logger) *Board {
	b := &Board{
		ctx:      ctx,
		svc:      svc,
		list:     list,
		filtered: filtered,
		logger:   logger,
		byID:     make(map[string]*Card),
	}
	// Subscribe before seeding so nothing created in between is missed; add
	// ignores annotations that already have a card.
	b.stops = append(b.stops,
		svc.OnCreated(b.add),
		svc.OnDeleted(func(a annotation.Annotation) { b.remove(a.ID) }),
	)
	for _, a := range svc.List() {
		b.add(a)
	}
	return b
}

// Activate is what a card click does: restore the annotation's viewpoint
// and selection.
func (b *Board) Activate(ctx context.Context, id string) error {
	if _, ok := b.Card(id); !ok {
		return ErrCardNotFound
	}
	return b.svc.Activate(ctx, id)
}

// Delete is what either delete control does.
func (b *Board) Delete(ctx context.Context, id string) error {
	if _, ok := b.Card(id); !ok {
		return ErrCardNotFound
	}
	return b.svc.Delete(ctx, id)
}

// Card returns the card displaying an annotation.
func (b *Board) Card(id string) (*Card, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.byID[id]
	return c, ok
}

// Cards returns every card in annotation order.
func (b *Board) Cards() []*Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Card, len(b.cards))
	copy(out, b.cards)
	return out
}

// VisibleCards returns the cards that match the current query.
func (b *Board) VisibleCards() []*Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Card, 0, len(b.cards))
	for _, c := range b.cards {
		if c.Visible() {
			out = append(out, c)
		}
	}
	return out
}

// Query returns the current filter query.
func (b *Board) Query() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.query
}

// Filter applies a query as it is typed and returns the visible cards.
func (b *Board) Filter(query string) []*Card {
	b.mu.Lock()
	b.query = query
	b.applyLocked()
	b.mu.Unlock()
	return b.VisibleCards()
}

// CommitFilter applies a committed query. It converges on the same
// visible set as Filter and keeps the existing cards and subscriptions.
func (b *Board) CommitFilter(query string) []*Card {
	return b.Filter(query)
}

// Close disposes every card and stops following the service.
func (b *Board) Close() {
	b.mu.Lock()
	stops := b.stops
	cards := b.cards
	b.stops = nil
	b.cards = nil
	b.byID = make(map[string]*Card)
	b.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
	for _, c := range cards {
		b.detach(b.list, c)
		b.detach(b.filtered, c)
		c.Dispose()
	}
}

// add creates the card for a. It is a no-op when a already has a card or
// was deleted before its created event arrived.
func (b *Board) add(a annotation.Annotation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.byID[a.ID]; ok {
		return
	}
	if _, err := b.svc.Get(a.ID); err != nil {
		b.debug("skipping card for removed annotation", "annotation_id", a.ID)
		return
	}

	c := NewCard(a.ID)
	c.SetDescription(a.Description)
	c.SetCreatedAt(a.CreatedAt)

	id := a.ID
	c.OnActivated(func() {
		if err := b.Activate(b.ctx, id); err != nil {
			b.warn("card activation failed", "annotation_id", id, "error", err)
		}
	})
	c.OnDeleteRequested(func() {
		if err := b.Delete(b.ctx, id); err != nil {
			b.warn("card delete failed", "annotation_id", id, "error", err)
		}
	})

	b.cards = append(b.cards, c)
	b.byID[id] = c
	b.attach(b.list, c)
	b.applyCardLocked(c)
}

func (b *Board) remove(id string) {
	b.mu.Lock()
	c, ok := b.byID[id]
	if !ok {
		b.mu.Unlock()
		return
	}
	delete(b.byID, id)
	for i, existing := range b.cards {
		if existing == c {
			b.cards = append(b.cards[:i:i], b.cards[i+1:]...)
			break
		}
	}
	b.mu.Unlock()

	b.detach(b.list, c)
	b.detach(b.filtered, c)
	c.Dispose()
}

// applyLocked re-attaches matching cards to the filter container in
// annotation order and detaches the rest.
func (b *Board) applyLocked() {
	for _, c := range b.cards {
		b.detach(b.filtered, c)
	}
	for _, c := range b.cards {
		b.applyCardLocked(c)
	}
}

func (b *Board) applyCardLocked(c *Card) {
	if annotation.Matches(b.query, c.Description()) {
		c.Show()
		b.attach(b.filtered, c)
		return
	}
	c.Hide()
	b.detach(b.filtered, c)
}

func (b *Board) attach(target Container, c *Card) {
	if target == nil {
		b.warn("cannot attach card", "annotation_id", c.AnnotationID(), "error", ErrMissingUITarget)
		return
	}
	target.Attach(c)
}

func (b *Board) detach(target Container, c *Card) {
	if target == nil {
		return
	}
	target.Detach(c)
}

func (b *Board) warn(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Warn(msg, args...)
	}
}

func (b *Board) debug(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, args...)
	}
}
