// Package view holds the presenters that display annotations: one Card per
// annotation, the containers they are attached to, and the Board that keeps
// cards in step with the annotation service and the live filter.
package view

import (
	"sync"
	"time"

	"github.com/rpggio/bimtodo/internal/event"
)

// DateLayout is how a card renders its creation date.
const DateLayout = "Mon Jan 02 2006"

// State is the display state of a card.
type State int

const (
	Visible State = iota
	Hidden
)

func (s State) String() string {
	if s == Hidden {
		return "hidden"
	}
	return "visible"
}

// DeleteControl identifies which delete button was pressed. Both raise the
// same signal.
type DeleteControl int

const (
	DeleteControlCard DeleteControl = iota
	DeleteControlToolbar
)

// Card displays one annotation. It does not own the annotation; it only
// shows text and forwards interactions.
type Card struct {
	annotationID string

	mu          sync.Mutex
	description string
	date        string
	state       State
	disposed    bool

	activated       event.Listeners[struct{}]
	deleteRequested event.Listeners[struct{}]
}

// NewCard creates a visible card for an annotation.
func NewCard(annotationID string) *Card {
	return &Card{annotationID: annotationID}
}

// AnnotationID returns the annotation this card displays.
func (c *Card) AnnotationID() string {
	return c.annotationID
}

// SetDescription changes the displayed description.
func (c *Card) SetDescription(text string) {
	c.mu.Lock()
	c.description = text
	c.mu.Unlock()
}

// Description returns the displayed description.
func (c *Card) Description() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.description
}

// SetCreatedAt changes the displayed date.
func (c *Card) SetCreatedAt(ts time.Time) {
	c.mu.Lock()
	c.date = ts.Format(DateLayout)
	c.mu.Unlock()
}

// Date returns the displayed date text.
func (c *Card) Date() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.date
}

func (c *Card) Show() { c.setState(Visible) }
func (c *Card) Hide() { c.setState(Hidden) }

// State returns the display state.
func (c *Card) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Visible reports whether the card is shown.
func (c *Card) Visible() bool {
	return c.State() == Visible
}

func (c *Card) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// OnActivated registers fn for clicks on the card body.
func (c *Card) OnActivated(fn func()) func() {
	return c.activated.Add(func(struct{}) { fn() })
}

// OnDeleteRequested registers fn for presses of either delete control.
func (c *Card) OnDeleteRequested(fn func()) func() {
	return c.deleteRequested.Add(func(struct{}) { fn() })
}

// Click activates the card.
func (c *Card) Click() {
	if c.isDisposed() {
		return
	}
	c.activated.Emit(struct{}{})
}

// PressDelete presses one of the delete controls.
func (c *Card) PressDelete(_ DeleteControl) {
	if c.isDisposed() {
		return
	}
	c.deleteRequested.Emit(struct{}{})
}

// Dispose drops every subscription. Interactions are ignored afterwards.
func (c *Card) Dispose() {
	c.mu.Lock()
	c.disposed = true
	c.mu.Unlock()
	c.activated.Reset()
	c.deleteRequested.Reset()
}

// Disposed reports whether Dispose was called.
func (c *Card) Disposed() bool {
	return c.isDisposed()
}

func (c *Card) isDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}
