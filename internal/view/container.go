package view

import (
	"errors"
	"sync"
)

// ErrMissingUITarget indicates a card had no container to attach to.
var ErrMissingUITarget = errors.New("missing UI target")

// Container is a display surface cards are attached to.
type Container interface {
	Attach(c *Card)
	Detach(c *Card)
}

// Window is an ordered container, e.g. a floating list window.
type Window struct {
	Title string

	mu    sync.Mutex
	cards []*Card
}

// NewWindow creates an empty window.
func NewWindow(title string) *Window {
	return &Window{Title: title}
}

// Attach appends c unless it is already attached.
func (w *Window) Attach(c *Card) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, existing := range w.cards {
		if existing == c {
			return
		}
	}
	w.cards = append(w.cards, c)
}

// Detach removes c if attached.
func (w *Window) Detach(c *Card) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, existing := range w.cards {
		if existing == c {
			w.cards = append(w.cards[:i:i], w.cards[i+1:]...)
			return
		}
	}
}

// Cards returns the attached cards in order.
func (w *Window) Cards() []*Card {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*Card, len(w.cards))
	copy(out, w.cards)
	return out
}
