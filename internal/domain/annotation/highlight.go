package annotation

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rpggio/bimtodo/internal/domain/highlight"
)

// DefaultGroupPrefix prefixes the priority highlight group keys.
const DefaultGroupPrefix = "bimtodo"

// ErrStylesNotRegistered indicates ToggleAll ran before RegisterPriorityStyles.
var ErrStylesNotRegistered = errors.New("priority styles not registered")

// DefaultPriorityStyles returns the stock colors for each priority.
func DefaultPriorityStyles() map[Priority]highlight.Style {
	return map[Priority]highlight.Style{
		PriorityLow:    {Color: 0x59bc59},
		PriorityMedium: {Color: 0x597cff},
		PriorityHigh:   {Color: 0xff7676},
	}
}

// HighlightPolicy colors every annotation's referenced objects by priority.
type HighlightPolicy struct {
	highlighter highlight.Highlighter
	prefix      string
	logger      *slog.Logger

	mu         sync.Mutex
	registered bool
	active     bool
}

// NewHighlightPolicy creates a policy over h. An empty prefix uses DefaultGroupPrefix.
func NewHighlightPolicy(h highlight.Highlighter, prefix string, logger *slog.Logger) *HighlightPolicy {
	if prefix == "" {
		prefix = DefaultGroupPrefix
	}
	return &HighlightPolicy{highlighter: h, prefix: prefix, logger: logger}
}

// GroupKey returns the highlight group for a priority.
func (p *HighlightPolicy) GroupKey(priority Priority) string {
	return fmt.Sprintf("%s-priority-%s", p.prefix, priority)
}

// RegisterPriorityStyles registers one highlight group per priority. Every
// level must have a style and registration happens once.
func (p *HighlightPolicy) RegisterPriorityStyles(styles map[Priority]highlight.Style) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.registered {
		return ErrStylesRegistered
	}
	for _, priority := range Priorities {
		if _, ok := styles[priority]; !ok {
			return fmt.Errorf("%w: missing style for %s", ErrInvalidInput, priority)
		}
	}
	for _, priority := range Priorities {
		if err := p.highlighter.AddGroup(p.GroupKey(priority), styles[priority]); err != nil {
			return fmt.Errorf("registering %s group: %w", priority, err)
		}
	}
	p.registered = true
	return nil
}

// ToggleAll flips the priority coloring and returns the new state. Turning on
// applies the union of references per priority to that priority's group;
// annotations without references are skipped. Turning off clears all three groups.
func (p *HighlightPolicy) ToggleAll(annotations []Annotation) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.registered {
		return p.active, ErrStylesNotRegistered
	}

	p.active = !p.active
	if !p.active {
		for _, priority := range Priorities {
			p.highlighter.Clear(p.GroupKey(priority))
		}
		return false, nil
	}

	merged := make(map[Priority]highlight.SelectionMap, len(Priorities))
	for _, a := range annotations {
		if !a.HasReferences() {
			continue
		}
		merged[a.Priority] = merged[a.Priority].Merge(a.References)
	}

	var errs []error
	for _, priority := range Priorities {
		sel, ok := merged[priority]
		if !ok {
			continue
		}
		if err := p.highlighter.HighlightByID(p.GroupKey(priority), sel); err != nil {
			errs = append(errs, fmt.Errorf("highlighting %s: %w", priority, err))
		}
	}
	if p.logger != nil {
		p.logger.Debug("priority highlight on", "annotations", len(annotations), "groups", len(merged))
	}
	return true, errors.Join(errs...)
}

// Active reports whether priority coloring is on.
func (p *HighlightPolicy) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}
