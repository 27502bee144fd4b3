package scene

import (
	"sort"
	"sync"

	"github.com/rpggio/bimtodo/internal/domain/highlight"
)

// GroupState is a snapshot of one highlight group.
type GroupState struct {
	Key       string                 `json:"key"`
	Color     string                 `json:"color"`
	Selection highlight.SelectionMap `json:"selection"`
	// Applied counts HighlightByID calls since the group was registered.
	Applied int `json:"applied"`
}

type group struct {
	style   highlight.Style
	sel     highlight.SelectionMap
	applied int
}

// FragmentHighlighter keeps named groups of highlighted objects.
type FragmentHighlighter struct {
	mu     sync.RWMutex
	groups map[string]*group
}

// NewFragmentHighlighter creates a highlighter with the select group registered.
func NewFragmentHighlighter() *FragmentHighlighter {
	return &FragmentHighlighter{
		groups: map[string]*group{
			highlight.SelectGroup: {style: highlight.Style{Color: 0xbcf124}},
		},
	}
}

func (h *FragmentHighlighter) AddGroup(key string, style highlight.Style) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.groups[key]; ok {
		return highlight.ErrGroupExists
	}
	h.groups[key] = &group{style: style}
	return nil
}

func (h *FragmentHighlighter) HighlightByID(key string, sel highlight.SelectionMap) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	g, ok := h.groups[key]
	if !ok {
		return highlight.ErrUnknownGroup
	}
	g.sel = sel.Clone()
	g.applied++
	return nil
}

func (h *FragmentHighlighter) Clear(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if g, ok := h.groups[key]; ok {
		g.sel = nil
	}
}

func (h *FragmentHighlighter) Selection(key string) highlight.SelectionMap {
	h.mu.RLock()
	defer h.mu.RUnlock()
	g, ok := h.groups[key]
	if !ok {
		return highlight.SelectionMap{}
	}
	return g.sel.Clone()
}

// Select replaces the user's current selection.
func (h *FragmentHighlighter) Select(sel highlight.SelectionMap) {
	_ = h.HighlightByID(highlight.SelectGroup, sel)
}

// Groups returns every group ordered by key.
func (h *FragmentHighlighter) Groups() []GroupState {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]GroupState, 0, len(h.groups))
	for key, g := range h.groups {
		out = append(out, GroupState{
			Key:       key,
			Color:     g.style.Hex(),
			Selection: g.sel.Clone(),
			Applied:   g.applied,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
