// Package highlight describes object selections and the highlighter capability
// used to render them in named groups.
package highlight

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SelectGroup is the group the viewer uses for the user's current selection.
const SelectGroup = "select"

// SelectionMap identifies scene objects: model ID to object IDs in that model.
type SelectionMap map[string][]int

// Empty reports whether the map references no objects.
func (m SelectionMap) Empty() bool {
	for _, ids := range m {
		if len(ids) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy with sorted, de-duplicated object IDs and no empty models.
func (m SelectionMap) Clone() SelectionMap {
	out := make(SelectionMap, len(m))
	for model, ids := range m {
		if len(ids) == 0 {
			continue
		}
		set := make(map[int]struct{}, len(ids))
		cp := make([]int, 0, len(ids))
		for _, id := range ids {
			if _, ok := set[id]; ok {
				continue
			}
			set[id] = struct{}{}
			cp = append(cp, id)
		}
		sort.Ints(cp)
		out[model] = cp
	}
	return out
}

// Merge returns the union of m and o as a new map.
func (m SelectionMap) Merge(o SelectionMap) SelectionMap {
	out := make(SelectionMap, len(m)+len(o))
	for model, ids := range m {
		out[model] = append(out[model], ids...)
	}
	for model, ids := range o {
		out[model] = append(out[model], ids...)
	}
	return out.Clone()
}

// Count returns the number of referenced objects.
func (m SelectionMap) Count() int {
	n := 0
	for _, ids := range m {
		n += len(ids)
	}
	return n
}

// Style is the visual style of a highlight group.
type Style struct {
	Color   uint32  `json:"color"`
	Opacity float32 `json:"opacity,omitempty"`
}

// ParseColor reads "#rrggbb", "0xrrggbb" or "rrggbb".
func ParseColor(s string) (uint32, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimPrefix(v, "#")
	v = strings.TrimPrefix(strings.ToLower(v), "0x")
	if len(v) != 6 {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint32(n), nil
}

// Hex formats the style color as "#rrggbb".
func (s Style) Hex() string {
	return fmt.Sprintf("#%06x", s.Color)
}
