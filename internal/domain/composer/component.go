package composer

import (
	"bytes"
	"encoding/json"
)

// ComponentItem is one placed component on a page.
type ComponentItem struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Content  map[string]any `json:"content"`
	Settings map[string]any `json:"settings"`
	Order    int            `json:"order"`
}

// Clone returns a deep copy; the copy shares no maps or slices with c.
func (c ComponentItem) Clone() ComponentItem {
	return ComponentItem{
		ID:       c.ID,
		Type:     c.Type,
		Content:  cloneMap(c.Content),
		Settings: cloneMap(c.Settings),
		Order:    c.Order,
	}
}

func cloneItems(items []ComponentItem) []ComponentItem {
	out := make([]ComponentItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// cloneMap never returns nil.
func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = cloneValue(x[i])
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(x))
		for i := range x {
			out[i] = cloneMap(x[i])
		}
		return out
	default:
		return v
	}
}

func indexOf(items []ComponentItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// ItemsEqual compares two lists structurally after sorting both by order.
// Content and settings are compared through their JSON form so numeric
// representations (int vs float64) do not count as edits.
func ItemsEqual(a, b []ComponentItem) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := SortByOrder(a), SortByOrder(b)
	for i := range sa {
		x, y := sa[i], sb[i]
		if x.ID != y.ID || x.Type != y.Type || x.Order != y.Order {
			return false
		}
		if !jsonEqual(x.Content, y.Content) || !jsonEqual(x.Settings, y.Settings) {
			return false
		}
	}
	return true
}

func jsonEqual(a, b map[string]any) bool {
	ja, errA := json.Marshal(cloneMap(a))
	jb, errB := json.Marshal(cloneMap(b))
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}
