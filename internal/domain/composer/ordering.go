package composer

import (
	"fmt"
	"sort"
)

// OrderStep is the gap between consecutive order values after renumbering.
// Every structural change renumbers the whole list, so the gap is cosmetic.
const OrderStep = 10

// SortByOrder returns a stably sorted copy of items.
func SortByOrder(items []ComponentItem) []ComponentItem {
	out := cloneItems(items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Renumber assigns Order = index*OrderStep in current array order.
func Renumber(items []ComponentItem) []ComponentItem {
	out := cloneItems(items)
	for i := range out {
		out[i].Order = i * OrderStep
	}
	return out
}

// InsertAt splices item at index and renumbers. index may equal len(items).
func InsertAt(items []ComponentItem, index int, item ComponentItem) ([]ComponentItem, error) {
	if index < 0 || index > len(items) {
		return nil, fmt.Errorf("%w: insert at %d into %d components", ErrIndexOutOfRange, index, len(items))
	}
	item = item.Clone()
	item.Order = index * OrderStep

	out := make([]ComponentItem, 0, len(items)+1)
	out = append(out, cloneItems(items[:index])...)
	out = append(out, item)
	out = append(out, cloneItems(items[index:])...)
	return Renumber(out), nil
}

// Move removes the item at from, splices it at to and renumbers.
func Move(items []ComponentItem, from, to int) ([]ComponentItem, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, fmt.Errorf("%w: move %d -> %d in %d components", ErrIndexOutOfRange, from, to, len(items))
	}
	out := cloneItems(items)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)

	out = append(out, ComponentItem{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return Renumber(out), nil
}

// Remove drops the component with id and renumbers the remainder.
func Remove(items []ComponentItem, id string) ([]ComponentItem, bool) {
	i := indexOf(items, id)
	if i < 0 {
		return cloneItems(items), false
	}
	out := make([]ComponentItem, 0, len(items)-1)
	out = append(out, cloneItems(items[:i])...)
	out = append(out, cloneItems(items[i+1:])...)
	return Renumber(out), true
}

// Append adds item at the end with Order = len(items)*OrderStep. Existing
// orders are left untouched.
func Append(items []ComponentItem, item ComponentItem) []ComponentItem {
	item = item.Clone()
	item.Order = len(items) * OrderStep
	out := cloneItems(items)
	return append(out, item)
}
