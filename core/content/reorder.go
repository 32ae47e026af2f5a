package content

import "errors"

// ErrInvalidMove is returned when a reorder is asked to move an unknown item
// or to/from an index outside the list.
var ErrInvalidMove = errors.New("invalid move")

// Reorder relocates the element at fromIdx to toIdx (remove then insert, not a
// swap) and rewrites every element's Order to its dense zero-based position in
// the resulting sequence. Rewriting all positions rather than just the moved
// neighborhood keeps the dense-order invariant even when the input arrived
// with gaps, e.g. after an out-of-band deletion.
//
// On error nothing is modified. On success the Order fields are rewritten in
// place and the new arrangement is returned; the input slice itself is not
// reordered.
func Reorder(items []Item, movedID string, fromIdx, toIdx int) ([]Item, error) {
	n := len(items)
	if fromIdx < 0 || fromIdx >= n || toIdx < 0 || toIdx >= n {
		return nil, ErrInvalidMove
	}
	moved := items[fromIdx]
	if moved.Base().ID != movedID {
		return nil, ErrInvalidMove
	}

	out := make([]Item, 0, n)
	out = append(out, items[:fromIdx]...)
	out = append(out, items[fromIdx+1:]...)

	out = append(out, nil)
	copy(out[toIdx+1:], out[toIdx:])
	out[toIdx] = moved

	for i, it := range out {
		it.Base().Order = i
	}
	return out, nil
}
