package content

import (
	"testing"
)

func makeMaterials(sectionID string, orders ...int) []Item {
	items := make([]Item, 0, len(orders))
	for i, ord := range orders {
		items = append(items, &Material{
			ItemBase: ItemBase{
				ID:        string(rune('A' + i)),
				SectionID: sectionID,
				Kind:      KindMaterial,
				Title:     "m" + string(rune('A'+i)),
				Order:     ord,
			},
			SourceType: SourceText,
			HTML:       "<p>hi</p>",
		})
	}
	return items
}

func ids(items []Item) string {
	var s string
	for _, it := range items {
		s += it.Base().ID
	}
	return s
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name     string
		orders   []int
		movedID  string
		from, to int
		wantIDs  string
		wantErr  error
	}{
		{name: "move forward", orders: []int{0, 1, 2, 3}, movedID: "B", from: 1, to: 3, wantIDs: "ACDB"},
		{name: "move backward", orders: []int{0, 1, 2, 3}, movedID: "D", from: 3, to: 0, wantIDs: "DABC"},
		{name: "move to middle", orders: []int{0, 1, 2, 3}, movedID: "A", from: 0, to: 2, wantIDs: "BCAD"},
		{name: "no-op move keeps relative order", orders: []int{0, 1, 2, 3}, movedID: "C", from: 2, to: 2, wantIDs: "ABCD"},
		{name: "gapped input is compacted", orders: []int{0, 3, 7, 12}, movedID: "C", from: 2, to: 2, wantIDs: "ABCD"},
		{name: "single element", orders: []int{5}, movedID: "A", from: 0, to: 0, wantIDs: "A"},
		{name: "from out of range", orders: []int{0, 1, 2}, movedID: "A", from: 3, to: 0, wantErr: ErrInvalidMove},
		{name: "negative from", orders: []int{0, 1, 2}, movedID: "A", from: -1, to: 0, wantErr: ErrInvalidMove},
		{name: "to out of range", orders: []int{0, 1, 2}, movedID: "A", from: 0, to: 3, wantErr: ErrInvalidMove},
		{name: "unknown moved id", orders: []int{0, 1, 2}, movedID: "Z", from: 0, to: 1, wantErr: ErrInvalidMove},
		{name: "id not at from index", orders: []int{0, 1, 2}, movedID: "B", from: 0, to: 1, wantErr: ErrInvalidMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := makeMaterials("sec1", tt.orders...)
			origOrders := make([]int, len(items))
			for i, it := range items {
				origOrders[i] = it.Base().Order
			}

			got, err := Reorder(items, tt.movedID, tt.from, tt.to)
			if err != tt.wantErr {
				t.Fatalf("Reorder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				// the input must be byte-for-byte untouched
				for i, it := range items {
					if it.Base().Order != origOrders[i] {
						t.Errorf("Reorder() modified input on error: item %s order %d, want %d",
							it.Base().ID, it.Base().Order, origOrders[i])
					}
				}
				return
			}

			if gotIDs := ids(got); gotIDs != tt.wantIDs {
				t.Errorf("Reorder() sequence = %s, want %s", gotIDs, tt.wantIDs)
			}
			// dense zero-based order, no gaps, no duplicates
			for i, it := range got {
				if it.Base().Order != i {
					t.Errorf("Reorder() item %s order = %d, want %d", it.Base().ID, it.Base().Order, i)
				}
			}
		})
	}
}

func TestReorderDenseInvariant(t *testing.T) {
	// arbitrary distinct initial orders; every valid (from, to) pair must
	// yield exactly {0..N-1}
	n := 5
	for from := 0; from < n; from++ {
		for to := 0; to < n; to++ {
			items := makeMaterials("sec1", 3, 9, 27, 81, 243)
			movedID := items[from].Base().ID
			got, err := Reorder(items, movedID, from, to)
			if err != nil {
				t.Fatalf("Reorder(%d, %d) failed: %v", from, to, err)
			}
			seen := make(map[int]bool, n)
			for _, it := range got {
				seen[it.Base().Order] = true
			}
			for i := 0; i < n; i++ {
				if !seen[i] {
					t.Errorf("Reorder(%d, %d) missing order %d", from, to, i)
				}
			}
		}
	}
}
