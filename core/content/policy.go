package content

import (
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

// DeadlineOverride replaces an assignment's or quiz's due date for one user.
// At most one override exists per (item, user) pair.
type DeadlineOverride struct {
	ItemID    string    `json:"item_id"`
	UserID    string    `json:"user_id"`
	Deadline  time.Time `json:"deadline"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDeadlineOverride contains information needed to create or replace a DeadlineOverride.
type NewDeadlineOverride struct {
	ItemID   string    `json:"item_id" validate:"required"`
	UserID   string    `json:"user_id" validate:"required"`
	Deadline time.Time `json:"deadline" validate:"required"`
}

func (no *NewDeadlineOverride) Validate() error {
	return core.Validate.Struct(no)
}

// SetHidden flips the item's hidden flag. Admin-gated via the explicit actor.
func SetHidden(it Item, hidden bool, actor user.Actor) error {
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}
	b := it.Base()
	b.Hidden = hidden
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// VisibleItems filters out hidden items for non-admin actors.
func VisibleItems(items []Item, actor user.Actor) []Item {
	if actor.IsAdmin() {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if !it.Base().Hidden {
			out = append(out, it)
		}
	}
	return out
}

// EffectiveDeadline resolves the deadline that actually applies to one user:
// the user's override if any, else the item's own due date, else nil.
// Total: the absence of both is a valid "no deadline" state, not an error.
func EffectiveDeadline(it Item, userID string, overrides []DeadlineOverride) *time.Time {
	id := it.Base().ID
	for i := range overrides {
		if overrides[i].ItemID == id && overrides[i].UserID == userID {
			d := overrides[i].Deadline
			return &d
		}
	}
	return DueAt(it)
}
