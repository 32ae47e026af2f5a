package content

import (
	"errors"
	"sort"
	"time"

	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound  = errors.New("item not found")
	ErrAdminOnly = errors.New("operation requires an admin")
)

type (
	Repository interface {
		CreateItem(it Item) (Item, error)
		// QueryItems returns the items of one kind in a section, in no
		// particular order. An unknown section yields an empty slice.
		QueryItems(sectionID string, kind Kind) ([]Item, error)
		GetItem(id string, kind Kind) (Item, error)
		UpdateItem(it Item) (Item, error)
		// UpdateItemOrders persists every item's order position atomically:
		// either all writes land or none do.
		UpdateItemOrders(items []Item) error
		DeleteItemsByID(kind Kind, ids ...string) error

		UpsertDeadlineOverride(ov DeadlineOverride) (DeadlineOverride, error)
		QueryDeadlineOverridesByItemID(itemIDs ...string) ([]DeadlineOverride, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ItemsOf returns a section's items of one kind, stable-sorted by order
// position ascending, ties broken by ID for deterministic iteration.
func (svc *Service) ItemsOf(sectionID string, kind Kind) ([]Item, error) {
	items, err := svc.repo.QueryItems(sectionID, kind)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		bi, bj := items[i].Base(), items[j].Base()
		if bi.Order != bj.Order {
			return bi.Order < bj.Order
		}
		return bi.ID < bj.ID
	})
	return items, nil
}

// VisibleItemsOf is ItemsOf with the visibility policy applied for the actor.
func (svc *Service) VisibleItemsOf(sectionID string, kind Kind, actor user.Actor) ([]Item, error) {
	items, err := svc.ItemsOf(sectionID, kind)
	if err != nil {
		return nil, err
	}
	return VisibleItems(items, actor), nil
}

func (svc *Service) CreateMaterial(nm NewMaterial, actor user.Actor) (*Material, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	now := time.Now().UTC()
	it, err := svc.repo.CreateItem(&Material{
		ItemBase: ItemBase{
			SectionID:   nm.SectionID,
			Kind:        KindMaterial,
			Title:       nm.Title,
			Description: nm.Description,
			Order:       nm.Order,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		SourceType: nm.SourceType,
		File:       nm.File,
		HTML:       nm.HTML,
		EmbedURL:   nm.EmbedURL,
	})
	if err != nil {
		return nil, err
	}
	return it.(*Material), nil
}

func (svc *Service) CreateAssignment(na NewAssignment, actor user.Actor) (*Assignment, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	now := time.Now().UTC()
	it, err := svc.repo.CreateItem(&Assignment{
		ItemBase: ItemBase{
			SectionID:   na.SectionID,
			Kind:        KindAssignment,
			Title:       na.Title,
			Description: na.Description,
			Order:       na.Order,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		TotalMarks:      na.TotalMarks,
		PassingMarks:    na.PassingMarks,
		DueDate:         na.DueDate,
		Brief:           na.Brief,
		BriefFile:       na.BriefFile,
		AttemptsAllowed: na.AttemptsAllowed,
	})
	if err != nil {
		return nil, err
	}
	return it.(*Assignment), nil
}

func (svc *Service) CreateQuiz(nq NewQuiz, actor user.Actor) (*Quiz, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	now := time.Now().UTC()
	it, err := svc.repo.CreateItem(&Quiz{
		ItemBase: ItemBase{
			SectionID:   nq.SectionID,
			Kind:        KindQuiz,
			Title:       nq.Title,
			Description: nq.Description,
			Order:       nq.Order,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		QuizURL:         nq.QuizURL,
		DurationMinutes: nq.DurationMinutes,
		DueDate:         nq.DueDate,
	})
	if err != nil {
		return nil, err
	}
	return it.(*Quiz), nil
}

func (svc *Service) GetItem(id string, kind Kind) (Item, error) {
	return svc.repo.GetItem(id, kind)
}

func (svc *Service) UpdateItem(id string, kind Kind, ui UpdateItem, actor user.Actor) (Item, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	it, err := svc.repo.GetItem(id, kind)
	if err != nil {
		return nil, err
	}
	b := it.Base()
	b.Title = ui.Title
	b.Description = ui.Description
	b.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateItem(it)
}

// SetHidden flips the hidden flag of one item and persists it.
func (svc *Service) SetHidden(id string, kind Kind, hidden bool, actor user.Actor) (Item, error) {
	it, err := svc.repo.GetItem(id, kind)
	if err != nil {
		return nil, err
	}
	if err := SetHidden(it, hidden, actor); err != nil {
		return nil, err
	}
	return svc.repo.UpdateItem(it)
}

// ReorderItems relocates one item within a section's list of one kind and
// persists the rewritten dense order. On any error the stored order is left
// exactly as it was.
func (svc *Service) ReorderItems(sectionID string, kind Kind, movedID string, fromIdx, toIdx int, actor user.Actor) ([]Item, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	items, err := svc.ItemsOf(sectionID, kind)
	if err != nil {
		return nil, err
	}
	reordered, err := Reorder(items, movedID, fromIdx, toIdx)
	if err != nil {
		return nil, err
	}
	if err := svc.repo.UpdateItemOrders(reordered); err != nil {
		return nil, err
	}
	return reordered, nil
}

func (svc *Service) DeleteItems(kind Kind, actor user.Actor, ids ...string) error {
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}
	return svc.repo.DeleteItemsByID(kind, ids...)
}

// SetDeadlineOverride creates or replaces the per-user deadline for one item.
func (svc *Service) SetDeadlineOverride(no NewDeadlineOverride, actor user.Actor) (DeadlineOverride, error) {
	if !actor.IsAdmin() {
		return DeadlineOverride{}, ErrAdminOnly
	}
	now := time.Now().UTC()
	return svc.repo.UpsertDeadlineOverride(DeadlineOverride{
		ItemID:    no.ItemID,
		UserID:    no.UserID,
		Deadline:  no.Deadline.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// EffectiveDeadlineFor resolves the deadline applying to one user for one item.
func (svc *Service) EffectiveDeadlineFor(id string, kind Kind, userID string) (*time.Time, error) {
	it, err := svc.repo.GetItem(id, kind)
	if err != nil {
		return nil, err
	}
	overrides, err := svc.repo.QueryDeadlineOverridesByItemID(id)
	if err != nil {
		return nil, err
	}
	return EffectiveDeadline(it, userID, overrides), nil
}
