package inmemdb

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/content"
)

type contentRepository struct {
	db *contentTable
}

var _ content.Repository = (*contentRepository)(nil)

func NewContentRepository(db *DB) content.Repository {
	return &contentRepository{db: db.content}
}

// cloneItem returns a detached copy so callers never alias the stored value.
func cloneItem(it content.Item) content.Item {
	switch v := it.(type) {
	case *content.Material:
		cp := *v
		if v.File != nil {
			f := *v.File
			cp.File = &f
		}
		return &cp
	case *content.Assignment:
		cp := *v
		if v.DueDate != nil {
			d := *v.DueDate
			cp.DueDate = &d
		}
		if v.BriefFile != nil {
			f := *v.BriefFile
			cp.BriefFile = &f
		}
		if v.AttemptsAllowed != nil {
			n := *v.AttemptsAllowed
			cp.AttemptsAllowed = &n
		}
		return &cp
	case *content.Quiz:
		cp := *v
		if v.DueDate != nil {
			d := *v.DueDate
			cp.DueDate = &d
		}
		return &cp
	}
	return it
}

func overrideKey(itemID, userID string) string {
	return itemID + "|" + userID
}

func (repo *contentRepository) CreateItem(it content.Item) (content.Item, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored := cloneItem(it)
	stored.Base().ID = uuid.New().String()
	repo.db.items[stored.Base().ID] = stored
	return cloneItem(stored), nil
}

func (repo *contentRepository) QueryItems(sectionID string, kind content.Kind) ([]content.Item, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	items := make([]content.Item, 0)
	for _, it := range repo.db.items {
		b := it.Base()
		if b.SectionID == sectionID && b.Kind == kind {
			items = append(items, cloneItem(it))
		}
	}
	return items, nil
}

func (repo *contentRepository) GetItem(id string, kind content.Kind) (content.Item, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if it, ok := repo.db.items[id]; ok && it.Base().Kind == kind {
		return cloneItem(it), nil
	}
	return nil, content.ErrNotFound
}

func (repo *contentRepository) UpdateItem(it content.Item) (content.Item, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	id := it.Base().ID
	if _, ok := repo.db.items[id]; !ok {
		return nil, content.ErrNotFound
	}
	repo.db.items[id] = cloneItem(it)
	return cloneItem(it), nil
}

func (repo *contentRepository) UpdateItemOrders(items []content.Item) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// all or nothing: verify every item first
	for _, it := range items {
		if _, ok := repo.db.items[it.Base().ID]; !ok {
			return errors.Wrap(content.ErrNotFound, "updating item orders")
		}
	}
	for _, it := range items {
		repo.db.items[it.Base().ID].Base().Order = it.Base().Order
	}
	return nil
}

func (repo *contentRepository) DeleteItemsByID(kind content.Kind, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		if it, ok := repo.db.items[id]; ok && it.Base().Kind == kind {
			delete(repo.db.items, id)
			for key, ov := range repo.db.overrides {
				if ov.ItemID == id {
					delete(repo.db.overrides, key)
				}
			}
		}
	}
	return nil
}

func (repo *contentRepository) UpsertDeadlineOverride(ov content.DeadlineOverride) (content.DeadlineOverride, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := overrideKey(ov.ItemID, ov.UserID)
	if orig, ok := repo.db.overrides[key]; ok {
		ov.CreatedAt = orig.CreatedAt
	}
	repo.db.overrides[key] = &ov
	return ov, nil
}

func (repo *contentRepository) QueryDeadlineOverridesByItemID(itemIDs ...string) ([]content.DeadlineOverride, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	overrides := make([]content.DeadlineOverride, 0)
	for _, ov := range repo.db.overrides {
		if wanted[ov.ItemID] {
			overrides = append(overrides, *ov)
		}
	}
	return overrides, nil
}
