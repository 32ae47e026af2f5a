package inmemdb

import (
	"sync"

	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/progress"
	"github.com/trezcool/darasa/core/user"
)

type (
	userTable struct {
		mutex sync.RWMutex
		table map[string]*user.User
	}

	courseTable struct {
		mutex    sync.RWMutex
		courses  map[string]*course.Course
		sections map[string]*course.Section
	}

	contentTable struct {
		mutex     sync.RWMutex
		items     map[string]content.Item
		overrides map[string]*content.DeadlineOverride // key: itemID|userID
	}

	progressTable struct {
		mutex        sync.RWMutex
		records      map[string]*progress.CompletionRecord
		submissions  map[string]*progress.Submission
		certificates map[string]*progress.Certificate
	}

	DB struct {
		user     *userTable
		course   *courseTable
		content  *contentTable
		progress *progressTable
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:   &userTable{table: make(map[string]*user.User)},
		course: &courseTable{courses: make(map[string]*course.Course), sections: make(map[string]*course.Section)},
		content: &contentTable{
			items:     make(map[string]content.Item),
			overrides: make(map[string]*content.DeadlineOverride),
		},
		progress: &progressTable{
			records:      make(map[string]*progress.CompletionRecord),
			submissions:  make(map[string]*progress.Submission),
			certificates: make(map[string]*progress.Certificate),
		},
	}
	return db, nil
}
