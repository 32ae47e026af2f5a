package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/content"
)

// itemRow flattens the three item kinds over the shared item table.
type itemRow struct {
	ID          string    `db:"id"`
	SectionID   string    `db:"section_id"`
	Kind        string    `db:"kind"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Order       int       `db:"order"`
	Hidden      bool      `db:"hidden"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	SourceType      sql.NullString `db:"source_type"`
	FilePath        sql.NullString `db:"file_path"`
	FileContentType sql.NullString `db:"file_content_type"`
	FileSize        sql.NullInt64  `db:"file_size"`
	HTML            sql.NullString `db:"html"`
	EmbedURL        sql.NullString `db:"embed_url"`

	TotalMarks           sql.NullInt64  `db:"total_marks"`
	PassingMarks         sql.NullInt64  `db:"passing_marks"`
	Brief                sql.NullString `db:"brief"`
	BriefFilePath        sql.NullString `db:"brief_file_path"`
	BriefFileContentType sql.NullString `db:"brief_file_content_type"`
	BriefFileSize        sql.NullInt64  `db:"brief_file_size"`
	AttemptsAllowed      sql.NullInt64  `db:"attempts_allowed"`

	DueDate sql.NullTime `db:"due_date"`

	QuizURL         sql.NullString `db:"quiz_url"`
	DurationMinutes sql.NullInt64  `db:"duration_minutes"`
}

func (r itemRow) base() content.ItemBase {
	return content.ItemBase{
		ID:          r.ID,
		SectionID:   r.SectionID,
		Kind:        content.Kind(r.Kind),
		Title:       r.Title,
		Description: r.Description,
		Order:       r.Order,
		Hidden:      r.Hidden,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r itemRow) unpack() content.Item {
	switch content.Kind(r.Kind) {
	case content.KindMaterial:
		mat := &content.Material{
			ItemBase:   r.base(),
			SourceType: content.SourceType(r.SourceType.String),
			HTML:       r.HTML.String,
			EmbedURL:   r.EmbedURL.String,
		}
		if r.FilePath.Valid {
			mat.File = &content.FileRef{
				Path:        r.FilePath.String,
				ContentType: r.FileContentType.String,
				Size:        r.FileSize.Int64,
			}
		}
		return mat
	case content.KindAssignment:
		asg := &content.Assignment{
			ItemBase:     r.base(),
			TotalMarks:   int(r.TotalMarks.Int64),
			PassingMarks: int(r.PassingMarks.Int64),
			Brief:        r.Brief.String,
		}
		if r.BriefFilePath.Valid {
			asg.BriefFile = &content.FileRef{
				Path:        r.BriefFilePath.String,
				ContentType: r.BriefFileContentType.String,
				Size:        r.BriefFileSize.Int64,
			}
		}
		if r.AttemptsAllowed.Valid {
			n := int(r.AttemptsAllowed.Int64)
			asg.AttemptsAllowed = &n
		}
		if r.DueDate.Valid {
			d := r.DueDate.Time
			asg.DueDate = &d
		}
		return asg
	case content.KindQuiz:
		qz := &content.Quiz{
			ItemBase:        r.base(),
			QuizURL:         r.QuizURL.String,
			DurationMinutes: int(r.DurationMinutes.Int64),
		}
		if r.DueDate.Valid {
			d := r.DueDate.Time
			qz.DueDate = &d
		}
		return qz
	}
	return nil
}

func pack(it content.Item) itemRow {
	b := it.Base()
	r := itemRow{
		ID:          b.ID,
		SectionID:   b.SectionID,
		Kind:        string(b.Kind),
		Title:       b.Title,
		Description: b.Description,
		Order:       b.Order,
		Hidden:      b.Hidden,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	switch v := it.(type) {
	case *content.Material:
		r.SourceType = sql.NullString{String: string(v.SourceType), Valid: true}
		if v.File != nil {
			r.FilePath = sql.NullString{String: v.File.Path, Valid: true}
			r.FileContentType = sql.NullString{String: v.File.ContentType, Valid: true}
			r.FileSize = sql.NullInt64{Int64: v.File.Size, Valid: true}
		}
		if v.HTML != "" {
			r.HTML = sql.NullString{String: v.HTML, Valid: true}
		}
		if v.EmbedURL != "" {
			r.EmbedURL = sql.NullString{String: v.EmbedURL, Valid: true}
		}
	case *content.Assignment:
		r.TotalMarks = sql.NullInt64{Int64: int64(v.TotalMarks), Valid: true}
		r.PassingMarks = sql.NullInt64{Int64: int64(v.PassingMarks), Valid: true}
		if v.Brief != "" {
			r.Brief = sql.NullString{String: v.Brief, Valid: true}
		}
		if v.BriefFile != nil {
			r.BriefFilePath = sql.NullString{String: v.BriefFile.Path, Valid: true}
			r.BriefFileContentType = sql.NullString{String: v.BriefFile.ContentType, Valid: true}
			r.BriefFileSize = sql.NullInt64{Int64: v.BriefFile.Size, Valid: true}
		}
		if v.AttemptsAllowed != nil {
			r.AttemptsAllowed = sql.NullInt64{Int64: int64(*v.AttemptsAllowed), Valid: true}
		}
		if v.DueDate != nil {
			r.DueDate = sql.NullTime{Time: *v.DueDate, Valid: true}
		}
	case *content.Quiz:
		r.QuizURL = sql.NullString{String: v.QuizURL, Valid: true}
		r.DurationMinutes = sql.NullInt64{Int64: int64(v.DurationMinutes), Valid: true}
		if v.DueDate != nil {
			r.DueDate = sql.NullTime{Time: *v.DueDate, Valid: true}
		}
	}
	return r
}

type contentRepository struct {
	db *sqlx.DB
}

var _ content.Repository = (*contentRepository)(nil)

func NewContentRepository(db *sqlx.DB) content.Repository {
	return &contentRepository{db: db}
}

func (repo *contentRepository) CreateItem(it content.Item) (content.Item, error) {
	it.Base().ID = uuid.New().String()
	r := pack(it)
	_, err := repo.db.NamedExec(
		`INSERT INTO item (id, section_id, kind, title, description, "order", hidden,
		                   source_type, file_path, file_content_type, file_size, html, embed_url,
		                   total_marks, passing_marks, brief, brief_file_path, brief_file_content_type,
		                   brief_file_size, attempts_allowed, due_date, quiz_url, duration_minutes,
		                   created_at, updated_at)
		 VALUES (:id, :section_id, :kind, :title, :description, :order, :hidden,
		         :source_type, :file_path, :file_content_type, :file_size, :html, :embed_url,
		         :total_marks, :passing_marks, :brief, :brief_file_path, :brief_file_content_type,
		         :brief_file_size, :attempts_allowed, :due_date, :quiz_url, :duration_minutes,
		         :created_at, :updated_at)`,
		r,
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating item")
	}
	return it, nil
}

func (repo *contentRepository) QueryItems(sectionID string, kind content.Kind) ([]content.Item, error) {
	var rows []itemRow
	err := repo.db.Select(&rows, `SELECT * FROM item WHERE section_id = $1 AND kind = $2`, sectionID, string(kind))
	if err != nil {
		return nil, errors.Wrap(err, "querying items")
	}
	items := make([]content.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.unpack())
	}
	return items, nil
}

func (repo *contentRepository) GetItem(id string, kind content.Kind) (content.Item, error) {
	var r itemRow
	err := repo.db.Get(&r, `SELECT * FROM item WHERE id = $1 AND kind = $2`, id, string(kind))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, content.ErrNotFound
		}
		return nil, errors.Wrap(err, "getting item")
	}
	return r.unpack(), nil
}

func (repo *contentRepository) UpdateItem(it content.Item) (content.Item, error) {
	r := pack(it)
	res, err := repo.db.NamedExec(
		`UPDATE item
		 SET title = :title, description = :description, "order" = :order, hidden = :hidden,
		     source_type = :source_type, file_path = :file_path, file_content_type = :file_content_type,
		     file_size = :file_size, html = :html, embed_url = :embed_url,
		     total_marks = :total_marks, passing_marks = :passing_marks, brief = :brief,
		     brief_file_path = :brief_file_path, brief_file_content_type = :brief_file_content_type,
		     brief_file_size = :brief_file_size, attempts_allowed = :attempts_allowed,
		     due_date = :due_date, quiz_url = :quiz_url, duration_minutes = :duration_minutes,
		     updated_at = :updated_at
		 WHERE id = :id`,
		r,
	)
	if err != nil {
		return nil, errors.Wrap(err, "updating item")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, content.ErrNotFound
	}
	return it, nil
}

// UpdateItemOrders writes every item's order in one transaction so a failed
// reorder never leaves a partially-written sequence behind.
func (repo *contentRepository) UpdateItemOrders(items []content.Item) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "beginning reorder tx")
	}
	now := time.Now().UTC()
	for _, it := range items {
		b := it.Base()
		res, err := tx.Exec(`UPDATE item SET "order" = $1, updated_at = $2 WHERE id = $3`, b.Order, now, b.ID)
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "updating item order")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			_ = tx.Rollback()
			return errors.Wrap(content.ErrNotFound, "updating item order")
		}
	}
	return errors.Wrap(tx.Commit(), "committing reorder tx")
}

func (repo *contentRepository) DeleteItemsByID(kind content.Kind, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.Exec(`DELETE FROM item WHERE kind = $1 AND id = ANY($2)`, string(kind), pq.Array(ids))
	if err != nil {
		return errors.Wrap(err, "deleting items")
	}
	return nil
}

func (repo *contentRepository) UpsertDeadlineOverride(ov content.DeadlineOverride) (content.DeadlineOverride, error) {
	_, err := repo.db.Exec(
		`INSERT INTO deadline_override (item_id, user_id, deadline, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (item_id, user_id) DO UPDATE SET deadline = EXCLUDED.deadline, updated_at = EXCLUDED.updated_at`,
		ov.ItemID, ov.UserID, ov.Deadline, ov.CreatedAt, ov.UpdatedAt,
	)
	if err != nil {
		return content.DeadlineOverride{}, errors.Wrap(err, "upserting deadline override")
	}
	return ov, nil
}

func (repo *contentRepository) QueryDeadlineOverridesByItemID(itemIDs ...string) ([]content.DeadlineOverride, error) {
	if len(itemIDs) == 0 {
		return []content.DeadlineOverride{}, nil
	}
	var rows []struct {
		ItemID    string    `db:"item_id"`
		UserID    string    `db:"user_id"`
		Deadline  time.Time `db:"deadline"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	err := repo.db.Select(&rows, `SELECT * FROM deadline_override WHERE item_id = ANY($1)`, pq.Array(itemIDs))
	if err != nil {
		return nil, errors.Wrap(err, "querying deadline overrides")
	}
	overrides := make([]content.DeadlineOverride, 0, len(rows))
	for _, r := range rows {
		overrides = append(overrides, content.DeadlineOverride{
			ItemID:    r.ItemID,
			UserID:    r.UserID,
			Deadline:  r.Deadline,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return overrides, nil
}
