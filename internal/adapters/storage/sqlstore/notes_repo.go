package sqlstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"peluqueria-canina/internal/domain/notes"
)

type NotesRepo struct {
	db *gorm.DB
}

func NewNotesRepo(db *gorm.DB) *NotesRepo {
	return &NotesRepo{db: db}
}

var _ notes.Repository = (*NotesRepo)(nil)

func (r *NotesRepo) Create(ctx context.Context, n notes.Note) error {
	rec := NoteRecord{
		ID:        n.ID,
		DogID:     n.DogID,
		Note:      n.Text,
		Date:      utc(n.Date),
		CreatedBy: n.CreatedBy,
	}
	return wrap(r.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error, "create note")
}

func (r *NotesRepo) ListByDog(ctx context.Context, dogID string, limit int) ([]notes.Note, error) {
	q := r.db.WithContext(ctx).Where("dog_id = ?", dogID).Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recs []NoteRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, wrap(err, "list notes")
	}
	out := make([]notes.Note, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromNoteRecord(rec))
	}
	return out, nil
}
