package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vhoward/training-plan-api/internal/models"
)

// SubjectRepository persists subjects as whole JSON documents alongside the
// summary columns used for listings. Saves overwrite the full document;
// last writer wins.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs the repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// Save upserts the subject document and refreshes its summary columns.
func (r *SubjectRepository) Save(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = subject.UpdatedAt
	}
	doc, err := json.Marshal(subject)
	if err != nil {
		return fmt.Errorf("marshal subject: %w", err)
	}
	const query = `INSERT INTO subjects (id, name, code, location, default_duration, category_main, category_sub, lesson_count, doc, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id)
DO UPDATE SET name = EXCLUDED.name, code = EXCLUDED.code, location = EXCLUDED.location,
              default_duration = EXCLUDED.default_duration, category_main = EXCLUDED.category_main,
              category_sub = EXCLUDED.category_sub, lesson_count = EXCLUDED.lesson_count,
              doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query,
		subject.ID, subject.Name, subject.Code, subject.Location, subject.DefaultDuration,
		subject.CategoryMain, subject.CategorySub, len(subject.Lessons), doc,
		subject.CreatedAt, subject.UpdatedAt); err != nil {
		return fmt.Errorf("save subject: %w", err)
	}
	return nil
}

// FindByID loads a subject document. Returns sql.ErrNoRows when missing.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	const query = `SELECT doc FROM subjects WHERE id = $1`
	var doc []byte
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		return nil, err
	}
	var subject models.Subject
	if err := json.Unmarshal(doc, &subject); err != nil {
		return nil, fmt.Errorf("decode subject %s: %w", id, err)
	}
	return &subject, nil
}

// List returns subject summaries ordered by name.
func (r *SubjectRepository) List(ctx context.Context) ([]models.SubjectSummary, error) {
	const query = `SELECT id, name, code, location, default_duration, category_main, category_sub, lesson_count, created_at, updated_at
FROM subjects ORDER BY name ASC`
	var summaries []models.SubjectSummary
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return summaries, nil
}

// ListAll loads every subject document. Used for referential checks that need
// the full object graph, such as the prerequisite guard on delete.
func (r *SubjectRepository) ListAll(ctx context.Context) ([]models.Subject, error) {
	const query = `SELECT doc FROM subjects ORDER BY name ASC`
	var docs [][]byte
	if err := r.db.SelectContext(ctx, &docs, query); err != nil {
		return nil, fmt.Errorf("list subject documents: %w", err)
	}
	subjects := make([]models.Subject, 0, len(docs))
	for _, doc := range docs {
		var subject models.Subject
		if err := json.Unmarshal(doc, &subject); err != nil {
			return nil, fmt.Errorf("decode subject document: %w", err)
		}
		subjects = append(subjects, subject)
	}
	return subjects, nil
}

// ExistsByName reports whether a different subject already uses the name.
func (r *SubjectRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM subjects WHERE lower(name) = lower($1) AND id <> $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name, excludeID); err != nil {
		return false, fmt.Errorf("check subject name: %w", err)
	}
	return exists, nil
}

// Delete removes a subject. Returns sql.ErrNoRows when nothing matched.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM subjects WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
