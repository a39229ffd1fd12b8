package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vhoward/training-plan-api/internal/models"
)

// ScheduleRepository persists schedules as whole JSON documents with summary
// columns for listings. The planner mutates schedules in memory and saves
// them back wholesale; there is no row-level locking or versioning.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Save upserts the schedule document and its summary columns.
func (r *ScheduleRepository) Save(ctx context.Context, schedule *models.Schedule) error {
	doc, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	const query = `INSERT INTO schedules (id, name, start_date, end_date, week_count, doc, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id)
DO UPDATE SET name = EXCLUDED.name, start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date,
              week_count = EXCLUDED.week_count, doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query,
		schedule.ID, schedule.Name, schedule.StartDate, schedule.EndDate,
		len(schedule.Weeks), doc, schedule.CreatedAt, schedule.UpdatedAt); err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	return nil
}

// FindByID loads a schedule document. Returns sql.ErrNoRows when missing.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	const query = `SELECT doc FROM schedules WHERE id = $1`
	var doc []byte
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		return nil, err
	}
	var schedule models.Schedule
	if err := json.Unmarshal(doc, &schedule); err != nil {
		return nil, fmt.Errorf("decode schedule %s: %w", id, err)
	}
	return &schedule, nil
}

// List returns schedule summaries, newest first.
func (r *ScheduleRepository) List(ctx context.Context) ([]models.ScheduleSummary, error) {
	const query = `SELECT id, name, start_date, end_date, week_count, created_at, updated_at
FROM schedules ORDER BY start_date DESC`
	var summaries []models.ScheduleSummary
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return summaries, nil
}

// Delete removes a schedule. Returns sql.ErrNoRows when nothing matched.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM schedules WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
