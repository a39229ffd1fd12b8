package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhoward/training-plan-api/internal/models"
)

func TestScheduleRepositorySave(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewScheduleRepository(db)
	mock.ExpectExec("INSERT INTO schedules").
		WithArgs("sched-1", "September plan", sqlmock.AnyArg(), sqlmock.AnyArg(), 2,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	schedule := &models.Schedule{
		ID:        "sched-1",
		Name:      "September plan",
		StartDate: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.September, 14, 0, 0, 0, 0, time.UTC),
		Weeks:     make([]models.WeekSchedule, 2),
	}
	require.NoError(t, repo.Save(context.Background(), schedule))
}

func TestScheduleRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewScheduleRepository(db)
	doc, err := json.Marshal(&models.Schedule{ID: "sched-1", Name: "September plan"})
	require.NoError(t, err)
	mock.ExpectQuery("SELECT doc FROM schedules").
		WithArgs("sched-1").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(doc))

	schedule, err := repo.FindByID(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Equal(t, "September plan", schedule.Name)
}

func TestScheduleRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewScheduleRepository(db)
	rows := sqlmock.NewRows([]string{"id", "name", "start_date", "end_date", "week_count", "created_at", "updated_at"}).
		AddRow("sched-1", "September plan", time.Now(), time.Now(), 2, time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, name, start_date").WillReturnRows(rows)

	summaries, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].WeekCount)
}

func TestScheduleRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewScheduleRepository(db)
	mock.ExpectExec("DELETE FROM schedules").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}
