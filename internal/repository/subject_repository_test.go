package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhoward/training-plan-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestSubjectRepositorySave(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)
	mock.ExpectExec("INSERT INTO subjects").
		WithArgs("subj-1", "Topography", "TOP", "Field A", nil, "", "", 1,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	subject := &models.Subject{
		ID:       "subj-1",
		Name:     "Topography",
		Code:     "TOP",
		Location: "Field A",
		Lessons:  []models.Lesson{{ID: "lesson-1", Name: "Map reading"}},
	}
	require.NoError(t, repo.Save(context.Background(), subject))
	assert.False(t, subject.UpdatedAt.IsZero())
	assert.False(t, subject.CreatedAt.IsZero())
}

func TestSubjectRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)
	doc, err := json.Marshal(&models.Subject{ID: "subj-1", Name: "Topography"})
	require.NoError(t, err)
	mock.ExpectQuery("SELECT doc FROM subjects").
		WithArgs("subj-1").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(doc))

	subject, err := repo.FindByID(context.Background(), "subj-1")
	require.NoError(t, err)
	assert.Equal(t, "Topography", subject.Name)
}

func TestSubjectRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)
	mock.ExpectQuery("SELECT doc FROM subjects").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "ghost")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestSubjectRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)
	rows := sqlmock.NewRows([]string{"id", "name", "code", "location", "default_duration",
		"category_main", "category_sub", "lesson_count", "created_at", "updated_at"}).
		AddRow("subj-1", "Topography", "TOP", "Field A", 1.5, "tactics", "", 3, time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, name, code").WillReturnRows(rows)

	summaries, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Topography", summaries[0].Name)
	assert.Equal(t, 3, summaries[0].LessonCount)
}

func TestSubjectRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)
	mock.ExpectExec("DELETE FROM subjects").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestSubjectRepositoryExistsByName(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("Topography", "subj-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByName(context.Background(), "Topography", "subj-2")
	require.NoError(t, err)
	assert.True(t, exists)
}
