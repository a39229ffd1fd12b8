package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vhoward/training-plan-api/internal/dto"
	"github.com/vhoward/training-plan-api/internal/models"
	appErrors "github.com/vhoward/training-plan-api/pkg/errors"
)

type subjectRepository interface {
	Save(ctx context.Context, subject *models.Subject) error
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	List(ctx context.Context) ([]models.SubjectSummary, error)
	ListAll(ctx context.Context) ([]models.Subject, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// SubjectService manages subjects and their lessons.
type SubjectService struct {
	repo      subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService instance.
func NewSubjectService(repo subjectRepository, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, validator: validate, logger: logger}
}

// Create validates and persists a new subject.
func (s *SubjectService) Create(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	exists, err := s.repo.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("subject %q already exists", req.Name))
	}

	subject := &models.Subject{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Code:            req.Code,
		Location:        req.Location,
		DefaultDuration: req.DefaultDuration,
		Prerequisites:   req.Prerequisites,
		CategoryMain:    req.CategoryMain,
		CategorySub:     req.CategorySub,
	}
	if err := subject.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save subject")
	}
	s.logger.Info("subject created", zap.String("subject_id", subject.ID), zap.String("name", subject.Name))
	return subject, nil
}

// Get loads one subject with its full lesson list.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// List returns subject summaries.
func (s *SubjectService) List(ctx context.Context) ([]models.SubjectSummary, error) {
	summaries, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return summaries, nil
}

// Update replaces subject metadata. Lessons are untouched.
func (s *SubjectService) Update(ctx context.Context, id string, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByName(ctx, req.Name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("subject %q already exists", req.Name))
	}

	subject.Name = req.Name
	subject.Code = req.Code
	subject.Location = req.Location
	subject.DefaultDuration = req.DefaultDuration
	subject.Prerequisites = req.Prerequisites
	subject.CategoryMain = req.CategoryMain
	subject.CategorySub = req.CategorySub
	if err := subject.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save subject")
	}
	return subject, nil
}

// Delete removes a subject unless another subject lists it as a prerequisite.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	for _, other := range all {
		if other.ID == id {
			continue
		}
		for _, prereq := range other.Prerequisites {
			if prereq == id {
				return appErrors.Clone(appErrors.ErrPreconditionFailed,
					fmt.Sprintf("subject is a prerequisite of %q and cannot be deleted", other.Name))
			}
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	s.logger.Info("subject deleted", zap.String("subject_id", id))
	return nil
}

// AddLesson appends a lesson to the subject.
func (s *SubjectService) AddLesson(ctx context.Context, subjectID string, req dto.LessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}
	subject, err := s.Get(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if len(subject.Lessons) >= models.MaxLessonsPerSubject {
		return nil, appErrors.ErrTooManyLessons
	}

	now := time.Now().UTC()
	lesson := models.Lesson{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Duration:  req.Duration,
		Materials: req.Materials,
		CreatedAt: now,
		UpdatedAt: now,
	}
	subject.Lessons = append(subject.Lessons, lesson)
	if err := s.repo.Save(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save subject")
	}
	return &lesson, nil
}

// UpdateLesson replaces a lesson's fields.
func (s *SubjectService) UpdateLesson(ctx context.Context, subjectID, lessonID string, req dto.LessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}
	subject, err := s.Get(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	lesson := subject.FindLesson(lessonID)
	if lesson == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
	}

	lesson.Name = req.Name
	lesson.Duration = req.Duration
	lesson.Materials = req.Materials
	lesson.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save subject")
	}
	return lesson, nil
}

// RemoveLesson deletes a lesson from the subject.
func (s *SubjectService) RemoveLesson(ctx context.Context, subjectID, lessonID string) error {
	subject, err := s.Get(ctx, subjectID)
	if err != nil {
		return err
	}
	for i := range subject.Lessons {
		if subject.Lessons[i].ID == lessonID {
			subject.Lessons = append(subject.Lessons[:i], subject.Lessons[i+1:]...)
			if err := s.repo.Save(ctx, subject); err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save subject")
			}
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
}
