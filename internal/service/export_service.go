package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vhoward/training-plan-api/internal/dto"
	"github.com/vhoward/training-plan-api/internal/models"
	appErrors "github.com/vhoward/training-plan-api/pkg/errors"
	"github.com/vhoward/training-plan-api/pkg/export"
	"github.com/vhoward/training-plan-api/pkg/jobs"
	"github.com/vhoward/training-plan-api/pkg/storage"
)

var timetableHeaders = []string{"Week", "Date", "Day", "Start", "End", "Subject", "Lesson", "Location"}

var weekdayLabels = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

type exportPayload struct {
	ScheduleID string
	Format     string
	Filename   string
}

// ExportService renders schedules to CSV or PDF on a background queue and
// hands out signed download URLs for the artifacts.
type ExportService struct {
	schedules scheduleRepository
	store     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	queue     *jobs.Queue
	metrics   *MetricsService
	logger    *zap.Logger
}

// Artifacts are swept once per hour; anything older than the signed URL TTL
// is unreachable and gets removed.
const artifactSweepInterval = time.Hour

// NewExportService constructs the service and its worker queue.
func NewExportService(schedules scheduleRepository, store *storage.LocalStorage, signer *storage.SignedURLSigner,
	queueCfg jobs.QueueConfig, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		schedules: schedules,
		store:     store,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		metrics:   metrics,
		logger:    logger,
	}
	s.queue = jobs.NewQueue("exports", s.process, queueCfg)
	return s
}

// Start launches the export workers and the artifact sweeper.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	go s.sweepLoop(ctx)
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Export queues a rendering job and returns the signed download URL the
// artifact will be reachable under once the worker finishes.
func (s *ExportService) Export(ctx context.Context, scheduleID, format string) (*dto.ExportResponse, error) {
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	// Fail fast on unknown schedules instead of queueing a doomed job.
	if _, err := s.schedules.FindByID(ctx, scheduleID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}

	jobID := uuid.NewString()
	filename := fmt.Sprintf("schedules/%s-%s.%s", scheduleID, jobID, format)
	token, _, err := s.signer.Generate(jobID, filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}

	job := jobs.Job{
		ID:      jobID,
		Type:    "schedule-export",
		Payload: exportPayload{ScheduleID: scheduleID, Format: format, Filename: filename},
	}
	if err := s.queue.Enqueue(job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}
	s.metrics.RecordExport(format)

	return &dto.ExportResponse{
		JobID:       jobID,
		Status:      "queued",
		DownloadURL: fmt.Sprintf("/api/v1/exports/%s", token),
	}, nil
}

// OpenArtifact validates a signed token and opens the referenced file. A
// valid token whose file is not yet written means the job is still running.
func (s *ExportService) OpenArtifact(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export not ready or expired")
	}
	return file, nil
}

// SweepExpiredArtifacts removes artifacts older than the signed URL TTL.
// Their tokens have expired, so nothing can download them anymore.
func (s *ExportService) SweepExpiredArtifacts() (int, error) {
	deleted, err := s.store.CleanupOlderThan(s.signer.TTL())
	if err != nil {
		return 0, err
	}
	if len(deleted) > 0 {
		s.logger.Info("expired export artifacts removed", zap.Int("count", len(deleted)))
	}
	return len(deleted), nil
}

func (s *ExportService) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(artifactSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepExpiredArtifacts(); err != nil {
				s.logger.Warn("export artifact sweep failed", zap.Error(err))
			}
		}
	}
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportPayload)
	if !ok {
		return fmt.Errorf("unexpected export payload %T", job.Payload)
	}
	schedule, err := s.schedules.FindByID(ctx, payload.ScheduleID)
	if err != nil {
		return fmt.Errorf("load schedule %s: %w", payload.ScheduleID, err)
	}

	dataset := BuildTimetableDataset(schedule)
	var rendered []byte
	switch payload.Format {
	case "csv":
		rendered, err = s.csv.Render(dataset)
	case "pdf":
		title := schedule.Name
		if title == "" {
			title = "Training schedule"
		}
		rendered, err = s.pdf.Render(dataset, title)
	default:
		return fmt.Errorf("unsupported export format %q", payload.Format)
	}
	if err != nil {
		return fmt.Errorf("render %s export: %w", payload.Format, err)
	}

	if _, err := s.store.Save(payload.Filename, rendered); err != nil {
		return fmt.Errorf("store export: %w", err)
	}
	s.logger.Info("schedule export completed",
		zap.String("schedule_id", payload.ScheduleID),
		zap.String("job_id", job.ID),
		zap.String("format", payload.Format))
	return nil
}

// BuildTimetableDataset flattens a schedule into one row per item.
func BuildTimetableDataset(schedule *models.Schedule) export.Dataset {
	dataset := export.Dataset{Headers: timetableHeaders}
	for _, week := range schedule.Weeks {
		for di, day := range week.Days {
			label := ""
			if di < len(weekdayLabels) {
				label = weekdayLabels[di]
			}
			for _, item := range day.Items {
				dataset.Rows = append(dataset.Rows, map[string]string{
					"Week":    fmt.Sprintf("%d", week.WeekNumber),
					"Date":    day.Date.Format("2006-01-02"),
					"Day":     label,
					"Start":   item.StartTime.String(),
					"End":     item.EndTime.String(),
					"Subject": item.SubjectName,
					"Lesson":  item.LessonName,
					"Location": item.Location,
				})
			}
		}
	}
	return dataset
}
