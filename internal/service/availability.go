package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"stride/internal/domain"
	"stride/internal/metrics"
	"stride/internal/notifier"
	"stride/internal/repository"
	"stride/internal/storage"
)

// CommitState tracks where a save attempt is in the commit protocol. Editing
// is reachable again from every state on cancel or error; Locked is terminal
// for the editing session.
type CommitState int

const (
	StateEditing CommitState = iota
	StateValidating
	StateEstimatingImpact
	StateAwaitingConfirmation
	StatePersisting
	StateLocked
)

func (s CommitState) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateEstimatingImpact:
		return "estimating_impact"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StatePersisting:
		return "persisting"
	case StateLocked:
		return "locked"
	default:
		return "unknown"
	}
}

type AvailabilityServiceImpl struct {
	repo             repository.AvailabilityRepository
	facility         FacilityService
	impact           ImpactEstimator
	archive          storage.SnapshotArchive
	notifier         notifier.Sender
	coordinatorEmail string
	logger           *zap.Logger
}

func NewAvailabilityService(
	repo repository.AvailabilityRepository,
	facility FacilityService,
	impact ImpactEstimator,
	archive storage.SnapshotArchive,
	sender notifier.Sender,
	coordinatorEmail string,
	logger *zap.Logger,
) *AvailabilityServiceImpl {
	return &AvailabilityServiceImpl{
		repo:             repo,
		facility:         facility,
		impact:           impact,
		archive:          archive,
		notifier:         sender,
		coordinatorEmail: coordinatorEmail,
		logger:           logger,
	}
}

func (s *AvailabilityServiceImpl) GetWeek(ctx context.Context, instructorID int64) (*domain.WeeklyAvailability, error) {
	week, err := s.loadWeek(ctx, instructorID)
	if err != nil {
		s.logger.Error("failed to load weekly availability",
			zap.Int64("instructor_id", instructorID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to load weekly availability: %w", err)
	}
	return week, nil
}

func (s *AvailabilityServiceImpl) PreviewImpact(ctx context.Context, instructorID int64, days []domain.DaySchedule) (*domain.ImpactResult, []domain.ChangedRange, error) {
	week, err := s.loadWeek(ctx, instructorID)
	if err != nil {
		s.logger.Error("failed to load weekly availability", zap.Error(err))
		return nil, nil, fmt.Errorf("failed to load weekly availability: %w", err)
	}
	week.SetWorkingDays(days)

	facility, err := s.facility.GetFacility(ctx)
	if err != nil {
		return nil, nil, err
	}

	if err := week.ValidateAll(facility.Hours, facility.ActivityTypeIDs()); err != nil {
		return nil, nil, err
	}

	ranges := week.Diff()
	impact := s.impact.EstimateTotal(ctx, instructorID, ranges)

	return &impact, ranges, nil
}

func (s *AvailabilityServiceImpl) Save(ctx context.Context, instructorID int64, days []domain.DaySchedule, confirmed bool) (*SaveResult, error) {
	state := StateEditing

	meta, err := s.repo.GetMeta(ctx, instructorID)
	if err != nil {
		s.logger.Error("failed to get schedule meta", zap.Error(err))
		metrics.RecordScheduleSave("error")
		return nil, fmt.Errorf("failed to get schedule meta: %w", err)
	}
	// A missing record means the instructor has never saved a schedule;
	// the first commit is always allowed.
	if meta != nil && !meta.AllowEdit {
		metrics.RecordScheduleSave("locked")
		return nil, domain.ErrScheduleLocked
	}

	state = StateValidating
	week, err := s.loadWeek(ctx, instructorID)
	if err != nil {
		s.logger.Error("failed to load weekly availability", zap.Error(err))
		metrics.RecordScheduleSave("error")
		return nil, fmt.Errorf("failed to load weekly availability: %w", err)
	}
	week.SetWorkingDays(days)

	facility, err := s.facility.GetFacility(ctx)
	if err != nil {
		metrics.RecordScheduleSave("error")
		return nil, err
	}

	if err := week.ValidateAll(facility.Hours, facility.ActivityTypeIDs()); err != nil {
		s.logger.Info("schedule validation failed",
			zap.Int64("instructor_id", instructorID),
			zap.String("state", state.String()),
			zap.Error(err),
		)
		metrics.RecordScheduleSave("validation_failed")
		metrics.ScheduleConflictsTotal.Inc()
		return nil, err
	}

	state = StateEstimatingImpact
	ranges := week.Diff()
	impact := s.impact.EstimateTotal(ctx, instructorID, ranges)

	if impact.AffectedCount > 0 && !confirmed {
		state = StateAwaitingConfirmation
		s.logger.Info("schedule change requires confirmation",
			zap.Int64("instructor_id", instructorID),
			zap.String("state", state.String()),
			zap.Int("affected_count", impact.AffectedCount),
		)
		metrics.RecordScheduleSave("confirmation_required")
		return nil, &domain.ConfirmationRequiredError{
			AffectedCount: impact.AffectedCount,
			Ranges:        ranges,
		}
	}

	state = StatePersisting
	version, err := s.repo.SaveWeek(ctx, instructorID, week.Days)
	if err != nil {
		// Surfaced verbatim; the state machine returns to Editing and the
		// user re-triggers the save. The full-week write is idempotent.
		s.logger.Error("failed to persist weekly availability",
			zap.Int64("instructor_id", instructorID),
			zap.String("state", state.String()),
			zap.Error(err),
		)
		metrics.RecordScheduleSave("persist_failed")
		return nil, err
	}

	// The lock write is sequential, not transactional with the schedule
	// write. Failing here leaves the schedule saved but still editable,
	// which self-heals on the next successful save.
	if err := s.repo.SetEditable(ctx, instructorID, false, nil); err != nil {
		s.logger.Warn("failed to lock schedule after save",
			zap.Int64("instructor_id", instructorID),
			zap.Int64("version", version),
			zap.Error(err),
		)
	}

	state = StateLocked
	week.MarkCommitted()
	week.AllowEdit = false
	week.Version = version

	s.archiveSnapshot(ctx, instructorID, version, week.Days)

	if impact.AffectedCount > 0 {
		s.notifyCoordinator(instructorID, version, impact.AffectedCount, ranges)
	}

	s.logger.Info("weekly availability committed",
		zap.Int64("instructor_id", instructorID),
		zap.Int64("version", version),
		zap.String("state", state.String()),
		zap.Int("affected_count", impact.AffectedCount),
	)
	metrics.RecordScheduleSave("committed")
	metrics.AffectedBookingsTotal.Add(float64(impact.AffectedCount))

	return &SaveResult{
		Version:       version,
		AffectedCount: impact.AffectedCount,
		Days:          week.Days,
	}, nil
}

func (s *AvailabilityServiceImpl) GrantEditWindow(ctx context.Context, instructorID int64, until time.Time) error {
	if !until.After(time.Now()) {
		return errors.New("edit window must end in the future")
	}

	if err := s.repo.SetEditable(ctx, instructorID, true, &until); err != nil {
		s.logger.Error("failed to grant edit window",
			zap.Int64("instructor_id", instructorID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to grant edit window: %w", err)
	}

	s.logger.Info("edit window granted",
		zap.Int64("instructor_id", instructorID),
		zap.Time("until", until),
	)
	return nil
}

func (s *AvailabilityServiceImpl) ExpireEditWindows(ctx context.Context) (int64, error) {
	closed, err := s.repo.ExpireEditWindows(ctx)
	if err != nil {
		s.logger.Error("failed to expire edit windows", zap.Error(err))
		return 0, fmt.Errorf("failed to expire edit windows: %w", err)
	}

	if closed > 0 {
		metrics.EditWindowsExpiredTotal.Add(float64(closed))
		s.logger.Info("edit windows expired", zap.Int64("closed", closed))
	}
	return closed, nil
}

func (s *AvailabilityServiceImpl) loadWeek(ctx context.Context, instructorID int64) (*domain.WeeklyAvailability, error) {
	week := domain.NewWeeklyAvailability()

	days, err := s.repo.GetWeek(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	week.SetOriginal(days)
	week.SetWorkingDays(days)

	meta, err := s.repo.GetMeta(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		week.AllowEdit = true
	} else {
		week.AllowEdit = meta.AllowEdit
		week.Version = meta.Version
	}

	return week, nil
}

func (s *AvailabilityServiceImpl) archiveSnapshot(ctx context.Context, instructorID, version int64, days []domain.DaySchedule) {
	if s.archive == nil {
		return
	}

	object, err := s.archive.StoreSnapshot(ctx, instructorID, version, days)
	if err != nil {
		s.logger.Warn("failed to archive schedule snapshot",
			zap.Int64("instructor_id", instructorID),
			zap.Int64("version", version),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("schedule snapshot archived",
		zap.Int64("instructor_id", instructorID),
		zap.String("object", object),
	)
}

func (s *AvailabilityServiceImpl) notifyCoordinator(instructorID, version int64, affected int, ranges []domain.ChangedRange) {
	if s.notifier == nil || s.coordinatorEmail == "" {
		return
	}

	subject := fmt.Sprintf("Availability change affects %d booked parties", affected)
	body := fmt.Sprintf(
		"<p>Instructor %d committed schedule version %d.</p><p>The change removes or modifies %d time ranges and affects %d booked parties:</p><ul>",
		instructorID, version, len(ranges), affected,
	)
	for _, r := range ranges {
		body += fmt.Sprintf("<li>%s %s-%s</li>", r.DayLabel, r.OldStart, r.OldEnd)
	}
	body += "</ul><p>Affected lessons need to be rescheduled.</p>"

	if err := s.notifier.Send(s.coordinatorEmail, subject, body); err != nil {
		metrics.RecordNotification("failed")
		s.logger.Warn("failed to notify coordinator", zap.Error(err))
		return
	}
	metrics.RecordNotification("sent")
}
