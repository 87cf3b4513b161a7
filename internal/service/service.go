package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"stride/config"
	"stride/internal/domain"
	"stride/internal/notifier"
	"stride/internal/repository"
	"stride/internal/storage"
)

type Deps struct {
	Repos    *repository.Repositories
	Logger   *zap.Logger
	Config   *config.Config
	Archive  storage.SnapshotArchive
	Notifier notifier.Sender
	Redis    *redis.Client
}

type Services struct {
	Availability AvailabilityService
	Facility     FacilityService
	Impact       ImpactEstimator
	Auth         AuthService
}

func NewServices(deps Deps) *Services {
	facility := NewFacilityService(deps.Repos.Facility, deps.Redis, deps.Config.Facility, deps.Config.Redis.CacheTTL, deps.Logger)
	impact := NewImpactEstimator(deps.Repos.Booking, deps.Logger)

	return &Services{
		Facility: facility,
		Impact:   impact,
		Auth:     NewAuthService(deps.Config.JWT, deps.Logger),
		Availability: NewAvailabilityService(
			deps.Repos.Availability,
			facility,
			impact,
			deps.Archive,
			deps.Notifier,
			deps.Config.Facility.CoordinatorEmail,
			deps.Logger,
		),
	}
}

// SaveResult is the outcome of a successful commit.
type SaveResult struct {
	Version       int64                `json:"version"`
	AffectedCount int                  `json:"affected_count"`
	Days          []domain.DaySchedule `json:"days"`
}

type AvailabilityService interface {
	// GetWeek loads the instructor's working copy for an editing session,
	// defaulting to an all-inactive week when nothing was ever saved.
	GetWeek(ctx context.Context, instructorID int64) (*domain.WeeklyAvailability, error)
	// PreviewImpact validates the proposed week and estimates how many booked
	// parties the change would affect, without persisting anything.
	PreviewImpact(ctx context.Context, instructorID int64, days []domain.DaySchedule) (*domain.ImpactResult, []domain.ChangedRange, error)
	// Save runs the commit protocol: validation, impact check, confirmation
	// gate, persistence, lock. A non-zero impact without confirmed=true is
	// rejected with a ConfirmationRequiredError.
	Save(ctx context.Context, instructorID int64, days []domain.DaySchedule, confirmed bool) (*SaveResult, error)
	// GrantEditWindow re-opens editing until the given time. Admin only; the
	// commit path itself can only ever close the window.
	GrantEditWindow(ctx context.Context, instructorID int64, until time.Time) error
	// ExpireEditWindows closes editing windows past their expiry.
	ExpireEditWindows(ctx context.Context) (int64, error)
}

type FacilityService interface {
	// GetFacility returns the operating hours and activity types that bound
	// schedule validation, falling back to configured defaults when the
	// facility record is not provisioned.
	GetFacility(ctx context.Context) (*domain.Facility, error)
}

type ImpactEstimator interface {
	// Estimate counts the distinct booked parties inside one changed range.
	// A failed impact query degrades to zero impact and is logged, never
	// surfaced: an availability edit must not be stuck behind a broken
	// read path.
	Estimate(ctx context.Context, instructorID int64, r domain.ChangedRange) domain.ImpactResult
	// EstimateTotal counts the distinct booked parties across all changed
	// ranges, deduplicated by identity key.
	EstimateTotal(ctx context.Context, instructorID int64, ranges []domain.ChangedRange) domain.ImpactResult
}

type AuthService interface {
	ParseToken(ctx context.Context, token string) (int64, domain.UserRole, error)
}
