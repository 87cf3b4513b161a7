package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"stride/internal/domain"
)

// DB is the subset of pgxpool.Pool the repositories use. Kept as an
// interface so tests can substitute a pgxmock pool.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repositories struct {
	Availability AvailabilityRepository
	Facility     FacilityRepository
	Booking      BookingRepository
}

func NewRepositories(db DB) *Repositories {
	return &Repositories{
		Availability: NewAvailabilityRepository(db),
		Facility:     NewFacilityRepository(db),
		Booking:      NewBookingRepository(db),
	}
}

type AvailabilityRepository interface {
	// GetWeek returns the persisted seven-day shape for an instructor.
	// Days with no persisted record come back inactive.
	GetWeek(ctx context.Context, instructorID int64) ([]domain.DaySchedule, error)
	// GetMeta returns the editing window and version, or (nil, nil) when the
	// instructor has never saved a schedule.
	GetMeta(ctx context.Context, instructorID int64) (*domain.ScheduleMeta, error)
	// SaveWeek replaces the full seven-day shape in one transaction and
	// returns the bumped schedule version.
	SaveWeek(ctx context.Context, instructorID int64, days []domain.DaySchedule) (int64, error)
	// SetEditable flips the remote editing flag. expiresAt bounds a granted
	// window and is ignored when editable is false.
	SetEditable(ctx context.Context, instructorID int64, editable bool, expiresAt *time.Time) error
	// ExpireEditWindows closes every editing window past its expiry and
	// returns how many were closed.
	ExpireEditWindows(ctx context.Context) (int64, error)
}

type FacilityRepository interface {
	// GetHours returns the facility operating hours, or (nil, nil) when the
	// facility record is not provisioned yet.
	GetHours(ctx context.Context) (*domain.FacilityHours, error)
	ListActivityTypes(ctx context.Context) ([]domain.ActivityType, error)
}

type BookingRepository interface {
	// FindInRange returns the booked lessons of an instructor that fall
	// inside a weekday time range (half-open overlap).
	FindInRange(ctx context.Context, instructorID int64, weekday, start, end string) ([]domain.AffectedBooking, error)
}
