package service

import (
	"context"

	"go.uber.org/zap"

	"stride/internal/domain"
	"stride/internal/metrics"
	"stride/internal/repository"
)

type ImpactEstimatorImpl struct {
	bookings repository.BookingRepository
	logger   *zap.Logger
}

func NewImpactEstimator(bookings repository.BookingRepository, logger *zap.Logger) *ImpactEstimatorImpl {
	return &ImpactEstimatorImpl{
		bookings: bookings,
		logger:   logger,
	}
}

func (e *ImpactEstimatorImpl) Estimate(ctx context.Context, instructorID int64, r domain.ChangedRange) domain.ImpactResult {
	keys := make(map[string]struct{})
	e.collect(ctx, instructorID, r, keys)
	return domain.ImpactResult{AffectedCount: len(keys)}
}

func (e *ImpactEstimatorImpl) EstimateTotal(ctx context.Context, instructorID int64, ranges []domain.ChangedRange) domain.ImpactResult {
	keys := make(map[string]struct{})
	for _, r := range ranges {
		e.collect(ctx, instructorID, r, keys)
	}
	return domain.ImpactResult{AffectedCount: len(keys)}
}

// collect folds the identity keys of every booking inside the range into
// keys. A failed query degrades to zero impact for that range: the save must
// never be stuck behind a broken read path.
func (e *ImpactEstimatorImpl) collect(ctx context.Context, instructorID int64, r domain.ChangedRange, keys map[string]struct{}) {
	bookings, err := e.bookings.FindInRange(ctx, instructorID, r.DayKey, r.OldStart, r.OldEnd)
	if err != nil {
		metrics.ImpactQueriesFailedTotal.Inc()
		e.logger.Warn("impact query failed, treating range as zero impact",
			zap.Int64("instructor_id", instructorID),
			zap.String("day", r.DayKey),
			zap.String("start", r.OldStart),
			zap.String("end", r.OldEnd),
			zap.Error(err),
		)
		return
	}

	for _, booking := range bookings {
		keys[booking.IdentityKey()] = struct{}{}
	}
}
