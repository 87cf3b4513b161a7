package storage

import (
	"context"

	"stride/internal/domain"
)

// SnapshotArchive keeps a JSON copy of every committed schedule version.
// Archiving is best-effort: the commit itself never depends on it.
type SnapshotArchive interface {
	StoreSnapshot(ctx context.Context, instructorID int64, version int64, days []domain.DaySchedule) (string, error)
}
