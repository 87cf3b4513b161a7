package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"stride/internal/domain"
	"stride/pkg/timeutil"
)

type AvailabilityRepo struct {
	db DB
}

func NewAvailabilityRepository(db DB) AvailabilityRepository {
	return &AvailabilityRepo{db: db}
}

func (r *AvailabilityRepo) GetWeek(ctx context.Context, instructorID int64) ([]domain.DaySchedule, error) {
	days := make([]domain.DaySchedule, 0, len(timeutil.WeekdayKeys))
	dayIndex := make(map[string]int, len(timeutil.WeekdayKeys))
	for i, key := range timeutil.WeekdayKeys {
		days = append(days, domain.NewDaySchedule(key))
		dayIndex[key] = i
	}

	dayQuery := `
		SELECT weekday, active
		FROM availability_days
		WHERE instructor_id = $1
	`

	rows, err := r.db.Query(ctx, dayQuery, instructorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get availability days: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var weekday string
		var active bool
		if err := rows.Scan(&weekday, &active); err != nil {
			return nil, fmt.Errorf("failed to scan availability day: %w", err)
		}
		if i, ok := dayIndex[weekday]; ok {
			days[i].Active = active
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read availability days: %w", err)
	}

	slotQuery := `
		SELECT weekday, start_time, end_time, activity_type_id
		FROM availability_slots
		WHERE instructor_id = $1
		ORDER BY weekday, start_time
	`

	slotRows, err := r.db.Query(ctx, slotQuery, instructorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get availability slots: %w", err)
	}
	defer slotRows.Close()

	for slotRows.Next() {
		var weekday string
		var slot domain.TimeSlot
		if err := slotRows.Scan(&weekday, &slot.Start, &slot.End, &slot.ActivityTypeID); err != nil {
			return nil, fmt.Errorf("failed to scan availability slot: %w", err)
		}
		if i, ok := dayIndex[weekday]; ok {
			days[i].Slots = append(days[i].Slots, slot)
		}
	}
	if err := slotRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read availability slots: %w", err)
	}

	return days, nil
}

func (r *AvailabilityRepo) GetMeta(ctx context.Context, instructorID int64) (*domain.ScheduleMeta, error) {
	query := `
		SELECT allow_edit, version, edit_window_expires_at
		FROM instructor_schedules
		WHERE instructor_id = $1
	`

	var meta domain.ScheduleMeta
	err := r.db.QueryRow(ctx, query, instructorID).Scan(
		&meta.AllowEdit,
		&meta.Version,
		&meta.EditWindowExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get schedule meta: %w", err)
	}

	return &meta, nil
}

func (r *AvailabilityRepo) SaveWeek(ctx context.Context, instructorID int64, days []domain.DaySchedule) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var version int64
	err = tx.QueryRow(ctx, `
		INSERT INTO instructor_schedules (instructor_id, allow_edit, version, updated_at)
		VALUES ($1, TRUE, 1, $2)
		ON CONFLICT (instructor_id)
		DO UPDATE SET version = instructor_schedules.version + 1, updated_at = $2
		RETURNING version
	`, instructorID, time.Now()).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to bump schedule version: %w", err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM availability_slots WHERE instructor_id = $1`, instructorID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear availability slots: %w", err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM availability_days WHERE instructor_id = $1`, instructorID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear availability days: %w", err)
	}

	for _, day := range days {
		_, err = tx.Exec(ctx, `
			INSERT INTO availability_days (instructor_id, weekday, active)
			VALUES ($1, $2, $3)
		`, instructorID, day.Key, day.Active)
		if err != nil {
			return 0, fmt.Errorf("failed to insert availability day: %w", err)
		}

		if !day.Active {
			continue
		}

		for _, slot := range day.Slots {
			if slot.IsBlank() {
				continue
			}

			start, err := timeutil.Normalize(slot.Start)
			if err != nil {
				return 0, fmt.Errorf("failed to normalize slot start: %w", err)
			}
			end, err := timeutil.Normalize(slot.End)
			if err != nil {
				return 0, fmt.Errorf("failed to normalize slot end: %w", err)
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO availability_slots (instructor_id, weekday, start_time, end_time, activity_type_id)
				VALUES ($1, $2, $3, $4, $5)
			`, instructorID, day.Key, start, end, slot.ActivityTypeID)
			if err != nil {
				return 0, fmt.Errorf("failed to insert availability slot: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return version, nil
}

func (r *AvailabilityRepo) SetEditable(ctx context.Context, instructorID int64, editable bool, expiresAt *time.Time) error {
	if !editable {
		expiresAt = nil
	}

	query := `
		INSERT INTO instructor_schedules (instructor_id, allow_edit, edit_window_expires_at, version, updated_at)
		VALUES ($1, $2, $3, 0, $4)
		ON CONFLICT (instructor_id)
		DO UPDATE SET allow_edit = $2, edit_window_expires_at = $3, updated_at = $4
	`

	_, err := r.db.Exec(ctx, query, instructorID, editable, expiresAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set editable flag: %w", err)
	}

	return nil
}

func (r *AvailabilityRepo) ExpireEditWindows(ctx context.Context) (int64, error) {
	query := `
		UPDATE instructor_schedules
		SET allow_edit = FALSE, edit_window_expires_at = NULL, updated_at = $1
		WHERE allow_edit = TRUE
		  AND edit_window_expires_at IS NOT NULL
		  AND edit_window_expires_at < $1
	`

	tag, err := r.db.Exec(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to expire edit windows: %w", err)
	}

	return tag.RowsAffected(), nil
}
