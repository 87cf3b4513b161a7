package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"stride/internal/domain"
)

type FacilityRepo struct {
	db DB
}

func NewFacilityRepository(db DB) FacilityRepository {
	return &FacilityRepo{db: db}
}

func (r *FacilityRepo) GetHours(ctx context.Context) (*domain.FacilityHours, error) {
	query := `
		SELECT start_time, end_time
		FROM facility_hours
		ORDER BY id
		LIMIT 1
	`

	var hours domain.FacilityHours
	err := r.db.QueryRow(ctx, query).Scan(&hours.Start, &hours.End)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get facility hours: %w", err)
	}

	return &hours, nil
}

func (r *FacilityRepo) ListActivityTypes(ctx context.Context) ([]domain.ActivityType, error) {
	query := `
		SELECT id, name, active
		FROM activity_types
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity types: %w", err)
	}
	defer rows.Close()

	var types []domain.ActivityType
	for rows.Next() {
		var at domain.ActivityType
		if err := rows.Scan(&at.ID, &at.Name, &at.Active); err != nil {
			return nil, fmt.Errorf("failed to scan activity type: %w", err)
		}
		types = append(types, at)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activity types: %w", err)
	}

	return types, nil
}
