package repository

import (
	"context"
	"fmt"

	"stride/internal/domain"
)

type BookingRepo struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) FindInRange(ctx context.Context, instructorID int64, weekday, start, end string) ([]domain.AffectedBooking, error) {
	// Half-open overlap against zero-padded "HH:MM" strings, which compare
	// correctly as text.
	query := `
		SELECT id, client_id, client_email, client_name, client_phone
		FROM bookings
		WHERE instructor_id = $1
		  AND weekday = $2
		  AND status = 'booked'
		  AND start_time < $3
		  AND end_time > $4
	`

	rows, err := r.db.Query(ctx, query, instructorID, weekday, end, start)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings in range: %w", err)
	}
	defer rows.Close()

	var bookings []domain.AffectedBooking
	for rows.Next() {
		var b domain.AffectedBooking
		if err := rows.Scan(&b.BookingID, &b.ClientID, &b.ClientEmail, &b.ClientName, &b.ClientPhone); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}

	return bookings, nil
}
