package repository

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindInRangeUsesHalfOpenOverlap(t *testing.T) {
	mock := newMockPool(t)
	clientID := int64(42)
	// The query binds (end, start): a booking overlaps the range when it
	// starts before the range ends and ends after it starts.
	mock.ExpectQuery("SELECT id, client_id, client_email, client_name, client_phone").
		WithArgs(int64(7), "sunday", "11:00", "09:00").
		WillReturnRows(pgxmock.NewRows([]string{"id", "client_id", "client_email", "client_name", "client_phone"}).
			AddRow(int64(1), &clientID, "", "", "").
			AddRow(int64(2), (*int64)(nil), "family@example.com", "", ""))

	repo := NewBookingRepository(mock)

	bookings, err := repo.FindInRange(context.Background(), 7, "sunday", "09:00", "11:00")

	require.NoError(t, err)
	require.Len(t, bookings, 2)
	require.NotNil(t, bookings[0].ClientID)
	assert.Equal(t, int64(42), *bookings[0].ClientID)
	assert.Equal(t, "client:42", bookings[0].IdentityKey())
	assert.Equal(t, "email:family@example.com", bookings[1].IdentityKey())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindInRangeNoBookings(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT id, client_id, client_email, client_name, client_phone").
		WithArgs(int64(7), "monday", "10:00", "09:00").
		WillReturnRows(pgxmock.NewRows([]string{"id", "client_id", "client_email", "client_name", "client_phone"}))

	repo := NewBookingRepository(mock)

	bookings, err := repo.FindInRange(context.Background(), 7, "monday", "09:00", "10:00")

	require.NoError(t, err)
	assert.Empty(t, bookings)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindInRangeQueryError(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT id, client_id, client_email, client_name, client_phone").
		WithArgs(int64(7), "sunday", "10:00", "09:00").
		WillReturnError(errors.New("connection refused"))

	repo := NewBookingRepository(mock)

	_, err := repo.FindInRange(context.Background(), 7, "sunday", "09:00", "10:00")

	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
