package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stride/internal/domain"
	"stride/internal/notifier"
	"stride/internal/storage"
)

type MockAvailabilityRepo struct{ mock.Mock }

func (m *MockAvailabilityRepo) GetWeek(ctx context.Context, instructorID int64) ([]domain.DaySchedule, error) {
	args := m.Called(ctx, instructorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DaySchedule), args.Error(1)
}

func (m *MockAvailabilityRepo) GetMeta(ctx context.Context, instructorID int64) (*domain.ScheduleMeta, error) {
	args := m.Called(ctx, instructorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleMeta), args.Error(1)
}

func (m *MockAvailabilityRepo) SaveWeek(ctx context.Context, instructorID int64, days []domain.DaySchedule) (int64, error) {
	args := m.Called(ctx, instructorID, days)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAvailabilityRepo) SetEditable(ctx context.Context, instructorID int64, editable bool, expiresAt *time.Time) error {
	return m.Called(ctx, instructorID, editable, expiresAt).Error(0)
}

func (m *MockAvailabilityRepo) ExpireEditWindows(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockBookingRepo struct{ mock.Mock }

func (m *MockBookingRepo) FindInRange(ctx context.Context, instructorID int64, weekday, start, end string) ([]domain.AffectedBooking, error) {
	args := m.Called(ctx, instructorID, weekday, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AffectedBooking), args.Error(1)
}

type MockFacilityService struct{ mock.Mock }

func (m *MockFacilityService) GetFacility(ctx context.Context) (*domain.Facility, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Facility), args.Error(1)
}

type MockArchive struct{ mock.Mock }

func (m *MockArchive) StoreSnapshot(ctx context.Context, instructorID int64, version int64, days []domain.DaySchedule) (string, error) {
	args := m.Called(ctx, instructorID, version, days)
	return args.String(0), args.Error(1)
}

type MockSender struct{ mock.Mock }

func (m *MockSender) Send(recipient, subject, body string) error {
	return m.Called(recipient, subject, body).Error(0)
}

func testFacility() *domain.Facility {
	return &domain.Facility{
		Hours: domain.FacilityHours{Start: "08:00", End: "17:00"},
		ActivityTypes: []domain.ActivityType{
			{ID: 1, Name: "Therapeutic Riding", Active: true},
			{ID: 2, Name: "Stable Care", Active: true},
		},
	}
}

func emptyWeek() []domain.DaySchedule {
	return domain.NewWeeklyAvailability().Days
}

func weekWithSunday(slots ...domain.TimeSlot) []domain.DaySchedule {
	days := emptyWeek()
	days[0].Active = true
	days[0].Slots = slots
	return days
}

func newTestService(repo *MockAvailabilityRepo, bookings *MockBookingRepo, facility *MockFacilityService, archive *MockArchive, sender *MockSender) *AvailabilityServiceImpl {
	logger := zap.NewNop()
	var archiveDep storage.SnapshotArchive
	if archive != nil {
		archiveDep = archive
	}
	var senderDep notifier.Sender
	if sender != nil {
		senderDep = sender
	}
	return NewAvailabilityService(
		repo,
		facility,
		NewImpactEstimator(bookings, logger),
		archiveDep,
		senderDep,
		"coordinator@stride.local",
		logger,
	)
}

func TestSaveZeroImpactCommitsAndLocks(t *testing.T) {
	repo := new(MockAvailabilityRepo)
	bookings := new(MockBookingRepo)
	facility := new(MockFacilityService)
	archive := new(MockArchive)
	sender := new(MockSender)

	repo.On("GetMeta", mock.Anything, int64(7)).Return(&domain.ScheduleMeta{AllowEdit: true}, nil)
	repo.On("GetWeek", mock.Anything, int64(7)).Return(emptyWeek(), nil)
	facility.On("GetFacility", mock.Anything).Return(testFacility(), nil)
	repo.On("SaveWeek", mock.Anything, int64(7), mock.Anything).Return(int64(3), nil)
	repo.On("SetEditable", mock.Anything, int64(7), false, (*time.Time)(nil)).Return(nil)
	archive.On("StoreSnapshot", mock.Anything, int64(7), int64(3), mock.Anything).Return("schedules/7/v3.json", nil)

	svc := newTestService(repo, bookings, facility, archive, sender)

	result, err := svc.Save(context.Background(), 7, weekWithSunday(
		domain.TimeSlot{Start: "09:00", End: "10:00", ActivityTypeID: 1},
	), false)

	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Version)
	assert.Equal(t, 0, result.AffectedCount)

	repo.AssertCalled(t, "SetEditable", mock.Anything, int64(7), false, (*time.Time)(nil))
	archive.AssertExpectations(t)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	// Nothing was booked, so no impact query had a changed range to run on.
	bookings.AssertNotCalled(t, "FindInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveNonzeroImpactRequiresConfirmation(t *testing.T) {
	repo := new(MockAvailabilityRepo)
	bookings := new(MockBookingRepo)
	facility := new(MockFacilityService)

	clientID := int64(42)
	repo.On("GetMeta", mock.Anything, int64(7)).Return(&domain.ScheduleMeta{AllowEdit: true}, nil)
	repo.On("GetWeek", mock.Anything, int64(7)).Return(weekWithSunday(
		domain.TimeSlot{Start: "09:00", End: "10:00", ActivityTypeID: 1},
	), nil)
	facility.On("GetFacility", mock.Anything).Return(testFacility(), nil)
	bookings.On("FindInRange", mock.Anything, int64(7), "sunday", "09:00", "10:00").Return([]domain.AffectedBooking{
		{BookingID: 1, ClientID: &clientID},
	}, nil)

	svc := newTestService(repo, bookings, facility, nil, nil)

	// The working copy drops the booked 09:00-10:00 range.
	_, err := svc.Save(context.Background(), 7, weekWithSunday(
		domain.TimeSlot{Start: "11:00", End: "12:00", ActivityTypeID: 1},
	), false)

	var confirmErr *domain.ConfirmationRequiredError
	require.ErrorAs(t, err, &confirmErr)
	assert.Equal(t, 1, confirmErr.AffectedCount)
	require.Len(t, confirmErr.Ranges, 1)
	assert.Equal(t, "09:00", confirmErr.Ranges[0].OldStart)

	repo.AssertNotCalled(t, "SaveWeek", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveConfirmedCommitsAndNotifies(t *testing.T) {
	repo := new(MockAvailabilityRepo)
	bookings := new(MockBookingRepo)
	facility := new(MockFacilityService)
	sender := new(MockSender)

	clientID := int64(42)
	repo.On("GetMeta", mock.Anything, int64(7)).Return(&domain.ScheduleMeta{AllowEdit: true}, nil)
	repo.On("GetWeek", mock.Anything, int64(7)).Return(weekWithSunday(
		domain.TimeSlot{Start: "09:00", End: "10:00", ActivityTypeID: 1},
	), nil)
	facility.On("GetFacility", mock.Anything).Return(testFacility(), nil)
	bookings.On("FindInRange", mock.Anything, int64(7), "sunday", "09:00", "10:00").Return([]domain.AffectedBooking{
		{BookingID: 1, ClientID: &clientID},
	}, nil)
	repo.On("SaveWeek", mock.Anything, int64(7), mock.Anything).Return(int64(4), nil)
	repo.On("SetEditable", mock.Anything, int64(7), false, (*time.Time)(nil)).Return(nil)
	sender.On("Send", "coordinator@stride.local", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(repo, bookings, facility, nil, sender)

	result, err := svc.Save(context.Background(), 7, weekWithSunday(
		domain.TimeSlot{Start: "11:00", End: "12:00", ActivityTypeID: 1},
	), true)

	require.NoError(t, err)
	assert.Equal(t, int64(4), result.Version)
	assert.Equal(t, 1, result.AffectedCount)
	sender.AssertExpectations(t)
}

func TestSaveRejectedWhenScheduleLocked(t *testing.T) {
	repo := new(MockAvailabilityRepo)

	repo.On("GetMeta", mock.Anything, int64(7)).Return(&domain.ScheduleMeta{AllowEdit: false, Version: 2}, nil)

	svc := newTestService(repo, new(MockBookingRepo), new(MockFacilityService), nil, nil)

	_, err := svc.Save(context.Background(), 7, weekWithSunday(
		domain.TimeSlot{Start: "09:00", End: "10:00", ActivityTypeID: 1},
	), false)

	assert.ErrorIs(t, err, domain.ErrScheduleLocked)
	repo.AssertNotCalled(t, "SaveWeek", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveValidationFailureBlocksCommit(t *testing.T) {
	repo := new(MockAvailabilityRepo)
	facility := new(MockFacilityService)

	repo.On("GetMeta", mock.Anything, int64(7)).Return(&domain.ScheduleMeta{AllowEdit: true}, nil)
	repo.On("GetWeek", mock.Anything, int64(7)).Return(emptyWeek(), nil)
	facility.On("GetFacility", mock.Anything).Return(testFacility(), nil)

	svc := newTestService(repo, new(MockBookingRepo), facility, nil, nil)

	_, err := svc.Save(context.Background(), 7, weekWithSunday(
		domain.TimeSlot{Start: "10:00", End: "09:00", ActivityTypeID: 1},
	), false)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "end")
	repo.AssertNotCalled(t, "SaveWeek", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveImpactQueryFailureDegradesToZero(t *testing.T) {
	repo := new(MockAvailabilityRepo)
	bookings := new(MockBookingRepo)
	facility := new(MockFacilityService)

	repo.On("GetMeta", mock.Anything, int64(7)).Return(&domain.ScheduleMeta{AllowEdit: true}, nil)
	repo.On("GetWeek", mock.Anything, int64(7)).Return(weekWithSunday(
		domain.TimeSlot{Start: "09:00", End: "10:00", ActivityTypeID: 1},
	), nil)
	facility.On("GetFacility", mock.Anything).Return(testFacility(), nil)
	bookings.On("FindInRange", mock.Anything, int64(7), "sunday", "09:00", "10:00").Return(nil, errors.New("read path down"))
	repo.On("SaveWeek", mock.Anything, int64(7), mock.Anything).Return(int64(5), nil)
	repo.On("SetEditable", mock.Anything, int64(7), false, (*time.Time)(nil)).Return(nil)

	svc := newTestService(repo, bookings, facility, nil, nil)

	// No confirmation needed: the broken read path must not block the save.
	result, err := svc.Save(context.Background(), 7, weekWithSunday(
		domain.TimeSlot{Start: "11:00", End: "12:00", ActivityTypeID: 1},
	), false)

	require.NoError(t, err)
	assert.Equal(t, 0, result.AffectedCount)
}

func TestSavePersistErrorReturnsToEditing(t *testing.T) {
	repo := new(MockAvailabilityRepo)
	facility := new(MockFacilityService)

	persistErr := errors.New("connection reset")
	repo.On("GetMeta", mock.Anything, int64(7)).Return(&domain.ScheduleMeta{AllowEdit: true}, nil)
	repo.On("GetWeek", mock.Anything, int64(7)).Return(emptyWeek(), nil)
	facility.On("GetFacility", mock.Anything).Return(testFacility(), nil)
	repo.On("SaveWeek", mock.Anything, int64(7), mock.Anything).Return(int64(0), persistErr)

	svc := newTestService(repo, new(MockBookingRepo), facility, nil, nil)

	_, err := svc.Save(context.Background(), 7, weekWithSunday(
		domain.TimeSlot{Start: "09:00", End: "10:00", ActivityTypeID: 1},
	), false)

	// Surfaced verbatim, and the lock write never ran.
	assert.ErrorIs(t, err, persistErr)
	repo.AssertNotCalled(t, "SetEditable", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveLockFailureIsAcceptedAndLogged(t *testing.T) {
	repo := new(MockAvailabilityRepo)
	facility := new(MockFacilityService)

	repo.On("GetMeta", mock.Anything, int64(7)).Return(&domain.ScheduleMeta{AllowEdit: true}, nil)
	repo.On("GetWeek", mock.Anything, int64(7)).Return(emptyWeek(), nil)
	facility.On("GetFacility", mock.Anything).Return(testFacility(), nil)
	repo.On("SaveWeek", mock.Anything, int64(7), mock.Anything).Return(int64(6), nil)
	repo.On("SetEditable", mock.Anything, int64(7), false, (*time.Time)(nil)).Return(errors.New("lock write failed"))

	svc := newTestService(repo, new(MockBookingRepo), facility, nil, nil)

	result, err := svc.Save(context.Background(), 7, weekWithSunday(
		domain.TimeSlot{Start: "09:00", End: "10:00", ActivityTypeID: 1},
	), false)

	// Saved-but-unlocked is accepted; it self-heals on the next save.
	require.NoError(t, err)
	assert.Equal(t, int64(6), result.Version)
}

func TestSaveFirstCommitAllowedWithoutMeta(t *testing.T) {
	repo := new(MockAvailabilityRepo)
	facility := new(MockFacilityService)

	repo.On("GetMeta", mock.Anything, int64(9)).Return(nil, nil)
	repo.On("GetWeek", mock.Anything, int64(9)).Return(emptyWeek(), nil)
	facility.On("GetFacility", mock.Anything).Return(testFacility(), nil)
	repo.On("SaveWeek", mock.Anything, int64(9), mock.Anything).Return(int64(1), nil)
	repo.On("SetEditable", mock.Anything, int64(9), false, (*time.Time)(nil)).Return(nil)

	svc := newTestService(repo, new(MockBookingRepo), facility, nil, nil)

	result, err := svc.Save(context.Background(), 9, weekWithSunday(
		domain.TimeSlot{Start: "09:00", End: "10:00", ActivityTypeID: 1},
	), false)

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Version)
}

func TestGetWeekDefaultsToInactiveDays(t *testing.T) {
	repo := new(MockAvailabilityRepo)

	repo.On("GetWeek", mock.Anything, int64(7)).Return(emptyWeek(), nil)
	repo.On("GetMeta", mock.Anything, int64(7)).Return(nil, nil)

	svc := newTestService(repo, new(MockBookingRepo), new(MockFacilityService), nil, nil)

	week, err := svc.GetWeek(context.Background(), 7)

	require.NoError(t, err)
	assert.True(t, week.AllowEdit)
	require.Len(t, week.Days, 7)
	assert.Equal(t, "sunday", week.Days[0].Key)
	for _, day := range week.Days {
		assert.False(t, day.Active)
	}
}

func TestPreviewImpactDoesNotPersist(t *testing.T) {
	repo := new(MockAvailabilityRepo)
	bookings := new(MockBookingRepo)
	facility := new(MockFacilityService)

	clientID := int64(42)
	repo.On("GetWeek", mock.Anything, int64(7)).Return(weekWithSunday(
		domain.TimeSlot{Start: "09:00", End: "10:00", ActivityTypeID: 1},
	), nil)
	repo.On("GetMeta", mock.Anything, int64(7)).Return(&domain.ScheduleMeta{AllowEdit: true}, nil)
	facility.On("GetFacility", mock.Anything).Return(testFacility(), nil)
	bookings.On("FindInRange", mock.Anything, int64(7), "sunday", "09:00", "10:00").Return([]domain.AffectedBooking{
		{BookingID: 1, ClientID: &clientID},
	}, nil)

	svc := newTestService(repo, bookings, facility, nil, nil)

	impact, ranges, err := svc.PreviewImpact(context.Background(), 7, emptyWeek())

	require.NoError(t, err)
	assert.Equal(t, 1, impact.AffectedCount)
	require.Len(t, ranges, 1)
	repo.AssertNotCalled(t, "SaveWeek", mock.Anything, mock.Anything, mock.Anything)
}

func TestGrantEditWindowRejectsPastDeadline(t *testing.T) {
	svc := newTestService(new(MockAvailabilityRepo), new(MockBookingRepo), new(MockFacilityService), nil, nil)

	err := svc.GrantEditWindow(context.Background(), 7, time.Now().Add(-time.Hour))

	assert.Error(t, err)
}

func TestGrantEditWindowOpensWindow(t *testing.T) {
	repo := new(MockAvailabilityRepo)
	until := time.Now().Add(48 * time.Hour)
	repo.On("SetEditable", mock.Anything, int64(7), true, &until).Return(nil)

	svc := newTestService(repo, new(MockBookingRepo), new(MockFacilityService), nil, nil)

	require.NoError(t, svc.GrantEditWindow(context.Background(), 7, until))
	repo.AssertExpectations(t)
}

func TestCommitStateStrings(t *testing.T) {
	assert.Equal(t, "editing", StateEditing.String())
	assert.Equal(t, "awaiting_confirmation", StateAwaitingConfirmation.String())
	assert.Equal(t, "locked", StateLocked.String())
}
