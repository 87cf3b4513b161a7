package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stride/config"
	"stride/internal/domain"
	"stride/internal/service"
)

type mockAvailabilityService struct{ mock.Mock }

func (m *mockAvailabilityService) GetWeek(ctx context.Context, instructorID int64) (*domain.WeeklyAvailability, error) {
	args := m.Called(ctx, instructorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeeklyAvailability), args.Error(1)
}

func (m *mockAvailabilityService) PreviewImpact(ctx context.Context, instructorID int64, days []domain.DaySchedule) (*domain.ImpactResult, []domain.ChangedRange, error) {
	args := m.Called(ctx, instructorID, days)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.ImpactResult), args.Get(1).([]domain.ChangedRange), args.Error(2)
}

func (m *mockAvailabilityService) Save(ctx context.Context, instructorID int64, days []domain.DaySchedule, confirmed bool) (*service.SaveResult, error) {
	args := m.Called(ctx, instructorID, days, confirmed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SaveResult), args.Error(1)
}

func (m *mockAvailabilityService) GrantEditWindow(ctx context.Context, instructorID int64, until time.Time) error {
	return m.Called(ctx, instructorID, until).Error(0)
}

func (m *mockAvailabilityService) ExpireEditWindows(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockFacilityService struct{ mock.Mock }

func (m *mockFacilityService) GetFacility(ctx context.Context) (*domain.Facility, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Facility), args.Error(1)
}

// stubAuthService maps fixed bearer tokens to identities.
type stubAuthService struct{}

func (stubAuthService) ParseToken(_ context.Context, token string) (int64, domain.UserRole, error) {
	switch token {
	case "instructor-token":
		return 7, domain.UserRoleInstructor, nil
	case "admin-token":
		return 1, domain.UserRoleAdmin, nil
	default:
		return 0, "", errors.New("invalid token")
	}
}

func setupRouter(availability *mockAvailabilityService, facility *mockFacilityService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	services := &service.Services{
		Availability: availability,
		Facility:     facility,
		Auth:         stubAuthService{},
	}
	handler := NewHandler(services, zap.NewNop(), &config.Config{})

	router := gin.New()
	handler.InitRoutes(router)
	return router
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func saveBody(confirmed bool) domain.SaveAvailabilityDTO {
	return domain.SaveAvailabilityDTO{
		Days: []domain.DayScheduleDTO{
			{Key: "sunday", Active: true, Slots: []domain.TimeSlotDTO{
				{Start: "09:00", End: "10:00", ActivityTypeID: 1},
			}},
		},
		Confirmed: confirmed,
	}
}

func TestGetAvailabilityRequiresAuth(t *testing.T) {
	router := setupRouter(new(mockAvailabilityService), new(mockFacilityService))

	w := doRequest(router, http.MethodGet, "/api/v1/availability/", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetAvailabilityReturnsWeek(t *testing.T) {
	availability := new(mockAvailabilityService)
	week := domain.NewWeeklyAvailability()
	week.AllowEdit = true
	availability.On("GetWeek", mock.Anything, int64(7)).Return(week, nil)

	router := setupRouter(availability, new(mockFacilityService))

	w := doRequest(router, http.MethodGet, "/api/v1/availability/", "instructor-token", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status string `json:"status"`
		Data   struct {
			Days      []domain.DaySchedule `json:"days"`
			AllowEdit bool                 `json:"allow_edit"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.True(t, body.Data.AllowEdit)
	assert.Len(t, body.Data.Days, 7)
}

func TestSaveAvailabilityCommits(t *testing.T) {
	availability := new(mockAvailabilityService)
	availability.On("Save", mock.Anything, int64(7), mock.Anything, false).Return(&service.SaveResult{
		Version:       3,
		AffectedCount: 0,
	}, nil)

	router := setupRouter(availability, new(mockFacilityService))

	w := doRequest(router, http.MethodPut, "/api/v1/availability/", "instructor-token", saveBody(false))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data service.SaveResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body.Data.Version)
}

func TestSaveAvailabilityValidationError(t *testing.T) {
	availability := new(mockAvailabilityService)
	availability.On("Save", mock.Anything, int64(7), mock.Anything, false).Return(nil, &domain.ValidationError{
		DayKey:    "sunday",
		DayLabel:  "Sunday",
		SlotIndex: 0,
		Message:   "end time must be after start time",
	})

	router := setupRouter(availability, new(mockFacilityService))

	w := doRequest(router, http.MethodPut, "/api/v1/availability/", "instructor-token", saveBody(false))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body validationErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "sunday", body.DayKey)
	assert.Equal(t, 0, body.SlotIndex)
}

func TestSaveAvailabilityConfirmationRequired(t *testing.T) {
	availability := new(mockAvailabilityService)
	availability.On("Save", mock.Anything, int64(7), mock.Anything, false).Return(nil, &domain.ConfirmationRequiredError{
		AffectedCount: 2,
		Ranges: []domain.ChangedRange{
			{DayKey: "sunday", DayLabel: "Sunday", OldStart: "09:00", OldEnd: "10:00"},
		},
	})

	router := setupRouter(availability, new(mockFacilityService))

	w := doRequest(router, http.MethodPut, "/api/v1/availability/", "instructor-token", saveBody(false))

	require.Equal(t, http.StatusConflict, w.Code)
	var body confirmationRequiredBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "confirmation_required", body.Status)
	assert.Equal(t, 2, body.AffectedCount)
	require.Len(t, body.Ranges, 1)
}

func TestSaveAvailabilityLocked(t *testing.T) {
	availability := new(mockAvailabilityService)
	availability.On("Save", mock.Anything, int64(7), mock.Anything, false).Return(nil, domain.ErrScheduleLocked)

	router := setupRouter(availability, new(mockFacilityService))

	w := doRequest(router, http.MethodPut, "/api/v1/availability/", "instructor-token", saveBody(false))

	assert.Equal(t, http.StatusLocked, w.Code)
}

func TestSaveAvailabilityBadBody(t *testing.T) {
	router := setupRouter(new(mockAvailabilityService), new(mockFacilityService))

	w := doRequest(router, http.MethodPut, "/api/v1/availability/", "instructor-token", gin.H{"days": "nope"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewImpactReturnsEstimate(t *testing.T) {
	availability := new(mockAvailabilityService)
	availability.On("PreviewImpact", mock.Anything, int64(7), mock.Anything).Return(
		&domain.ImpactResult{AffectedCount: 3},
		[]domain.ChangedRange{{DayKey: "sunday", DayLabel: "Sunday", OldStart: "09:00", OldEnd: "10:00"}},
		nil,
	)

	router := setupRouter(availability, new(mockFacilityService))

	w := doRequest(router, http.MethodPost, "/api/v1/availability/preview", "instructor-token", domain.PreviewImpactDTO{
		Days: saveBody(false).Days,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			AffectedCount int                   `json:"affected_count"`
			Ranges        []domain.ChangedRange `json:"ranges"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.AffectedCount)
	require.Len(t, body.Data.Ranges, 1)
}

func TestGrantEditWindowRequiresAdmin(t *testing.T) {
	router := setupRouter(new(mockAvailabilityService), new(mockFacilityService))

	w := doRequest(router, http.MethodPost, "/api/v1/availability/7/edit-window", "instructor-token", domain.GrantEditWindowDTO{
		Until: time.Now().Add(24 * time.Hour),
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGrantEditWindowAsAdmin(t *testing.T) {
	availability := new(mockAvailabilityService)
	availability.On("GrantEditWindow", mock.Anything, int64(7), mock.Anything).Return(nil)

	router := setupRouter(availability, new(mockFacilityService))

	w := doRequest(router, http.MethodPost, "/api/v1/availability/7/edit-window", "admin-token", domain.GrantEditWindowDTO{
		Until: time.Now().Add(24 * time.Hour),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	availability.AssertExpectations(t)
}

func TestGrantEditWindowInvalidID(t *testing.T) {
	router := setupRouter(new(mockAvailabilityService), new(mockFacilityService))

	w := doRequest(router, http.MethodPost, "/api/v1/availability/not-a-number/edit-window", "admin-token", domain.GrantEditWindowDTO{
		Until: time.Now().Add(24 * time.Hour),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFacilityHours(t *testing.T) {
	facility := new(mockFacilityService)
	facility.On("GetFacility", mock.Anything).Return(&domain.Facility{
		Hours: domain.FacilityHours{Start: "08:00", End: "17:00"},
	}, nil)

	router := setupRouter(new(mockAvailabilityService), facility)

	w := doRequest(router, http.MethodGet, "/api/v1/facility/hours", "instructor-token", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data domain.FacilityHours `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "08:00", body.Data.Start)
	assert.Equal(t, "17:00", body.Data.End)
}

func TestGetActivityTypes(t *testing.T) {
	facility := new(mockFacilityService)
	facility.On("GetFacility", mock.Anything).Return(&domain.Facility{
		ActivityTypes: []domain.ActivityType{
			{ID: 1, Name: "Therapeutic Riding", Active: true},
		},
	}, nil)

	router := setupRouter(new(mockAvailabilityService), facility)

	w := doRequest(router, http.MethodGet, "/api/v1/facility/activity-types", "instructor-token", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []domain.ActivityType `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Therapeutic Riding", body.Data[0].Name)
}
