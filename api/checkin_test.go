package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/aircheckin/internal/domain"
	"github.com/Domenick1991/aircheckin/internal/service/checkin"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCheckinUseCase is a mock implementation of checkin.CheckinUseCase
type MockCheckinUseCase struct {
	mock.Mock
}

func (m *MockCheckinUseCase) Lookup(ctx context.Context, bookingID string) (*domain.CheckinDetails, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckinDetails), args.Error(1)
}

func (m *MockCheckinUseCase) SeatMap(ctx context.Context, bookingID string) ([]bool, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bool), args.Error(1)
}

func (m *MockCheckinUseCase) CompleteCheckIn(ctx context.Context, input checkin.CompleteCheckInInput) (*domain.CheckinDetails, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckinDetails), args.Error(1)
}

func (m *MockCheckinUseCase) Authenticate(ctx context.Context, username, password string) (*domain.Booking, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockCheckinUseCase) RegisterPassenger(ctx context.Context, input checkin.RegisterInput) (*domain.Passenger, *domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Passenger), args.Get(1).(*domain.Booking), args.Error(2)
}

func (m *MockCheckinUseCase) RemindPendingCheckins(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockPassFetcher struct {
	mock.Mock
}

func (m *MockPassFetcher) Fetch(ctx context.Context, bookingID string) ([]byte, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func sampleDetails() *domain.CheckinDetails {
	return &domain.CheckinDetails{
		Booking: domain.Booking{
			ID:           "b1",
			PassengerID:  "p1",
			FlightID:     strPtr("f1"),
			IsRegistered: true,
			Seat:         intPtr(12),
		},
		Flight: &domain.Flight{
			ID:            "f1",
			Origin:        "SVO",
			Destination:   "LED",
			DepartureTime: time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC),
			ArrivalTime:   time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		},
		Passenger: domain.Passenger{ID: "p1", Username: "alice", Firstname: "Alice"},
	}
}

func TestCheckinHandler_lookup(t *testing.T) {
	mockService := &MockCheckinUseCase{}
	handler := NewCheckinHandler(mockService, &MockPassFetcher{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "b1"}}
	c.Request = httptest.NewRequest("GET", "/api/bookings/b1", nil)

	mockService.On("Lookup", c.Request.Context(), "b1").Return(sampleDetails(), nil)

	handler.lookup(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response checkinDetailsResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "b1", response.ID)
	assert.True(t, response.IsRegistered)
	assert.Equal(t, 12, *response.Seat)
	assert.Equal(t, "SVO", response.Flight.Origin)

	mockService.AssertExpectations(t)
}

func TestCheckinHandler_lookup_NotFound(t *testing.T) {
	mockService := &MockCheckinUseCase{}
	handler := NewCheckinHandler(mockService, &MockPassFetcher{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Request = httptest.NewRequest("GET", "/api/bookings/missing", nil)

	mockService.On("Lookup", c.Request.Context(), "missing").Return(nil, domain.ErrNotFound)

	handler.lookup(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckinHandler_completeCheckIn(t *testing.T) {
	mockService := &MockCheckinUseCase{}
	handler := NewCheckinHandler(mockService, &MockPassFetcher{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "b1"}}

	body, _ := json.Marshal(map[string]interface{}{
		"seat":       12,
		"firstname":  "Alice",
		"lastname":   "Ivanova",
		"patronymic": "Petrovna",
		"birthdate":  "1992-07-01",
		"series":     "4509 654321",
	})
	c.Request = httptest.NewRequest("POST", "/api/bookings/b1", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	expectedInput := checkin.CompleteCheckInInput{
		BookingID: "b1",
		Seat:      12,
		Claim: domain.IdentityClaim{
			Firstname:  "Alice",
			Lastname:   "Ivanova",
			Patronymic: "Petrovna",
			Birthdate:  "1992-07-01",
			Series:     "4509 654321",
		},
	}
	mockService.On("CompleteCheckIn", c.Request.Context(), expectedInput).Return(sampleDetails(), nil)

	handler.completeCheckIn(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestCheckinHandler_completeCheckIn_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid seat", domain.ErrInvalidSeat, http.StatusBadRequest},
		{"seat conflict", domain.ErrSeatConflict, http.StatusConflict},
		{"already registered", domain.ErrAlreadyRegistered, http.StatusConflict},
		{"identity mismatch", domain.ErrIdentityMismatch, http.StatusForbidden},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"generation failure", domain.ErrGenerationFailure, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockCheckinUseCase{}
			handler := NewCheckinHandler(mockService, &MockPassFetcher{})

			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: "b1"}}

			body, _ := json.Marshal(map[string]interface{}{"seat": 12})
			c.Request = httptest.NewRequest("POST", "/api/bookings/b1", bytes.NewReader(body))
			c.Request.Header.Set("Content-Type", "application/json")

			mockService.On("CompleteCheckIn", c.Request.Context(), mock.Anything).Return(nil, tc.err)

			handler.completeCheckIn(c)

			assert.Equal(t, tc.expected, w.Code)
		})
	}
}

func TestCheckinHandler_seatMap(t *testing.T) {
	mockService := &MockCheckinUseCase{}
	handler := NewCheckinHandler(mockService, &MockPassFetcher{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "b1"}}
	c.Request = httptest.NewRequest("GET", "/api/bookings/b1/seats", nil)

	occupied := make([]bool, domain.SeatCount)
	occupied[12] = true
	mockService.On("SeatMap", c.Request.Context(), "b1").Return(occupied, nil)

	handler.seatMap(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Seats []bool `json:"seats"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Seats, domain.SeatCount)
	assert.False(t, response.Seats[12], "occupied seat reported as unavailable")
	assert.True(t, response.Seats[0])
}

func TestCheckinHandler_login(t *testing.T) {
	mockService := &MockCheckinUseCase{}
	handler := NewCheckinHandler(mockService, &MockPassFetcher{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(loginRequest{Username: "alice", Password: "secret"})
	c.Request = httptest.NewRequest("POST", "/login", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	booking := &domain.Booking{ID: "b1", PassengerID: "p1", FlightID: strPtr("f1")}
	mockService.On("Authenticate", c.Request.Context(), "alice", "secret").Return(booking, nil)

	handler.login(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "b1", response["bookingId"])
}

func TestCheckinHandler_login_Failed(t *testing.T) {
	mockService := &MockCheckinUseCase{}
	handler := NewCheckinHandler(mockService, &MockPassFetcher{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(loginRequest{Username: "alice", Password: "wrong"})
	c.Request = httptest.NewRequest("POST", "/login", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Authenticate", c.Request.Context(), "alice", "wrong").Return(nil, domain.ErrNotFound)

	handler.login(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, false, response["success"])
}

func TestCheckinHandler_register_UsernameTaken(t *testing.T) {
	mockService := &MockCheckinUseCase{}
	handler := NewCheckinHandler(mockService, &MockPassFetcher{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(checkin.RegisterInput{Username: "alice", Password: "secret"})
	c.Request = httptest.NewRequest("POST", "/register", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("RegisterPassenger", c.Request.Context(), mock.Anything).Return(nil, nil, domain.ErrUsernameTaken)

	handler.register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckinHandler_download(t *testing.T) {
	mockService := &MockCheckinUseCase{}
	mockPasses := &MockPassFetcher{}
	handler := NewCheckinHandler(mockService, mockPasses)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "b1"}}
	c.Request = httptest.NewRequest("GET", "/download/b1", nil)

	content := []byte("%PDF-1.3 test")
	mockPasses.On("Fetch", c.Request.Context(), "b1").Return(content, nil)

	handler.download(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "b1.pdf")
	assert.Equal(t, content, w.Body.Bytes())
}

func TestCheckinHandler_download_NotFound(t *testing.T) {
	mockService := &MockCheckinUseCase{}
	mockPasses := &MockPassFetcher{}
	handler := NewCheckinHandler(mockService, mockPasses)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Request = httptest.NewRequest("GET", "/download/missing", nil)

	mockPasses.On("Fetch", c.Request.Context(), "missing").Return(nil, domain.ErrNotFound)

	handler.download(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
