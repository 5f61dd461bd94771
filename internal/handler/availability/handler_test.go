package availability

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicare/booking-api/internal/middleware"
	"github.com/medicare/booking-api/internal/model"
	"github.com/medicare/booking-api/internal/repository"
	availabilityService "github.com/medicare/booking-api/internal/service/availability"
	doctorService "github.com/medicare/booking-api/internal/service/doctor"
	"github.com/medicare/booking-api/pkg/metrics"
	"github.com/medicare/booking-api/pkg/validator"
)

type stubAvailabilityRepo struct {
	windows map[uuid.UUID][]*model.AvailabilityWindow
}

func (s *stubAvailabilityRepo) ReplaceForDoctor(_ context.Context, doctorID uuid.UUID, windows []*model.AvailabilityWindow) error {
	s.windows[doctorID] = windows
	return nil
}

func (s *stubAvailabilityRepo) ListForDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.AvailabilityWindow, error) {
	return s.windows[doctorID], nil
}

func (s *stubAvailabilityRepo) FindWindow(context.Context, uuid.UUID, time.Weekday, model.TimeOfDay, model.TimeOfDay) (*model.AvailabilityWindow, error) {
	return nil, repository.ErrNotFound
}

type stubDoctorRepo struct{}

func (stubDoctorRepo) Create(context.Context, *model.Doctor) error { return nil }
func (stubDoctorRepo) Get(context.Context, uuid.UUID) (*model.Doctor, error) {
	return nil, repository.ErrNotFound
}
func (stubDoctorRepo) GetByUserID(context.Context, uuid.UUID) (*model.Doctor, error) {
	return nil, repository.ErrNotFound
}
func (stubDoctorRepo) Update(context.Context, *model.Doctor) error { return nil }
func (stubDoctorRepo) Delete(context.Context, uuid.UUID) error     { return nil }
func (stubDoctorRepo) List(context.Context, *model.DoctorFilters) ([]*model.Doctor, error) {
	return nil, nil
}

var testMetrics = metrics.New("availability_handler_test")

func setupRouter(repo *stubAvailabilityRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewHandler(
		availabilityService.NewService(repo),
		doctorService.NewService(stubDoctorRepo{}),
		validator.New(),
		testMetrics,
	)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uuid.New().String())
		c.Set(middleware.ContextUserRole, string(model.UserRoleAdmin))
	})
	r.GET("/doctors/:id/availability", h.GetSchedule)
	r.PUT("/doctors/:id/availability", h.ReplaceSchedule)
	return r
}

func putSchedule(t *testing.T, r *gin.Engine, doctorID uuid.UUID, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/doctors/"+doctorID.String()+"/availability", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReplaceScheduleEndpoint(t *testing.T) {
	repo := &stubAvailabilityRepo{windows: make(map[uuid.UUID][]*model.AvailabilityWindow)}
	r := setupRouter(repo)
	doctorID := uuid.New()

	w := putSchedule(t, r, doctorID, gin.H{
		"windows": []gin.H{
			{"day": 1, "start": "09:00", "end": "12:00"},
			{"day": 1, "start": "13:00", "end": "17:00"},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, repo.windows[doctorID], 2)
}

func TestReplaceScheduleEndpointRejections(t *testing.T) {
	repo := &stubAvailabilityRepo{windows: make(map[uuid.UUID][]*model.AvailabilityWindow)}
	r := setupRouter(repo)
	doctorID := uuid.New()

	w := putSchedule(t, r, doctorID, gin.H{
		"windows": []gin.H{
			{"day": 1, "start": "09:00", "end": "12:00"},
			{"day": 1, "start": "10:00", "end": "11:00"},
		},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, repo.windows[doctorID])

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Details []model.WindowRejection `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, model.RejectionOverlap, resp.Error.Details[0].Kind)
}

func TestReplaceScheduleEndpointBadID(t *testing.T) {
	repo := &stubAvailabilityRepo{windows: make(map[uuid.UUID][]*model.AvailabilityWindow)}
	r := setupRouter(repo)

	req := httptest.NewRequest(http.MethodPut, "/doctors/not-a-uuid/availability", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetScheduleEndpoint(t *testing.T) {
	doctorID := uuid.New()
	repo := &stubAvailabilityRepo{windows: map[uuid.UUID][]*model.AvailabilityWindow{
		doctorID: {
			{ID: uuid.New(), DoctorID: doctorID, Day: time.Monday, Start: model.TimeOfDay(9 * 60), End: model.TimeOfDay(12 * 60)},
		},
	}}
	r := setupRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/doctors/"+doctorID.String()+"/availability", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"09:00"`)
}
