package availability

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicare/booking-api/internal/middleware"
	"github.com/medicare/booking-api/internal/model"
	"github.com/medicare/booking-api/internal/service/availability"
	"github.com/medicare/booking-api/internal/service/doctor"
	apperr "github.com/medicare/booking-api/pkg/errors"
	"github.com/medicare/booking-api/pkg/httputil"
	"github.com/medicare/booking-api/pkg/metrics"
	"github.com/medicare/booking-api/pkg/validator"
)

// Handler exposes a doctor's weekly schedule. A replace submission is
// all-or-nothing: any rejected window leaves the stored schedule untouched.
type Handler struct {
	service   *availability.Service
	doctors   *doctor.Service
	validator validator.Validator
	metrics   *metrics.Metrics
}

func NewHandler(service *availability.Service, doctors *doctor.Service, v validator.Validator, m *metrics.Metrics) *Handler {
	return &Handler{service: service, doctors: doctors, validator: v, metrics: m}
}

func (h *Handler) ReplaceSchedule(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid doctor ID", err))
		return
	}
	if err := h.authorizeDoctor(c, doctorID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.ReplaceScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid request body", err))
		return
	}

	accepted, rejections, err := h.service.ReplaceSchedule(c.Request.Context(), doctorID, req.Windows)
	if err != nil {
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	if len(rejections) > 0 {
		h.metrics.ScheduleRejected.Inc()
		httputil.RespondWithRejections(c, "schedule not updated", rejections)
		return
	}

	h.metrics.ScheduleReplaced.Inc()
	httputil.RespondWithSuccess(c, accepted)
}

func (h *Handler) GetSchedule(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid doctor ID", err))
		return
	}

	windows, err := h.service.ListSchedule(c.Request.Context(), doctorID)
	if err != nil {
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, windows)
}

// authorizeDoctor lets admins act on any schedule and doctors only on
// their own.
func (h *Handler) authorizeDoctor(c *gin.Context, doctorID uuid.UUID) error {
	if c.GetString(middleware.ContextUserRole) == string(model.UserRoleAdmin) {
		return nil
	}

	userID, err := uuid.Parse(c.GetString(middleware.ContextUserID))
	if err != nil {
		return apperr.Unauthorized(err)
	}
	d, err := h.doctors.GetDoctorByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			return apperr.Forbidden("no doctor profile for this account", err)
		}
		return apperr.Internal(err)
	}
	if d.ID != doctorID {
		return apperr.Forbidden("schedule belongs to another doctor", nil)
	}
	return nil
}
