package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicare/booking-api/internal/middleware"
	"github.com/medicare/booking-api/internal/model"
	"github.com/medicare/booking-api/internal/service/booking"
	apperr "github.com/medicare/booking-api/pkg/errors"
	"github.com/medicare/booking-api/pkg/httputil"
	"github.com/medicare/booking-api/pkg/metrics"
	"github.com/medicare/booking-api/pkg/validator"
)

// Handler is a thin HTTP adapter over the booking service. Identity comes
// from the authenticated token and is passed into the service explicitly.
type Handler struct {
	service   *booking.Service
	validator validator.Validator
	metrics   *metrics.Metrics
}

func NewHandler(service *booking.Service, v validator.Validator, m *metrics.Metrics) *Handler {
	return &Handler{service: service, validator: v, metrics: m}
}

func (h *Handler) Book(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid request body", err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest(err.Error(), err))
		return
	}

	start := time.Now()
	appt, err := h.service.Book(c.Request.Context(), userID, req.DoctorID, time.Weekday(req.Day), req.Start, req.End, time.Now())
	h.metrics.BookingLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		h.metrics.BookingsRejected.WithLabelValues(rejectionReason(err)).Inc()
		h.respondBookingError(c, err)
		return
	}

	h.metrics.BookingsCreated.Inc()
	httputil.RespondWithCreated(c, appt)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid appointment ID", err))
		return
	}

	appt, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appt)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.AppointmentFilters{}
	if v := c.Query("doctor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.RespondWithError(c, apperr.BadRequest("invalid doctor_id filter", err))
			return
		}
		filters.DoctorID = id
	}
	if v := c.Query("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.RespondWithError(c, apperr.BadRequest("invalid patient_id filter", err))
			return
		}
		filters.PatientID = id
	}
	if v := c.Query("status"); v != "" {
		status, err := model.ParseAppointmentStatus(v)
		if err != nil {
			httputil.RespondWithError(c, apperr.BadRequest("invalid status filter", err))
			return
		}
		filters.Status = status
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

// ListMine returns the appointments of the calling patient.
func (h *Handler) ListMine(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	appointments, err := h.service.ListForPatientUser(c.Request.Context(), userID)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) Confirm(c *gin.Context) {
	h.transition(c, h.service.Confirm)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

func (h *Handler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid appointment ID", err))
		return
	}

	var req model.CompleteAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid request body", err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest(err.Error(), err))
		return
	}

	appt, err := h.service.Complete(c.Request.Context(), id, req.Notes, req.Prescription)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appt)
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid appointment ID", err))
		return
	}

	var req model.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid request body", err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest(err.Error(), err))
		return
	}

	appt, err := h.service.Reschedule(c.Request.Context(), id, req.NewDateTime, req.Reason)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appt)
}

func (h *Handler) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid appointment ID", err))
		return
	}

	var req model.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid request body", err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest(err.Error(), err))
		return
	}

	appt, err := h.service.MarkPaid(c.Request.Context(), id, &req)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appt)
}

// GetReceipt returns the payment recorded against the appointment.
func (h *Handler) GetReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid appointment ID", err))
		return
	}

	payment, err := h.service.GetReceipt(c.Request.Context(), id)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, payment)
}

// ListDoctorFeedback serves a doctor's received ratings for the public
// profile page.
func (h *Handler) ListDoctorFeedback(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid doctor ID", err))
		return
	}

	feedbacks, err := h.service.ListDoctorFeedback(c.Request.Context(), doctorID)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, feedbacks)
}

func (h *Handler) SubmitFeedback(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid appointment ID", err))
		return
	}

	var req model.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid request body", err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest(err.Error(), err))
		return
	}

	fb, err := h.service.SubmitFeedback(c.Request.Context(), userID, id, &req)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	httputil.RespondWithCreated(c, fb)
}

// transition runs a single-argument status change and reports the result.
func (h *Handler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*model.Appointment, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid appointment ID", err))
		return
	}

	appt, err := fn(c.Request.Context(), id)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appt)
}

func (h *Handler) respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrPatientNotFound):
		httputil.RespondWithError(c, apperr.NotFound("patient profile", err))
	case errors.Is(err, booking.ErrDoctorNotFound):
		httputil.RespondWithError(c, apperr.NotFound("doctor", err))
	case errors.Is(err, booking.ErrAppointmentNotFound):
		httputil.RespondWithError(c, apperr.NotFound("appointment", err))
	case errors.Is(err, booking.ErrSlotNotAvailable):
		httputil.RespondWithError(c, apperr.NotFound("availability slot", err))
	case errors.Is(err, booking.ErrNoPayment):
		httputil.RespondWithError(c, apperr.NotFound("payment", err))
	case errors.Is(err, booking.ErrSlotInPast),
		errors.Is(err, booking.ErrNotFeedbackEligible):
		httputil.RespondWithError(c, apperr.Unprocessable(err.Error(), err))
	case errors.Is(err, booking.ErrSlotConflict),
		errors.Is(err, booking.ErrInvalidTransition):
		httputil.RespondWithError(c, apperr.Conflict(err.Error(), err))
	case errors.Is(err, booking.ErrNotOwner):
		httputil.RespondWithError(c, apperr.Forbidden(err.Error(), err))
	default:
		httputil.RespondWithError(c, apperr.Internal(err))
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, booking.ErrSlotNotAvailable):
		return "slot_not_available"
	case errors.Is(err, booking.ErrSlotInPast):
		return "slot_in_past"
	case errors.Is(err, booking.ErrSlotConflict):
		return "slot_conflict"
	case errors.Is(err, booking.ErrPatientNotFound), errors.Is(err, booking.ErrDoctorNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

func callerID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.GetString(middleware.ContextUserID))
	if err != nil {
		return uuid.Nil, apperr.Unauthorized(err)
	}
	return id, nil
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.Book)
		appointments.GET("/mine", h.ListMine)
		appointments.GET("/:id", h.Get)
		appointments.POST("/:id/confirm", h.Confirm)
		appointments.POST("/:id/cancel", h.Cancel)
		appointments.POST("/:id/complete", h.Complete)
		appointments.POST("/:id/reschedule", h.Reschedule)
		appointments.POST("/:id/payment", h.RecordPayment)
		appointments.GET("/:id/payment", h.GetReceipt)
		appointments.POST("/:id/feedback", h.SubmitFeedback)
	}
}

// RegisterAdminRoutes mounts the unfiltered listing for back-office use.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/appointments", h.List)
}
