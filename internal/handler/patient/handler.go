package patient

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicare/booking-api/internal/middleware"
	"github.com/medicare/booking-api/internal/model"
	"github.com/medicare/booking-api/internal/service/patient"
	apperr "github.com/medicare/booking-api/pkg/errors"
	"github.com/medicare/booking-api/pkg/httputil"
	"github.com/medicare/booking-api/pkg/validator"
)

type Handler struct {
	service   *patient.Service
	validator validator.Validator
}

func NewHandler(service *patient.Service, v validator.Validator) *Handler {
	return &Handler{service: service, validator: v}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid request body", err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest(err.Error(), err))
		return
	}

	p, err := h.service.CreatePatient(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithCreated(c, p)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid patient ID", err))
		return
	}

	p, err := h.service.GetPatient(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			httputil.RespondWithError(c, apperr.NotFound("patient", err))
			return
		}
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, p)
}

// GetMe returns the profile of the calling patient.
func (h *Handler) GetMe(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString(middleware.ContextUserID))
	if err != nil {
		httputil.RespondWithError(c, apperr.Unauthorized(err))
		return
	}

	p, err := h.service.GetPatientByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			httputil.RespondWithError(c, apperr.NotFound("patient", err))
			return
		}
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid patient ID", err))
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid request body", err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest(err.Error(), err))
		return
	}

	p, err := h.service.UpdatePatient(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			httputil.RespondWithError(c, apperr.NotFound("patient", err))
			return
		}
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.Create)
		patients.GET("/me", h.GetMe)
		patients.GET("/:id", h.Get)
		patients.PUT("/:id", h.Update)
	}
}
