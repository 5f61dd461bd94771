package doctor

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicare/booking-api/internal/model"
	"github.com/medicare/booking-api/internal/service/doctor"
	apperr "github.com/medicare/booking-api/pkg/errors"
	"github.com/medicare/booking-api/pkg/httputil"
	"github.com/medicare/booking-api/pkg/validator"
)

type Handler struct {
	service   *doctor.Service
	validator validator.Validator
}

func NewHandler(service *doctor.Service, v validator.Validator) *Handler {
	return &Handler{service: service, validator: v}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid request body", err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest(err.Error(), err))
		return
	}

	d, err := h.service.CreateDoctor(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithCreated(c, d)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid doctor ID", err))
		return
	}

	d, err := h.service.GetDoctor(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			httputil.RespondWithError(c, apperr.NotFound("doctor", err))
			return
		}
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, d)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid doctor ID", err))
		return
	}

	var req model.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid request body", err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest(err.Error(), err))
		return
	}

	d, err := h.service.UpdateDoctor(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			httputil.RespondWithError(c, apperr.NotFound("doctor", err))
			return
		}
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, d)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid doctor ID", err))
		return
	}

	if err := h.service.DeleteDoctor(c.Request.Context(), id); err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			httputil.RespondWithError(c, apperr.NotFound("doctor", err))
			return
		}
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.DoctorFilters{}
	if v := c.Query("specialty_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.RespondWithError(c, apperr.BadRequest("invalid specialty_id filter", err))
			return
		}
		filters.SpecialtyID = id
	}
	if v := c.Query("clinic_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.RespondWithError(c, apperr.BadRequest("invalid clinic_id filter", err))
			return
		}
		filters.ClinicID = id
	}

	doctors, err := h.service.ListDoctors(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/doctors", h.List)
	r.GET("/doctors/:id", h.Get)
}

// RegisterAdminRoutes mounts the mutating endpoints.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.POST("/doctors", h.Create)
	r.PUT("/doctors/:id", h.Update)
	r.DELETE("/doctors/:id", h.Delete)
}
