package clinic

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicare/booking-api/internal/model"
	"github.com/medicare/booking-api/internal/service/clinic"
	apperr "github.com/medicare/booking-api/pkg/errors"
	"github.com/medicare/booking-api/pkg/httputil"
	"github.com/medicare/booking-api/pkg/validator"
)

type Handler struct {
	service   *clinic.Service
	validator validator.Validator
}

func NewHandler(service *clinic.Service, v validator.Validator) *Handler {
	return &Handler{service: service, validator: v}
}

func (h *Handler) CreateClinic(c *gin.Context) {
	var req model.CreateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid request body", err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest(err.Error(), err))
		return
	}

	cl, err := h.service.CreateClinic(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithCreated(c, cl)
}

func (h *Handler) GetClinic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid clinic ID", err))
		return
	}

	cl, err := h.service.GetClinic(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, clinic.ErrNotFound) {
			httputil.RespondWithError(c, apperr.NotFound("clinic", err))
			return
		}
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, cl)
}

func (h *Handler) UpdateClinic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid clinic ID", err))
		return
	}

	var req model.UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid request body", err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest(err.Error(), err))
		return
	}

	cl, err := h.service.UpdateClinic(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, clinic.ErrNotFound) {
			httputil.RespondWithError(c, apperr.NotFound("clinic", err))
			return
		}
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, cl)
}

func (h *Handler) GetSpecialty(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid specialty ID", err))
		return
	}

	sp, err := h.service.GetSpecialty(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, clinic.ErrNotFound) {
			httputil.RespondWithError(c, apperr.NotFound("specialty", err))
			return
		}
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, sp)
}

func (h *Handler) ListClinics(c *gin.Context) {
	clinics, err := h.service.ListClinics(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, clinics)
}

func (h *Handler) DeleteClinic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid clinic ID", err))
		return
	}

	if err := h.service.DeleteClinic(c.Request.Context(), id); err != nil {
		if errors.Is(err, clinic.ErrNotFound) {
			httputil.RespondWithError(c, apperr.NotFound("clinic", err))
			return
		}
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) CreateSpecialty(c *gin.Context) {
	var req model.CreateSpecialtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid request body", err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest(err.Error(), err))
		return
	}

	sp, err := h.service.CreateSpecialty(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithCreated(c, sp)
}

func (h *Handler) ListSpecialties(c *gin.Context) {
	specialties, err := h.service.ListSpecialties(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, specialties)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/clinics", h.ListClinics)
	r.GET("/clinics/:id", h.GetClinic)
	r.GET("/specialties", h.ListSpecialties)
	r.GET("/specialties/:id", h.GetSpecialty)
}

// RegisterAdminRoutes mounts the mutating endpoints.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.POST("/clinics", h.CreateClinic)
	r.PUT("/clinics/:id", h.UpdateClinic)
	r.DELETE("/clinics/:id", h.DeleteClinic)
	r.POST("/specialties", h.CreateSpecialty)
}
