package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medicare/booking-api/internal/model"
	"github.com/medicare/booking-api/internal/service/user"
	apperr "github.com/medicare/booking-api/pkg/errors"
	"github.com/medicare/booking-api/pkg/httputil"
	"github.com/medicare/booking-api/pkg/validator"
)

type Handler struct {
	service   *user.Service
	validator validator.Validator
}

func NewHandler(service *user.Service, v validator.Validator) *Handler {
	return &Handler{service: service, validator: v}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid request body", err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest(err.Error(), err))
		return
	}

	created, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			httputil.RespondWithError(c, apperr.Conflict("email is already registered", err))
			return
		}
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}

	httputil.RespondWithCreated(c, created)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest("invalid request body", err))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		httputil.RespondWithError(c, apperr.BadRequest(err.Error(), err))
		return
	}

	token, u, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			httputil.RespondWithError(c, apperr.Unauthorized(err))
			return
		}
		httputil.RespondWithError(c, apperr.Internal(err))
		return
	}

	c.JSON(http.StatusOK, httputil.Response{
		Success: true,
		Data: gin.H{
			"token": token,
			"user":  u,
		},
	})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}
