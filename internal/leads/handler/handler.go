package handler

import (
	"net/http"

	"leadradar_backend/internal/leads/service"
	"leadradar_backend/internal/leads/transport"
	"leadradar_backend/platform/httpkit"
	"leadradar_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the lead routes on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/for-you", h.ForYou)
	rg.GET("/:id/score", h.Score)
}

// RegisterScoringRoutes mounts the scoring routes on an authenticated group.
func (h *Handler) RegisterScoringRoutes(rg *gin.RouterGroup) {
	rg.POST("/preview", h.Preview)
}

// RegisterAdminRoutes mounts the maintenance routes on the admin group.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/rescore", h.Rescore)
}

func (h *Handler) Score(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.ScoreLead(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Preview(c *gin.Context) {
	var req transport.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	httpkit.OK(c, h.svc.Preview(c.Request.Context(), req))
}

func (h *Handler) ForYou(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	resp, err := h.svc.ForYou(c.Request.Context(), identity.UserID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) Rescore(c *gin.Context) {
	var req transport.RescoreRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	resp, err := h.svc.EnqueueRescore(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Accepted(c, resp)
}
