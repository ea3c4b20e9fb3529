package goal

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lavacar/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/goal", h.Get)
	rg.PUT("/goal", h.Set)
}

type setRequest struct {
	Value float64 `json:"value" binding:"gte=0"`
}

func (h *Handler) Get(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity")
		return
	}

	value, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusBadGateway, "REMOTE_ERROR", "Failed to load goal")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"value": value})
}

func (h *Handler) Set(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity")
		return
	}

	var req setRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.Set(c.Request.Context(), userID, req.Value); err != nil {
		response.Error(c, http.StatusBadGateway, "REMOTE_ERROR", "Failed to save goal")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"value": req.Value})
}
