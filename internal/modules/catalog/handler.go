package catalog

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
	rg.GET("/catalog/form-options", h.FormOptions)
}

func (h *Handler) FormOptions(c *gin.Context) {
	opts, err := h.service.FormOptions(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusBadGateway, "REMOTE_ERROR", "Failed to load catalog")
		return
	}
	response.Success(c, http.StatusOK, opts)
}
