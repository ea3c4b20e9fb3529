package address

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lavacar/internal/pkg/response"
)

type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/address/:cep", h.Lookup)
}

func (h *Handler) Lookup(c *gin.Context) {
	result, err := h.client.Lookup(c.Request.Context(), c.Param("cep"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCEP):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Postal code not found")
		default:
			response.Error(c, http.StatusBadGateway, "LOOKUP_FAILED", "Postal code lookup failed")
		}
		return
	}
	response.Success(c, http.StatusOK, result)
}
