package analytics

import (
	"net/http"
	"time"

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
	rg.GET("/analytics/summary", h.Summary)
}

// Summary returns the month's figures plus the month/year options for the
// selectors. Month and year default to the current ones.
func (h *Handler) Summary(c *gin.Context) {
	now := time.Now()
	month := c.DefaultQuery("month", now.Month().String())
	year := c.DefaultQuery("year", now.Format("2006"))

	engine, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusBadGateway, "REMOTE_ERROR", "Failed to load booking snapshot")
		return
	}

	newCustomers, err := h.service.NewCustomers(c.Request.Context(), month, year)
	if err != nil {
		response.Error(c, http.StatusBadGateway, "REMOTE_ERROR", "Failed to count new customers")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"month":         month,
		"year":          year,
		"service_count": engine.MonthServiceCount(month, year),
		"total_revenue": engine.TotalRevenue(month, year),
		"growth":        engine.Growth(month, year),
		"new_customers": newCustomers,
		"months":        engine.KnownMonths(),
		"years":         engine.KnownYears(),
	})
}
