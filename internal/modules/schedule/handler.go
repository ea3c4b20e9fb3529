package schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lavacar/internal/pkg/cascade"
	"lavacar/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListDay)
	rg.POST("/bookings", h.Create)
	rg.PUT("/bookings/:id", h.Update)
	rg.DELETE("/bookings/:id", h.Delete)
	rg.GET("/bookings/:id/wash-types", h.WashTypes)
	rg.GET("/clients/:id/vehicles", h.Vehicles)
}

func (h *Handler) Create(c *gin.Context) {
	var form Form
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Save(c.Request.Context(), form, nil)
	if err != nil {
		h.writeError(c, res, err)
		return
	}
	response.Created(c, res)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	var form Form
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
			return
		}
		response.Error(c, http.StatusBadGateway, "REMOTE_ERROR", err.Error())
		return
	}

	res, err := h.service.Save(c.Request.Context(), form, &Existing{BookingID: b.ID, ServiceID: b.ServiceID})
	if err != nil {
		h.writeError(c, res, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	res, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
			return
		}
		h.writeError(c, res, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) ListDay(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date query parameter is required")
		return
	}

	bookings, err := h.service.ListDay(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, ErrInvalidDate) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		response.Error(c, http.StatusBadGateway, "REMOTE_ERROR", "Failed to list bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) WashTypes(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	links, err := h.service.WashTypes(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusBadGateway, "REMOTE_ERROR", "Failed to load wash types")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"wash_types": links})
}

func (h *Handler) Vehicles(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid customer id")
		return
	}

	vehicles, err := h.service.VehiclesForCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusBadGateway, "REMOTE_ERROR", "Failed to load vehicles")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"vehicles": vehicles})
}

func (h *Handler) writeError(c *gin.Context, partial interface{ completedStages() []string }, err error) {
	switch {
	case errors.Is(err, cascade.ErrBusy):
		response.Error(c, http.StatusConflict, "BUSY", "Another save is already in progress")
	case errors.Is(err, ErrInvalidPrice), errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidTime):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		var stageErr *cascade.StageError
		details := gin.H{}
		if errors.As(err, &stageErr) {
			details["stage"] = stageErr.Stage
		}
		code := "REMOTE_ERROR"
		if partial != nil {
			if completed := partial.completedStages(); len(completed) > 0 {
				details["completed"] = completed
				code = "PARTIAL_REMOTE_ERROR"
			}
		}
		response.ErrorWithDetails(c, http.StatusBadGateway, code, err.Error(), details)
	}
}

func (r *SaveResult) completedStages() []string {
	if r == nil {
		return nil
	}
	return r.Completed
}

func (r *DeleteResult) completedStages() []string {
	if r == nil {
		return nil
	}
	return r.Completed
}
