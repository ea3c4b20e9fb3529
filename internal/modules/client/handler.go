package client

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lavacar/internal/pkg/cascade"
	"lavacar/internal/pkg/response"
	"lavacar/internal/store"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/clients", h.List)
	rg.GET("/clients/count", h.Count)
	rg.POST("/clients", h.Create)
	rg.PUT("/clients/:id", h.Update)
	rg.DELETE("/clients/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var form Form
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Save(c.Request.Context(), form, nil)
	if err != nil {
		writeCascadeError(c, res, err)
		return
	}
	response.Created(c, res)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid customer id")
		return
	}

	var form Form
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Save(c.Request.Context(), form, &id)
	if err != nil {
		writeCascadeError(c, res, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid customer id")
		return
	}

	res, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Customer not found")
			return
		}
		writeCascadeError(c, res, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	items, total, err := h.service.List(c.Request.Context(), ListQuery{
		Page:   page,
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list customers")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"clients": items,
		"total":   total,
		"page":    page,
	})
}

func (h *Handler) Count(c *gin.Context) {
	n, err := h.service.CountAll(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to count customers")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"count": n})
}

// writeCascadeError maps orchestrator failures onto the response envelope.
// A partial cascade is reported with the completed stages so the UI can show
// "saved with warnings" instead of a generic failure.
func writeCascadeError(c *gin.Context, partial interface{ completedStages() []string }, err error) {
	switch {
	case errors.Is(err, cascade.ErrBusy):
		response.Error(c, http.StatusConflict, "BUSY", "Another save is already in progress")
	case errors.Is(err, ErrNameRequired):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, store.ErrConflict):
		writeStageError(c, http.StatusConflict, "DUPLICATE", partial, err)
	default:
		writeStageError(c, http.StatusBadGateway, "REMOTE_ERROR", partial, err)
	}
}

func writeStageError(c *gin.Context, status int, code string, partial interface{ completedStages() []string }, err error) {
	var stageErr *cascade.StageError
	details := gin.H{}
	if errors.As(err, &stageErr) {
		details["stage"] = stageErr.Stage
	}
	if partial != nil {
		if completed := partial.completedStages(); len(completed) > 0 {
			details["completed"] = completed
			code = "PARTIAL_" + code
		}
	}
	response.ErrorWithDetails(c, status, code, err.Error(), details)
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
