package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/juanraniqueo21/proyecto-buses/internal/models"
	"github.com/juanraniqueo21/proyecto-buses/internal/service"
	appErrors "github.com/juanraniqueo21/proyecto-buses/pkg/errors"
	"github.com/juanraniqueo21/proyecto-buses/pkg/response"
)

type busService interface {
	Create(ctx context.Context, req service.CreateBusRequest) (*models.Bus, error)
	List(ctx context.Context, filter models.BusFilter) ([]models.Bus, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.Bus, error)
	GetByPlate(ctx context.Context, plate string) (*models.Bus, error)
	Update(ctx context.Context, id int64, req service.UpdateBusRequest) (*models.Bus, error)
	UpdateMileage(ctx context.Context, id, mileage int64) (*models.Bus, error)
	ChangeState(ctx context.Context, id int64, stateCode string) (*models.Bus, error)
	SoftDelete(ctx context.Context, id int64) (bool, error)
	Restore(ctx context.Context, id int64) (*models.Bus, error)
	ListDeleted(ctx context.Context) ([]models.Bus, error)
	HardDelete(ctx context.Context, id int64) (bool, error)
	MaintenanceDue(ctx context.Context, intervalKM int64) ([]models.Bus, error)
	Statistics(ctx context.Context) (*models.FleetStatistics, error)
}

type rosterExporter interface {
	RenderRoster(ctx context.Context, format string) (*service.ExportResult, error)
}

// BusHandler handles bus endpoints.
type BusHandler struct {
	service busService
	export  rosterExporter
}

// NewBusHandler constructs a bus handler.
func NewBusHandler(svc busService, exportSvc rosterExporter) *BusHandler {
	return &BusHandler{service: svc, export: exportSvc}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "bus id must be a positive integer"))
		return 0, false
	}
	return id, true
}

// Create godoc
// @Summary Register a bus
// @Tags Buses
// @Accept json
// @Produce json
// @Param payload body service.CreateBusRequest true "Bus payload"
// @Success 201 {object} response.Envelope
// @Router /buses [post]
func (h *BusHandler) Create(c *gin.Context) {
	var req service.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	bus, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, bus)
}

// List godoc
// @Summary List buses
// @Tags Buses
// @Produce json
// @Param skip query int false "Records to skip"
// @Param limit query int false "Page size (max 100)"
// @Param estado query string false "Filter by state code"
// @Param marca query string false "Filter by make substring"
// @Param buscar query string false "Free-text search"
// @Success 200 {object} response.Envelope
// @Router /buses [get]
func (h *BusHandler) List(c *gin.Context) {
	var filter models.BusFilter
	filter.Search = strings.TrimSpace(c.Query("buscar"))
	filter.StateCode = strings.TrimSpace(c.Query("estado"))
	filter.Make = strings.TrimSpace(c.Query("marca"))
	if skip, err := strconv.Atoi(c.DefaultQuery("skip", "0")); err == nil {
		filter.Skip = skip
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.Limit = limit
	}

	buses, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, buses, pagination)
}

// Get godoc
// @Summary Get bus by id
// @Tags Buses
// @Produce json
// @Param id path int true "Bus ID"
// @Success 200 {object} response.Envelope
// @Router /buses/{id} [get]
func (h *BusHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	bus, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bus, nil)
}

// GetByPlate godoc
// @Summary Get bus by plate
// @Tags Buses
// @Produce json
// @Param patente path string true "License plate"
// @Success 200 {object} response.Envelope
// @Router /buses/patente/{patente} [get]
func (h *BusHandler) GetByPlate(c *gin.Context) {
	bus, err := h.service.GetByPlate(c.Request.Context(), c.Param("patente"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bus, nil)
}

// Update godoc
// @Summary Update a bus (partial)
// @Tags Buses
// @Accept json
// @Produce json
// @Param id path int true "Bus ID"
// @Param payload body service.UpdateBusRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /buses/{id} [put]
func (h *BusHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	bus, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bus, nil)
}

// UpdateMileage godoc
// @Summary Update odometer reading
// @Tags Buses
// @Produce json
// @Param id path int true "Bus ID"
// @Param kilometraje query int true "New reading in km"
// @Success 200 {object} response.Envelope
// @Router /buses/{id}/kilometraje [patch]
func (h *BusHandler) UpdateMileage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	km, err := strconv.ParseInt(c.Query("kilometraje"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "kilometraje must be an integer"))
		return
	}
	bus, err := h.service.UpdateMileage(c.Request.Context(), id, km)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bus, nil)
}

// ChangeState godoc
// @Summary Change operational state
// @Tags Buses
// @Produce json
// @Param id path int true "Bus ID"
// @Param codigo query string true "State code (ACT, MAN, FS, RET)"
// @Success 200 {object} response.Envelope
// @Router /buses/{id}/estado [patch]
func (h *BusHandler) ChangeState(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	code := c.Query("codigo")
	if code == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "codigo query parameter is required"))
		return
	}
	bus, err := h.service.ChangeState(c.Request.Context(), id, code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bus, nil)
}

// Delete godoc
// @Summary Soft-delete a bus
// @Tags Buses
// @Produce json
// @Param id path int true "Bus ID"
// @Success 204
// @Router /buses/{id} [delete]
func (h *BusHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	deleted, err := h.service.SoftDelete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !deleted {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "bus not found"))
		return
	}
	response.NoContent(c)
}

// Restore godoc
// @Summary Restore a soft-deleted bus
// @Tags Buses
// @Produce json
// @Param id path int true "Bus ID"
// @Success 200 {object} response.Envelope
// @Router /buses/{id}/restaurar [post]
func (h *BusHandler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	bus, err := h.service.Restore(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bus, nil)
}

// ListDeleted godoc
// @Summary List soft-deleted buses
// @Tags Buses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /buses/eliminados [get]
func (h *BusHandler) ListDeleted(c *gin.Context) {
	buses, err := h.service.ListDeleted(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, buses, nil)
}

// HardDelete godoc
// @Summary Permanently delete a bus (administrative)
// @Tags Buses
// @Produce json
// @Param id path int true "Bus ID"
// @Success 204
// @Router /buses/{id}/permanente [delete]
func (h *BusHandler) HardDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	deleted, err := h.service.HardDelete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !deleted {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "bus not found"))
		return
	}
	response.NoContent(c)
}

// Statistics godoc
// @Summary Fleet statistics
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /buses/reportes/estadisticas [get]
func (h *BusHandler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// MaintenanceDue godoc
// @Summary Buses due for maintenance
// @Tags Reports
// @Produce json
// @Param kilometraje_limite query int false "Service interval in km (min 1000)"
// @Success 200 {object} response.Envelope
// @Router /buses/reportes/mantenimiento-pendiente [get]
func (h *BusHandler) MaintenanceDue(c *gin.Context) {
	var interval int64
	if raw := c.Query("kilometraje_limite"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "kilometraje_limite must be an integer"))
			return
		}
		interval = parsed
	}
	buses, err := h.service.MaintenanceDue(c.Request.Context(), interval)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, buses, nil)
}

// Export godoc
// @Summary Export the fleet roster
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param formato query string false "csv (default) or pdf"
// @Success 200
// @Router /buses/reportes/exportar [get]
func (h *BusHandler) Export(c *gin.Context) {
	result, err := h.export.RenderRoster(c.Request.Context(), c.DefaultQuery("formato", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
