package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/juanraniqueo21/proyecto-buses/internal/service"
	"github.com/juanraniqueo21/proyecto-buses/pkg/response"
)

// ReferenceHandler serves the read-only reference tables.
type ReferenceHandler struct {
	service *service.ReferenceService
}

// NewReferenceHandler constructs a reference handler.
func NewReferenceHandler(svc *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: svc}
}

// ListStates godoc
// @Summary List bus states
// @Tags Reference Data
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /estados [get]
func (h *ReferenceHandler) ListStates(c *gin.Context) {
	states, err := h.service.ListStates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, states, nil)
}

// ListFuelTypes godoc
// @Summary List fuel types
// @Tags Reference Data
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tipos-combustible [get]
func (h *ReferenceHandler) ListFuelTypes(c *gin.Context) {
	fuels, err := h.service.ListFuelTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fuels, nil)
}
