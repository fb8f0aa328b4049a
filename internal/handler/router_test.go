package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanraniqueo21/proyecto-buses/internal/models"
	"github.com/juanraniqueo21/proyecto-buses/internal/service"
)

func newTestRouter(svc *busServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, "/api/v1", Handlers{
		Buses:     NewBusHandler(svc, &rosterExporterMock{}),
		Reference: NewReferenceHandler(service.NewReferenceService(&referenceRepoMock{}, nil)),
		Metrics:   NewMetricsHandler(nil),
	})
	return r
}

func TestRouterStaticRoutesWinOverID(t *testing.T) {
	svc := &busServiceMock{
		buses: []models.Bus{{ID: 2, Active: false}},
		stats: &models.FleetStatistics{ActiveByState: map[string]int{}},
	}
	r := newTestRouter(svc)

	// /eliminados and /reportes/... must not be captured by the :id segment
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/buses/eliminados", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/buses/reportes/estadisticas", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), svc.lastID)
}

func TestRouterResolvesIDRoute(t *testing.T) {
	svc := &busServiceMock{bus: &models.Bus{ID: 12, Plate: "BCDF21", Active: true}}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/buses/12", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(12), svc.lastID)
}

func TestRouterHealth(t *testing.T) {
	r := newTestRouter(&busServiceMock{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
