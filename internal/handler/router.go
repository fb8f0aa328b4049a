package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router needs.
type Handlers struct {
	Buses     *BusHandler
	Reference *ReferenceHandler
	Metrics   *MetricsHandler
}

// RegisterRoutes wires the API surface onto the engine under the prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	buses := api.Group("/buses")
	{
		buses.POST("", h.Buses.Create)
		buses.GET("", h.Buses.List)
		buses.GET("/eliminados", h.Buses.ListDeleted)
		buses.GET("/patente/:patente", h.Buses.GetByPlate)
		buses.GET("/reportes/estadisticas", h.Buses.Statistics)
		buses.GET("/reportes/mantenimiento-pendiente", h.Buses.MaintenanceDue)
		buses.GET("/reportes/exportar", h.Buses.Export)
		buses.GET("/:id", h.Buses.Get)
		buses.PUT("/:id", h.Buses.Update)
		buses.PATCH("/:id/kilometraje", h.Buses.UpdateMileage)
		buses.PATCH("/:id/estado", h.Buses.ChangeState)
		buses.DELETE("/:id", h.Buses.Delete)
		buses.POST("/:id/restaurar", h.Buses.Restore)
		buses.DELETE("/:id/permanente", h.Buses.HardDelete)
	}

	api.GET("/estados", h.Reference.ListStates)
	api.GET("/tipos-combustible", h.Reference.ListFuelTypes)
}
