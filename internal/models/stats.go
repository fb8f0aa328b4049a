package models

// FleetStatistics aggregates the active fleet. ActiveByState always carries
// every known state, zero counts included.
type FleetStatistics struct {
	Total          int            `json:"total_buses"`
	ActiveByState  map[string]int `json:"buses_por_estado"`
	TotalCapacity  int            `json:"capacidad_total"`
	AverageMileage float64        `json:"kilometraje_promedio"`
}

// StateCount is one row of the per-state aggregate.
type StateCount struct {
	StateName string `db:"nombre"`
	Count     int    `db:"total"`
}
