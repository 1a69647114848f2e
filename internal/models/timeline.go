package models

type CountdownPhase string

const (
	CountdownActive  CountdownPhase = "active"
	CountdownExpired CountdownPhase = "expired"
)

type RoutePhase string

const (
	RouteIdle     RoutePhase = "idle"
	RouteRunning  RoutePhase = "running"
	RouteComplete RoutePhase = "complete"
)

// TimelineState is a snapshot of a timeline simulator. Only the simulator
// mutates the live copy; everything else receives values.
type TimelineState struct {
	CountdownSeconds     int64          `json:"countdown_seconds" yaml:"countdown_seconds"`
	CountdownPhase       CountdownPhase `json:"countdown_phase" yaml:"countdown_phase"`
	CountdownDisplay     string         `json:"countdown_display" yaml:"countdown_display"`
	ImpactWindowPct      float64        `json:"impact_window_pct" yaml:"impact_window_pct"`
	WarningLeadTimeHours float64        `json:"warning_lead_time_hours" yaml:"warning_lead_time_hours"`
	EvacuationStartHours float64        `json:"evacuation_start_hours" yaml:"evacuation_start_hours"`
	RouteProgressPct     int            `json:"route_progress_pct" yaml:"route_progress_pct"`
	RoutePhase           RoutePhase     `json:"route_phase" yaml:"route_phase"`
	Cancelled            bool           `json:"cancelled" yaml:"cancelled"`
}

// OutcomeProjection is the projected toll for a given warning lead time.
type OutcomeProjection struct {
	LeadTimeHours           float64 `json:"lead_time_hours" yaml:"lead_time_hours"`
	Casualties              int64   `json:"casualties" yaml:"casualties"`
	EconomicLossBillionUSD  int64   `json:"economic_loss_billion_usd" yaml:"economic_loss_billion_usd"`
	InfrastructureDamagePct int64   `json:"infrastructure_damage_pct" yaml:"infrastructure_damage_pct"`
}
