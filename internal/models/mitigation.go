package models

type StrategyID string

const (
	StrategyKinetic    StrategyID = "kinetic"
	StrategyNuclear    StrategyID = "nuclear"
	StrategyGravity    StrategyID = "gravity"
	StrategyEvacuation StrategyID = "evacuation"
)

type RiskLevel string

const (
	RiskVeryLow RiskLevel = "Very Low"
	RiskLow     RiskLevel = "Low"
	RiskMedium  RiskLevel = "Medium"
	RiskHigh    RiskLevel = "High"
)

// USDRange is a cost range in whole US dollars.
type USDRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// YearRange is a mission duration range in years.
type YearRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

type MitigationStrategy struct {
	ID             StrategyID `json:"id" yaml:"id"`
	Name           string     `json:"name" yaml:"name"`
	Description    string     `json:"description" yaml:"description"`
	CostRangeUSD   USDRange   `json:"cost_range_usd" yaml:"cost_range_usd"`
	TimeRangeYears YearRange  `json:"time_range_years" yaml:"time_range_years"`
	SuccessRatePct float64    `json:"success_rate_pct" yaml:"success_rate_pct"`
	RiskLevel      RiskLevel  `json:"risk_level" yaml:"risk_level"`
	Pros           []string   `json:"pros" yaml:"pros"`
	Cons           []string   `json:"cons" yaml:"cons"`
}

type MissionConstraints struct {
	BudgetM        float64 `json:"budget_m" yaml:"budget_m"`                 // millions USD
	LeadTimeMonths float64 `json:"lead_time_months" yaml:"lead_time_months"` // months until impact
}

type FeasibilityResult struct {
	Strategy     MitigationStrategy `json:"strategy" yaml:"strategy"`
	Feasible     bool               `json:"feasible" yaml:"feasible"`
	Affordable   bool               `json:"affordable" yaml:"affordable"`
	TimeFeasible bool               `json:"time_feasible" yaml:"time_feasible"`
}

// MitigationComparison is the before/after casualty view of one strategy.
type MitigationComparison struct {
	StrategyID        StrategyID `json:"strategy_id" yaml:"strategy_id"`
	CasualtiesBefore  int64      `json:"casualties_before" yaml:"casualties_before"`
	CasualtiesAfter   int64      `json:"casualties_after" yaml:"casualties_after"`
	RiskReductionPct  float64    `json:"risk_reduction_pct" yaml:"risk_reduction_pct"`
	MissionComplexity RiskLevel  `json:"mission_complexity" yaml:"mission_complexity"`
}
