package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	severityColors = map[models.SeverityLevel]lipgloss.Color{
		models.SeverityLow:          lipgloss.Color("42"),
		models.SeverityModerate:     lipgloss.Color("226"),
		models.SeverityHigh:         lipgloss.Color("214"),
		models.SeverityCatastrophic: lipgloss.Color("196"),
	}
)

func render(w io.Writer, format string, v any, tableFn func() string) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, tableFn())
		return err
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func assessmentTable(sites []models.TargetSite, results []models.ImpactAssessment) string {
	t := newTable("Site", "Energy (Mt)", "Crater km", "Fireball km", "Severe km", "Moderate km", "Severity", "Casualties", "Buildings", "Tsunami")
	for i, r := range results {
		t.Row(
			sites[i].Name,
			strconv.FormatFloat(r.EnergyMt, 'f', 1, 64),
			strconv.FormatFloat(r.CraterKm, 'f', 1, 64),
			strconv.FormatFloat(r.FireballKm, 'f', 1, 64),
			strconv.FormatFloat(r.SevereKm, 'f', 1, 64),
			strconv.FormatFloat(r.ModerateKm, 'f', 1, 64),
			lipgloss.NewStyle().Foreground(severityColors[r.SeverityLevel]).Render(string(r.SeverityLevel)),
			strconv.FormatInt(r.Casualties, 10),
			fmt.Sprintf("%d%%", r.BuildingsDestroyedPct),
			string(r.TsunamiRisk),
		)
	}
	return t.String()
}

func feasibilityTable(results []models.FeasibilityResult) string {
	t := newTable("Strategy", "Success", "Risk", "Cost (USD)", "Years", "Affordable", "In time", "Feasible")
	for _, r := range results {
		s := r.Strategy
		t.Row(
			s.Name,
			fmt.Sprintf("%.0f%%", s.SuccessRatePct),
			string(s.RiskLevel),
			fmt.Sprintf("%s-%s", usd(s.CostRangeUSD.Min), usd(s.CostRangeUSD.Max)),
			fmt.Sprintf("%g-%g", s.TimeRangeYears.Min, s.TimeRangeYears.Max),
			yesNo(r.Affordable),
			yesNo(r.TimeFeasible),
			yesNo(r.Feasible),
		)
	}
	return t.String()
}

func comparisonTable(c models.MitigationComparison) string {
	t := newTable("Strategy", "Before", "After", "Risk reduction", "Complexity")
	t.Row(
		string(c.StrategyID),
		strconv.FormatInt(c.CasualtiesBefore, 10),
		strconv.FormatInt(c.CasualtiesAfter, 10),
		fmt.Sprintf("%.0f%%", c.RiskReductionPct),
		string(c.MissionComplexity),
	)
	return t.String()
}

func projectionTable(p models.OutcomeProjection) string {
	t := newTable("Lead time (h)", "Casualties", "Economic loss", "Infrastructure")
	t.Row(
		strconv.FormatFloat(p.LeadTimeHours, 'g', -1, 64),
		strconv.FormatInt(p.Casualties, 10),
		fmt.Sprintf("$%dB", p.EconomicLossBillionUSD),
		fmt.Sprintf("%d%%", p.InfrastructureDamagePct),
	)
	return t.String()
}

// usd abbreviates a dollar amount: 500M, 1.5B.
func usd(v float64) string {
	switch {
	case v >= 1e9:
		return "$" + strconv.FormatFloat(v/1e9, 'g', -1, 64) + "B"
	case v >= 1e6:
		return "$" + strconv.FormatFloat(v/1e6, 'g', -1, 64) + "M"
	default:
		return "$" + strconv.FormatFloat(v, 'f', 0, 64)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
