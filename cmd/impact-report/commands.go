package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mr1hm/go-impact-risk/internal/config"
	"github.com/mr1hm/go-impact-risk/internal/impact"
	"github.com/mr1hm/go-impact-risk/internal/logging"
	"github.com/mr1hm/go-impact-risk/internal/mitigation"
	"github.com/mr1hm/go-impact-risk/internal/models"
	"github.com/mr1hm/go-impact-risk/internal/sweep"
	"github.com/mr1hm/go-impact-risk/internal/timeline"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	output   string
	logLevel string

	cfg  *config.Config
	calc *impact.Calculator
}

type asteroidFlags struct {
	diameter float64
	velocity float64
	angle    float64
	density  float64
}

func (f *asteroidFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.diameter, "diameter", 500, "asteroid diameter in meters")
	cmd.Flags().Float64Var(&f.velocity, "velocity", 20, "impact velocity in km/s")
	cmd.Flags().Float64Var(&f.angle, "angle", 45, "entry angle in degrees from horizontal")
	cmd.Flags().Float64Var(&f.density, "density", 300, "bulk density in kg/m3")
}

func (f *asteroidFlags) params() models.AsteroidParameters {
	return models.AsteroidParameters{
		DiameterM:   f.diameter,
		VelocityKmS: f.velocity,
		AngleDeg:    f.angle,
		DensityKgM3: f.density,
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "impact-report",
		Short:        "Asteroid impact risk reports from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch a.output {
			case outputTable, outputJSON, outputYAML:
			default:
				return fmt.Errorf("unknown output format %q (want table, json or yaml)", a.output)
			}

			slog.SetDefault(logging.New(cmd.ErrOrStderr(), a.logLevel, "text"))

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}
			a.cfg = cfg
			a.calc = impact.NewCalculator(cfg.Impact.CoastalSites...)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.output, "output", "o", outputTable, "output format: table, json or yaml")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		a.assessCmd(),
		a.sweepCmd(),
		a.strategiesCmd(),
		a.compareCmd(),
		a.projectCmd(),
	)
	return root
}

func (a *app) assessCmd() *cobra.Command {
	var flags asteroidFlags
	var siteID string

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess one impact scenario against a target site",
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := impact.SiteByID(siteID)
			if err != nil {
				return fmt.Errorf("%w (known sites: %s)", err, strings.Join(siteIDs(), ", "))
			}
			result, err := a.calc.Assess(flags.params(), site)
			if err != nil {
				return err
			}
			slog.Debug("assessment complete", "site", site.ID, "severity", result.SeverityLevel)
			return render(cmd.OutOrStdout(), a.output, result, func() string {
				return assessmentTable([]models.TargetSite{site}, []models.ImpactAssessment{result})
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&siteID, "site", "new-york", "target site id")
	return cmd
}

func (a *app) sweepCmd() *cobra.Command {
	var flags asteroidFlags

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Assess one impact scenario against every target site",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sweeper := sweep.NewSweeper(a.calc, a.cfg.Worker.Count, a.cfg.Worker.BufferSize)
			sweeper.Start(ctx)
			defer sweeper.Stop()

			sites := impact.Sites()
			results, err := sweeper.Sweep(ctx, flags.params(), sites)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, results, func() string {
				return assessmentTable(sites, results)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) strategiesCmd() *cobra.Command {
	var budgetM, leadTimeMonths float64

	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List mitigation strategies, ranked, with feasibility against a budget and lead time",
		RunE: func(cmd *cobra.Command, args []string) error {
			ranked := mitigation.Rank(mitigation.DefaultCatalog().Strategies())
			results, err := mitigation.Evaluate(ranked, models.MissionConstraints{
				BudgetM:        budgetM,
				LeadTimeMonths: leadTimeMonths,
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, results, func() string {
				return feasibilityTable(results)
			})
		},
	}
	cmd.Flags().Float64Var(&budgetM, "budget", 1000, "mission budget in millions of USD")
	cmd.Flags().Float64Var(&leadTimeMonths, "lead-time", 60, "months until impact")
	return cmd
}

func (a *app) compareCmd() *cobra.Command {
	var baseline int64

	cmd := &cobra.Command{
		Use:   "compare <strategy>",
		Short: "Show casualties before and after a mitigation strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmp, err := mitigation.DefaultCatalog().Compare(models.StrategyID(args[0]), baseline)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, cmp, func() string {
				return comparisonTable(cmp)
			})
		},
	}
	cmd.Flags().Int64Var(&baseline, "baseline", 0, "casualties without mitigation (0 uses the default baseline)")
	return cmd
}

func (a *app) projectCmd() *cobra.Command {
	var leadTimeHours float64

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project outcomes for a warning lead time",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := timeline.Project(leadTimeHours)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, p, func() string {
				return projectionTable(p)
			})
		},
	}
	cmd.Flags().Float64Var(&leadTimeHours, "lead-time", 8, "warning lead time in hours")
	return cmd
}

func siteIDs() []string {
	sites := impact.Sites()
	ids := make([]string, 0, len(sites))
	for _, s := range sites {
		ids = append(ids, s.ID)
	}
	return ids
}
