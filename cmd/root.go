package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/paddock-sim/paddock-sim/sim"
	"github.com/paddock-sim/paddock-sim/sim/trace"
)

var (
	// CLI flags
	seed             int64  // Master seed for all RNG subsystems
	horizon          int64  // Total simulation time (in ticks)
	logLevel         string // Log verbosity level
	worldPath        string // World config YAML path (empty = built-in default world)
	adapterPath      string // Learned-scorer weights YAML path (empty = rule-based only)
	blendWeight      float64
	decisionInterval int64
	tracePath        string // SQLite decision/race trace output path
	liveMode         bool   // Answer pre-race prompts with live instead of instant
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "paddock-sim",
	Short: "Tick-driven racing-management simulator",
}

// runCmd executes a season using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a season simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := sim.LoadWorldConfig(worldPath)
		if err != nil {
			logrus.Fatalf("unable to load world config: %v", err)
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}
		if cmd.Flags().Changed("horizon") {
			cfg.Horizon = horizon
		}
		if cmd.Flags().Changed("blend-weight") {
			cfg.BlendWeight = blendWeight
		}
		if cmd.Flags().Changed("decision-interval") {
			cfg.DecisionInterval = decisionInterval
		}

		var learned sim.LearnedScorer
		if adapterPath != "" {
			scorer, err := sim.LoadLinearScorer(adapterPath)
			if err != nil {
				// A missing or broken adapter never stops a run.
				logrus.Warnf("learned scorer unavailable, using rule scores only: %v", err)
			} else {
				learned = scorer
			}
		}

		collector := &sim.CollectEmitter{}
		s, err := sim.NewSimulator(cfg, learned, sim.MultiEmitter(sim.LogEmitter{}, collector))
		if err != nil {
			logrus.Fatalf("unable to build simulator: %v", err)
		}
		if liveMode {
			s.Responder = func(sim.RaceEvent) (bool, bool) { return true, true }
		}

		logrus.Infof("Starting season: %d organizations, %d races, horizon=%d ticks, seed=%d",
			len(s.Orgs), len(s.Schedule.Races()), cfg.Horizon, cfg.Seed)
		startTime := time.Now()

		if err := s.Run(); err != nil {
			logrus.Fatalf("simulation failed: %v", err)
		}

		printSeasonReport(s, collector, startTime)

		if tracePath != "" {
			store, err := trace.OpenStore(tracePath)
			if err != nil {
				logrus.Fatalf("unable to open trace store: %v", err)
			}
			defer store.Close()
			if err := store.SaveAll(s.Trace); err != nil {
				logrus.Fatalf("unable to persist trace: %v", err)
			}
			logrus.Infof("trace written to %s", tracePath)
		}

		logrus.Info("Simulation complete.")
	},
}

func printSeasonReport(s *sim.Simulator, collector *sim.CollectEmitter, startTime time.Time) {
	summary := s.Trace.Summarize()
	fmt.Printf("\nSeason report (wall time %s)\n", time.Since(startTime).Round(time.Millisecond))
	fmt.Printf("  decisions: %d (%d adapter fallbacks), races: %d\n",
		summary.DecisionCount, summary.FallbackCycles, summary.RaceCount)
	for _, ev := range collector.Events {
		if ev.Kind == sim.OutcomeFold {
			fmt.Printf("  tick %d: %s\n", ev.Tick, ev.Summary)
		}
	}
	for _, lg := range s.Config.Leagues {
		fmt.Printf("  %s standings:\n", lg.ID)
		for i, orgID := range s.Standings[lg.ID].Table() {
			for _, org := range s.Orgs {
				if org.ID != orgID {
					continue
				}
				status := ""
				if org.Folded {
					status = " (folded)"
				}
				fmt.Printf("    %2d. %-24s %3d pts, cash %d%s\n",
					i+1, org.Name, s.Standings[lg.ID].Points(orgID), org.Ledger.Cash, status)
			}
		}
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for deterministic runs")
	runCmd.Flags().Int64Var(&horizon, "horizon", 400, "Total simulation horizon (in ticks)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&worldPath, "world", "", "World config YAML (empty = built-in default world)")
	runCmd.Flags().StringVar(&adapterPath, "adapter-weights", "", "Learned scorer weights YAML (empty = rule scores only)")
	runCmd.Flags().Float64Var(&blendWeight, "blend-weight", 0.0, "Learned/rule score mixing coefficient in [0,1]")
	runCmd.Flags().Int64Var(&decisionInterval, "decision-interval", 14, "Ticks between decision cycles")
	runCmd.Flags().StringVar(&tracePath, "trace-db", "", "SQLite file for decision/race trace output")
	runCmd.Flags().BoolVar(&liveMode, "live", false, "Answer race prompts with live lap-by-lap mode")

	rootCmd.AddCommand(runCmd)
}
