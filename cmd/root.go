package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gsp-sim/gsp/sim"
	"github.com/gsp-sim/gsp/sim/network"
	"github.com/gsp-sim/gsp/sim/trace"
)

var (
	// CLI flags for the run command
	seed         int64  // Seed for the reaction RNG stream
	steps        int    // Maximum number of reaction events
	every        int    // Emit one trajectory row per this many events
	replicate    int    // Replicate stream index (0 = primary reaction stream)
	logLevel     string // Log verbosity level
	networkPath  string // YAML network file
	scenarioName string // Built-in network name
	outputPath   string // Trajectory output file ("" = stdout)
	showSummary  bool   // Print summary statistics to stderr
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "gsp",
	Short: "Exact stochastic simulation of chemical reaction networks",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a reaction network and write its trajectory as TSV",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		spec, err := loadNetwork(networkPath, scenarioName)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if steps < 0 {
			logrus.Fatalf("--steps must be non-negative, got %d", steps)
		}
		if replicate < 0 {
			logrus.Fatalf("--replicate must be non-negative, got %d", replicate)
		}

		out := io.Writer(os.Stdout)
		if outputPath != "" {
			f, err := os.Create(outputPath)
			if err != nil {
				logrus.Fatalf("creating output file: %v", err)
			}
			defer func() { _ = f.Close() }()
			out = f
		}

		logrus.Infof("Starting simulation of %q: %d species, %d reactions, seed=%d, replicate=%d, steps=%s",
			spec.Name, len(spec.Species), len(spec.Reactions), seed, replicate, humanize.Comma(int64(steps)))
		startTime := time.Now()

		traj, res, err := runTrajectory(spec, streamFor(seed, replicate), steps, every, out)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if res.Stalled {
			logrus.Warnf("network stalled after %s steps at t=%g: no reaction can fire", humanize.Comma(int64(res.Steps)), res.FinalTime)
		}
		if showSummary {
			printSummary(os.Stderr, spec, traj)
		}

		logrus.Infof("Simulation complete: %s steps in %v", humanize.Comma(int64(res.Steps)), time.Since(startTime))
	},
}

// validateCmd checks a network file without simulating it
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a network file and list its species and reactions",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		spec, err := loadNetwork(networkPath, scenarioName)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		s, err := spec.Build()
		if err != nil {
			logrus.Fatalf("invalid network: %v", err)
		}
		describeNetwork(os.Stdout, spec, s)
	},
}

// scenariosCmd lists the built-in networks
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List built-in networks",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range network.ScenarioNames() {
			fmt.Println(name)
		}
	},
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadNetwork resolves --network / --scenario. With neither set the "abc"
// scenario is used.
func loadNetwork(path, scenario string) (*network.NetworkSpec, error) {
	if path != "" && scenario != "" {
		return nil, fmt.Errorf("--network and --scenario are mutually exclusive")
	}
	if path == "" {
		if scenario == "" {
			scenario = "abc"
		}
		return network.Scenario(scenario)
	}
	spec, err := network.LoadNetworkSpec(path)
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		spec.Name = path
	}
	return spec, nil
}

// streamFor returns the draw stream for one trajectory. Replicate 0 draws from
// the seed directly; higher replicates get isolated derived streams.
func streamFor(seed int64, replicate int) sim.RandomSource {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
	if replicate <= 0 {
		return rng.Source(sim.SubsystemReactions)
	}
	return rng.Source(sim.SubsystemReplicate(replicate))
}

// runTrajectory builds spec, simulates up to maxSteps events and streams TSV
// rows to out as they are retained.
func runTrajectory(spec *network.NetworkSpec, src sim.RandomSource, maxSteps, every int, out io.Writer) (*trace.Trajectory, sim.RunResult, error) {
	s, err := spec.Build()
	if err != nil {
		return nil, sim.RunResult{}, fmt.Errorf("invalid network: %w", err)
	}

	initial := s.State()
	traj := trace.NewTrajectory(trace.TraceConfig{Every: every}, spec.SpeciesNames(), initial.Time(), initial.Species())

	w := bufio.NewWriter(out)
	writeHeader(w, traj.SpeciesNames)
	writeRow(w, traj.Records[0])

	res := s.Run(src, maxSteps, func(step sim.StepResult, st *sim.State) {
		rec := trace.StepRecord{
			Step:        s.StepCount(),
			Time:        st.Time(),
			WaitingTime: step.WaitingTime,
			Reaction:    step.Reaction,
			Species:     st.Species(),
		}
		if traj.Record(rec) {
			writeRow(w, rec)
		}
	})
	if err := w.Flush(); err != nil {
		return nil, res, fmt.Errorf("writing trajectory: %w", err)
	}
	return traj, res, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, validateCmd} {
		c.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().StringVar(&networkPath, "network", "", "YAML network file")
		c.Flags().StringVar(&scenarioName, "scenario", "", "Built-in network name (list with: gsp scenarios); default abc")
	}

	runCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for the reaction RNG stream")
	runCmd.Flags().IntVar(&steps, "steps", 100, "Maximum number of reaction events")
	runCmd.Flags().IntVar(&replicate, "replicate", 0, "Replicate index; each index draws an independent stream from the same seed")
	runCmd.Flags().IntVar(&every, "every", 1, "Write one trajectory row per this many events")
	runCmd.Flags().StringVar(&outputPath, "output", "", "Trajectory output file (default stdout)")
	runCmd.Flags().BoolVar(&showSummary, "summary", false, "Print summary statistics to stderr")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(scenariosCmd)
}
