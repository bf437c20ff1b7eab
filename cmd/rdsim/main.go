package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/experiment"
	"github.com/san-kum/rdsim/internal/reaction"
	"github.com/san-kum/rdsim/internal/seed"
	"github.com/san-kum/rdsim/internal/storage"
	"github.com/san-kum/rdsim/internal/tui"
	"github.com/san-kum/rdsim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logJSON  bool

	configFile  string
	profile     string
	preset      string
	imagePath   string
	mode        string
	cols        int
	rows        int
	steps       int
	sampleEvery int
	boundary    string
	rngSeed     int64
	workers     int
	perturb     bool
	themeName   string
	watch       bool
	noFields    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rdsim",
		Short:         "gray-scott reaction-diffusion lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(logLevel, logJSON)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rdsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "steps between samples")
	runCmd.Flags().StringVar(&themeName, "theme", "begin", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	runCmd.Flags().BoolVar(&watch, "watch", false, "show live progress")
	runCmd.Flags().BoolVar(&noFields, "no-fields", false, "do not save the final fields")

	rootCmd.AddCommand(runCmd)
	addCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, viz.StatusError.Render("error:"), err)
		os.Exit(1)
	}
}

// addSimFlags registers the flags that override the loaded config.
func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&profile, "profile", "", "start from a named config profile ("+strings.Join(config.ListProfiles(), ", ")+")")
	cmd.Flags().StringVar(&preset, "preset", "", "parameter preset ("+strings.Join(reaction.PresetNames(), ", ")+")")
	cmd.Flags().StringVar(&imagePath, "image", "", "seed image (png, jpeg, gif)")
	cmd.Flags().StringVar(&mode, "mode", "alpha", "seed mask mode (alpha, brightness)")
	cmd.Flags().IntVar(&cols, "cols", config.DefaultCols, "grid columns")
	cmd.Flags().IntVar(&rows, "rows", config.DefaultRows, "grid rows")
	cmd.Flags().StringVar(&boundary, "boundary", "clamped", "boundary mode (clamped, toroidal)")
	cmd.Flags().Int64Var(&rngSeed, "seed", 0, "random seed (0 uses the clock)")
	cmd.Flags().IntVar(&workers, "workers", 0, "goroutines per step (0 = sequential)")
	cmd.Flags().BoolVar(&perturb, "perturb", true, "random perturbation each step")
}

func setupLogger(level string, asJSON bool) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if asJSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

// loadConfig resolves profile, then config file, then changed flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if profile != "" {
		cfg = config.GetProfile(profile)
		if cfg == nil {
			return nil, fmt.Errorf("unknown profile: %s (available: %v)", profile, config.ListProfiles())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		cfg.Preset = preset
	}
	if flags.Changed("image") {
		cfg.Seed.Image = imagePath
	}
	if flags.Changed("mode") {
		cfg.Seed.Mode = seed.Mode(mode)
	}
	if flags.Changed("cols") {
		cfg.Grid.Cols = cols
	}
	if flags.Changed("rows") {
		cfg.Grid.Rows = rows
	}
	if flags.Changed("boundary") {
		cfg.Boundary = boundary
	}
	if flags.Changed("seed") {
		cfg.RNGSeed = rngSeed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("perturb") {
		cfg.Perturb.Enabled = perturb
	}
	if cfg.RNGSeed == 0 {
		cfg.RNGSeed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("steps") {
		cfg.Run.Steps = steps
	}
	if cmd.Flags().Changed("sample-every") {
		cfg.Run.SampleEvery = sampleEvery
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	theme := viz.GetTheme(themeName)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sim, err := experiment.Build(cfg, slog.Default())
	if err != nil {
		return err
	}

	exp := experiment.New(sim, experiment.Config{Steps: cfg.Run.Steps, SampleEvery: cfg.Run.SampleEvery})
	for _, m := range experiment.NewRegistry().DefaultMetrics() {
		exp.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var result *experiment.Result
	if watch {
		result, err = tui.Watch(ctx, exp, cfg.Run.Steps, theme)
	} else {
		fmt.Printf("running %s on %dx%d for %d steps...\n", presetLabel(sim.Preset()), cfg.Grid.Cols, cfg.Grid.Rows, cfg.Run.Steps)
		result, err = exp.Run(ctx)
	}
	if err != nil {
		if result == nil || !errors.Is(err, context.Canceled) {
			return err
		}
		slog.Warn("run interrupted, saving partial result", "steps", result.Steps)
	}

	run := &storage.Run{
		Meta:    runMetadata(cfg, sim, result),
		History: result.History,
	}
	if !noFields {
		run.A, run.B = result.A, result.B
	}
	runID, err := st.Save(run)
	if err != nil {
		return err
	}
	run.Meta.ID = runID

	fmt.Println(viz.Panel.Render(viz.Heatmap(result.B, 64, 16, theme)))
	fmt.Println(tui.RunSummary(run.Meta))
	fmt.Printf("completed in %v\n", result.Elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runMetadata(cfg *config.Config, sim *reaction.Simulator, result *experiment.Result) storage.RunMetadata {
	rc := sim.Config()
	p := sim.Params()
	c, r := sim.Size()
	return storage.RunMetadata{
		Preset:      result.Preset,
		Seed:        rc.Seed,
		Cols:        c,
		Rows:        r,
		Da:          p.Da,
		Db:          p.Db,
		Feed:        p.Feed,
		Kill:        p.Kill,
		Dt:          rc.Dt,
		Boundary:    sim.Boundary().String(),
		Steps:       result.Steps,
		SampleEvery: cfg.Run.SampleEvery,
		Image:       cfg.Seed.Image,
		Fallback:    result.Fallback,
		Metrics:     result.Metrics,
	}
}

func presetLabel(name string) string {
	if name == "" {
		return "custom"
	}
	return name
}
