package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/rdsim/internal/analysis"
	"github.com/san-kum/rdsim/internal/automation"
	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/experiment"
	"github.com/san-kum/rdsim/internal/export"
	"github.com/san-kum/rdsim/internal/life"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/optim"
	"github.com/san-kum/rdsim/internal/reaction"
	"github.com/san-kum/rdsim/internal/seed"
	"github.com/san-kum/rdsim/internal/storage"
	"github.com/san-kum/rdsim/internal/tui"
	"github.com/san-kum/rdsim/internal/viz"
)

var (
	series      []string
	xSeries     string
	ySeries     string
	showField   bool
	withField   bool
	outPath     string
	svgKind     string
	svgCell     int
	feedRange   []float64
	killRange   []float64
	sweepSteps  int
	sweepCount  int
	eps         float64
	runs        int
	gens        int
	density     float64
	lifeSize    []int
	initForce   bool
	tuneMetric  string
	tuneTarget  float64
	tuneCount   int
	lifeTheme   string
	initProfile string
)

func addCommands(root *cobra.Command) {
	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list parameter presets and config profiles",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(tui.PresetTable(reaction.Presets(), ""))
			fmt.Println()
			fmt.Println("profiles:")
			for _, p := range config.ListProfiles() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot sampled metrics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&series, "series", metrics.SeriesNames(), "series to plot")
	plotCmd.Flags().BoolVar(&showField, "field", false, "also draw the final B field")
	plotCmd.Flags().StringVar(&themeName, "theme", "begin", "colour theme")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum, wavelength and phase portrait of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&xSeries, "x", "mean_a", "phase portrait x series")
	analyzeCmd.Flags().StringVar(&ySeries, "y", "mean_b", "phase portrait y series and spectrum input")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export sampled history to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and history to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportJSONCmd.Flags().BoolVar(&withField, "field", false, "include the final B field")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the final field or the phase portrait as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&svgKind, "kind", "field", "field or phase")
	exportSVGCmd.Flags().IntVar(&svgCell, "cell", 4, "pixels per cell")
	exportSVGCmd.Flags().StringVar(&themeName, "theme", "begin", "colour theme")
	exportSVGCmd.Flags().StringVar(&xSeries, "x", "mean_a", "phase portrait x series")
	exportSVGCmd.Flags().StringVar(&ySeries, "y", "mean_b", "phase portrait y series")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a feed/kill parameter sweep",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&feedRange, "feed", []float64{0.01, 0.06}, "feed min,max")
	sweepCmd.Flags().Float64SliceVar(&killRange, "kill", []float64{0.045, 0.07}, "kill min,max")
	sweepCmd.Flags().IntVar(&sweepCount, "count", 5, "values per axis")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 500, "steps per point")
	sweepCmd.Flags().StringVarP(&outPath, "out", "o", "", "output CSV (default stdout)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addSimFlags(scenarioCmd)

	divergenceCmd := &cobra.Command{
		Use:   "divergence",
		Short: "measure sensitivity to a small B perturbation",
		Args:  cobra.NoArgs,
		RunE:  runDivergence,
	}
	addSimFlags(divergenceCmd)
	divergenceCmd.Flags().Float64Var(&eps, "eps", 1e-6, "initial B offset at the centre")
	divergenceCmd.Flags().IntVar(&sweepSteps, "steps", 500, "steps")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "repeat a configuration over consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 8, "number of runs")
	ensembleCmd.Flags().IntVar(&sweepSteps, "steps", 500, "steps per run")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search feed/kill for a target metric value",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&feedRange, "feed", []float64{0.01, 0.06}, "feed min,max")
	tuneCmd.Flags().Float64SliceVar(&killRange, "kill", []float64{0.045, 0.07}, "kill min,max")
	tuneCmd.Flags().IntVar(&tuneCount, "count", 4, "values per axis")
	tuneCmd.Flags().IntVar(&sweepSteps, "steps", 500, "steps per evaluation")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "coverage", "metric to match")
	tuneCmd.Flags().Float64Var(&tuneTarget, "target", 0.25, "target metric value")

	lifeCmd := &cobra.Command{
		Use:   "life",
		Short: "run the cellular automaton seeded from an image",
		Args:  cobra.NoArgs,
		RunE:  runLife,
	}
	lifeCmd.Flags().StringVar(&imagePath, "image", "", "seed image; random soup when empty")
	lifeCmd.Flags().IntSliceVar(&lifeSize, "size", []int{80, 40}, "cols,rows")
	lifeCmd.Flags().IntVar(&gens, "gens", 100, "generations")
	lifeCmd.Flags().Float64Var(&density, "density", 0.3, "random soup density")
	lifeCmd.Flags().Int64Var(&rngSeed, "seed", 0, "random seed (0 uses the clock)")
	lifeCmd.Flags().StringVarP(&outPath, "out", "o", "", "also write the final board as SVG")
	lifeCmd.Flags().StringVar(&lifeTheme, "theme", "retro", "colour theme")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file from a profile",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().StringVar(&initProfile, "profile", "default", "profile to write")
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	root.AddCommand(presetsCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		sweepCmd, scenarioCmd, divergenceCmd, ensembleCmd, tuneCmd, lifeCmd, configCmd)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tGRID\tFEED\tKILL\tSTEPS\tSEEDING")

	for _, run := range runs {
		seeding := "image"
		if run.Fallback {
			seeding = "uniform"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%.4f\t%.4f\t%d\t%s\n",
			run.ID,
			presetLabel(run.Preset),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Cols, run.Rows,
			run.Feed,
			run.Kill,
			run.Steps,
			seeding,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(history) < 2 {
		return fmt.Errorf("not enough samples to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", presetLabel(meta.Preset))
	fmt.Printf("samples: %d\n\n", len(history))

	for _, name := range series {
		data, err := history.Series(name)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs step"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if showField {
		_, b, err := st.LoadFields(runID)
		if err != nil {
			return fmt.Errorf("run has no saved fields: %w", err)
		}
		fmt.Println(viz.Panel.Render(viz.Heatmap(b, 80, 20, viz.GetTheme(themeName))))
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	data, err := history.Series(ySeries)
	if err != nil {
		return err
	}
	if len(data) < 4 {
		return fmt.Errorf("not enough samples for analysis: %d", len(data))
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("preset: %s\n\n", presetLabel(meta.Preset))

	ps := analysis.PowerSpectrum(data)
	if len(ps) > 1 {
		// skip the DC bin, it is zero after mean removal
		fmt.Println(asciigraph.Plot(ps[1:],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+ySeries+")"),
		))
		fmt.Println()
	}

	if period := analysis.DominantPeriod(data, meta.SampleEvery); period > 0 {
		fmt.Printf("dominant period: %.1f steps\n", period)
	} else {
		fmt.Println("dominant period: none")
	}

	if _, b, err := st.LoadFields(runID); err == nil {
		if wl := analysis.DominantWavelength(b); wl > 0 {
			fmt.Printf("pattern wavelength: %.1f cells\n", wl)
		}
	} else {
		slog.Debug("no fields saved for run", "run", runID, "err", err)
	}

	portrait, err := analysis.PhasePortrait(history, xSeries, ySeries)
	if err != nil {
		return err
	}
	fmt.Printf("\nphase portrait: %s vs %s\n", ySeries, xSeries)
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 60, 20))
	return nil
}

func openOut() (*os.File, func(), error) {
	if outPath == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	history, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("no data to export")
	}

	if outPath != "" {
		return storage.ExportHistoryCSV(outPath, history)
	}
	return storage.WriteHistoryCSV(os.Stdout, history)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	run, err := st.LoadRun(args[0])
	if err != nil {
		return err
	}

	if outPath != "" {
		return storage.ExportJSON(outPath, run, withField)
	}
	return storage.WriteJSON(os.Stdout, run, withField)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	theme := viz.GetTheme(themeName)
	st := storage.New(dataDir)

	var svg string
	switch svgKind {
	case "field":
		_, b, err := st.LoadFields(runID)
		if err != nil {
			return fmt.Errorf("run has no saved fields: %w", err)
		}
		svg = export.FieldToSVG(b, svgCell, theme)
	case "phase":
		history, err := st.LoadHistory(runID)
		if err != nil {
			return err
		}
		portrait, err := analysis.PhasePortrait(history, xSeries, ySeries)
		if err != nil {
			return err
		}
		svg = export.PhaseToSVG(portrait, 640, 480, theme)
	default:
		return fmt.Errorf("unknown svg kind: %s (field, phase)", svgKind)
	}

	if outPath != "" {
		return export.WriteFile(outPath, svg)
	}
	return export.Write(os.Stdout, svg)
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func seederFor(cfg *config.Config) reaction.Seeder {
	if cfg.Seed.Image == "" {
		return nil
	}
	return seed.NewFileSeeder(cfg.Seed.Image, cfg.SeedOptions())
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(feedRange) != 2 || len(killRange) != 2 {
		return fmt.Errorf("--feed and --kill take min,max")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	base, err := cfg.SimConfig()
	if err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	sweep := &automation.ParameterSweep{
		Base:    base,
		Seeder:  seederFor(cfg),
		Feed:    automation.Range{Min: feedRange[0], Max: feedRange[1], Count: sweepCount},
		Kill:    automation.Range{Min: killRange[0], Max: killRange[1], Count: sweepCount},
		Steps:   sweepSteps,
		Workers: cfg.Workers,
	}
	start := time.Now()
	results, err := automation.RunSweep(ctx, sweep, slog.Default())
	if err != nil {
		return err
	}
	slog.Info("sweep finished", "points", len(results), "elapsed", time.Since(start))

	f, closeOut, err := openOut()
	if err != nil {
		return err
	}
	defer closeOut()
	return gocsv.Marshal(results, f)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sim, err := experiment.Build(cfg, slog.Default())
	if err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Println(viz.Subtle.Render(sc.Description))
	}
	results, err := automation.RunScenario(ctx, sim, sc, slog.Default())
	for i, r := range results {
		last, _ := r.Result.History.Last()
		name := r.Phase.Name
		if name == "" {
			name = fmt.Sprintf("phase %d", i+1)
		}
		fmt.Printf("%-16s %-10s steps=%-6d mean_b=%.4f coverage=%.1f%%\n",
			name, presetLabel(r.Result.Preset), r.Result.Steps, last.MeanB, last.Coverage*100)
	}
	if err != nil {
		return err
	}

	_, b := sim.Fields()
	fmt.Println(viz.Panel.Render(viz.Heatmap(b, 64, 16, viz.ThemeBegin)))
	return nil
}

func runDivergence(cmd *cobra.Command, args []string) error {
	if sweepSteps < 1 {
		return fmt.Errorf("--steps must be at least 1")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rc, err := cfg.SimConfig()
	if err != nil {
		return err
	}

	res, err := analysis.Divergence(rc, seederFor(cfg), eps, sweepSteps)
	if err != nil {
		return err
	}

	fmt.Println(asciigraph.Plot(res.Separation,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("B separation vs step"),
	))
	fmt.Printf("\nfinal separation: %.3e\n", res.Separation[len(res.Separation)-1])
	fmt.Printf("growth exponent: %.5f per step\n", res.Exponent)
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rc, err := cfg.SimConfig()
	if err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	res, err := automation.RunEnsemble(ctx, rc, seederFor(cfg), runs, sweepSteps, cfg.RNGSeed)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tMEAN_B\tSTD_B\tCOVERAGE")
	for i, s := range res.Finals {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.2f%%\n", cfg.RNGSeed+int64(i), s.MeanB, s.StdB, s.Coverage*100)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncoverage: %.2f%% ± %.2f%%\n", res.MeanCoverage*100, res.StdCoverage*100)
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	if len(feedRange) != 2 || len(killRange) != 2 {
		return fmt.Errorf("--feed and --kill take min,max")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	base, err := cfg.SimConfig()
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(tuneMetric); err != nil {
		return err
	}

	feeds := automation.Range{Min: feedRange[0], Max: feedRange[1], Count: tuneCount}.Values()
	kills := automation.Range{Min: killRange[0], Max: killRange[1], Count: tuneCount}.Values()
	search, err := optim.NewGridSearch([]string{"feed", "kill"}, [][]float64{feeds, kills})
	if err != nil {
		return err
	}

	seeder := seederFor(cfg)
	build := func(values map[string]float64) (*experiment.Experiment, error) {
		rc := base
		params, err := optim.ApplyParams(rc.Params, values)
		if err != nil {
			return nil, err
		}
		rc.Params = params
		sim, err := reaction.New(rc, seeder)
		if err != nil {
			return nil, err
		}
		exp := experiment.New(sim, experiment.Config{Steps: sweepSteps, SampleEvery: max(1, sweepSteps/10)})
		m, _ := registry.GetMetric(tuneMetric)
		exp.AddMetric(m)
		return exp, nil
	}

	ctx, stop := interruptContext()
	defer stop()

	fmt.Printf("searching %d feed/kill pairs for %s = %.4f...\n", search.Evaluations(), tuneMetric, tuneTarget)
	best, score, err := search.Search(ctx, build, optim.TargetMetric(tuneMetric, tuneTarget))
	if err != nil {
		return err
	}
	fmt.Println(viz.Metric("feed", fmt.Sprintf("%.4f", best["feed"])))
	fmt.Println(viz.Metric("kill", fmt.Sprintf("%.4f", best["kill"])))
	fmt.Println(viz.Metric("distance", fmt.Sprintf("%.6f", score)))
	return nil
}

func runLife(cmd *cobra.Command, args []string) error {
	if len(lifeSize) != 2 {
		return fmt.Errorf("--size takes cols,rows")
	}
	seedValue := rngSeed
	if seedValue == 0 {
		seedValue = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seedValue))

	var board *life.Life
	if imagePath != "" {
		img, err := seed.Load(imagePath)
		if err != nil {
			return err
		}
		var mask *seed.Mask
		board, mask, err = life.FromImage(img, lifeSize[0], lifeSize[1], rng)
		if err != nil {
			return err
		}
		slog.Info("seeded from image", "strategy", mask.Strategy, "active", mask.ActiveCount())
	} else {
		var err error
		board, err = life.New(lifeSize[0], lifeSize[1])
		if err != nil {
			return err
		}
		board.Randomize(rng, density)
	}

	population := make([]float64, 0, gens+1)
	population = append(population, float64(board.Population()))
	for i := 0; i < gens; i++ {
		board.Step()
		population = append(population, float64(board.Population()))
	}

	w, h := board.Size()
	canvas := viz.NewCanvas((w+1)/2, (h+3)/4)
	canvas.PlotCells(board.Cells(), w, h)
	fmt.Print(canvas.String())
	fmt.Println()
	fmt.Println(asciigraph.Plot(population,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("population over %d generations", board.Generation())),
	))

	if outPath != "" {
		return export.WriteFile(outPath, export.CanvasToSVG(canvas, 6, viz.GetTheme(lifeTheme)))
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "rdsim.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	cfg := config.GetProfile(initProfile)
	if cfg == nil {
		return fmt.Errorf("unknown profile: %s (available: %v)", initProfile, config.ListProfiles())
	}
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s profile to %s\n", initProfile, path)
	return nil
}
