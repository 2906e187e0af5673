package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/plexus/internal/analysis"
	"github.com/san-kum/plexus/internal/automation"
	"github.com/san-kum/plexus/internal/config"
	"github.com/san-kum/plexus/internal/ebitengui"
	"github.com/san-kum/plexus/internal/export"
	"github.com/san-kum/plexus/internal/gui"
	"github.com/san-kum/plexus/internal/logging"
	"github.com/san-kum/plexus/internal/metrics"
	"github.com/san-kum/plexus/internal/optim"
	"github.com/san-kum/plexus/internal/storage"
	"github.com/san-kum/plexus/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	seed       uint64

	backend string

	runFrames int
	runOrbit  bool
	noSave    bool
	pngOut    string

	snapFrames int
	snapOrbit  bool
	out        string
	gifEvery   int
	gifDelay   int

	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	sweepFrames int
	sweepOrbit  bool

	seedCount  int
	seedFrames int

	tuneParam  string
	tuneMin    float64
	tuneMax    float64
	tuneSteps  int
	tuneFrames int
	tuneMetric string
	tuneTarget float64
)

// main registers the commands and runs the window frontend when no
// subcommand is given. It exits with status 1 on error.
func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		log.Error("plexus", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "plexus",
		Short:         "interactive particle field",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".plexus", "data directory for stored runs")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a preset configuration")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.Uint64Var(&seed, "seed", config.DefaultSeed, "random seed")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the particle field in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	guiCmd.Flags().StringVar(&backend, "backend", "raylib", "window backend (raylib, ebiten)")
	rootCmd.Flags().AddFlag(guiCmd.Flags().Lookup("backend"))

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "show the particle field in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and store the metric series",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&runFrames, "frames", 600, "frames to simulate")
	runCmd.Flags().BoolVar(&runOrbit, "orbit", false, "orbit the pointer around the centre")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "print metrics without storing the run")
	runCmd.Flags().StringVar(&pngOut, "png", "", "write the final frame to this PNG")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id] [metric]",
		Short: "plot a stored series",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id] [metric]",
		Short: "statistics and dominant period of a stored series",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and series to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(args[0], cmd.OutOrStdout())
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render frames to PNG, SVG or animated GIF",
		Args:  cobra.NoArgs,
		RunE:  snapshot,
	}
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 120, "frames to simulate before the snapshot")
	snapshotCmd.Flags().BoolVar(&snapOrbit, "orbit", false, "orbit the pointer around the centre")
	snapshotCmd.Flags().StringVarP(&out, "out", "o", "plexus.png", "output file (.png, .svg or .gif)")
	snapshotCmd.Flags().IntVar(&gifEvery, "gif-every", 2, "capture every n-th frame (gif)")
	snapshotCmd.Flags().IntVar(&gifDelay, "gif-delay", 3, "delay between gif frames in 1/100 s")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "replay a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().BoolVar(&noSave, "no-save", false, "print metrics without storing the run")
	scriptCmd.Flags().StringVar(&pngOut, "png", "", "write the final frame to this PNG")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one simulation parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "repulsion_strength", fmt.Sprintf("parameter to sweep %v", config.ParamNames()))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.2, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepFrames, "frames", 300, "frames per run")
	sweepCmd.Flags().BoolVar(&sweepOrbit, "orbit", true, "orbit the pointer around the centre")

	seedsCmd := &cobra.Command{
		Use:   "seeds",
		Short: "repeat a configuration across seeds",
		Args:  cobra.NoArgs,
		RunE:  runSeeds,
	}
	seedsCmd.Flags().IntVar(&seedCount, "count", 10, "number of seeds")
	seedsCmd.Flags().IntVar(&seedFrames, "frames", 300, "frames per run")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "search one parameter for a target metric value",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	tuneCmd.Flags().StringVar(&tuneParam, "param", "connection_radius", fmt.Sprintf("parameter to tune %v", config.ParamNames()))
	tuneCmd.Flags().Float64Var(&tuneMin, "min", 60, "first value")
	tuneCmd.Flags().Float64Var(&tuneMax, "max", 180, "last value")
	tuneCmd.Flags().IntVar(&tuneSteps, "steps", 7, "number of values")
	tuneCmd.Flags().IntVar(&tuneFrames, "frames", 200, "frames per run")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "connection_density", "metric to match")
	tuneCmd.Flags().Float64Var(&tuneTarget, "target", 0.05, "target metric value")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPARTICLES\tVELOCITY\tREPULSION\tPALETTE\tINDEX\tDPR")
			for _, name := range config.ListPresets() {
				c := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.2f\t%.0f×%.2f\t%s\t%s\t%.0f\n",
					name, c.Simulation.ParticleCount, c.Simulation.VelocityScale,
					c.Simulation.RepulsionRadius, c.Simulation.RepulsionStrength,
					c.Render.Palette, c.Render.PairIndex, c.Viewport.DPR)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(guiCmd, tuiCmd, runCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd,
		snapshotCmd, scriptCmd, sweepCmd, seedsCmd, tuneCmd, presetsCmd, configCmd)
	return rootCmd
}

// loadConfig resolves defaults, then the preset, then the config file,
// then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		if err := config.Overlay(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed = seed
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setup(cmd *cobra.Command, w io.Writer) (*config.Config, *log.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, w)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	switch backend {
	case "raylib":
		return gui.Run(cfg, logger)
	case "ebiten":
		return ebitengui.Run(cfg, logger)
	default:
		return fmt.Errorf("unknown backend %q (want raylib or ebiten)", backend)
	}
}

// runTUI discards logs: the terminal belongs to the view.
func runTUI(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, io.Discard)
	if err != nil {
		return err
	}
	return viz.Run(cfg, logger)
}

func orbitPath(cfg *config.Config, n int) *automation.Path {
	w, h := cfg.Viewport.Width, cfg.Viewport.Height
	return &automation.Path{
		Kind:   "circle",
		Center: automation.Point{X: w / 2, Y: h / 2},
		Radius: math.Min(w, h) / 4,
		Turns:  math.Max(1, float64(n)/240),
	}
}

func headlessScenario(cfg *config.Config) *automation.Scenario {
	step := automation.ScenarioStep{Frames: runFrames}
	if runOrbit {
		step.Path = orbitPath(cfg, runFrames)
	}
	return &automation.Scenario{Name: "run", Steps: []automation.ScenarioStep{step}}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	res, err := automation.RunScenario(ctx, headlessScenario(cfg), cfg, logger)
	if err != nil {
		return err
	}
	return finish(cmd, res, presetName())
}

func presetName() string {
	if preset == "" {
		return "default"
	}
	return preset
}

// finish prints a run's summary, stores it unless --no-save and writes the
// final frame when --png is set.
func finish(cmd *cobra.Command, res *automation.ScenarioResult, name string) error {
	stdout := cmd.OutOrStdout()
	h := res.Headless
	summary := h.Recorder.Summary()

	fmt.Fprintf(stdout, "frames: %d\n", res.Frames)
	fmt.Fprintln(stdout, "metrics:")
	names := make([]string, 0, len(summary))
	for k := range summary {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(stdout, "  %s: %.6f\n", k, summary[k])
	}

	if pngOut != "" {
		f, err := os.Create(pngOut)
		if err != nil {
			return err
		}
		vp := h.Loop.Simulation().Viewport()
		err = export.WritePNG(f, h.Surface.Image(), int(vp.LogicalWidth), int(vp.LogicalHeight))
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "frame: %s\n", pngOut)
	}

	if noSave {
		return nil
	}
	vp := h.Loop.Simulation().Viewport()
	meta := storage.RunMetadata{
		Preset:        name,
		Seed:          res.Config.Simulation.Seed,
		Frames:        res.Frames,
		ParticleCount: res.Config.Simulation.ParticleCount,
		Width:         vp.BufferWidth,
		Height:        vp.BufferHeight,
		DPR:           vp.DPR,
		PairIndex:     res.Config.Render.PairIndex,
		Metrics:       summary,
	}
	runID, err := storage.New(dataDir).Save(meta, h.Recorder.Samples())
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "run id: %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tPARTICLES\tSIZE\tSEED\tMEAN SPEED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%dx%d@%.1f\t%d\t%.4f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.ParticleCount,
			run.Width, run.Height, run.DPR,
			run.Seed,
			run.Metrics["mean_speed"],
		)
	}
	return w.Flush()
}

func loadSeries(args []string, fallback string) (string, []float64, error) {
	metric := fallback
	if len(args) > 1 {
		metric = args[1]
	}
	series, err := storage.New(dataDir).LoadSeries(args[0])
	if err != nil {
		return "", nil, err
	}
	data, ok := series[metric]
	if !ok {
		return "", nil, fmt.Errorf("unknown metric %q (available: %s)", metric, strings.Join(metrics.Columns, ", "))
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("no data to plot")
	}
	return metric, data, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	metric, data, err := loadSeries(args, "mean_speed")
	if err != nil {
		return err
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s vs frame (%s)", metric, args[0])),
	)
	fmt.Fprintln(cmd.OutOrStdout(), graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	metric, data, err := loadSeries(args, "connections")
	if err != nil {
		return err
	}
	stdout := cmd.OutOrStdout()

	st := analysis.Describe(data)
	fmt.Fprintf(stdout, "series: %s (%d samples)\n", metric, st.N)
	fmt.Fprintf(stdout, "mean: %.4f  std: %.4f  min: %.4f  max: %.4f\n", st.Mean, st.StdDev, st.Min, st.Max)

	period, amp := analysis.DominantPeriod(data)
	if amp == 0 {
		fmt.Fprintln(stdout, "no periodic component")
		return nil
	}
	fmt.Fprintf(stdout, "dominant period: %.1f frames (amplitude %.4f)\n\n", period, amp)

	spectrum := analysis.Spectrum(data)
	if len(spectrum) > 1 {
		fmt.Fprintln(stdout, asciigraph.Plot(spectrum[1:],
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("amplitude spectrum (cycles per run)"),
		))
	}
	return nil
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	ext := strings.ToLower(filepath.Ext(out))
	switch ext {
	case ".png", ".svg", ".gif":
	default:
		return fmt.Errorf("unsupported output %q (want .png, .svg or .gif)", out)
	}

	h, err := automation.NewHeadless(cfg, logger)
	if err != nil {
		return err
	}
	defer h.Close()

	var anim *export.Animation
	if ext == ".gif" {
		anim = export.NewAnimation(func() image.Image { return h.Surface.Image() }, gifEvery, gifDelay)
		anim.MaxFrames = 500
		h.Loop.Observe(anim)
	}

	var path *automation.Path
	if snapOrbit {
		path = orbitPath(cfg, snapFrames)
	}
	for i := 0; i < snapFrames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if path != nil {
			p := path.At(i, snapFrames)
			h.Loop.OnPointerMove(p.X, p.Y)
		}
		h.Loop.Frame()
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}

	vp := h.Loop.Simulation().Viewport()
	switch ext {
	case ".png":
		err = export.WritePNG(f, h.Surface.Image(), int(vp.LogicalWidth), int(vp.LogicalHeight))
	case ".svg":
		svg := export.NewSVGSurface(int(vp.BufferWidth), int(vp.BufferHeight))
		h.Loop.Renderer().Render(svg, h.Loop.Simulation().Particles(), h.Loop.Pointer(), vp)
		_, err = svg.WriteTo(f)
	case ".gif":
		err = anim.Encode(f)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	logger.Info("snapshot written", "path", out, "frames", snapFrames)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running scenario", "name", sc.Name, "steps", len(sc.Steps))
	res, err := automation.RunScenario(ctx, sc, cfg, logger)
	if err != nil {
		return err
	}
	name := sc.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}
	return finish(cmd, res, name)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	sweep := &automation.ParameterSweep{
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Frames:   sweepFrames,
	}
	if sweepOrbit {
		sweep.Pointer = orbitPath(cfg, sweepFrames)
	}
	results, err := automation.RunSweep(ctx, sweep, cfg, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN SPEED\tMAX SPEED\tRESET RATE\tDENSITY\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.5f\t%.4f\n", r.Value,
			r.Metrics["mean_speed"], r.Metrics["max_speed"], r.Metrics["reset_rate"], r.Metrics["connection_density"])
	}
	return w.Flush()
}

func runSeeds(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	trials, err := automation.RunSeeds(ctx, cfg, cfg.Simulation.Seed, seedCount, seedFrames)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tMEAN SPEED\tMAX SPEED\tRESET RATE\tDENSITY")
	for _, t := range trials {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.5f\t%.4f\n", t.Seed,
			t.Metrics["mean_speed"], t.Metrics["max_speed"], t.Metrics["reset_rate"], t.Metrics["connection_density"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, m := range []string{"mean_speed", "connection_density"} {
		st := automation.TrialStats(trials, m)
		fmt.Fprintf(stdout, "%s: mean %.4f  std %.4f  range [%.4f, %.4f]\n", m, st.Mean, st.StdDev, st.Min, st.Max)
	}
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	tn := &automation.Tuning{
		Params:  []string{tuneParam},
		Ranges:  [][]float64{optim.Linspace(tuneMin, tuneMax, tuneSteps)},
		Frames:  tuneFrames,
		Metric:  tuneMetric,
		Target:  tuneTarget,
		Pointer: orbitPath(cfg, tuneFrames),
	}
	best, trials, err := automation.RunTune(ctx, tn, cfg, logger)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t|%s - %g|\n", strings.ToUpper(tuneParam), tuneMetric, tuneTarget)
	for _, t := range trials {
		fmt.Fprintf(w, "%.4f\t%.5f\n", t.Params[tuneParam], t.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "best %s: %.4f\n", tuneParam, best.Params[tuneParam])
	return nil
}
