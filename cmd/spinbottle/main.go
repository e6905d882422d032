package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/spinbottle/internal/config"
	"github.com/san-kum/spinbottle/internal/engine"
	"github.com/san-kum/spinbottle/internal/export"
	"github.com/san-kum/spinbottle/internal/metrics"
	"github.com/san-kum/spinbottle/internal/optim"
	"github.com/san-kum/spinbottle/internal/script"
	"github.com/san-kum/spinbottle/internal/server"
	"github.com/san-kum/spinbottle/internal/sim"
	"github.com/san-kum/spinbottle/internal/storage"
	"github.com/san-kum/spinbottle/internal/viz"
)

var (
	dataDir  string
	logLevel string

	preset     string
	configFile string
	scriptFile string
	velocity   float64
	startAngle float64

	svgDisc  bool
	svgScale float64

	benchRuns    int
	benchWorkers int
	seed         uint64

	addr   string
	wsPath string

	tuneTarget float64
	tuneGrid   []string
)

// main registers the commands and runs the live view when no subcommand is
// given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "spinbottle",
		Short: "spin the bottle engine",
		RunE:  runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spinbottle", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (error, warn, info, debug); defaults to the config value")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a toss and store the run",
		Args:  cobra.NoArgs,
		RunE:  runToss,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringVar(&scriptFile, "script", "", "gesture script (yaml) to replay instead of the configured toss")
	runCmd.Flags().Float64Var(&velocity, "velocity", 1.0, "toss velocity in degrees per millisecond")
	runCmd.Flags().Float64Var(&startAngle, "start", 0, "start angle in degrees")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "write the configured toss as a gesture script",
		Args:  cobra.ExactArgs(1),
		RunE:  writeScript,
	}
	addConfigFlags(scriptCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot angle and speed of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "speed statistics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the angle trace (or the final disc) as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().BoolVar(&svgDisc, "disc", false, "draw the disc at its final position instead of the trace")
	exportSVGCmd.Flags().Float64Var(&svgScale, "scale", 4, "pixel scale for --disc")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "simulate random flicks in parallel",
		RunE:  benchFlicks,
	}
	addConfigFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchRuns, "runs", 1000, "number of flicks")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", runtime.NumCPU(), "parallel workers")
	benchCmd.Flags().Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "random seed")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "spin the bottle in the terminal",
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve a shared disc over websocket",
		RunE:  serve,
	}
	addConfigFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&wsPath, "path", "/ws", "websocket path")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search physics parameters for a target stop angle",
		RunE:  tuneParams,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&scriptFile, "script", "", "gesture script (yaml) to replay instead of the configured toss")
	tuneCmd.Flags().Float64Var(&tuneTarget, "target", 0, "target stop angle in degrees")
	tuneCmd.Flags().StringArrayVar(&tuneGrid, "grid", []string{"friction=0.25,0.5,1,2"}, "parameter values as name=v1,v2,...")

	rootCmd.AddCommand(runCmd, scriptCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, benchCmd, tuneCmd, liveCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml), overrides the preset")
}

// loadConfig resolves the preset, then the config file, then flag overrides.
// The returned name labels stored runs.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "custom"

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if f := cmd.Flags().Lookup("velocity"); f != nil && f.Changed {
		cfg.Toss.Velocity = velocity
	}
	if f := cmd.Flags().Lookup("start"); f != nil && f.Changed {
		cfg.Toss.StartAngle = startAngle
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	parsed, err := parseLogLevel(level)
	if err != nil {
		return nil, err
	}
	return setupLogger(parsed), nil
}

func runToss(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	sc := script.FromConfig(cfg)
	if scriptFile != "" {
		sc, err = script.Load(scriptFile)
		if err != nil {
			return err
		}
		if sc.Name != "" {
			name = sc.Name
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s := sim.FromParams(cfg.Params())
	s.SetLogger(logger)
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}

	fmt.Printf("running %s toss...\n", name)
	start := time.Now()

	result, err := s.Run(cmd.Context(), sc, sim.Config{FrameMillis: cfg.Sim.FrameMillis, MaxTicks: cfg.Sim.MaxTicks})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(name, cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", len(result.Frames))
	fmt.Printf("stop angle: %.2f\n", result.StopAngle)
	if result.Truncated() {
		fmt.Printf("truncated: %v\n", result.Errors[0])
	}
	fmt.Println("\nmetrics:")
	for _, m := range metrics.Defaults() {
		fmt.Printf("  %s: %.3f\n", m.Name(), result.Metrics[m.Name()])
	}

	return nil
}

func writeScript(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc := script.FromConfig(cfg)
	sc.Name = name
	if err := script.Save(args[0], sc); err != nil {
		return err
	}
	fmt.Printf("wrote %d events to %s\n", len(sc.Events), args[0])
	return nil
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tTICKS\tSTOP\tTRUNC")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%v\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.StopAngle,
			run.Truncated,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("ticks: %d\n\n", len(frames))

	angles := make([]float64, len(frames))
	speeds := make([]float64, len(frames))
	for i, f := range frames {
		angles[i] = f.Angle
		speeds[i] = math.Abs(f.Step)
	}

	fmt.Println(asciigraph.Plot(angles,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("angle (degrees)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(speeds,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("speed (degrees per tick)"),
	))

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	s := metrics.SpeedStats(frames)
	if s.Samples == 0 {
		return fmt.Errorf("run %s never rotated", meta.ID)
	}

	speeds := make([]float64, 0, len(frames))
	for _, f := range frames {
		if f.Rotating {
			speeds = append(speeds, math.Abs(f.Step))
		}
	}

	fmt.Printf("run: %s\n\n", meta.ID)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "samples\t%d\n", s.Samples)
	fmt.Fprintf(w, "mean speed\t%.3f\n", s.Mean)
	fmt.Fprintf(w, "stddev\t%.3f\n", s.StdDev)
	fmt.Fprintf(w, "median\t%.3f\n", s.Median)
	fmt.Fprintf(w, "peak\t%.3f\n", s.Max)
	fmt.Fprintf(w, "settle ticks\t%d\n", metrics.Settle(meta.Events))
	fmt.Fprintf(w, "stop angle\t%.2f\n", meta.StopAngle)
	for name, val := range meta.Metrics {
		fmt.Fprintf(w, "%s\t%.3f\n", name, val)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	peak := 0.0
	if meta.Config != nil {
		peak = meta.Config.Physics.MaxRotationDegrees
	}
	fmt.Println()
	fmt.Println(viz.SpeedSparkline(speeds, 60, peak))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames to export")
	}

	if !svgDisc {
		fmt.Println(export.AngleTraceToSVG(frames, 800, 300, "#00ffff"))
		return nil
	}

	last := frames[len(frames)-1]
	canvas := viz.NewCanvas(40, 20)
	viz.DrawDisc(canvas, engine.Snapshot{
		Angle:         last.Angle,
		Step:          last.Step,
		Rotating:      last.Rotating,
		Obstacle:      last.Obstacle,
		ObstacleAngle: last.ObstacleAngle,
	})
	fmt.Println(export.CanvasToSVG(canvas, svgScale))
	return nil
}

func benchFlicks(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if benchRuns < 1 {
		return fmt.Errorf("runs must be positive")
	}

	rng := rand.New(rand.NewPCG(seed, seed>>1))
	v := script.View{Width: cfg.View.Width, Height: cfg.View.Height}
	scripts := make([]*script.Script, benchRuns)
	for i := range scripts {
		start := rng.Float64() * 360
		vel := (rng.Float64()*2 - 1) * cfg.Physics.VelocityMax * 2
		scripts[i] = &script.Script{View: v, StartAngle: start, Events: script.Flick(v, start, vel, 0)}
	}

	ens := sim.NewEnsemble(cfg.Params(), benchWorkers, metrics.Defaults)

	fmt.Printf("benchmarking %d flicks on %d workers\n\n", benchRuns, benchWorkers)
	t0 := time.Now()
	results, err := ens.Run(cmd.Context(), scripts, sim.Config{FrameMillis: cfg.Sim.FrameMillis, MaxTicks: cfg.Sim.MaxTicks})
	if err != nil {
		return err
	}
	elapsed := time.Since(t0)

	var ticks int
	travel := make([]float64, len(results))
	spins := make([]float64, len(results))
	for i, r := range results {
		ticks += len(r.Frames)
		travel[i] = r.Metrics["distance"]
		spins[i] = r.Metrics["spin_ticks"]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUNS\tTICKS\tTIME\tTICKS/SEC\tMEAN TRAVEL\tMEAN SPIN")
	fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.1f\t%.1f\n",
		len(results),
		ticks,
		elapsed.Round(time.Millisecond),
		float64(ticks)/elapsed.Seconds(),
		stat.Mean(travel, nil),
		stat.Mean(spins, nil),
	)
	return w.Flush()
}

// parseGrid turns name=v1,v2 specs into search axes.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, entry := range specs {
		name, list, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, nil, fmt.Errorf("invalid grid %q (want name=v1,v2)", entry)
		}
		var vals []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid value in %q: %w", entry, err)
			}
			vals = append(vals, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func tuneParams(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sc := script.FromConfig(cfg)
	if scriptFile != "" {
		if sc, err = script.Load(scriptFile); err != nil {
			return err
		}
	}

	names, ranges, err := parseGrid(tuneGrid)
	if err != nil {
		return err
	}
	gs, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	best, err := gs.Search(cmd.Context(), cfg.Params(), sc, sim.Config{FrameMillis: cfg.Sim.FrameMillis, MaxTicks: cfg.Sim.MaxTicks}, optim.StopDistance(tuneTarget))
	if err != nil {
		return err
	}

	fmt.Printf("evaluated %d combinations (%d invalid)\n", best.Evaluated, best.Skipped)
	fmt.Printf("distance from %.1f: %.3f\n\n", tuneTarget, best.Cost)

	keys := make([]string, 0, len(best.Values))
	for k := range best.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%g\n", k, best.Values[k])
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	if preset == "" && configFile == "" {
		return viz.RunInteractive()
	}
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(viz.NewModel(cfg, name))
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := server.NewHub(logger, server.HubConfig{})
	session := server.NewSession(logger, cfg, hub)

	mux := http.NewServeMux()
	server.NewServer(logger, hub, session).Register(mux, wsPath)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(ctx) })
	g.Go(func() error { return session.Run(ctx) })
	g.Go(func() error {
		logger.Info("http server listening", "addr", addr, "path", wsPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
