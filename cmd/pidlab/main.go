package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/pidlab/internal/analysis"
	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/export"
	"github.com/san-kum/pidlab/internal/metrics"
	"github.com/san-kum/pidlab/internal/sim"
	"github.com/san-kum/pidlab/internal/storage"
	"github.com/san-kum/pidlab/internal/tune"
	"github.com/san-kum/pidlab/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	kp               float64
	ki               float64
	kd               float64
	setpoint         float64
	outputLow        float64
	outputHigh       float64
	sampleTime       float64
	derivativeFilter float64

	modelType    string
	tau          float64
	omegaN       float64
	dampingRatio float64
	physicalLow  float64
	physicalHigh float64

	duration        float64
	initialValue    float64
	initialVelocity float64
	disturbance     float64
	noiseStdDev     float64
	seed            int64

	saveConfigPath string
	tuneSteps      int
	tuneGainMax    float64
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

func main() {
	rootCmd := &cobra.Command{
		Use:   "pidlab",
		Short: "pid regulator simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pidlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate the loop and save the run",
		RunE:  runSimulation,
	}
	addLoopFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "drive the loop in real time with live visualization",
		RunE:  runLive,
	}
	addLoopFlags(liveCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search gains for the configured plant",
		RunE:  runTune,
	}
	addLoopFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&tuneSteps, "steps", 5, "grid points per gain")
	tuneCmd.Flags().Float64Var(&tuneGainMax, "gain-max", 2.0, "upper end of each gain sweep")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset1] [preset2] ...",
		Short: "run several presets and compare their step response",
		Args:  cobra.MinimumNArgs(2),
		RunE:  comparePresets,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
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
		Short: "export a run as an SVG plot",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "write the effective configuration to a file",
		RunE:  writeConfig,
	}
	addLoopFlags(configCmd)
	configCmd.Flags().StringVar(&saveConfigPath, "out", "pidlab.yaml", "output path")

	rootCmd.AddCommand(runCmd, liveCmd, tuneCmd, listCmd, plotCmd, compareCmd, presetsCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, analyzeCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLoopFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")

	cmd.Flags().Float64Var(&kp, "kp", 0.2, "proportional gain")
	cmd.Flags().Float64Var(&ki, "ki", 0.01, "integral gain")
	cmd.Flags().Float64Var(&kd, "kd", 0.05, "derivative gain")
	cmd.Flags().Float64Var(&setpoint, "setpoint", 200.0, "target value")
	cmd.Flags().Float64Var(&outputLow, "output-low", 0.0, "lower output limit")
	cmd.Flags().Float64Var(&outputHigh, "output-high", 400.0, "upper output limit")
	cmd.Flags().Float64Var(&sampleTime, "sample-time", 0.01, "step duration in seconds")
	cmd.Flags().Float64Var(&derivativeFilter, "derivative-filter", 0.0, "derivative low-pass coefficient in [0,1)")

	cmd.Flags().StringVar(&modelType, "model", config.ModelFirstOrder, "process model (first_order, second_order)")
	cmd.Flags().Float64Var(&tau, "tau", 1.0, "first-order time constant")
	cmd.Flags().Float64Var(&omegaN, "omega-n", 1.0, "second-order natural frequency")
	cmd.Flags().Float64Var(&dampingRatio, "damping-ratio", 0.7, "second-order damping ratio")
	cmd.Flags().Float64Var(&physicalLow, "physical-low", 0.0, "lower physical bound of the process value")
	cmd.Flags().Float64Var(&physicalHigh, "physical-high", 400.0, "upper physical bound of the process value")

	cmd.Flags().Float64Var(&duration, "time", 10.0, "duration in seconds")
	cmd.Flags().Float64Var(&initialValue, "initial-value", 0.0, "initial process value")
	cmd.Flags().Float64Var(&initialVelocity, "initial-velocity", 0.0, "initial velocity (second-order)")
	cmd.Flags().Float64Var(&disturbance, "disturbance", 0.0, "step disturbance applied from the midpoint")
	cmd.Flags().Float64Var(&noiseStdDev, "noise", 0.0, "measurement noise standard deviation")
	cmd.Flags().Int64Var(&seed, "seed", 0, "noise seed")
}

// effectiveConfig resolves preset, config file, and explicit flags into
// one config, in that order of increasing precedence.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := []struct {
		name  string
		apply func()
	}{
		{"kp", func() { cfg.Kp = kp }},
		{"ki", func() { cfg.Ki = ki }},
		{"kd", func() { cfg.Kd = kd }},
		{"setpoint", func() { cfg.Setpoint = setpoint }},
		{"output-low", func() { cfg.OutputLow = outputLow }},
		{"output-high", func() { cfg.OutputHigh = outputHigh }},
		{"sample-time", func() { cfg.SampleTime = sampleTime }},
		{"derivative-filter", func() { cfg.DerivativeFilter = derivativeFilter }},
		{"model", func() { cfg.ModelType = modelType }},
		{"tau", func() { cfg.Tau = tau }},
		{"omega-n", func() { cfg.OmegaN = omegaN }},
		{"damping-ratio", func() { cfg.DampingRatio = dampingRatio }},
		{"physical-low", func() { cfg.PhysicalLow = physicalLow }},
		{"physical-high", func() { cfg.PhysicalHigh = physicalHigh }},
		{"time", func() { cfg.Duration = duration }},
		{"initial-value", func() { cfg.InitialValue = initialValue }},
		{"initial-velocity", func() { cfg.InitialVelocity = initialVelocity }},
		{"disturbance", func() { cfg.Disturbance = disturbance }},
		{"noise", func() { cfg.NoiseStdDev = noiseStdDev }},
		{"seed", func() { cfg.Seed = seed }},
	}
	for _, f := range flags {
		if cmd.Flags().Changed(f.name) {
			f.apply()
		}
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	reg, err := cfg.Regulator()
	if err != nil {
		return err
	}
	model, err := cfg.Model()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	effort := metrics.NewControlEffort()
	iae := metrics.NewIAE(cfg.Setpoint, cfg.SampleTime)

	log.Info().Str("model", cfg.ModelType).Float64("duration", cfg.Duration).Msg("simulation started")
	start := time.Now()

	result, err := sim.Run(context.Background(), reg, model, cfg.SimConfig(), effort, iae)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	sr := metrics.Extract(result.Times, result.Values, cfg.Setpoint)
	runMetrics := map[string]storage.MetricValue{
		"rise_time":          {Value: sr.RiseTime.Value, Valid: sr.RiseTime.Valid},
		"settling_time":      {Value: sr.SettlingTime.Value, Valid: sr.SettlingTime.Valid},
		"overshoot":          {Value: sr.Overshoot.Value, Valid: sr.Overshoot.Valid},
		"steady_state_error": {Value: sr.SteadyStateError.Value, Valid: sr.SteadyStateError.Valid},
		"control_effort":     {Value: effort.Value(), Valid: true},
		"iae":                {Value: iae.Value(), Valid: true},
	}

	runID, err := st.Save(cfg, result, runMetrics)
	if err != nil {
		return err
	}

	log.Info().Str("run", runID).Dur("elapsed", elapsed).Msg("simulation saved")

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n\n", result.Len())
	printStepResponse(sr)
	fmt.Printf("  %-20s %.4f\n", "control_effort", effort.Value())
	fmt.Printf("  %-20s %.4f\n", "iae", iae.Value())

	return nil
}

func printStepResponse(sr metrics.StepResponse) {
	fmt.Println("metrics:")
	printMetric("rise_time", sr.RiseTime, "s")
	printMetric("settling_time", sr.SettlingTime, "s")
	printMetric("overshoot", sr.Overshoot, "")
	printMetric("steady_state_error", sr.SteadyStateError, "")
}

func printMetric(name string, m metrics.Metric, unit string) {
	if !m.Valid {
		fmt.Printf("  %-20s n/a\n", name)
		return
	}
	fmt.Printf("  %-20s %.4f%s\n", name, m.Value, unit)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	reg, err := cfg.Regulator()
	if err != nil {
		return err
	}
	model, err := cfg.Model()
	if err != nil {
		return err
	}
	stepper, err := sim.NewStepper(reg, model, cfg.SimConfig())
	if err != nil {
		return err
	}

	m := viz.NewModel(cfg, reg, stepper, log)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	g := tune.NewGridSearch(
		tune.Range(0, tuneGainMax, tuneSteps),
		tune.Range(0, tuneGainMax/4, tuneSteps),
		tune.Range(0, tuneGainMax/8, tuneSteps),
	)

	log.Info().Int("candidates", tuneSteps*tuneSteps*tuneSteps).Msg("grid search started")
	start := time.Now()

	best, err := g.Search(context.Background(), cfg)
	if err != nil {
		return err
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("grid search finished")

	fmt.Printf("best gains (iae %.4f):\n", best.Cost)
	fmt.Printf("  kp: %.4f\n  ki: %.4f\n  kd: %.4f\n", best.Kp, best.Ki, best.Kd)
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tSETPOINT\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%.1f\t%d\n",
			run.ID,
			run.Config.ModelType,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Config.Duration,
			run.Config.SampleTime,
			run.Config.Setpoint,
			run.Steps,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Config.ModelType)
	fmt.Printf("samples: %d\n\n", series.Len())

	graph := asciigraph.Plot(series.Values,
		asciigraph.Height(14),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("process value (setpoint %.1f)", meta.Config.Setpoint)),
	)
	fmt.Println(graph)
	fmt.Println()

	graph = asciigraph.Plot(series.Outputs,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("regulator output"),
	)
	fmt.Println(graph)
	fmt.Println()

	sr := metrics.Extract(series.Times, series.Values, meta.Config.Setpoint)
	printStepResponse(sr)
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tRISE\tSETTLE\tOVERSHOOT\tSSE\tIAE")

	for _, name := range args {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}

		reg, err := cfg.Regulator()
		if err != nil {
			return err
		}
		model, err := cfg.Model()
		if err != nil {
			return err
		}

		iae := metrics.NewIAE(cfg.Setpoint, cfg.SampleTime)
		result, err := sim.Run(context.Background(), reg, model, cfg.SimConfig(), iae)
		if err != nil {
			return err
		}

		sr := metrics.Extract(result.Times, result.Values, cfg.Setpoint)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\n",
			name,
			formatMetric(sr.RiseTime, "s"),
			formatMetric(sr.SettlingTime, "s"),
			formatMetric(sr.Overshoot, ""),
			formatMetric(sr.SteadyStateError, ""),
			iae.Value(),
		)
	}
	return w.Flush()
}

func formatMetric(m metrics.Metric, unit string) string {
	if !m.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%s", m.Value, unit)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "value", "output"}); err != nil {
		return err
	}
	for i := 0; i < series.Len(); i++ {
		row := []string{
			strconv.FormatFloat(series.Times[i], 'f', 6, 64),
			strconv.FormatFloat(series.Values[i], 'f', 6, 64),
			strconv.FormatFloat(series.Outputs[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, series)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if series.Len() < 2 {
		return fmt.Errorf("not enough data to plot")
	}

	svg := export.ResponseToSVG(series.Times, series.Values, meta.Config.Setpoint, 800, 400)
	fmt.Println(svg)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("no data to analyze")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", series.Len())

	spectrum := analysis.PowerSpectrum(series.Values)
	if len(spectrum) > 1 {
		graph := asciigraph.Plot(spectrum,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (process value)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	dom := analysis.DominantFrequency(series.Values, meta.Config.SampleTime)
	if dom > 0 {
		fmt.Printf("dominant frequency: %.3f hz (period %.2fs)\n", dom, 1/dom)
	} else {
		fmt.Println("no dominant oscillation detected")
	}
	return nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(saveConfigPath, cfg); err != nil {
		return err
	}
	log.Info().Str("path", saveConfigPath).Msg("configuration saved")
	return nil
}
