package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/shadyrajab/chaos/internal/analysis"
	"github.com/shadyrajab/chaos/internal/config"
	"github.com/shadyrajab/chaos/internal/integrators"
	"github.com/shadyrajab/chaos/internal/metrics"
	"github.com/shadyrajab/chaos/internal/pendulum"
	"github.com/shadyrajab/chaos/internal/render"
	"github.com/shadyrajab/chaos/internal/store"
	"github.com/shadyrajab/chaos/internal/viz"
)

var (
	dataDir string

	theta1  float64
	omega1  float64
	theta2  float64
	omega2  float64
	epsilon float64

	l1      float64
	l2      float64
	m1      float64
	m2      float64
	gravity float64

	startTime  float64
	endTime    float64
	samples    int
	integrator string
	maxDt      float64
	tolerance  float64
	validate   bool

	configFile string
	preset     string

	outPath   string
	gifSize   int
	gifStride int
	frameRate int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chaos",
		Short: "double pendulum sensitivity-to-initial-conditions lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".chaos", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate baseline and perturbed trajectories and save the run",
		RunE:  runComparison,
	}
	addSimFlags(runCmd)

	divergenceCmd := &cobra.Command{
		Use:   "divergence",
		Short: "separation statistics and Lyapunov estimate (nothing saved)",
		RunE:  runDivergence,
	}
	addSimFlags(divergenceCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "terminal plot of angle and separation series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "export a run as an animated GIF",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVar(&outPath, "out", "chaos.gif", "output path")
	renderCmd.Flags().IntVar(&gifSize, "size", 420, "frame size in pixels")
	renderCmd.Flags().IntVar(&gifStride, "stride", 2, "render every n-th sample")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "export the tip trace of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().StringVar(&outPath, "out", "trace.svg", "output path")

	liveCmd := &cobra.Command{
		Use:   "live [run_id]",
		Short: "play back a saved run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  liveRun,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	exportCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run as one combined CSV with a separation column",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&outPath, "out", "run.csv", "output path")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, divergenceCmd, listCmd, plotCmd, renderCmd, svgCmd, liveCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&theta1, "theta1", config.DefaultTheta1, "initial angle of arm 1 (rad)")
	cmd.Flags().Float64Var(&omega1, "omega1", 0.0, "initial angular velocity of arm 1")
	cmd.Flags().Float64Var(&theta2, "theta2", config.DefaultTheta2, "initial angle of arm 2 (rad)")
	cmd.Flags().Float64Var(&omega2, "omega2", 0.0, "initial angular velocity of arm 2")
	cmd.Flags().Float64Var(&epsilon, "epsilon", config.DefaultEpsilon, "perturbation added to theta2")
	cmd.Flags().Float64Var(&l1, "l1", pendulum.DefaultLength, "length of arm 1 (m)")
	cmd.Flags().Float64Var(&l2, "l2", pendulum.DefaultLength, "length of arm 2 (m)")
	cmd.Flags().Float64Var(&m1, "m1", pendulum.DefaultMass, "mass 1 (kg)")
	cmd.Flags().Float64Var(&m2, "m2", pendulum.DefaultMass, "mass 2 (kg)")
	cmd.Flags().Float64Var(&gravity, "g", pendulum.DefaultGravity, "gravitational acceleration")
	cmd.Flags().Float64Var(&startTime, "start", config.DefaultStart, "start time (s)")
	cmd.Flags().Float64Var(&endTime, "end", config.DefaultEnd, "end time (s)")
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "number of time samples")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "step method")
	cmd.Flags().Float64Var(&maxDt, "max-dt", config.DefaultMaxDt, "internal step bound (s)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "adaptive error tolerance (rk45)")
	cmd.Flags().BoolVar(&validate, "validate", false, "fail fast on non-finite states")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig layers preset, config file, and explicit flags, in that
// order of increasing precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("theta1") {
		cfg.InitState.Theta1 = theta1
	}
	if flags.Changed("omega1") {
		cfg.InitState.Omega1 = omega1
	}
	if flags.Changed("theta2") {
		cfg.InitState.Theta2 = theta2
	}
	if flags.Changed("omega2") {
		cfg.InitState.Omega2 = omega2
	}
	if flags.Changed("epsilon") {
		cfg.Epsilon = epsilon
	}
	if flags.Changed("l1") {
		cfg.Pendulum.L1 = l1
	}
	if flags.Changed("l2") {
		cfg.Pendulum.L2 = l2
	}
	if flags.Changed("m1") {
		cfg.Pendulum.M1 = m1
	}
	if flags.Changed("m2") {
		cfg.Pendulum.M2 = m2
	}
	if flags.Changed("g") {
		cfg.Pendulum.G = gravity
	}
	if flags.Changed("start") {
		cfg.Time.Start = startTime
	}
	if flags.Changed("end") {
		cfg.Time.End = endTime
	}
	if flags.Changed("samples") {
		cfg.Time.Samples = samples
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("max-dt") {
		cfg.Solver.MaxDt = maxDt
	}
	if flags.Changed("tolerance") {
		cfg.Solver.Tolerance = tolerance
	}
	if flags.Changed("validate") {
		cfg.Solver.ValidateState = validate
	}

	return cfg, nil
}

func compare(cfg *config.Config) (*pendulum.DoublePendulum, *analysis.Comparison, []float64, error) {
	sys, err := pendulum.New(cfg.Params())
	if err != nil {
		return nil, nil, nil, err
	}

	times, err := cfg.Times()
	if err != nil {
		return nil, nil, nil, err
	}

	cmp, err := analysis.Compare(sys, analysis.Config{
		Integrator:   cfg.Integrator,
		Options:      cfg.Options(),
		PerturbIndex: pendulum.Theta2,
		Epsilon:      cfg.Epsilon,
	}, cfg.GetInitState(), times)
	if err != nil {
		return nil, nil, nil, err
	}

	return sys, cmp, times, nil
}

func summarize(sys *pendulum.DoublePendulum, cmp *analysis.Comparison) map[string]float64 {
	drift := metrics.NewEnergyDrift(sys)
	windup := metrics.NewMaxDisplacement("max_theta2", pendulum.Theta2)
	for i, x := range cmp.Baseline.States {
		drift.Observe(x, cmp.Baseline.Times[i])
		windup.Observe(x, cmp.Baseline.Times[i])
	}

	sep := cmp.Separation(pendulum.Theta2)
	out := map[string]float64{
		drift.Name():     drift.Value(),
		windup.Name():    windup.Value(),
		"max_separation": analysis.MaxSeparation(sep),
	}
	if t, ok := analysis.FirstExceed(cmp.Baseline.Times, sep, 0.1); ok {
		out["divergence_time"] = t
	}
	return out
}

func runComparison(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("integrating %d samples over [%g, %g]s with %s...\n",
		cfg.Time.Samples, cfg.Time.Start, cfg.Time.End, cfg.Integrator)
	begin := time.Now()

	sys, cmp, _, err := compare(cfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(begin)
	summary := summarize(sys, cmp)

	runID, err := st.Save(store.RunMetadata{
		Params:     cfg.Params(),
		InitState:  cfg.GetInitState(),
		Epsilon:    cfg.Epsilon,
		Integrator: cfg.Integrator,
		Metrics:    summary,
	}, cmp)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	for name, val := range summary {
		fmt.Printf("  %s: %.6g\n", name, val)
	}
	return nil
}

func runDivergence(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	sys, cmp, times, err := compare(cfg)
	if err != nil {
		return err
	}

	sep := cmp.Separation(pendulum.Theta2)

	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return err
	}
	lyap := analysis.LyapunovExponent(sys, integ, cfg.GetInitState(),
		cfg.Options().MaxDt, math.Min(cfg.Time.End, 50), 1e-9)

	fmt.Printf("epsilon:            %.3e rad on theta2\n", cfg.Epsilon)
	fmt.Printf("max separation:     %.6g rad\n", analysis.MaxSeparation(sep))
	if t, ok := analysis.FirstExceed(times, sep, 0.1); ok {
		fmt.Printf("0.1 rad crossed at: %.2f s\n", t)
	} else {
		fmt.Println("0.1 rad crossed at: never (regular regime?)")
	}
	fmt.Printf("lyapunov estimate:  %.4f /s\n\n", lyap)

	fmt.Println(asciigraph.Plot(logSeries(sep),
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("log10 |theta2 - theta2'| vs sample"),
	))
	return nil
}

// logSeries maps a separation series to log10, clamping the zero entries
// produced before the runs have separated at all.
func logSeries(sep []float64) []float64 {
	out := make([]float64, len(sep))
	for i, v := range sep {
		if v <= 0 {
			out[i] = -16
			continue
		}
		out[i] = math.Log10(v)
	}
	return out
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSPAN\tSAMPLES\tEPSILON\tINTEG")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.1fs\t%d\t%.1e\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.End-run.Start,
			run.Samples,
			run.Epsilon,
			run.Integrator,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	cmp, meta, err := st.LoadComparison(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", cmp.Baseline.Len())

	angle := make([]float64, cmp.Baseline.Len())
	for i, x := range cmp.Baseline.States {
		angle[i] = x[pendulum.Theta2]
	}

	fmt.Println(asciigraph.Plot(angle,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("theta2 (baseline)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(logSeries(cmp.Separation(pendulum.Theta2)),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("log10 |theta2 - theta2'|"),
	))
	return nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	cmp, meta, err := st.LoadComparison(args[0])
	if err != nil {
		return err
	}

	opts := render.GIFOptions{Size: gifSize, Stride: gifStride}
	err = render.SaveGIF(outPath, meta.Params,
		meta.Params.Project(cmp.Baseline),
		meta.Params.Project(cmp.Perturbed),
		cmp.Baseline.Times, opts)
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func svgRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	cmp, meta, err := st.LoadComparison(args[0])
	if err != nil {
		return err
	}

	svg := render.TipTraceSVG(
		meta.Params.Project(cmp.Baseline),
		meta.Params.Project(cmp.Perturbed),
		800, 800)
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	cmp, _, err := st.LoadComparison(args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"time",
		"theta1", "omega1", "theta2", "omega2",
		"theta1_p", "omega1_p", "theta2_p", "omega2_p",
		"separation",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	sep := cmp.Separation(pendulum.Theta2)
	row := make([]string, len(header))
	for i := range sep {
		row[0] = strconv.FormatFloat(cmp.Baseline.Times[i], 'g', 17, 64)
		for j, v := range cmp.Baseline.States[i] {
			row[j+1] = strconv.FormatFloat(v, 'g', 17, 64)
		}
		for j, v := range cmp.Perturbed.States[i] {
			row[j+5] = strconv.FormatFloat(v, 'g', 17, 64)
		}
		row[9] = strconv.FormatFloat(sep[i], 'g', 17, 64)
		if err := w.Write(row); err != nil {
			return err
		}
	}

	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func liveRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	cmp, meta, err := st.LoadComparison(args[0])
	if err != nil {
		return err
	}
	return viz.RunLive(cmp, meta.Params, frameRate)
}
