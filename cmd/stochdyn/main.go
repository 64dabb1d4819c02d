package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stochdyn/stochdyn/internal/analysis"
	"github.com/stochdyn/stochdyn/internal/config"
	"github.com/stochdyn/stochdyn/internal/fokkerplanck"
	"github.com/stochdyn/stochdyn/internal/process"
	"github.com/stochdyn/stochdyn/internal/sde"
	"github.com/stochdyn/stochdyn/internal/storage"
	"github.com/stochdyn/stochdyn/internal/tui"
	"github.com/stochdyn/stochdyn/internal/viz"
)

var (
	dataDir  string
	dt       float64
	duration float64
	x0       float64
	t0       float64
	seed     uint64
	scheme   string
	method   string
	// Process parameters
	mu     float64
	theta  float64
	dnoise float64
	famp   float64
	fomega float64
	// Grid and boundary
	lower   float64
	upper   float64
	npts    int
	bleft   string
	bright  string
	adjoint bool
	// Ensembles and escape statistics
	nsamples  int
	threshold float64
	bins      int
	standard  bool
	// Short-time propagator
	tau float64
	// Live view
	frameStep float64
	// Config file and preset
	configFile string
	preset     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stochdyn",
		Short: "stochastic process simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".stochdyn", "data directory")

	trajectoryCmd := &cobra.Command{
		Use:   "trajectory [process]",
		Short: "integrate one sample path",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrajectory,
	}
	addProcessFlags(trajectoryCmd)
	trajectoryCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = clock)")
	trajectoryCmd.Flags().StringVar(&scheme, "scheme", "euler", "integration scheme")
	trajectoryCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	trajectoryCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [process]",
		Short: "average an observable over independent sample paths",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnsemble,
	}
	addProcessFlags(ensembleCmd)
	ensembleCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = clock)")
	ensembleCmd.Flags().StringVar(&scheme, "scheme", "euler", "integration scheme")
	ensembleCmd.Flags().IntVar(&nsamples, "samples", 100, "number of sample paths")

	densityCmd := &cobra.Command{
		Use:   "density [process]",
		Short: "solve the associated Fokker-Planck equation",
		Args:  cobra.ExactArgs(1),
		RunE:  runDensity,
	}
	addProcessFlags(densityCmd)
	addGridFlags(densityCmd)
	densityCmd.Flags().StringVar(&method, "method", "cn", "time-stepping method")
	densityCmd.Flags().BoolVar(&adjoint, "adjoint", false, "solve the backward (adjoint) equation")
	densityCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	shorttimeCmd := &cobra.Command{
		Use:   "shorttime [process]",
		Short: "propagate a density with the short-time Gaussian kernel",
		Args:  cobra.ExactArgs(1),
		RunE:  runShortTime,
	}
	addProcessFlags(shorttimeCmd)
	addGridFlags(shorttimeCmd)
	shorttimeCmd.Flags().Float64Var(&tau, "tau", 0.01, "expansion step")

	escapeCmd := &cobra.Command{
		Use:   "escape [process]",
		Short: "sample first-passage times over a threshold",
		Args:  cobra.ExactArgs(1),
		RunE:  runEscape,
	}
	addProcessFlags(escapeCmd)
	escapeCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = clock)")
	escapeCmd.Flags().Float64Var(&threshold, "threshold", 0.0, "escape threshold")
	escapeCmd.Flags().IntVar(&nsamples, "samples", 200, "number of realizations")
	escapeCmd.Flags().IntVar(&bins, "bins", 20, "histogram bins")
	escapeCmd.Flags().BoolVar(&standard, "standardize", false, "standardize samples before binning")

	liveCmd := &cobra.Command{
		Use:   "live [process]",
		Short: "watch the density evolve",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addProcessFlags(liveCmd)
	addGridFlags(liveCmd)
	liveCmd.Flags().StringVar(&method, "method", "cn", "time-stepping method")
	liveCmd.Flags().Float64Var(&frameStep, "step", 0.1, "time between frames")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [process]",
		Short: "list available presets for a process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for process: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(trajectoryCmd, ensembleCmd, densityCmd, shorttimeCmd, escapeCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addProcessFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	cmd.Flags().Float64Var(&duration, "time", 10.0, "duration")
	cmd.Flags().Float64Var(&x0, "x0", 0.0, "initial state")
	cmd.Flags().Float64Var(&t0, "t0", 0.0, "initial time")
	cmd.Flags().Float64Var(&mu, "mu", 0.0, "mean (ou)")
	cmd.Flags().Float64Var(&theta, "theta", 1.0, "relaxation rate (ou)")
	cmd.Flags().Float64Var(&dnoise, "D", 0.5, "noise amplitude")
	cmd.Flags().Float64Var(&famp, "famp", 0.0, "forcing amplitude (doublewell)")
	cmd.Flags().Float64Var(&fomega, "omega", 0.0, "forcing frequency (doublewell)")
}

func addGridFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&lower, "lower", -10.0, "domain lower bound")
	cmd.Flags().Float64Var(&upper, "upper", 10.0, "domain upper bound")
	cmd.Flags().IntVar(&npts, "npts", 100, "grid points")
	cmd.Flags().StringVar(&bleft, "boundary-left", "absorbing", "left boundary condition")
	cmd.Flags().StringVar(&bright, "boundary-right", "absorbing", "right boundary condition")
}

// buildProcess constructs the named one-dimensional process from the
// current parameter flags.
func buildProcess(name string) (*process.Scalar, error) {
	switch name {
	case "ou":
		amp := math.Sqrt(2 * dnoise)
		return process.NewScalar(
			func(x, t float64) float64 { return theta * (mu - x) },
			func(x, t float64) float64 { return amp },
		)
	case "wiener":
		amp := math.Sqrt(2 * dnoise)
		return process.NewScalar(
			func(x, t float64) float64 { return 0 },
			func(x, t float64) float64 { return amp },
		)
	case "doublewell":
		return process.NewDoubleWell(famp, fomega, dnoise)
	case "saddlenode":
		return process.NewSaddleNode(dnoise)
	default:
		return nil, fmt.Errorf("unknown process: %s (available: ou, wiener, doublewell, saddlenode)", name)
	}
}

// applyPreset overlays a named preset onto the parameter flags; explicitly
// set flags win.
func applyPreset(cmd *cobra.Command, name string) error {
	cfg := config.GetPreset(name, preset)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
	}
	if !cmd.Flags().Changed("dt") {
		dt = cfg.Dt
	}
	if !cmd.Flags().Changed("time") {
		duration = cfg.Duration
	}
	if f := cmd.Flags().Lookup("scheme"); f != nil && !f.Changed && cfg.Scheme != "" {
		scheme = cfg.Scheme
	}
	if f := cmd.Flags().Lookup("method"); f != nil && !f.Changed && cfg.Method != "" {
		method = cfg.Method
	}
	if !cmd.Flags().Changed("x0") && len(cfg.X0) > 0 {
		x0 = cfg.X0[0]
	}
	if !cmd.Flags().Changed("mu") {
		mu = cfg.Params.Mu
	}
	if !cmd.Flags().Changed("theta") {
		theta = cfg.Params.Theta
	}
	if !cmd.Flags().Changed("D") {
		dnoise = cfg.Params.D
	}
	if !cmd.Flags().Changed("famp") {
		famp = cfg.Params.Famp
	}
	if !cmd.Flags().Changed("omega") {
		fomega = cfg.Params.Omega
	}
	if cfg.Grid.Npts != 0 {
		if f := cmd.Flags().Lookup("lower"); f != nil && !f.Changed {
			lower = cfg.Grid.Lower
		}
		if f := cmd.Flags().Lookup("upper"); f != nil && !f.Changed {
			upper = cfg.Grid.Upper
		}
		if f := cmd.Flags().Lookup("npts"); f != nil && !f.Changed {
			npts = cfg.Grid.Npts
		}
		if f := cmd.Flags().Lookup("boundary-left"); f != nil && !f.Changed {
			bleft = cfg.Grid.BoundaryLeft
		}
		if f := cmd.Flags().Lookup("boundary-right"); f != nil && !f.Changed {
			bright = cfg.Grid.BoundaryRight
		}
	}
	return nil
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	name := args[0]

	if preset != "" {
		if err := applyPreset(cmd, name); err != nil {
			return err
		}
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cmd.Flags().Changed("dt") {
			dt = cfg.Dt
		}
		if !cmd.Flags().Changed("time") {
			duration = cfg.Duration
		}
		if !cmd.Flags().Changed("scheme") && cfg.Scheme != "" {
			scheme = cfg.Scheme
		}
		if !cmd.Flags().Changed("x0") && len(cfg.X0) > 0 {
			x0 = cfg.X0[0]
		}
		if cfg.Seed != 0 && !cmd.Flags().Changed("seed") {
			seed = cfg.Seed
		}
	}

	p, err := buildProcess(name)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("integrating %s sample path...\n", name)
	start := time.Now()

	traj, err := sde.Integrate(p, process.State{x0}, t0, sde.Options{
		Scheme:     scheme,
		Dt:         dt,
		T:          duration,
		Seed:       seed,
		FiniteOnly: true,
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.SaveTrajectory(name, seed, dt, duration, scheme, traj)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(traj.States))

	if len(traj.States) > 0 {
		series := traj.Component(0)
		fmt.Printf("final x: %.6f\n", series[len(series)-1])
		if bt, ok := analysis.BlowupTime(traj.Times, series); ok && bt < traj.Times[len(traj.Times)-1] {
			fmt.Printf("last finite sample at t=%.4f\n", bt)
		}
	}

	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	name := args[0]

	p, err := buildProcess(name)
	if err != nil {
		return err
	}

	nsteps := int(duration / dt)
	fmt.Printf("averaging %d sample paths of %s...\n", nsamples, name)
	start := time.Now()

	mean, err := sde.SampleMean(p, process.State{x0}, t0, nsteps, nsamples, sde.Options{
		Scheme: scheme,
		Dt:     dt,
		Seed:   seed,
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("completed in %v\n\n", elapsed)

	fmt.Println(viz.Series(mean.Times, mean.Component(0), "ensemble mean", 80, 12))
	return nil
}

func runDensity(cmd *cobra.Command, args []string) error {
	name := args[0]

	if preset != "" {
		if err := applyPreset(cmd, name); err != nil {
			return err
		}
	}

	p, err := buildProcess(name)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	opts := fokkerplanck.Options{
		Bounds:   [2]float64{lower, upper},
		Npts:     npts,
		Dt:       0, // derived from the diffusion unless --dt is set
		Boundary: [2]string{bleft, bright},
		Method:   method,
	}
	if cmd.Flags().Changed("dt") {
		opts.Dt = dt
	}

	kind := "forward"
	var sol *fokkerplanck.Solution
	start := time.Now()
	if adjoint {
		kind = "backward"
		b := fokkerplanck.NewBackward(p.DriftAt, func(x, t float64) float64 {
			s := p.DiffusionAt(x, t)
			return 0.5 * s * s
		})
		sol, err = b.Solve(t0, duration, opts)
	} else {
		sol, err = fokkerplanck.FromProcess(p).Solve(t0, duration, opts)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.SaveDensity(name, opts.Dt, duration, method, sol)
	if err != nil {
		return err
	}

	fmt.Printf("solved %s equation in %v\n", kind, elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("final time: %.4f\n", sol.T)
	fmt.Printf("mass: %.6f\n\n", fokkerplanck.Mass(sol.X, sol.P))

	fmt.Println(viz.Density(sol.X, sol.P, "P(x, t)", 80, 14))
	return nil
}

func runShortTime(cmd *cobra.Command, args []string) error {
	name := args[0]

	p, err := buildProcess(name)
	if err != nil {
		return err
	}

	prop, err := fokkerplanck.NewShortTimePropagator(p.DriftAt, func(x, t float64) float64 {
		s := p.DiffusionAt(x, t)
		return 0.5 * s * s
	}, tau)
	if err != nil {
		return err
	}

	start := time.Now()
	sol, err := prop.Solve(t0, duration, fokkerplanck.Options{
		Bounds: [2]float64{lower, upper},
		Npts:   npts,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("propagated to t=%.4f in %v\n", sol.T, elapsed)
	fmt.Printf("mass: %.6f\n\n", fokkerplanck.Mass(sol.X, sol.P))
	fmt.Println(viz.Density(sol.X, sol.P, "P(x, t)", 80, 14))
	return nil
}

func runEscape(cmd *cobra.Command, args []string) error {
	name := args[0]

	p, err := buildProcess(name)
	if err != nil {
		return err
	}

	s := seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}

	fmt.Printf("sampling %d escapes of %s over threshold %g...\n", nsamples, name, threshold)
	start := time.Now()
	samples := analysis.EscapeTimeSample(p, x0, t0, threshold, dt, nsamples, s)
	elapsed := time.Since(start)

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("mean escape time: %.6f\n\n", mean)

	centers, density, err := analysis.EscapeTimePDF(samples, bins, standard)
	if err != nil {
		return err
	}
	fmt.Println(viz.Density(centers, density, "escape-time density", 80, 12))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	name := args[0]

	p, err := buildProcess(name)
	if err != nil {
		return err
	}

	opts := fokkerplanck.Options{
		Bounds:   [2]float64{lower, upper},
		Npts:     npts,
		Boundary: [2]string{bleft, bright},
		Method:   method,
	}
	if cmd.Flags().Changed("dt") {
		opts.Dt = dt
	}

	iter := fokkerplanck.FromProcess(p).Snapshots(t0, fokkerplanck.Ticks(t0+frameStep, frameStep), opts)

	m := tui.NewLive(fmt.Sprintf("%s density", name), iter)
	prog := tea.NewProgram(m)
	if _, err := prog.Run(); err != nil {
		return err
	}
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
	fmt.Fprintln(w, "ID\tKIND\tPROCESS\tTIME\tDURATION\tDT\tSCHEME\tMETHOD")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Kind,
			run.Process,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Scheme,
			run.Method,
		)
	}

	return w.Flush()
}

func runFile(kind string) string {
	if kind == "density" {
		return "density.csv"
	}
	return "trajectory.csv"
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	first, rest, err := st.LoadSeries(runID, runFile(meta.Kind))
	if err != nil {
		return err
	}

	if len(rest) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("process: %s\n", meta.Process)
	fmt.Printf("samples: %d\n\n", len(rest))

	values := make([]float64, len(rest))
	for i := range rest {
		if len(rest[i]) > 0 {
			values[i] = rest[i][0]
		}
	}

	if meta.Kind == "density" {
		fmt.Println(viz.Density(first, values, "P(x)", 80, 14))
		return nil
	}
	fmt.Println(viz.Series(first, values, "x vs time", 80, 14))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	first, rest, err := st.LoadSeries(runID, runFile(meta.Kind))
	if err != nil {
		return err
	}

	if len(rest) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	if meta.Kind == "density" {
		header = []string{"x"}
	}
	for i := range rest[0] {
		header = append(header, fmt.Sprintf("v%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range rest {
		row := []string{strconv.FormatFloat(first[i], 'f', 6, 64)}
		for _, val := range rest[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}
