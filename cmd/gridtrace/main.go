package main

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pmeridian/gridtrace/internal/config"
	"github.com/pmeridian/gridtrace/internal/cpf"
	"github.com/pmeridian/gridtrace/internal/export"
	"github.com/pmeridian/gridtrace/internal/network"
	"github.com/pmeridian/gridtrace/internal/powerflow"
	"github.com/pmeridian/gridtrace/internal/store"
	"github.com/pmeridian/gridtrace/internal/sweep"
	"github.com/pmeridian/gridtrace/internal/viz"
)

const version = "0.3.0"

var (
	configFile string
	preset     string
	targetFile string
	scale      float64
	step       float64
	param      string
	adapt      bool
	stepMin    float64
	stepMax    float64
	errorTol   float64
	tol        float64
	maxIt      int
	stopAt     string
	verbose    int
	live       bool
	jsonOut    string
	csvOut     string
	svgOut     string
	archiveDir string
	plotBus    int

	sweepFrom   float64
	sweepTo     float64
	sweepPoints int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridtrace",
		Short: "AC continuation power flow tracer",
	}

	traceCmd := &cobra.Command{
		Use:   "trace [case.yaml]",
		Short: "trace the continuation curve from base to target loading",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrace,
	}
	traceCmd.Flags().StringVar(&configFile, "config", "", "trace settings file (flags override it)")
	traceCmd.Flags().StringVar(&preset, "preset", "", "named trace preset (flags override it)")
	traceCmd.Flags().StringVar(&targetFile, "target", "", "target case file (defaults to scaled base case)")
	traceCmd.Flags().Float64Var(&scale, "scale", 2.0, "load/generation scale for the synthesized target case")
	traceCmd.Flags().Float64Var(&step, "step", 0.05, "initial continuation step length")
	traceCmd.Flags().StringVar(&param, "param", "pseudo", "parameterization: natural, arc or pseudo")
	traceCmd.Flags().BoolVar(&adapt, "adapt", false, "adapt step size to prediction error")
	traceCmd.Flags().Float64Var(&stepMin, "step-min", 1e-4, "minimum adaptive step")
	traceCmd.Flags().Float64Var(&stepMax, "step-max", 0.2, "maximum adaptive step")
	traceCmd.Flags().Float64Var(&errorTol, "error-tol", 1e-3, "adaptive step target prediction error")
	traceCmd.Flags().Float64Var(&tol, "tol", 1e-6, "corrector convergence tolerance")
	traceCmd.Flags().IntVar(&maxIt, "max-it", 20, "corrector iteration cap")
	traceCmd.Flags().StringVar(&stopAt, "stop-at", "NOSE", "NOSE, FULL or a numeric lambda")
	traceCmd.Flags().IntVarP(&verbose, "verbose", "v", 0, "0 silent, 1 per-step, 2 per-iteration")
	traceCmd.Flags().BoolVar(&live, "live", false, "live terminal view of the trace")
	traceCmd.Flags().StringVar(&jsonOut, "json", "", "write trace result to a JSON file")
	traceCmd.Flags().StringVar(&csvOut, "csv", "", "write trajectory to a CSV file")
	traceCmd.Flags().StringVar(&svgOut, "svg", "", "write the nose curve of the plotted bus to an SVG file")
	traceCmd.Flags().StringVar(&archiveDir, "save", "", "archive the run under this directory")
	traceCmd.Flags().IntVar(&plotBus, "plot", -1, "plot the nose curve of this bus index")

	sweepCmd := &cobra.Command{
		Use:   "sweep [case.yaml]",
		Short: "trace the loading margin over a range of target scale factors",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 1.5, "lowest target scale factor")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 4.0, "highest target scale factor")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 6, "number of scale factors")
	sweepCmd.Flags().Float64Var(&step, "step", 0.05, "initial continuation step length")
	sweepCmd.Flags().StringVar(&param, "param", "pseudo", "parameterization: natural, arc or pseudo")
	sweepCmd.Flags().Float64Var(&tol, "tol", 1e-6, "corrector convergence tolerance")
	sweepCmd.Flags().IntVar(&maxIt, "max-it", 20, "corrector iteration cap")

	pfCmd := &cobra.Command{
		Use:   "pf [case.yaml]",
		Short: "solve a plain Newton power flow",
		Args:  cobra.ExactArgs(1),
		RunE:  runPF,
	}
	pfCmd.Flags().Float64Var(&tol, "tol", 1e-6, "convergence tolerance")
	pfCmd.Flags().IntVar(&maxIt, "max-it", 20, "iteration cap")
	pfCmd.Flags().IntVarP(&verbose, "verbose", "v", 0, "0 silent, 1 per-iteration")

	runsCmd := &cobra.Command{
		Use:   "runs [dir]",
		Short: "list archived trace runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named trace presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("gridtrace", version)
		},
	}

	rootCmd.AddCommand(traceCmd, sweepCmd, pfCmd, runsCmd, presetsCmd, versionCmd)
	return rootCmd
}

func loadModel(path string) (*network.Case, *network.CMatrix, []complex128, network.IndexSets, error) {
	c, err := network.LoadCase(path)
	if err != nil {
		return nil, nil, nil, network.IndexSets{}, err
	}
	sets, err := network.BusIndexSets(c)
	if err != nil {
		return nil, nil, nil, network.IndexSets{}, err
	}
	return c, network.BuildYbus(c), network.BuildSbus(c), sets, nil
}

// traceOptions resolves options from preset, config file and flags in
// increasing priority. Only flags the user actually set override the file.
func traceOptions(cmd *cobra.Command) (cpf.Options, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return cpf.Options{}, fmt.Errorf("unknown preset %q", preset)
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return cpf.Options{}, err
		}
		cfg = loaded
	}

	opts, err := cfg.TraceOptions()
	if err != nil {
		return opts, err
	}
	if cfg.Scale != 0 && !cmd.Flags().Changed("scale") {
		scale = cfg.Scale
	}

	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("step", func() { opts.Step = step })
	set("adapt", func() { opts.AdaptStep = adapt })
	set("step-min", func() { opts.StepMin = stepMin })
	set("step-max", func() { opts.StepMax = stepMax })
	set("error-tol", func() { opts.ErrorTol = errorTol })
	set("tol", func() { opts.Tol = tol })
	set("max-it", func() { opts.MaxIt = maxIt })
	if cmd.Flags().Changed("param") {
		if opts.Parameterization, err = cpf.ParseParameterization(param); err != nil {
			return opts, err
		}
	}
	if cmd.Flags().Changed("stop-at") {
		if opts.StopAt, err = cpf.ParseStopAt(stopAt); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	base, ybus, sbase, sets, err := loadModel(args[0])
	if err != nil {
		return err
	}

	opts, err := traceOptions(cmd)
	if err != nil {
		return err
	}

	var starget []complex128
	if targetFile != "" {
		target, err := network.LoadCase(targetFile)
		if err != nil {
			return err
		}
		if len(target.Buses) != len(base.Buses) {
			return fmt.Errorf("target case has %d buses, base has %d", len(target.Buses), len(base.Buses))
		}
		starget = network.BuildSbus(target)
	} else {
		starget = network.BuildSbus(base.Scale(scale))
	}

	// converged base-case solution to start the continuation from
	v0 := network.InitialVoltage(base)
	vbase, converged, iters, normF, err := powerflow.NewtonPF(ybus, sbase, v0, sets, opts.Tol, opts.MaxIt, nil)
	if err != nil {
		return err
	}
	if !converged {
		return fmt.Errorf("base case power flow did not converge in %d iterations (normF %.3e)", iters, normF)
	}

	tracer := cpf.New(ybus, sbase, starget, vbase, sets)

	if live {
		model := viz.NewLiveModel(base.Name)
		tracer.AddObserver(model.Observer())

		result, err := viz.RunLive(model, func() (*cpf.Result, error) {
			return tracer.Run(opts)
		})
		if err != nil {
			if result == nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "trace aborted:", err)
		}
		return report(base.Name, opts, result)
	}

	if verbose > 0 {
		tracer.AddObserver(cpf.NewVerboseObserver(os.Stdout, verbose))
	}
	result, err := tracer.Run(opts)
	if err != nil {
		// rejected options carry no trajectory at all
		if result == nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "trace aborted:", err)
	}
	return report(base.Name, opts, result)
}

func report(caseName string, opts cpf.Options, result *cpf.Result) error {
	fmt.Print(viz.Summary(caseName, opts, result))
	if plotBus >= 0 {
		fmt.Println()
		fmt.Println(viz.PVCurve(result, plotBus, 64, 12))
	}
	if jsonOut != "" {
		if err := store.ExportJSON(jsonOut, caseName, opts, result); err != nil {
			return err
		}
	}
	if csvOut != "" {
		if err := store.ExportCSV(csvOut, result); err != nil {
			return err
		}
	}
	if svgOut != "" {
		bus := plotBus
		if bus < 0 {
			bus = 0
		}
		if err := export.WritePVCurveSVG(svgOut, result, bus); err != nil {
			return err
		}
	}
	if archiveDir != "" {
		archive := store.NewArchive(archiveDir)
		if err := archive.Init(); err != nil {
			return err
		}
		runID, err := archive.Save(caseName, opts, result)
		if err != nil {
			return err
		}
		fmt.Println("archived as", runID)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	c, err := network.LoadCase(args[0])
	if err != nil {
		return err
	}

	opts := cpf.DefaultOptions()
	opts.Step = step
	opts.Tol = tol
	opts.MaxIt = maxIt
	if opts.Parameterization, err = cpf.ParseParameterization(param); err != nil {
		return err
	}

	s, err := sweep.New(c, opts.Tol, opts.MaxIt)
	if err != nil {
		return err
	}
	points, err := s.Run(context.Background(), sweep.Linspace(sweepFrom, sweepTo, sweepPoints), opts)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "scale\tlambda_max\tsteps\tresult")
	for _, p := range points {
		status := "ok"
		if !p.Success {
			status = p.Reason
		}
		fmt.Fprintf(w, "%.3f\t%.4f\t%d\t%s\n", p.Scale, p.MaxLambda, p.Steps, status)
	}
	return w.Flush()
}

func runRuns(cmd *cobra.Command, args []string) error {
	archive := store.NewArchive(args[0])
	runs, err := archive.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no archived runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tcase\twhen\tstop\tsteps\tlambda_max\tresult")
	for _, r := range runs {
		status := "ok"
		if !r.Success {
			status = r.Reason
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.4f\t%s\n",
			r.ID, r.Case, r.Timestamp.Format("2006-01-02 15:04"), r.StopAt, r.Steps, r.MaxLambda, status)
	}
	return w.Flush()
}

func runPF(cmd *cobra.Command, args []string) error {
	c, ybus, sbus, sets, err := loadModel(args[0])
	if err != nil {
		return err
	}

	var onIter powerflow.IterFunc
	if verbose > 0 {
		onIter = func(it int, normF float64) {
			fmt.Printf("  it %3d  normF %10.3e\n", it, normF)
		}
	}

	v, converged, iters, normF, err := powerflow.NewtonPF(ybus, sbus, network.InitialVoltage(c), sets, tol, maxIt, onIter)
	if err != nil {
		return err
	}
	if !converged {
		return fmt.Errorf("did not converge in %d iterations (normF %.3e)", iters, normF)
	}

	fmt.Printf("converged in %d iterations, normF %.3e\n\n", iters, normF)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "bus\ttype\tVm (pu)\tVa (deg)")
	for i, bus := range c.Buses {
		fmt.Fprintf(w, "%d\t%s\t%.4f\t%.3f\n", i, bus.Type, cmplx.Abs(v[i]), cmplx.Phase(v[i])*180/math.Pi)
	}
	return w.Flush()
}
