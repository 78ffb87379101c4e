package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/analysis"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/viz"
)

// headless runs cfg for cfg.Steps steps with the default metrics attached.
func headless(cmd *cobra.Command, cfg *config.Config) (*dynamo.Result, error) {
	state, err := dynamo.New(cfg.Params())
	if err != nil {
		return nil, err
	}

	s := sim.New(physics.NewSpringDamper(), integrators.NewSemiImplicitEuler())
	for _, m := range metrics.Defaults(cfg.Params()) {
		s.AddMetric(m)
	}
	s.SetValidateState(cfg.ValidateState)

	result, err := s.Run(cmd.Context(), state, cfg.Steps)
	if err != nil {
		return nil, err
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %v\n", e)
	}
	return result, nil
}

func sortedMetrics(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type jsonSample struct {
	Step     int     `json:"step"`
	Time     float64 `json:"time"`
	Position float64 `json:"position"`
	Velocity float64 `json:"velocity"`
	NetForce float64 `json:"net_force"`
	Energy   float64 `json:"energy"`
}

type jsonRun struct {
	Config  *config.Config     `json:"config"`
	Metrics map[string]float64 `json:"metrics"`
	Samples []jsonSample       `json:"samples"`
	Errors  []string           `json:"errors,omitempty"`
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := headless(cmd, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	switch format {
	case "table":
		fmt.Printf("completed in %v\n", elapsed)
		fmt.Printf("steps: %d\n", result.StepsTaken)
		fmt.Println("\nmetrics:")
		for _, name := range sortedMetrics(result.Metrics) {
			fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
		}
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tTIME\tPOSITION\tVELOCITY\tNET FORCE\tENERGY")
		for _, s := range result.Samples {
			fmt.Fprintf(w, "%d\t%.2f\t%.6f\t%.6f\t%.6f\t%.6e\n", s.Step, s.Time, s.Position, s.Velocity, s.Forces.Net, s.Energy)
		}
		return w.Flush()

	case "csv":
		w := csv.NewWriter(os.Stdout)
		if err := w.Write([]string{"step", "time", "position", "velocity", "net_force", "energy"}); err != nil {
			return err
		}
		for _, s := range result.Samples {
			row := []string{
				strconv.Itoa(s.Step),
				strconv.FormatFloat(s.Time, 'g', -1, 64),
				strconv.FormatFloat(s.Position, 'g', -1, 64),
				strconv.FormatFloat(s.Velocity, 'g', -1, 64),
				strconv.FormatFloat(s.Forces.Net, 'g', -1, 64),
				strconv.FormatFloat(s.Energy, 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()

	case "json":
		out := jsonRun{
			Config:  cfg,
			Metrics: result.Metrics,
			Samples: make([]jsonSample, len(result.Samples)),
		}
		for i, s := range result.Samples {
			out.Samples[i] = jsonSample{s.Step, s.Time, s.Position, s.Velocity, s.Forces.Net, s.Energy}
		}
		for _, e := range result.Errors {
			out.Errors = append(out.Errors, e.Error())
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)

	default:
		return fmt.Errorf("unknown format: %s (want table, csv or json)", format)
	}
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	result, err := headless(cmd, cfg)
	if err != nil {
		return err
	}
	if len(result.Samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("samples: %d  dt: %g  damping: %g  stiffness: %g\n\n", len(result.Samples), cfg.Dt, cfg.Damping, cfg.Stiffness)

	series := []struct {
		caption string
		data    []float64
	}{
		{"position", result.Positions()},
		{"velocity", result.Velocities()},
		{"energy", result.Energies()},
	}
	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeParams(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	p := cfg.Params()

	m := analysis.StepMatrix(p)
	l1, l2 := analysis.Eigenvalues(m)
	radius := analysis.SpectralRadius(m)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "step matrix\t[%.4f %.4f; %.4f %.4f]\n", m[0][0], m[0][1], m[1][0], m[1][1])
	fmt.Fprintf(w, "eigenvalues\t%.6f, %.6f\n", l1, l2)
	fmt.Fprintf(w, "spectral radius\t%.6f\n", radius)
	if analysis.Stable(p) {
		fmt.Fprintln(w, "verdict\tstable, converges to the anchor")
	} else {
		fmt.Fprintln(w, "verdict\tunstable, diverges")
	}
	fmt.Fprintf(w, "natural frequency\t%.4f\n", analysis.NaturalFrequency(p))
	if err := w.Flush(); err != nil {
		return err
	}

	result, err := headless(cmd, cfg)
	if err != nil {
		return err
	}
	positions := result.Positions()
	freq, err := analysis.DominantFrequency(positions, p.Dt)
	if err != nil {
		return err
	}

	ps := analysis.PowerSpectrum(positions)
	if plotData := ps[1 : len(ps)/4+1]; len(plotData) >= 2 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (position)"),
		))
	}
	fmt.Println()

	fmt.Printf("dominant frequency: %.4f\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f\n", 1.0/freq)
	}
	return nil
}

func compareReference(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	result, err := headless(cmd, cfg)
	if err != nil {
		return err
	}
	ref, err := analysis.Reference(cfg.Params(), cfg.Steps)
	if err != nil {
		return err
	}

	euler := result.Positions()
	maxDev, rms := analysis.Compare(euler, ref)
	omega, zeta := analysis.ContinuousParams(cfg.Params())

	fmt.Printf("semi-implicit euler vs analytic spring (omega=%.4f, zeta=%.4f)\n\n", omega, zeta)
	fmt.Println(asciigraph.PlotMany([][]float64{euler, ref},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption("position: euler (blue), reference (red)"),
	))
	fmt.Println()
	fmt.Printf("%-16s  %12s\n", "max deviation", fmt.Sprintf("%.6f", maxDev))
	fmt.Printf("%-16s  %12s\n", "rms deviation", fmt.Sprintf("%.6f", rms))
	fmt.Println(strings.Repeat("-", 30))
	fmt.Printf("%-16s  %12.6f\n", "final euler", euler[len(euler)-1])
	fmt.Printf("%-16s  %12.6f\n", "final reference", ref[len(ref)-1])
	return nil
}

func parseValues(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("bad sweep value %q: %w", field, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	values, err := parseValues(sweepValues)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := sim.Sweep(cmd.Context(), cfg.Params(), sweepParam, values, cfg.Steps, metrics.Defaults)
	if err != nil {
		return err
	}

	fmt.Printf("sweep of %s over %d values, %d steps each (%v)\n\n", sweepParam, len(values), cfg.Steps, time.Since(start))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(sweepParam)+"\tRADIUS\tENERGY DECAY\tPEAK\tSETTLE STEP\tSTABILITY\tFINAL X")
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%.4f\t%.4f\t%.4f\t%.0f\t%.2f\t%.6f\n",
			r.Value,
			analysis.SpectralRadius(analysis.StepMatrix(r.Params)),
			r.Result.Metrics["energy_decay"],
			r.Result.Metrics["peak_displacement"],
			r.Result.Metrics["settle_step"],
			r.Result.Metrics["stability"],
			r.Result.Final().Position,
		)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDAMPING\tSTIFFNESS\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%g\t%g\t%s\n", name, p.Config.Damping, p.Config.Stiffness, p.Description)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "springsim.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runPattern(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ps, err := viz.NewPatternScreen(cfg.FPS)
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := ps.Run(cmd.Context(), frames); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Printf("pattern stopped after %d frames\n", ps.Frames())
	return nil
}
