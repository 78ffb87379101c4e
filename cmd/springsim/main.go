package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
)

const debugLogFile = "springsim.log"

var (
	configFile string
	preset     string
	pos        float64
	vel        float64
	mass       float64
	anchor     float64
	damping    float64
	stiffness  float64
	dt         float64
	steps      int
	frameRate  int
	surface    string
	radius     float64
	debug      bool

	format      string
	sweepParam  string
	sweepValues string
	frames      int
	force       bool

	logFile *os.File
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:                "springsim",
		Short:              "damped spring simulation in the terminal",
		SilenceUsage:       true,
		RunE:               runLive,
		PersistentPreRunE:  setupLogging,
		PersistentPostRunE: closeLogging,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file path (yaml)")
	flags.StringVar(&preset, "preset", "", "use preset configuration")
	flags.Float64Var(&pos, "pos", dynamo.DefaultPosition, "initial position")
	flags.Float64Var(&vel, "vel", dynamo.DefaultVelocity, "initial velocity")
	flags.Float64Var(&mass, "mass", dynamo.DefaultMass, "mass")
	flags.Float64Var(&anchor, "anchor", dynamo.DefaultAnchor, "spring anchor position")
	flags.Float64Var(&damping, "damping", dynamo.DefaultDamping, "damping coefficient")
	flags.Float64Var(&stiffness, "stiffness", dynamo.DefaultStiffness, "spring stiffness")
	flags.Float64Var(&dt, "dt", dynamo.DefaultDt, "timestep")
	flags.IntVar(&steps, "steps", config.DefaultSteps, "steps for headless runs")
	flags.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	flags.StringVar(&surface, "surface", config.SurfaceTcell, "display surface (tcell, tui, headless)")
	flags.Float64Var(&radius, "radius", config.DefaultRadius, "radius of the drawn mass")
	flags.BoolVar(&debug, "debug", false, "write diagnostics to "+debugLogFile)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation on a display surface",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and print the trajectory",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&format, "format", "table", "output format (table, csv, json)")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "plot position, velocity and energy of a headless run",
		Args:  cobra.NoArgs,
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "stability and frequency analysis",
		Args:  cobra.NoArgs,
		RunE:  analyzeParams,
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare the integrator with the analytic spring",
		Args:  cobra.NoArgs,
		RunE:  compareReference,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a parameter sweep in parallel",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "damping", "parameter to sweep ("+strings.Join(dynamo.ParamNames(), ", ")+")")
	sweepCmd.Flags().StringVar(&sweepValues, "values", "0,0.02,0.1,0.3,0.5325,0.9", "comma separated values")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file with the resolved settings",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	patternCmd := &cobra.Command{
		Use:   "pattern",
		Short: "animated color pattern demo",
		Args:  cobra.NoArgs,
		RunE:  runPattern,
	}
	patternCmd.Flags().IntVar(&frames, "frames", 0, "stop after this many frames (0 runs until quit)")

	rootCmd.AddCommand(liveCmd, runCmd, plotCmd, analyzeCmd, compareCmd, sweepCmd, presetsCmd, configCmd, patternCmd)
	return rootCmd
}

// setupLogging routes the standard logger to a file when --debug is set.
// The terminal belongs to the display surface, so logs never go to stderr.
func setupLogging(cmd *cobra.Command, args []string) error {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := tea.LogToFile(debugLogFile, "springsim")
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	logFile = f
	log.Printf("command %s", cmd.CommandPath())
	return nil
}

func closeLogging(cmd *cobra.Command, args []string) error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// resolveConfig applies defaults, then the preset, then the config file and
// finally any flag given explicitly on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("pos") {
		cfg.Position = pos
	}
	if changed("vel") {
		cfg.Velocity = vel
	}
	if changed("mass") {
		cfg.Mass = mass
	}
	if changed("anchor") {
		cfg.Anchor = anchor
	}
	if changed("damping") {
		cfg.Damping = damping
	}
	if changed("stiffness") {
		cfg.Stiffness = stiffness
	}
	if changed("dt") {
		cfg.Dt = dt
	}
	if changed("steps") {
		cfg.Steps = steps
	}
	if changed("fps") {
		cfg.FPS = frameRate
	}
	if changed("surface") {
		cfg.Surface = surface
	}
	if changed("radius") {
		cfg.Radius = radius
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Printf("resolved config: %+v", *cfg)
	return cfg, nil
}
