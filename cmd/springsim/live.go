package main

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/viz"
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	state, err := dynamo.New(cfg.Params())
	if err != nil {
		return err
	}

	surf, observer, err := newSurface(cfg)
	if err != nil {
		return err
	}

	loop := sim.NewLoop(physics.NewSpringDamper(), integrators.NewSemiImplicitEuler(), surf, state)
	loop.SetRadius(cfg.Radius)
	if observer != nil {
		loop.AddObserver(observer)
	}

	log.Printf("live on %s surface at %d fps", cfg.Surface, cfg.FPS)
	if err := loop.Run(cmd.Context()); err != nil {
		return err
	}

	final := loop.State()
	fmt.Printf("%s after %d frames\n", loop.Status(), loop.Frames())
	fmt.Printf("  position: %.6f\n", final.Position)
	fmt.Printf("  velocity: %.6f\n", final.Velocity)
	fmt.Printf("  displacement from anchor: %.6f\n", final.Displacement())
	if !final.IsValid() {
		fmt.Println("  state diverged (try a smaller --dt or --stiffness)")
	}
	return nil
}

// newSurface builds the display named by cfg.Surface. The observer, when
// non-nil, wants every sample the loop produces for its status display.
func newSurface(cfg *config.Config) (dynamo.Surface, dynamo.Observer, error) {
	switch cfg.Surface {
	case config.SurfaceTcell:
		sc, err := viz.NewScreen(cfg.FPS)
		if err != nil {
			return nil, nil, fmt.Errorf("open terminal: %w", err)
		}
		return sc, sc, nil
	case config.SurfaceTUI:
		t := viz.NewTUISurface("springsim", cfg.FPS, tea.WithAltScreen())
		return t, t, nil
	case config.SurfaceHeadless:
		return viz.NewRecorder(cfg.Steps), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown surface: %s", cfg.Surface)
	}
}
