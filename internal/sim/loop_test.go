package sim_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/viz"
)

// failingSurface reports active until its Show fails on the given frame.
type failingSurface struct {
	failOn int
	shown  int
	closes int
	err    error
}

func (f *failingSurface) Circle(x, y, radius float64) {}
func (f *failingSurface) Running() bool                { return true }
func (f *failingSurface) Close() error                 { f.closes++; return nil }
func (f *failingSurface) Show() error {
	f.shown++
	if f.shown == f.failOn {
		return f.err
	}
	return nil
}

type stepLog struct{ samples []dynamo.Sample }

func (s *stepLog) OnStep(sample dynamo.Sample) { s.samples = append(s.samples, sample) }

var _ = Describe("Loop", func() {
	var (
		state *dynamo.State
		model *physics.SpringDamper
		integ *integrators.SemiImplicitEuler
	)

	BeforeEach(func() {
		var err error
		state, err = dynamo.New(dynamo.DefaultParams())
		Expect(err).NotTo(HaveOccurred())
		model = physics.NewSpringDamper()
		integ = integrators.NewSemiImplicitEuler()
	})

	It("starts RUNNING", func() {
		loop := sim.NewLoop(model, integ, viz.NewRecorder(1), state)
		Expect(loop.Status()).To(Equal(sim.Running))
		Expect(loop.Status().String()).To(Equal("RUNNING"))
	})

	Context("with a surface active for a fixed number of frames", func() {
		It("steps and presents once per frame, then stops", func() {
			surface := viz.NewRecorder(5)
			loop := sim.NewLoop(model, integ, surface, state)

			Expect(loop.Run(context.Background())).To(Succeed())

			Expect(loop.Status()).To(Equal(sim.Stopped))
			Expect(loop.Frames()).To(Equal(5))
			Expect(surface.Frames()).To(Equal(5))
			Expect(surface.CloseCount()).To(Equal(1))
		})

		It("draws the position after each step on the fixed row", func() {
			surface := viz.NewRecorder(2)
			loop := sim.NewLoop(model, integ, surface, state)

			Expect(loop.Run(context.Background())).To(Succeed())

			Expect(surface.Trace()).To(HaveLen(2))
			Expect(surface.Trace()[0]).To(BeNumerically("~", 0.23, 1e-12))
			Expect(surface.Trace()[1]).To(BeNumerically("~", 0.2864, 1e-12))
			Expect(surface.Frame(0)).To(ConsistOf(viz.Point{X: surface.Trace()[0], Y: sim.DefaultRow, Radius: sim.DefaultRadius}))
		})

		It("honours a custom radius and row", func() {
			surface := viz.NewRecorder(1)
			loop := sim.NewLoop(model, integ, surface, state)
			loop.SetRadius(5)
			loop.SetRow(0.25)

			Expect(loop.Run(context.Background())).To(Succeed())
			Expect(surface.Frame(0)[0].Radius).To(Equal(5.0))
			Expect(surface.Frame(0)[0].Y).To(Equal(0.25))
		})

		It("feeds observers every post-step sample", func() {
			log := &stepLog{}
			loop := sim.NewLoop(model, integ, viz.NewRecorder(3), state)
			loop.AddObserver(log)

			Expect(loop.Run(context.Background())).To(Succeed())
			Expect(log.samples).To(HaveLen(3))
			Expect(log.samples[0].Step).To(Equal(1))
			Expect(log.samples[0].Forces.Net).To(BeNumerically("~", 0.06, 1e-12))
			Expect(log.samples[1].Forces.Net).To(BeNumerically("~", 0.0528, 1e-12))
			Expect(log.samples[2].Step).To(Equal(3))
		})

		It("matches the headless simulator step for step", func() {
			surface := viz.NewRecorder(40)
			loop := sim.NewLoop(model, integ, surface, state.Clone())
			Expect(loop.Run(context.Background())).To(Succeed())

			result, err := sim.New(model, integ).Run(context.Background(), state, 40)
			Expect(err).NotTo(HaveOccurred())
			Expect(surface.Trace()).To(Equal(result.Positions()[1:]))
		})
	})

	It("never steps when the surface is inactive from the start", func() {
		surface := viz.NewRecorder(0)
		loop := sim.NewLoop(model, integ, surface, state)

		Expect(loop.Run(context.Background())).To(Succeed())
		Expect(loop.Frames()).To(BeZero())
		Expect(state.Position).To(Equal(dynamo.DefaultPosition))
		Expect(surface.Closed()).To(BeTrue())
	})

	It("treats a surface closed mid-frame as a normal stop", func() {
		surface := &failingSurface{failOn: 3, err: dynamo.ErrSurfaceClosed}
		loop := sim.NewLoop(model, integ, surface, state)

		Expect(loop.Run(context.Background())).To(Succeed())
		Expect(loop.Status()).To(Equal(sim.Stopped))
		Expect(loop.Frames()).To(Equal(2))
		Expect(surface.closes).To(Equal(1))
	})

	It("returns present errors and still closes the surface", func() {
		boom := errors.New("terminal gone")
		surface := &failingSurface{failOn: 2, err: boom}
		loop := sim.NewLoop(model, integ, surface, state)

		err := loop.Run(context.Background())
		Expect(err).To(MatchError(boom))
		Expect(loop.Status()).To(Equal(sim.Stopped))
		Expect(surface.closes).To(Equal(1))
	})

	It("stops on context cancellation and closes the surface", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		surface := viz.NewRecorder(10)
		loop := sim.NewLoop(model, integ, surface, state)

		Expect(loop.Run(ctx)).To(MatchError(context.Canceled))
		Expect(loop.Status()).To(Equal(sim.Stopped))
		Expect(surface.Closed()).To(BeTrue())
	})

	It("keeps stepping a diverging state without failing", func() {
		p := dynamo.DefaultParams()
		p.Stiffness = 10
		unstable, err := dynamo.New(p)
		Expect(err).NotTo(HaveOccurred())

		loop := sim.NewLoop(model, integ, viz.NewRecorder(1000), unstable)
		Expect(loop.Run(context.Background())).To(Succeed())
		Expect(loop.Frames()).To(Equal(1000))
		Expect(unstable.IsValid()).To(BeFalse())
	})
})
