package reaction_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rdsim/internal/field"
	"github.com/san-kum/rdsim/internal/reaction"
)

var _ = Describe("Simulator", func() {
	var (
		cfg reaction.Config
		sim *reaction.Simulator
	)

	spot := reaction.SeederFunc(func(cols, rows int, _ *rand.Rand) (*field.Initial, error) {
		in := field.UniformInitial(cols, rows, 0)
		for y := rows/2 - 2; y <= rows/2+2; y++ {
			for x := cols/2 - 2; x <= cols/2+2; x++ {
				in.B.Set(x, y, 1)
			}
		}
		return in, nil
	})

	BeforeEach(func() {
		cfg = reaction.DefaultConfig()
		cfg.Cols, cfg.Rows = 40, 30
		cfg.Seed = 3
	})

	JustBeforeEach(func() {
		var err error
		sim, err = reaction.New(cfg, spot)
		Expect(err).NotTo(HaveOccurred())
	})

	It("keeps every concentration in [0,1]", func() {
		for it := 0; it < 20; it++ {
			sim.StepN(10)
			a, b := sim.Fields()
			lo, hi := a.Bounds()
			Expect(lo).To(BeNumerically(">=", 0))
			Expect(hi).To(BeNumerically("<=", 1))
			lo, hi = b.Bounds()
			Expect(lo).To(BeNumerically(">=", 0))
			Expect(hi).To(BeNumerically("<=", 1))
		}
	})

	It("counts steps across Tick and StepN", func() {
		Expect(sim.SetStepsPerTick(3)).To(Succeed())
		sim.Tick()
		sim.StepN(2)
		Expect(sim.Steps()).To(Equal(5))
	})

	It("returns copies from Fields", func() {
		a, _ := sim.Fields()
		a.Fill(0)
		again, _ := sim.Fields()
		_, hi := again.Bounds()
		Expect(hi).To(Equal(1.0))
	})

	It("rejects negative custom rates and keeps the old ones", func() {
		before := sim.Params()
		err := sim.SetParams(reaction.Params{Da: 1, Db: 0.5, Feed: -1, Kill: 0.05})
		Expect(err).To(MatchError(reaction.ErrParameterBounds))
		Expect(sim.Params()).To(Equal(before))
	})

	It("clears the preset name for custom rates", func() {
		Expect(sim.ApplyPreset("worms")).To(Succeed())
		Expect(sim.Preset()).To(Equal("worms"))
		Expect(sim.SetParams(reaction.Params{Da: 1, Db: 0.5, Feed: 0.04, Kill: 0.06})).To(Succeed())
		Expect(sim.Preset()).To(BeEmpty())
	})

	Context("with perturbation disabled", func() {
		BeforeEach(func() {
			cfg.Perturb.Enabled = false
		})

		It("is reproducible after Reset", func() {
			sim.StepN(30)
			a1, b1 := sim.Fields()
			sim.Reset()
			sim.StepN(30)
			a2, b2 := sim.Fields()
			Expect(a1.Equal(a2)).To(BeTrue())
			Expect(b1.Equal(b2)).To(BeTrue())
		})
	})

	Context("with a toroidal boundary", func() {
		BeforeEach(func() {
			cfg.Boundary = reaction.Toroidal
			cfg.Perturb.Enabled = false
		})

		It("spreads B across the wrapped edge", func() {
			Expect(sim.Inject(0, 0)).To(Succeed())
			sim.Step()
			_, b := sim.Fields()
			Expect(b.At(cfg.Cols-1, cfg.Rows-1)).To(BeNumerically(">", 0))
		})
	})

	Context("when the preset option is unknown", func() {
		It("fails construction", func() {
			_, err := reaction.New(cfg, spot, reaction.WithPreset("nope"))
			Expect(err).To(MatchError(reaction.ErrUnknownPreset))
		})
	})
})
