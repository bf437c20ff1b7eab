package reaction

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"sync"

	"github.com/san-kum/rdsim/internal/field"
)

// minRowsPerWorker keeps goroutine overhead below the per-row work.
const minRowsPerWorker = 16

// Seeder produces initial conditions for a grid of the given size.
type Seeder interface {
	Seed(cols, rows int, rng *rand.Rand) (*field.Initial, error)
}

// SeederFunc adapts a function to the Seeder interface.
type SeederFunc func(cols, rows int, rng *rand.Rand) (*field.Initial, error)

func (f SeederFunc) Seed(cols, rows int, rng *rand.Rand) (*field.Initial, error) {
	return f(cols, rows, rng)
}

type Simulator struct {
	mu sync.Mutex

	cfg    Config
	preset string

	a, b         *field.Grid
	nextA, nextB *field.Grid
	seedA, seedB *field.Grid
	feed, kill   field.ParamMap

	seeder   Seeder
	fallback bool
	rng      *rand.Rand
	logger   *slog.Logger
	steps    int
}

type Option func(*Simulator)

// WithLogger sets the logger used for seeding diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPreset applies a named preset over cfg.Params before seeding.
func WithPreset(name string) Option {
	return func(s *Simulator) { s.preset = name }
}

// New validates cfg and seeds the fields. A nil seeder, or one that fails,
// results in uniform seeding with cfg.FallbackB.
func New(cfg Config, seeder Seeder, opts ...Option) (*Simulator, error) {
	s := &Simulator{
		seeder: seeder,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.preset != "" {
		p, err := LookupPreset(s.preset)
		if err != nil {
			return nil, err
		}
		cfg.Params = p.Params
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s.cfg = cfg
	s.rng = rand.New(rand.NewSource(cfg.Seed))
	s.reseed(cfg.Cols, cfg.Rows)
	return s, nil
}

func (s *Simulator) reseed(cols, rows int) {
	in := s.initial(cols, rows)

	s.cfg.Cols, s.cfg.Rows = cols, rows
	s.a, s.b = in.A, in.B
	clampGrid(s.a)
	clampGrid(s.b)
	s.feed, s.kill = in.Feed, in.Kill
	if s.feed == nil {
		s.feed = field.Uniform{}
	}
	if s.kill == nil {
		s.kill = field.Uniform{}
	}
	s.nextA = field.NewGrid(cols, rows, 0)
	s.nextB = field.NewGrid(cols, rows, 0)
	s.seedA, s.seedB = s.a.Clone(), s.b.Clone()
	s.steps = 0
}

func (s *Simulator) initial(cols, rows int) *field.Initial {
	s.fallback = true
	if s.seeder == nil {
		s.logger.Info("no seeder configured, using uniform seeding", "b", s.cfg.FallbackB)
		return field.UniformInitial(cols, rows, s.cfg.FallbackB)
	}

	in, err := s.seeder.Seed(cols, rows, s.rng)
	if err != nil {
		s.logger.Warn("seeding failed, using uniform seeding", "err", err, "b", s.cfg.FallbackB)
		return field.UniformInitial(cols, rows, s.cfg.FallbackB)
	}
	if !in.Fits(cols, rows) {
		s.logger.Warn("seeder returned mismatched grid or parameter maps, using uniform seeding",
			"cols", cols, "rows", rows)
		return field.UniformInitial(cols, rows, s.cfg.FallbackB)
	}

	s.fallback = false
	return in
}

// Step advances the fields by one time step.
func (s *Simulator) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step()
}

// StepN advances the fields by n sequential steps.
func (s *Simulator) StepN(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for it := 0; it < n; it++ {
		s.step()
	}
}

// Tick runs the configured number of steps per tick.
func (s *Simulator) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for it, end := 0, s.cfg.StepsPerTick; it < end; it++ {
		s.step()
	}
}

func (s *Simulator) step() {
	ParallelFor(s.cfg.Rows, minRowsPerWorker, s.cfg.Workers, s.integrateRows)

	s.a, s.nextA = s.nextA, s.a
	s.b, s.nextB = s.nextB, s.b

	if s.cfg.Perturb.Enabled {
		s.perturb()
	}
	s.steps++
}

// integrateRows writes rows [y0, y1) of the next buffers reading only the
// current buffers.
func (s *Simulator) integrateRows(y0, y1 int) {
	cols, rows := s.cfg.Cols, s.cfg.Rows
	a, b := s.a.Data, s.b.Data

	if s.cfg.Boundary == Toroidal {
		for y := y0; y < y1; y++ {
			for x := 0; x < cols; x++ {
				s.integrate(y*cols+x,
					field.LaplacianWrap(a, cols, rows, x, y),
					field.LaplacianWrap(b, cols, rows, x, y))
			}
		}
		return
	}

	for y := y0; y < y1; y++ {
		row := y * cols
		if y == 0 || y == rows-1 {
			copy(s.nextA.Data[row:row+cols], a[row:row+cols])
			copy(s.nextB.Data[row:row+cols], b[row:row+cols])
			continue
		}
		s.nextA.Data[row], s.nextB.Data[row] = a[row], b[row]
		last := row + cols - 1
		s.nextA.Data[last], s.nextB.Data[last] = a[last], b[last]
		for x := 1; x < cols-1; x++ {
			s.integrate(row+x,
				field.Laplacian(a, cols, x, y),
				field.Laplacian(b, cols, x, y))
		}
	}
}

func (s *Simulator) integrate(i int, lapA, lapB float64) {
	a, b := s.a.Data[i], s.b.Data[i]
	p := s.cfg.Params
	f := s.feed.At(i, p.Feed)
	k := s.kill.At(i, p.Kill)
	r := a * b * b
	h := s.cfg.Dt * 0.5

	s.nextA.Data[i] = clamp01(a + (p.Da*lapA-r+f*(1-a))*h)
	s.nextB.Data[i] = clamp01(b + (p.Db*lapB+r-(k+f)*b)*h)
}

// perturb adds small random amounts of B to a bounded number of interior
// cells so the system does not settle into a fixed point.
func (s *Simulator) perturb() {
	cols, rows := s.cfg.Cols, s.cfg.Rows
	pc := s.cfg.Perturb
	if pc.Rate == 0 {
		return
	}
	count := max(1, int(math.Floor(float64(cols*rows)*pc.Rate)))

	for it := 0; it < count; it++ {
		if s.rng.Float64() < 0.5 {
			continue
		}
		x, y := s.randomCell(1)
		i := y*cols + x
		s.b.Data[i] = math.Min(1, s.b.Data[i]+pc.Min+s.rng.Float64()*(pc.Max-pc.Min))
	}
}

// randomCell picks a cell at least margin cells away from every edge, or
// anywhere when the grid is too small for that margin.
func (s *Simulator) randomCell(margin int) (int, int) {
	cols, rows := s.cfg.Cols, s.cfg.Rows
	x, y := 0, 0
	if span := cols - 2*margin; span > 0 {
		x = margin + s.rng.Intn(span)
	} else {
		x = s.rng.Intn(cols)
	}
	if span := rows - 2*margin; span > 0 {
		y = margin + s.rng.Intn(span)
	} else {
		y = s.rng.Intn(rows)
	}
	return x, y
}

// Reset restores both fields to the seeded state.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.CopyFrom(s.seedA)
	s.b.CopyFrom(s.seedB)
	s.steps = 0
}

// Resize replaces the grid with a freshly seeded one of the new size.
func (s *Simulator) Resize(cols, rows int) error {
	if err := validateSize(cols, rows); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reseed(cols, rows)
	return nil
}

// Inject sets B to 1 and A to 0 at (x, y).
func (s *Simulator) Inject(x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.a.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) on %dx%d", ErrOutOfBounds, x, y, s.cfg.Cols, s.cfg.Rows)
	}
	i := s.a.Index(x, y)
	s.a.Data[i] = 0
	s.b.Data[i] = 1
	return nil
}

// InjectRandom sets B to 1 at n random cells away from the border.
func (s *Simulator) InjectRandom(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for it := 0; it < n; it++ {
		x, y := s.randomCell(2)
		s.b.Set(x, y, 1)
	}
}

// ApplyPreset replaces Da, Db, feed and kill with the named preset. The fields
// are left untouched.
func (s *Simulator) ApplyPreset(name string) error {
	p, err := LookupPreset(name)
	if err != nil {
		return err
	}
	s.setPreset(p)
	return nil
}

// ApplyPresetIndex is ApplyPreset by position in [Presets].
func (s *Simulator) ApplyPresetIndex(i int) error {
	p, err := PresetAt(i)
	if err != nil {
		return err
	}
	s.setPreset(p)
	return nil
}

func (s *Simulator) setPreset(p Preset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Params = p.Params
	s.preset = p.Name
}

// SetParams installs custom rates and clears the active preset name.
func (s *Simulator) SetParams(p Params) error {
	if err := p.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Params = p
	s.preset = ""
	return nil
}

func (s *Simulator) SetPerturbation(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Perturb.Enabled = enabled
}

func (s *Simulator) SetStepsPerTick(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: steps per tick must be at least 1, got %d", ErrParameterBounds, n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.StepsPerTick = n
	return nil
}

// Fields returns copies of the current A and B grids.
func (s *Simulator) Fields() (a, b *field.Grid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Clone(), s.b.Clone()
}

// View calls fn with the live grids while holding the lock. fn must not
// retain or modify them.
func (s *Simulator) View(fn func(a, b *field.Grid)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.a, s.b)
}

// ParamMaps returns the resolved per-cell feed and kill values.
func (s *Simulator) ParamMaps() (feed, kill []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.a.Len()
	return field.Resolve(s.feed, n, s.cfg.Params.Feed), field.Resolve(s.kill, n, s.cfg.Params.Kill)
}

func (s *Simulator) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *Simulator) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Params
}

// Preset returns the active preset name, or "" for custom parameters.
func (s *Simulator) Preset() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preset
}

func (s *Simulator) Size() (cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Cols, s.cfg.Rows
}

func (s *Simulator) Boundary() Boundary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Boundary
}

// Steps returns the number of steps since seeding or the last Reset.
func (s *Simulator) Steps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steps
}

// FallbackSeeded reports whether the fields came from uniform fallback seeding.
func (s *Simulator) FallbackSeeded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fallback
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampGrid(g *field.Grid) {
	for i, v := range g.Data {
		g.Data[i] = clamp01(v)
	}
}
