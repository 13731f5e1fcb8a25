package particlefield

import (
	"errors"
	"fmt"
)

type fakeContainer struct {
	w, h int
}

func (c *fakeContainer) Size() (int, int) { return c.w, c.h }

// eventLog records acquisitions and releases across fakes in call order.
type eventLog struct {
	events []string
}

func (l *eventLog) add(format string, args ...any) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

type fakeSurface struct {
	log        *eventLog
	ratio      float64
	sizes      [][2]int
	renders    int
	disposed   int
	lastScene  *Scene
	lastCamera *PerspectiveCamera
	renderErr  error
}

func (s *fakeSurface) SetPixelRatio(ratio float64) { s.ratio = ratio }

func (s *fakeSurface) SetSize(w, h int) { s.sizes = append(s.sizes, [2]int{w, h}) }

func (s *fakeSurface) Render(scene *Scene, camera *PerspectiveCamera) error {
	s.renders++
	s.lastScene = scene
	s.lastCamera = camera
	return s.renderErr
}

func (s *fakeSurface) Dispose() {
	s.disposed++
	s.log.add("dispose surface")
}

func (s *fakeSurface) lastSize() [2]int {
	if len(s.sizes) == 0 {
		return [2]int{}
	}
	return s.sizes[len(s.sizes)-1]
}

type fakePlatform struct {
	log        *eventLog
	surface    *fakeSurface
	surfaceErr error
	ratio      float64

	observers    map[int]func(w, h int)
	ratios       map[int]func(ratio float64)
	pointers     map[int]PointerEvents
	nextId       int
	disconnects  int
	unsubscribes int
}

func newFakePlatform() *fakePlatform {
	log := &eventLog{}
	return &fakePlatform{
		log:       log,
		surface:   &fakeSurface{log: log},
		ratio:     1,
		observers: make(map[int]func(w, h int)),
		ratios:    make(map[int]func(ratio float64)),
		pointers:  make(map[int]PointerEvents),
	}
}

func (p *fakePlatform) NewSurface(c Container) (Surface, error) {
	if p.surfaceErr != nil {
		return nil, p.surfaceErr
	}
	p.log.add("acquire surface")
	return p.surface, nil
}

func (p *fakePlatform) DevicePixelRatio() float64 { return p.ratio }

func (p *fakePlatform) Observe(c Container, fn func(w, h int)) func() {
	p.nextId++
	id := p.nextId
	p.observers[id] = fn
	p.log.add("observe resize")
	return func() {
		p.disconnects++
		delete(p.observers, id)
		p.log.add("disconnect resize")
	}
}

// ObservePixelRatio is folded into resize observation, so it logs nothing.
func (p *fakePlatform) ObservePixelRatio(fn func(ratio float64)) func() {
	p.nextId++
	id := p.nextId
	p.ratios[id] = fn
	return func() { delete(p.ratios, id) }
}

func (p *fakePlatform) Subscribe(ev PointerEvents) func() {
	p.nextId++
	id := p.nextId
	p.pointers[id] = ev
	p.log.add("subscribe pointer")
	return func() {
		p.unsubscribes++
		delete(p.pointers, id)
		p.log.add("unsubscribe pointer")
	}
}

func (p *fakePlatform) resize(w, h int) {
	for _, fn := range p.observers {
		fn(w, h)
	}
}

func (p *fakePlatform) changeRatio(ratio float64) {
	p.ratio = ratio
	for _, fn := range p.ratios {
		fn(ratio)
	}
}

func (p *fakePlatform) drag(dx, dy float64) {
	for _, ev := range p.pointers {
		ev.Drag(dx, dy)
	}
}

func (p *fakePlatform) scroll(delta float64) {
	for _, ev := range p.pointers {
		ev.Scroll(delta)
	}
}

var errBoom = errors.New("boom")

// smallConfig keeps clouds tiny so tests stay fast.
func smallConfig() FieldConfig {
	cfg := DefaultFieldConfig()
	cfg.ParticleCount = 64
	cfg.StarCount = 16
	cfg.Seed = 7
	return cfg
}

func mountField(t interface {
	Helper()
	Fatalf(string, ...any)
}, cfg FieldConfig, w, h int) (*App, *fakePlatform, *StepScheduler) {
	t.Helper()
	platform := newFakePlatform()
	scheduler := NewStepScheduler(DefaultFrameStep)
	app := NewParticleField(cfg, platform, scheduler, nil)
	if err := app.Mount(&fakeContainer{w: w, h: h}); err != nil {
		t.Fatalf("mount: %v", err)
	}
	return app, platform, scheduler
}

func mustResource[T any](app *App) *T {
	r, ok := Resource[T](app)
	if !ok {
		panic(fmt.Sprintf("missing resource %T", (*T)(nil)))
	}
	return r
}
