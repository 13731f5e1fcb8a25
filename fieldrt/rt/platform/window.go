package platform

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/particlefield"
	"github.com/gekko3d/particlefield/fieldrt/rt/gpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is a GLFW window acting as mount target, resize observer and pointer
// source. GLFW delivers every callback from PollEvents, so they all run on the
// goroutine that drives the FrameClock.
type Window struct {
	win *glfw.Window
	log particlefield.Logger

	nextId    int
	observers map[int]func(width, height int)
	ratios    map[int]func(ratio float64)
	pointers  map[int]particlefield.PointerEvents

	ratio float64

	dragging     bool
	lastX, lastY float64
}

// NewWindow initialises GLFW and opens a resizable window without a client API.
// Must be called from the main goroutine.
func NewWindow(width, height int, title string, log particlefield.Logger) (*Window, error) {
	runtime.LockOSThread()
	if log == nil {
		log = particlefield.NewNopLogger()
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // wgpu owns the surface
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &Window{
		win:       win,
		log:       log,
		observers: make(map[int]func(width, height int)),
		ratios:    make(map[int]func(ratio float64)),
		pointers:  make(map[int]particlefield.PointerEvents),
	}
	w.ratio = w.DevicePixelRatio()
	win.SetSizeCallback(w.onSize)
	win.SetFramebufferSizeCallback(w.onFramebufferSize)
	win.SetMouseButtonCallback(w.onMouseButton)
	win.SetCursorPosCallback(w.onCursorPos)
	win.SetScrollCallback(w.onScroll)
	return w, nil
}

func (w *Window) GLFW() *glfw.Window {
	return w.win
}

// Size is the window size in screen coordinates.
func (w *Window) Size() (int, int) {
	return w.win.GetSize()
}

// DevicePixelRatio is framebuffer pixels per screen coordinate. Content scale
// is not used: on X11 and Windows the window size already includes it.
func (w *Window) DevicePixelRatio() float64 {
	fbWidth, _ := w.win.GetFramebufferSize()
	winWidth, _ := w.win.GetSize()
	return pixelRatio(fbWidth, winWidth)
}

func pixelRatio(fbWidth, winWidth int) float64 {
	if fbWidth <= 0 || winWidth <= 0 {
		return 1
	}
	return float64(fbWidth) / float64(winWidth)
}

func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w.win)
}

func (w *Window) NewSurface(container particlefield.Container) (particlefield.Surface, error) {
	width, height := container.Size()
	return gpu.NewRenderer(w.SurfaceDescriptor(), width, height, w.log)
}

func (w *Window) Observe(container particlefield.Container, onResize func(width, height int)) func() {
	id := w.register()
	w.observers[id] = onResize
	return func() { delete(w.observers, id) }
}

func (w *Window) ObservePixelRatio(onChange func(ratio float64)) func() {
	id := w.register()
	w.ratios[id] = onChange
	return func() { delete(w.ratios, id) }
}

func (w *Window) Subscribe(events particlefield.PointerEvents) func() {
	id := w.register()
	w.pointers[id] = events
	return func() { delete(w.pointers, id) }
}

func (w *Window) register() int {
	w.nextId++
	return w.nextId
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

// Destroy closes the window and shuts GLFW down.
func (w *Window) Destroy() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	glfw.Terminate()
}

func (w *Window) onSize(_ *glfw.Window, width, height int) {
	for _, fn := range w.observers {
		fn(width, height)
	}
}

func (w *Window) onFramebufferSize(win *glfw.Window, fbWidth, _ int) {
	winWidth, _ := win.GetSize()
	if fbWidth <= 0 || winWidth <= 0 {
		return // minimised
	}
	w.setPixelRatio(pixelRatio(fbWidth, winWidth))
}

func (w *Window) setPixelRatio(ratio float64) {
	if ratio == w.ratio {
		return
	}
	w.log.Debugf("device pixel ratio %g -> %g", w.ratio, ratio)
	w.ratio = ratio
	for _, fn := range w.ratios {
		fn(ratio)
	}
}

func (w *Window) onMouseButton(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		w.dragging = true
		w.lastX, w.lastY = win.GetCursorPos()
	case glfw.Release:
		w.dragging = false
	}
}

func (w *Window) onCursorPos(_ *glfw.Window, x, y float64) {
	if !w.dragging {
		return
	}
	dx, dy := x-w.lastX, y-w.lastY
	w.lastX, w.lastY = x, y
	for _, ev := range w.pointers {
		if ev.Drag != nil {
			ev.Drag(dx, dy)
		}
	}
}

func (w *Window) onScroll(_ *glfw.Window, _, yoff float64) {
	for _, ev := range w.pointers {
		if ev.Scroll != nil {
			ev.Scroll(yoff)
		}
	}
}

var _ particlefield.Platform = (*Window)(nil)
var _ particlefield.Container = (*Window)(nil)
var _ particlefield.PixelRatioObserver = (*Window)(nil)
