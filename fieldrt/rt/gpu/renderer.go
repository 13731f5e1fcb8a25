package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/particlefield"
)

// Renderer is a particlefield.Surface backed by a wgpu swapchain.
type Renderer struct {
	Instance *wgpu.Instance
	Surface  *wgpu.Surface
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Config   *wgpu.SurfaceConfiguration

	Points *PointsPass

	log        particlefield.Logger
	pixelRatio float64
	width      int
	height     int
	dirty      bool
	disposed   bool
}

// NewRenderer creates the device and swapchain for the given surface
// descriptor. Width and height are in container pixels.
func NewRenderer(desc *wgpu.SurfaceDescriptor, width, height int, log particlefield.Logger) (*Renderer, error) {
	if log == nil {
		log = particlefield.NewNopLogger()
	}
	r := &Renderer{log: log, pixelRatio: 1, width: width, height: height}

	r.Instance = wgpu.CreateInstance(nil)
	r.Surface = r.Instance.CreateSurface(desc)

	var err error
	r.Adapter, err = r.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: r.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		r.Dispose()
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	r.Device, err = r.Adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Particle Field Device",
	})
	if err != nil {
		r.Dispose()
		return nil, fmt.Errorf("request device: %w", err)
	}
	r.Queue = r.Device.GetQueue()

	caps := r.Surface.GetCapabilities(r.Adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		r.Dispose()
		return nil, errors.New("surface reports no formats")
	}
	r.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       0, // set by configure
		Height:      0,
		PresentMode: wgpu.PresentModeFifo, // vsync paces the frame clock
		AlphaMode:   caps.AlphaModes[0],
	}
	r.configure()

	r.Points, err = NewPointsPass(r.Device, r.Queue, r.Config.Format)
	if err != nil {
		r.Dispose()
		return nil, fmt.Errorf("points pass: %w", err)
	}

	return r, nil
}

func (r *Renderer) SetPixelRatio(ratio float64) {
	if ratio <= 0 {
		ratio = 1
	}
	r.pixelRatio = ratio
	r.dirty = true
}

func (r *Renderer) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.dirty = true
}

// DrawingBufferSize is the swapchain size in physical pixels. Size and ratio
// changes reach the swapchain on the next Render.
func (r *Renderer) DrawingBufferSize() (uint32, uint32) {
	return drawingBufferSize(r.width, r.height, r.pixelRatio)
}

func drawingBufferSize(width, height int, ratio float64) (uint32, uint32) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	w := uint32(float64(width)*ratio + 0.5)
	h := uint32(float64(height)*ratio + 0.5)
	return max(w, 1), max(h, 1)
}

func (r *Renderer) configure() {
	if r.disposed || r.Config == nil {
		return
	}
	w, h := r.DrawingBufferSize()
	if w == 0 || h == 0 {
		return
	}
	r.dirty = false
	if w == r.Config.Width && h == r.Config.Height {
		return
	}
	r.Config.Width = w
	r.Config.Height = h
	r.Surface.Configure(r.Adapter, r.Device, r.Config)
}

func (r *Renderer) Render(scene *particlefield.Scene, camera *particlefield.PerspectiveCamera) error {
	if r.disposed {
		return errors.New("render on disposed surface")
	}
	if r.dirty {
		r.configure()
	}

	for _, points := range scene.Objects() {
		if err := r.Points.Sync(points); err != nil {
			return fmt.Errorf("sync %s: %w", points.Name, err)
		}
	}
	if err := r.Points.UpdateFrame(makeFrameUniforms(scene, camera, r.Config.Width, r.Config.Height, r.pixelRatio)); err != nil {
		return fmt.Errorf("frame uniforms: %w", err)
	}

	nextTexture, err := r.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	defer view.Release()

	encoder, err := r.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	bg := scene.Background
	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: float64(bg[0]), G: float64(bg[1]), B: float64(bg[2]), A: 1},
		}},
	})
	defer rPass.Release()
	r.Points.Draw(rPass, scene.Objects())
	if err := rPass.End(); err != nil {
		return fmt.Errorf("points pass end: %w", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("encoder finish: %w", err)
	}
	defer cmd.Release()
	r.Queue.Submit(cmd)
	r.Surface.Present()
	return nil
}

// Dispose releases every GPU object. Safe to call more than once.
func (r *Renderer) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	if r.Points != nil {
		r.Points.Release()
		r.Points = nil
	}
	if r.Queue != nil {
		r.Queue.Release()
		r.Queue = nil
	}
	if r.Device != nil {
		r.Device.Release()
		r.Device = nil
	}
	if r.Adapter != nil {
		r.Adapter.Release()
		r.Adapter = nil
	}
	if r.Surface != nil {
		r.Surface.Release()
		r.Surface = nil
	}
	if r.Instance != nil {
		r.Instance.Release()
		r.Instance = nil
	}
	r.log.Debugf("renderer disposed")
}

var _ particlefield.Surface = (*Renderer)(nil)
