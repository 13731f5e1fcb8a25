package particlefield

// Container is the mount target: anything with a readable display size.
type Container interface {
	Size() (width, height int)
}

// Surface is the render collaborator. It owns the GPU side of the scene and
// draws it on request.
type Surface interface {
	SetPixelRatio(ratio float64)
	SetSize(width, height int)
	Render(scene *Scene, camera *PerspectiveCamera) error
	Dispose()
}

// SurfaceFactory attaches a new render surface to the container.
type SurfaceFactory func(container Container) (Surface, error)

// ResizeObserver reports container size changes. The callback must be invoked
// on the same goroutine that runs frames. The returned func stops observation.
type ResizeObserver interface {
	Observe(container Container, onResize func(width, height int)) (disconnect func())
}

// PixelRatioObserver reports device pixel ratio changes, such as a window
// moving to a monitor with another scale. Platforms may implement it.
type PixelRatioObserver interface {
	ObservePixelRatio(onChange func(ratio float64)) (disconnect func())
}

// PointerEvents are the inputs orbit controls react to. Drag deltas are in
// container pixels; Scroll is positive when scrolling towards the viewer.
type PointerEvents struct {
	Drag   func(dx, dy float64)
	Scroll func(delta float64)
}

type PointerInput interface {
	Subscribe(events PointerEvents) (unsubscribe func())
}

// Platform bundles the collaborators a mounted field needs.
type Platform interface {
	NewSurface(container Container) (Surface, error)
	DevicePixelRatio() float64
	ResizeObserver
	PointerInput
}
