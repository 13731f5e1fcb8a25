package particlefield

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const polarEpsilon = 1e-6

// OrbitControls rotates the camera around Target on drag and dollies it on
// scroll. Panning is not supported.
type OrbitControls struct {
	Camera    *PerspectiveCamera
	Container Container

	Target        mgl32.Vec3
	EnableDamping bool
	DampingFactor float64
	MinDistance   float64
	MaxDistance   float64
	RotateSpeed   float64
	ZoomSpeed     float64

	deltaTheta  float64
	deltaPhi    float64
	scale       float64
	unsubscribe func()
	disposed    bool
}

func NewOrbitControls(camera *PerspectiveCamera, container Container, input PointerInput) *OrbitControls {
	c := &OrbitControls{
		Camera:        camera,
		Container:     container,
		DampingFactor: 0.05,
		MaxDistance:   math.Inf(1),
		RotateSpeed:   1,
		ZoomSpeed:     1,
		scale:         1,
	}
	if input != nil {
		c.unsubscribe = input.Subscribe(PointerEvents{
			Drag:   c.Drag,
			Scroll: c.Scroll,
		})
	}
	return c
}

// Drag queues a rotation proportional to the pointer travel relative to the
// container height.
func (c *OrbitControls) Drag(dx, dy float64) {
	if c.disposed {
		return
	}
	_, h := c.Container.Size()
	if h <= 0 {
		return
	}
	c.deltaTheta -= 2 * math.Pi * dx / float64(h) * c.RotateSpeed
	c.deltaPhi -= 2 * math.Pi * dy / float64(h) * c.RotateSpeed
}

// Scroll queues a dolly; positive deltas move towards the target.
func (c *OrbitControls) Scroll(delta float64) {
	if c.disposed || delta == 0 {
		return
	}
	c.scale *= math.Pow(0.95, c.ZoomSpeed*delta)
}

// Update applies queued input to the camera. It reports whether the camera
// moved.
func (c *OrbitControls) Update() bool {
	if c.disposed {
		return false
	}
	offset := c.Camera.Position.Sub(c.Target)
	radius := float64(offset.Len())
	theta := math.Atan2(float64(offset.X()), float64(offset.Z()))
	phi := 0.0
	if radius > 0 {
		phi = math.Acos(math.Max(-1, math.Min(1, float64(offset.Y())/radius)))
	}

	if c.EnableDamping {
		theta += c.deltaTheta * c.DampingFactor
		phi += c.deltaPhi * c.DampingFactor
	} else {
		theta += c.deltaTheta
		phi += c.deltaPhi
	}
	phi = math.Max(polarEpsilon, math.Min(math.Pi-polarEpsilon, phi))

	radius = math.Max(c.MinDistance, math.Min(c.MaxDistance, radius*c.scale))

	sinPhi := math.Sin(phi)
	next := mgl32.Vec3{
		float32(radius * sinPhi * math.Sin(theta)),
		float32(radius * math.Cos(phi)),
		float32(radius * sinPhi * math.Cos(theta)),
	}.Add(c.Target)

	moved := next.Sub(c.Camera.Position).Len() > 1e-6
	c.Camera.Position = next
	c.Camera.LookAt(c.Target)

	if c.EnableDamping {
		c.deltaTheta *= 1 - c.DampingFactor
		c.deltaPhi *= 1 - c.DampingFactor
	} else {
		c.deltaTheta = 0
		c.deltaPhi = 0
	}
	c.scale = 1

	return moved
}

// Dispose detaches from pointer input. Safe to call more than once.
func (c *OrbitControls) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *OrbitControls) Disposed() bool {
	return c.disposed
}
