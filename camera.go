package particlefield

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PerspectiveCamera keeps projection parameters separate from the cached
// projection matrix; call UpdateProjectionMatrix after changing them.
type PerspectiveCamera struct {
	Fov    float64 // vertical, degrees
	Aspect float64
	Near   float64
	Far    float64

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	projection mgl32.Mat4
}

func NewPerspectiveCamera(fov, aspect, near, far float64) *PerspectiveCamera {
	c := &PerspectiveCamera{
		Fov:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Up:     mgl32.Vec3{0, 1, 0},
	}
	c.UpdateProjectionMatrix()
	return c
}

func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1.0
	}
	c.projection = mgl32.Perspective(
		mgl32.DegToRad(float32(c.Fov)),
		float32(aspect),
		float32(c.Near),
		float32(c.Far),
	)
}

// SetViewport sets the aspect ratio to width/height and refreshes the
// projection. Degenerate sizes are ignored.
func (c *PerspectiveCamera) SetViewport(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	c.Aspect = float64(width) / float64(height)
	c.UpdateProjectionMatrix()
	return true
}

func (c *PerspectiveCamera) LookAt(target mgl32.Vec3) {
	c.Target = target
}

func (c *PerspectiveCamera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

func (c *PerspectiveCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *PerspectiveCamera) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.ViewMatrix())
}
