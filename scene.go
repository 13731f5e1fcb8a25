package particlefield

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

type Blending int

const (
	NormalBlending Blending = iota
	AdditiveBlending
)

// FogExp2 darkens fragments by 1 - exp(-(density*depth)^2).
type FogExp2 struct {
	Color   Color
	Density float32
}

type PointsMaterial struct {
	Color           Color
	Size            float32
	SizeAttenuation bool
	VertexColors    bool
	Map             *Texture
	Blending        Blending
	Transparent     bool
	DepthWrite      bool
	AlphaTest       float32
	Fog             bool
}

// Points is a point cloud placed in the scene. Rotation is an XYZ Euler triple
// in radians and only ever accumulates.
type Points struct {
	Name     string
	Geometry *PointCloud
	Material PointsMaterial
	Rotation [3]float64
}

func NewPoints(name string, geometry *PointCloud, material PointsMaterial) *Points {
	return &Points{
		Name:     name,
		Geometry: geometry,
		Material: material,
	}
}

// ModelMatrix applies the rotation in X, Y, Z order.
func (p *Points) ModelMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(float32(p.Rotation[0])).
		Mul4(mgl32.HomogRotate3DY(float32(p.Rotation[1]))).
		Mul4(mgl32.HomogRotate3DZ(float32(p.Rotation[2])))
}

type Scene struct {
	Background Color
	Fog        *FogExp2
	objects    []*Points
}

func NewScene(background Color, fog *FogExp2) *Scene {
	return &Scene{Background: background, Fog: fog}
}

func (s *Scene) Add(p *Points) {
	if slices.Contains(s.objects, p) {
		return
	}
	s.objects = append(s.objects, p)
}

func (s *Scene) Remove(p *Points) {
	if i := slices.Index(s.objects, p); i >= 0 {
		s.objects = slices.Delete(s.objects, i, i+1)
	}
}

// Objects returns the scene contents in draw order.
func (s *Scene) Objects() []*Points {
	return s.objects
}

type SceneModule struct {
	Background Color
	Fog        *FogExp2
}

func (m SceneModule) Install(app *App, cmd *Commands) error {
	cmd.AddResources(NewScene(m.Background, m.Fog))
	return nil
}

// disposeHooks lets GPU-side owners learn when CPU-side data goes away.
type disposeHooks struct {
	fns      []func()
	disposed bool
}

func (d *disposeHooks) onDispose(fn func()) {
	if d.disposed {
		fn()
		return
	}
	d.fns = append(d.fns, fn)
}

func (d *disposeHooks) dispose() bool {
	if d.disposed {
		return false
	}
	d.disposed = true
	fns := d.fns
	d.fns = nil
	for _, fn := range fns {
		fn()
	}
	return true
}
