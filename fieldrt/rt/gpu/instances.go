package gpu

import (
	"github.com/gekko3d/particlefield"
	"github.com/go-gl/mathgl/mgl32"
)

// PointInstance matches the instance attributes in points.wgsl
// (location 0 pos, 1 size, 2 color).
type PointInstance struct {
	Pos   [3]float32
	Size  float32
	Color [4]float32
}

// frameUniforms matches FrameUniforms in points.wgsl.
type frameUniforms struct {
	ViewProj mgl32.Mat4
	View     mgl32.Mat4
	Fog      [4]float32
	Viewport [4]float32
	Sizing   [4]float32
}

// objectUniforms matches ObjectUniforms in points.wgsl.
type objectUniforms struct {
	Model  mgl32.Mat4
	Params [4]float32
	Color  [4]float32
}

// PackInstances flattens a cloud into dst, reusing its capacity. Points take
// their own size when they have one and fall back to the material size;
// without vertex colors the instance color is white and the material color
// is applied in the shader.
func PackInstances(dst []PointInstance, points *particlefield.Points) []PointInstance {
	g := points.Geometry
	if g == nil || g.Disposed() {
		return dst[:0]
	}
	n := g.Len()
	if cap(dst) < n {
		dst = make([]PointInstance, n)
	}
	dst = dst[:n]

	mat := points.Material
	for i := 0; i < n; i++ {
		size := mat.Size
		if g.Sizes[i] > 0 {
			size = g.Sizes[i]
		}
		color := [4]float32{1, 1, 1, 1}
		if mat.VertexColors {
			color = [4]float32{g.Colors[3*i], g.Colors[3*i+1], g.Colors[3*i+2], 1}
		}
		dst[i] = PointInstance{
			Pos:   [3]float32{g.Positions[3*i], g.Positions[3*i+1], g.Positions[3*i+2]},
			Size:  size,
			Color: color,
		}
	}
	return dst
}

// makeFrameUniforms takes the drawing buffer size in physical pixels. Point
// sizes scale by the pixel ratio once; attenuation uses half the logical
// height, so the ratio is not applied a second time.
func makeFrameUniforms(scene *particlefield.Scene, camera *particlefield.PerspectiveCamera, width, height uint32, pixelRatio float64) frameUniforms {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	logicalHeight := float64(height) / pixelRatio
	u := frameUniforms{
		ViewProj: camera.ViewProjection(),
		View:     camera.ViewMatrix(),
		Viewport: [4]float32{float32(width), float32(height), float32(pixelRatio), 0},
		Sizing:   [4]float32{float32(pixelRatio), float32(logicalHeight * 0.5), 0, 0},
	}
	if scene.Fog != nil {
		c := scene.Fog.Color
		u.Fog = [4]float32{c[0], c[1], c[2], scene.Fog.Density}
		u.Viewport[3] = 1
	}
	return u
}

func makeObjectUniforms(points *particlefield.Points, textured bool) objectUniforms {
	mat := points.Material
	return objectUniforms{
		Model: points.ModelMatrix(),
		Params: [4]float32{
			boolToFloat(mat.SizeAttenuation),
			mat.AlphaTest,
			boolToFloat(textured),
			boolToFloat(mat.Fog),
		},
		Color: [4]float32{mat.Color[0], mat.Color[1], mat.Color[2], 1},
	}
}

func boolToFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
