package particlefield

import (
	"math"
	"math/rand"
)

// FillParticleSphere places every point of the cloud inside a sphere of the
// given radius: a direction is drawn by rejection from the unit cube, then
// scaled by radius*cbrt(u). Colors follow the x coordinate in hue with a
// random jitter; sizes are uniform in [MinPointSize, MinPointSize+PointSizeRange).
func FillParticleSphere(cloud *PointCloud, cfg FieldConfig, rng *rand.Rand) {
	cfg = cfg.withDefaults()
	for i := 0; i < cloud.Len(); i++ {
		var x, y, z float64
		for {
			x = rng.Float64()*2 - 1
			y = rng.Float64()*2 - 1
			z = rng.Float64()*2 - 1
			if x*x+y*y+z*z <= 1 {
				break
			}
		}

		radius := cfg.ParticleRadius * math.Cbrt(rng.Float64())
		px, py, pz := x*radius, y*radius, z*radius
		cloud.SetPosition(i, float32(px), float32(py), float32(pz))

		hue := px*cfg.HueGradient + cfg.HueBase + rng.Float64()*cfg.HueJitter
		cloud.SetColor(i, ColorHSL(hue, cfg.Saturation, cfg.Lightness))

		cloud.Sizes[i] = float32(rng.Float64()*cfg.PointSizeRange + cfg.MinPointSize)
	}
}

// FillStarCube scatters the cloud uniformly in an axis-aligned cube centred on
// the origin. Every star gets the same color and size.
func FillStarCube(cloud *PointCloud, span float64, color Color, size float32, rng *rand.Rand) {
	for i := 0; i < cloud.Len(); i++ {
		cloud.SetPosition(i,
			float32((rng.Float64()-0.5)*span),
			float32((rng.Float64()-0.5)*span),
			float32((rng.Float64()-0.5)*span),
		)
		cloud.SetColor(i, color)
		cloud.Sizes[i] = size
	}
}
