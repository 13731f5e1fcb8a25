package particlefield

import "math"

// FieldConfig holds every tunable of the visual. Counts, sizes, distances and
// camera fields take the DefaultFieldConfig value when zero or negative. Hue,
// saturation, lightness, colors and FogDensity are used as given, so zero
// means red hue, grey, black or no fog. Start from DefaultFieldConfig and
// override what differs.
type FieldConfig struct {
	ParticleCount  int
	ParticleRadius float64
	ParticleSize   float32 // material size, used where a point has no size of its own
	MinPointSize   float64
	PointSizeRange float64
	HueBase        float64
	HueGradient    float64 // hue turns per world unit of x
	HueJitter      float64
	Saturation     float64
	Lightness      float64

	StarCount int
	StarSpan  float64
	StarSize  float32
	StarColor uint32

	Fov            float64
	Near           float64
	Far            float64
	CameraDistance float64

	DampingFactor float64
	MinDistance   float64
	MaxDistance   float64

	FogColor   uint32
	FogDensity float32
	Background uint32

	MaxPixelRatio float64

	// SpritePath names a PNG used for the particle sprite. Empty means the
	// procedural spark is used instead.
	SpritePath string
	SpriteSize int

	// Seed drives every random choice made while building the clouds.
	Seed int64
}

func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		ParticleCount:  20000,
		ParticleRadius: 900,
		ParticleSize:   5,
		MinPointSize:   1.5,
		PointSizeRange: 4,
		HueBase:        0.6,
		HueGradient:    0.0005,
		HueJitter:      0.05,
		Saturation:     1.0,
		Lightness:      0.6,

		StarCount: 4000,
		StarSpan:  6000,
		StarSize:  1,
		StarColor: 0x88aaff,

		Fov:            70,
		Near:           0.1,
		Far:            3000,
		CameraDistance: 420,

		DampingFactor: 0.05,
		MinDistance:   120,
		MaxDistance:   900,

		FogColor:   0x000010,
		FogDensity: 0.002,
		Background: 0x000000,

		MaxPixelRatio: 2,

		SpriteSize: 64,
		Seed:       1,
	}
}

func (c FieldConfig) withDefaults() FieldConfig {
	d := DefaultFieldConfig()
	if c.ParticleCount <= 0 {
		c.ParticleCount = d.ParticleCount
	}
	if c.ParticleRadius <= 0 {
		c.ParticleRadius = d.ParticleRadius
	}
	if c.ParticleSize <= 0 {
		c.ParticleSize = d.ParticleSize
	}
	if c.MinPointSize <= 0 {
		c.MinPointSize = d.MinPointSize
	}
	if c.PointSizeRange <= 0 {
		c.PointSizeRange = d.PointSizeRange
	}
	if c.StarCount <= 0 {
		c.StarCount = d.StarCount
	}
	if c.StarSpan <= 0 {
		c.StarSpan = d.StarSpan
	}
	if c.StarSize <= 0 {
		c.StarSize = d.StarSize
	}
	if c.Fov <= 0 {
		c.Fov = d.Fov
	}
	if c.Near <= 0 {
		c.Near = d.Near
	}
	if c.Far <= 0 {
		c.Far = d.Far
	}
	if c.CameraDistance <= 0 {
		c.CameraDistance = d.CameraDistance
	}
	if c.DampingFactor <= 0 {
		c.DampingFactor = d.DampingFactor
	}
	if c.MinDistance <= 0 {
		c.MinDistance = d.MinDistance
	}
	if c.MaxDistance <= 0 {
		c.MaxDistance = d.MaxDistance
	}
	if c.MaxPixelRatio <= 0 {
		c.MaxPixelRatio = d.MaxPixelRatio
	}
	if c.SpriteSize <= 0 {
		c.SpriteSize = d.SpriteSize
	}
	return c
}

// clampPixelRatio caps the device ratio, treating unknown ratios as 1. A limit
// of zero or less means no cap.
func clampPixelRatio(device, limit float64) float64 {
	if device <= 0 || math.IsNaN(device) {
		device = 1
	}
	if limit <= 0 {
		return device
	}
	return math.Min(device, limit)
}
