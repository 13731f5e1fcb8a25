package particlefield

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillParticleSphere_InsideRadius(t *testing.T) {
	cfg := DefaultFieldConfig()
	cloud := NewPointCloud(2000)
	FillParticleSphere(cloud, cfg, rand.New(rand.NewSource(3)))

	for i := 0; i < cloud.Len(); i++ {
		x, y, z := cloud.Position(i)
		r := math.Sqrt(float64(x*x + y*y + z*z))
		if r > cfg.ParticleRadius+1e-3 {
			t.Errorf("point %d at radius %v, outside %v", i, r, cfg.ParticleRadius)
		}

		size := float64(cloud.Sizes[i])
		if size < 1.5 || size >= 5.5 {
			t.Errorf("point %d size %v outside [1.5, 5.5)", i, size)
		}

		for c := 0; c < 3; c++ {
			v := cloud.Colors[3*i+c]
			if v < 0 || v > 1 {
				t.Errorf("point %d color channel %d = %v", i, c, v)
			}
		}
	}
}

func TestFillParticleSphere_Deterministic(t *testing.T) {
	cfg := DefaultFieldConfig()
	a := NewPointCloud(100)
	b := NewPointCloud(100)
	FillParticleSphere(a, cfg, rand.New(rand.NewSource(42)))
	FillParticleSphere(b, cfg, rand.New(rand.NewSource(42)))

	assert.Equal(t, a.Positions, b.Positions)
	assert.Equal(t, a.Colors, b.Colors)
	assert.Equal(t, a.Sizes, b.Sizes)
}

func TestFillParticleSphere_HueFollowsX(t *testing.T) {
	cfg := DefaultFieldConfig()
	cfg.HueJitter = 0
	cloud := NewPointCloud(500)
	FillParticleSphere(cloud, cfg, rand.New(rand.NewSource(9)))

	for i := 0; i < cloud.Len(); i++ {
		x, _, _ := cloud.Position(i)
		want := ColorHSL(float64(x)*cfg.HueGradient+cfg.HueBase, cfg.Saturation, cfg.Lightness)
		got := Color{cloud.Colors[3*i], cloud.Colors[3*i+1], cloud.Colors[3*i+2]}
		for c := 0; c < 3; c++ {
			assert.InDelta(t, want[c], got[c], 1e-5, "point %d channel %d", i, c)
		}
	}
}

func TestFillStarCube(t *testing.T) {
	color := ColorHex(0x88aaff)
	cloud := NewPointCloud(1000)
	FillStarCube(cloud, 6000, color, 1, rand.New(rand.NewSource(1)))

	for i := 0; i < cloud.Len(); i++ {
		x, y, z := cloud.Position(i)
		for _, v := range []float32{x, y, z} {
			if v < -3000 || v > 3000 {
				t.Errorf("star %d coordinate %v outside the cube", i, v)
			}
		}
		assert.Equal(t, color, Color{cloud.Colors[3*i], cloud.Colors[3*i+1], cloud.Colors[3*i+2]})
		assert.Equal(t, float32(1), cloud.Sizes[i])
	}
}

func TestColorHSL(t *testing.T) {
	red := ColorHSL(0, 1, 0.5)
	assert.InDelta(t, 1, red[0], 1e-6)
	assert.InDelta(t, 0, red[1], 1e-6)
	assert.InDelta(t, 0, red[2], 1e-6)

	// no sRGB decoding: half lightness red is 0.5 in linear space
	dark := ColorHSL(0, 1, 0.25)
	assert.InDelta(t, 0.5, dark[0], 1e-6)
	assert.InDelta(t, 0, dark[1], 1e-6)
	assert.InDelta(t, 0, dark[2], 1e-6)
	assert.NotEqual(t, ColorHex(0x800000), dark)

	// hue wraps in turns
	assert.Equal(t, ColorHSL(0.25, 1, 0.5), ColorHSL(1.25, 1, 0.5))
	assert.Equal(t, ColorHSL(0.75, 1, 0.5), ColorHSL(-0.25, 1, 0.5))
}

func TestColorHex(t *testing.T) {
	white := ColorHex(0xffffff)
	assert.InDelta(t, 1, white[0], 1e-6)
	assert.InDelta(t, 1, white[1], 1e-6)
	assert.InDelta(t, 1, white[2], 1e-6)

	assert.Equal(t, Color{0, 0, 0}, ColorHex(0))

	// sRGB mid grey is darker in linear space
	grey := ColorHex(0x808080)
	assert.InDelta(t, 0.2158, grey[0], 1e-3)
}
