package particlefield

import (
	"errors"
	"math/rand"
)

// Field holds the two clouds and the animation that drives them.
type Field struct {
	Particles *Points
	Stars     *Points
	Animation AnimationState

	rng *rand.Rand
}

func fieldResource(app *App, cmd *Commands, seed int64) *Field {
	if field, ok := Resource[Field](app); ok {
		return field
	}
	field := &Field{rng: rand.New(rand.NewSource(seed))}
	cmd.AddResources(field)
	return field
}

type PointFieldModule struct {
	Config FieldConfig
}

func (m PointFieldModule) Install(app *App, cmd *Commands) error {
	cfg := m.Config.withDefaults()
	scene, ok := Resource[Scene](app)
	if !ok {
		return errors.New("point field needs a scene")
	}
	field := fieldResource(app, cmd, cfg.Seed)

	geometry := NewPointCloud(cfg.ParticleCount)
	FillParticleSphere(geometry, cfg, field.rng)

	particles := NewPoints("particles", geometry, PointsMaterial{
		Color:           Color{1, 1, 1},
		Size:            cfg.ParticleSize,
		SizeAttenuation: true,
		VertexColors:    true,
		Transparent:     true,
		Blending:        AdditiveBlending,
		DepthWrite:      false,
		AlphaTest:       0.01,
		Fog:             true,
	})
	scene.Add(particles)
	field.Particles = particles
	cmd.OnRelease("particle geometry", func() {
		scene.Remove(particles)
		geometry.Dispose()
		field.Particles = nil
	})

	cmd.UseSystem(System(undulateSystem).InStage(Update))
	cmd.UseSystem(System(spinSystem).InStage(Update))
	return nil
}

type StarFieldModule struct {
	Config FieldConfig
}

func (m StarFieldModule) Install(app *App, cmd *Commands) error {
	cfg := m.Config.withDefaults()
	scene, ok := Resource[Scene](app)
	if !ok {
		return errors.New("star field needs a scene")
	}
	field := fieldResource(app, cmd, cfg.Seed)

	color := ColorHex(cfg.StarColor)
	geometry := NewPointCloud(cfg.StarCount)
	FillStarCube(geometry, cfg.StarSpan, color, cfg.StarSize, field.rng)

	stars := NewPoints("stars", geometry, PointsMaterial{
		Color:           color,
		Size:            cfg.StarSize,
		SizeAttenuation: true,
		Blending:        NormalBlending,
		DepthWrite:      true,
		Fog:             true,
	})
	scene.Add(stars)
	field.Stars = stars
	cmd.OnRelease("star geometry", func() {
		scene.Remove(stars)
		geometry.Dispose()
		field.Stars = nil
	})
	return nil
}

// undulateSystem moves every particle vertically and flags the positions once.
func undulateSystem(clock *Clock, field *Field) {
	if field.Particles == nil {
		return
	}
	geometry := field.Particles.Geometry
	Undulate(geometry.Positions, clock.Elapsed)
	geometry.MarkPositionsDirty()
}

func spinSystem(clock *Clock, field *Field) {
	field.Animation = field.Animation.Advance(clock.Elapsed)
	if field.Particles != nil {
		field.Particles.Rotation[0] = field.Animation.ParticlesX
		field.Particles.Rotation[1] = field.Animation.ParticlesY
	}
	if field.Stars != nil {
		field.Stars.Rotation[1] = field.Animation.StarsY
	}
}
