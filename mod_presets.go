package particlefield

// ParticleFieldModules returns the modules of the visual in acquisition order:
// surface, camera rig, particle buffers, star buffer, sprite, resize
// observation. Frame scheduling is acquired by Mount after all of them.
func ParticleFieldModules(cfg FieldConfig, platform Platform) []Module {
	cfg = cfg.withDefaults()
	var fog *FogExp2
	if cfg.FogDensity > 0 {
		fog = &FogExp2{
			Color:   ColorHex(cfg.FogColor),
			Density: cfg.FogDensity,
		}
	}
	return []Module{
		TimeModule{},
		SceneModule{
			Background: ColorHex(cfg.Background),
			Fog:        fog,
		},
		SurfaceModule{
			Factory:    platform.NewSurface,
			PixelRatio: clampPixelRatio(platform.DevicePixelRatio(), cfg.MaxPixelRatio),
		},
		CameraRigModule{Config: cfg, Input: platform},
		PointFieldModule{Config: cfg},
		StarFieldModule{Config: cfg},
		SpriteModule{Path: cfg.SpritePath, Size: cfg.SpriteSize},
		ResizeModule{Observer: platform, MaxPixelRatio: cfg.MaxPixelRatio},
	}
}

// NewParticleField builds an unmounted App for the visual. A nil logger keeps
// the App silent.
func NewParticleField(cfg FieldConfig, platform Platform, scheduler FrameScheduler, logger Logger) *App {
	b := NewAppBuilder().UseScheduler(scheduler)
	if logger != nil {
		b.UseModule(LoggingModule{Logger: logger})
	}
	return b.UseModule(ParticleFieldModules(cfg, platform)...).Build()
}
