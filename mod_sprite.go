package particlefield

import "errors"

// Sprite tracks the particle sprite texture. Until a pending load resolves the
// particles draw without a map.
type Sprite struct {
	Assets  *AssetServer
	Texture *Texture

	pending <-chan TextureResult
}

// Loading reports whether an asynchronous load is still outstanding.
func (s *Sprite) Loading() bool {
	return s.pending != nil
}

type SpriteModule struct {
	Path string
	Size int
}

func (m SpriteModule) Install(app *App, cmd *Commands) error {
	field, ok := Resource[Field](app)
	if !ok {
		return errors.New("sprite needs a point field")
	}

	sprite := &Sprite{Assets: NewAssetServer()}
	if m.Path == "" {
		sprite.attach(field, sprite.Assets.GenerateSparkTexture(m.Size))
	} else {
		sprite.pending = sprite.Assets.LoadTextureAsync(m.Path, m.Size)
		cmd.UseSystem(System(spriteSystem).InStage(Prelude))
	}

	cmd.AddResources(sprite)
	cmd.OnRelease("sprite texture", func() {
		sprite.pending = nil
		if field.Particles != nil {
			field.Particles.Material.Map = nil
		}
		sprite.Texture = nil
		sprite.Assets.ReleaseAll()
	})
	return nil
}

func (s *Sprite) attach(field *Field, tex *Texture) {
	s.Texture = tex
	if field.Particles != nil {
		field.Particles.Material.Map = tex
	}
}

// spriteSystem picks up a finished load without blocking the frame. A failed
// load is logged and the field keeps drawing untextured points.
func spriteSystem(sprite *Sprite, field *Field, cmd *Commands) {
	if sprite.pending == nil {
		return
	}
	select {
	case res := <-sprite.pending:
		sprite.pending = nil
		if res.Err != nil {
			cmd.Logger().Warnf("sprite unavailable, drawing plain points: %v", res.Err)
			return
		}
		sprite.attach(field, sprite.Assets.CreateTextureFromImage(res.Image))
		cmd.Logger().Debugf("sprite %s loaded (%s)", res.Path, sprite.Texture.Id)
	default:
	}
}
