package particlefield

import (
	"errors"
	"fmt"
)

// Viewport is the attached render surface and the size it was last given.
type Viewport struct {
	Surface    Surface
	Width      int
	Height     int
	PixelRatio float64
}

type SurfaceModule struct {
	Factory    SurfaceFactory
	PixelRatio float64
}

func (m SurfaceModule) Install(app *App, cmd *Commands) error {
	if m.Factory == nil {
		return errors.New("no surface factory")
	}
	container := app.Container()

	surface, err := m.Factory(container)
	if err != nil {
		return fmt.Errorf("create surface: %w", err)
	}
	cmd.OnRelease("render surface", surface.Dispose)

	ratio := m.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	w, h := container.Size()
	surface.SetPixelRatio(ratio)
	surface.SetSize(w, h)

	cmd.AddResources(&Viewport{
		Surface:    surface,
		Width:      w,
		Height:     h,
		PixelRatio: ratio,
	})
	cmd.UseSystem(System(renderSystem).InStage(Render))
	return nil
}

func renderSystem(vp *Viewport, scene *Scene, rig *CameraRig, cmd *Commands) {
	if err := vp.Surface.Render(scene, rig.Camera); err != nil {
		cmd.Logger().Warnf("render: %v", err)
	}
}
