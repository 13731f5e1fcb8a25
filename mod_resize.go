package particlefield

// ResizeModule follows container size changes. When the observer also reports
// pixel ratio changes, the surface ratio follows them, capped at MaxPixelRatio.
type ResizeModule struct {
	Observer      ResizeObserver
	MaxPixelRatio float64
}

func (m ResizeModule) Install(app *App, cmd *Commands) error {
	if m.Observer == nil {
		cmd.Logger().Warnf("no resize observer; viewport keeps its mount size")
		return nil
	}
	disconnect := m.Observer.Observe(app.Container(), func(width, height int) {
		applyResize(app, width, height)
	})
	if ratios, ok := m.Observer.(PixelRatioObserver); ok {
		disconnectSize := disconnect
		disconnectRatio := ratios.ObservePixelRatio(func(ratio float64) {
			applyPixelRatio(app, clampPixelRatio(ratio, m.MaxPixelRatio))
		})
		disconnect = func() {
			disconnectRatio()
			disconnectSize()
		}
	}
	cmd.OnRelease("resize observation", disconnect)
	return nil
}

// applyResize sets the camera aspect to width/height and resizes the surface.
// It runs between frames, so the next frame sees the new size.
func applyResize(app *App, width, height int) {
	if !app.mounted {
		return
	}
	rig, ok := Resource[CameraRig](app)
	if !ok {
		return
	}
	vp, ok := Resource[Viewport](app)
	if !ok {
		return
	}
	if !rig.Camera.SetViewport(width, height) {
		app.Logger().Debugf("ignoring degenerate resize %dx%d", width, height)
		return
	}
	vp.Surface.SetSize(width, height)
	vp.Width = width
	vp.Height = height
}

func applyPixelRatio(app *App, ratio float64) {
	if !app.mounted {
		return
	}
	vp, ok := Resource[Viewport](app)
	if !ok || vp.PixelRatio == ratio {
		return
	}
	app.Logger().Debugf("pixel ratio %g -> %g", vp.PixelRatio, ratio)
	vp.Surface.SetPixelRatio(ratio)
	vp.PixelRatio = ratio
}
