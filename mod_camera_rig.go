package particlefield

import "github.com/go-gl/mathgl/mgl32"

// CameraRig is the perspective camera and the orbit controls that move it.
type CameraRig struct {
	Camera   *PerspectiveCamera
	Controls *OrbitControls
}

type CameraRigModule struct {
	Config FieldConfig
	Input  PointerInput
}

func (m CameraRigModule) Install(app *App, cmd *Commands) error {
	cfg := m.Config.withDefaults()
	container := app.Container()

	aspect := 1.0
	if w, h := container.Size(); w > 0 && h > 0 {
		aspect = float64(w) / float64(h)
	}
	camera := NewPerspectiveCamera(cfg.Fov, aspect, cfg.Near, cfg.Far)
	camera.Position = mgl32.Vec3{0, 0, float32(cfg.CameraDistance)}

	controls := NewOrbitControls(camera, container, m.Input)
	cmd.OnRelease("orbit controls", controls.Dispose)
	controls.EnableDamping = true
	controls.DampingFactor = cfg.DampingFactor
	controls.MinDistance = cfg.MinDistance
	controls.MaxDistance = cfg.MaxDistance

	cmd.AddResources(&CameraRig{Camera: camera, Controls: controls})
	cmd.UseSystem(System(orbitControlsSystem).InStage(PreRender))
	return nil
}

func orbitControlsSystem(rig *CameraRig) {
	rig.Controls.Update()
}
