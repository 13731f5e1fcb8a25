package particlefield

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerspectiveCamera_SetViewport(t *testing.T) {
	cam := NewPerspectiveCamera(70, 1, 0.1, 3000)
	before := cam.ProjectionMatrix()

	require.True(t, cam.SetViewport(1600, 900))
	assert.InDelta(t, 1600.0/900.0, cam.Aspect, 1e-12)
	assert.NotEqual(t, before, cam.ProjectionMatrix())

	want := mgl32.Perspective(mgl32.DegToRad(70), float32(1600.0/900.0), 0.1, 3000)
	assert.True(t, want.ApproxEqualThreshold(cam.ProjectionMatrix(), 1e-5))

	assert.False(t, cam.SetViewport(0, 900))
	assert.False(t, cam.SetViewport(1600, -1))
	assert.InDelta(t, 1600.0/900.0, cam.Aspect, 1e-12)
}

func TestPerspectiveCamera_ViewProjectionCentersTarget(t *testing.T) {
	cam := NewPerspectiveCamera(70, 4.0/3.0, 0.1, 3000)
	cam.Position = mgl32.Vec3{0, 0, 420}
	cam.LookAt(mgl32.Vec3{})

	clip := cam.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	ndc := clip.Vec3().Mul(1 / clip.W())
	assert.InDelta(t, 0, ndc.X(), 1e-6)
	assert.InDelta(t, 0, ndc.Y(), 1e-6)
	assert.True(t, ndc.Z() > -1 && ndc.Z() < 1, "target is between the clip planes, got %v", ndc.Z())
}

func newTestControls(t *testing.T) (*OrbitControls, *fakePlatform) {
	t.Helper()
	platform := newFakePlatform()
	cam := NewPerspectiveCamera(70, 800.0/600.0, 0.1, 3000)
	cam.Position = mgl32.Vec3{0, 0, 420}
	controls := NewOrbitControls(cam, &fakeContainer{w: 800, h: 600}, platform)
	controls.MinDistance = 120
	controls.MaxDistance = 900
	return controls, platform
}

func TestOrbitControls_IdleDoesNotMove(t *testing.T) {
	controls, _ := newTestControls(t)
	assert.False(t, controls.Update())
	assert.InDelta(t, 420, controls.Camera.Position.Len(), 1e-3)
}

func TestOrbitControls_DragRotatesAroundTarget(t *testing.T) {
	controls, platform := newTestControls(t)
	platform.drag(150, 0)

	require.True(t, controls.Update())
	pos := controls.Camera.Position
	assert.InDelta(t, 420, pos.Len(), 1e-2, "rotation keeps the distance")
	assert.NotZero(t, pos.X())
	assert.InDelta(t, 0, pos.Y(), 1e-3)

	// without damping the full drag lands in one update
	theta := math.Atan2(float64(pos.X()), float64(pos.Z()))
	assert.InDelta(t, -2*math.Pi*150/600, theta, 1e-4)
	assert.Equal(t, mgl32.Vec3{}, controls.Camera.Target)
}

func TestOrbitControls_DampingSpreadsMotion(t *testing.T) {
	controls, platform := newTestControls(t)
	controls.EnableDamping = true
	controls.DampingFactor = 0.05
	platform.drag(150, 0)

	first := controls.Update()
	require.True(t, first)
	theta1 := math.Atan2(float64(controls.Camera.Position.X()), float64(controls.Camera.Position.Z()))
	assert.InDelta(t, -2*math.Pi*150/600*0.05, theta1, 1e-4)

	for i := 0; i < 200; i++ {
		controls.Update()
	}
	theta := math.Atan2(float64(controls.Camera.Position.X()), float64(controls.Camera.Position.Z()))
	assert.InDelta(t, -2*math.Pi*150/600, theta, 1e-3, "damped motion converges on the full drag")
}

func TestOrbitControls_PolarAngleIsClamped(t *testing.T) {
	controls, platform := newTestControls(t)
	platform.drag(0, 10000)
	controls.Update()

	pos := controls.Camera.Position
	assert.InDelta(t, 420, pos.Len(), 1e-2)
	assert.True(t, math.Abs(float64(pos.Y())) <= 420, "camera stays on the sphere")
	assert.False(t, math.IsNaN(float64(pos.X())))
}

func TestOrbitControls_ScrollZoomsWithinLimits(t *testing.T) {
	controls, platform := newTestControls(t)

	platform.scroll(1)
	controls.Update()
	assert.InDelta(t, 420*0.95, controls.Camera.Position.Len(), 1e-2)

	platform.scroll(200)
	controls.Update()
	assert.InDelta(t, 120, controls.Camera.Position.Len(), 1e-2)

	platform.scroll(-500)
	controls.Update()
	assert.InDelta(t, 900, controls.Camera.Position.Len(), 1e-2)
}

func TestOrbitControls_Dispose(t *testing.T) {
	controls, platform := newTestControls(t)
	controls.Dispose()
	controls.Dispose()

	assert.Equal(t, 1, platform.unsubscribes)
	assert.Empty(t, platform.pointers)
	assert.True(t, controls.Disposed())

	controls.Scroll(10)
	assert.False(t, controls.Update())
}

func TestOrbitControls_ThroughFrameLoop(t *testing.T) {
	app, platform, scheduler := mountField(t, smallConfig(), 800, 600)
	defer app.Unmount()

	rig := mustResource[CameraRig](app)
	start := rig.Camera.Position
	platform.drag(200, 0)
	scheduler.Run(10)

	assert.NotEqual(t, start, rig.Camera.Position)
	assert.InDelta(t, 420, rig.Camera.Position.Len(), 1e-2)
}
