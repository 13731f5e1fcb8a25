package particlefield

import (
	"fmt"
	"math"
)

// PointCloud holds N points as flat attribute arrays: Positions and Colors have
// 3N entries, Sizes has N. Point i lives at [3i, 3i+1, 3i+2] (or i for size).
// The count is fixed at construction.
type PointCloud struct {
	Positions []float32
	Colors    []float32
	Sizes     []float32

	positionsVersion uint64
	hooks            disposeHooks
}

func NewPointCloud(n int) *PointCloud {
	if n < 0 {
		panic(fmt.Sprintf("negative point count %d", n))
	}
	return &PointCloud{
		Positions: make([]float32, 3*n),
		Colors:    make([]float32, 3*n),
		Sizes:     make([]float32, n),
	}
}

func (c *PointCloud) Len() int {
	return len(c.Sizes)
}

func (c *PointCloud) Position(i int) (x, y, z float32) {
	return c.Positions[3*i], c.Positions[3*i+1], c.Positions[3*i+2]
}

func (c *PointCloud) SetPosition(i int, x, y, z float32) {
	c.Positions[3*i] = x
	c.Positions[3*i+1] = y
	c.Positions[3*i+2] = z
}

func (c *PointCloud) SetColor(i int, col Color) {
	c.Colors[3*i] = col[0]
	c.Colors[3*i+1] = col[1]
	c.Colors[3*i+2] = col[2]
}

// MarkPositionsDirty tells the renderer to re-upload positions before the next
// draw.
func (c *PointCloud) MarkPositionsDirty() {
	c.positionsVersion++
}

// PositionsVersion increases by one per MarkPositionsDirty call.
func (c *PointCloud) PositionsVersion() uint64 {
	return c.positionsVersion
}

// OnDispose runs fn when the cloud is disposed, or immediately if it already is.
func (c *PointCloud) OnDispose(fn func()) {
	c.hooks.onDispose(fn)
}

func (c *PointCloud) Disposed() bool {
	return c.hooks.disposed
}

// Dispose notifies dispose listeners once and drops the attribute arrays.
func (c *PointCloud) Dispose() {
	if !c.hooks.dispose() {
		return
	}
	c.Positions = nil
	c.Colors = nil
	c.Sizes = nil
}

const (
	undulateFrequency = 0.8
	undulatePhase     = 0.003
	undulateAmplitude = 0.35
)

// Undulate adds sin(t*0.8 + (x+z)*0.003) * 0.35 to the y of every point in
// place. It is incremental: calling it twice with the same t moves each point
// twice.
func Undulate(positions []float32, t float64) {
	for i := 0; i+2 < len(positions); i += 3 {
		x := float64(positions[i])
		z := float64(positions[i+2])
		positions[i+1] += float32(math.Sin(t*undulateFrequency+(x+z)*undulatePhase) * undulateAmplitude)
	}
}

// Per-frame rotation increments in radians.
const (
	ParticleSpinY = 0.0007
	ParticleSpinX = 0.00025
	StarSpinY     = 0.0002
)

// AnimationState is the accumulated animation: elapsed seconds plus the three
// rotation angles. Angles are never wrapped.
type AnimationState struct {
	Elapsed    float64
	ParticlesX float64
	ParticlesY float64
	StarsY     float64
	Frames     uint64
}

// Advance returns the state one frame later.
func (s AnimationState) Advance(elapsed float64) AnimationState {
	return AnimationState{
		Elapsed:    elapsed,
		ParticlesX: s.ParticlesX + ParticleSpinX,
		ParticlesY: s.ParticlesY + ParticleSpinY,
		StarsY:     s.StarsY + StarSpinY,
		Frames:     s.Frames + 1,
	}
}
