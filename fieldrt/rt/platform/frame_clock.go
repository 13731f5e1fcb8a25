package platform

import (
	"github.com/gekko3d/particlefield"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type pendingFrame struct {
	handle particlefield.FrameHandle
	fn     particlefield.FrameCallback
}

// FrameClock is the real-time particlefield.FrameScheduler. Each turn of Run
// polls window events, then fires the callbacks that were pending, stamped
// with glfw.GetTime. Pacing comes from the vsync'd present in the renderer.
type FrameClock struct {
	window  *Window
	next    particlefield.FrameHandle
	pending []pendingFrame
}

func NewFrameClock(window *Window) *FrameClock {
	return &FrameClock{window: window}
}

func (c *FrameClock) RequestFrame(fn particlefield.FrameCallback) particlefield.FrameHandle {
	c.next++
	c.pending = append(c.pending, pendingFrame{handle: c.next, fn: fn})
	return c.next
}

func (c *FrameClock) CancelFrame(handle particlefield.FrameHandle) {
	for i, f := range c.pending {
		if f.handle == handle {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}

// Run drives frames until the window is closed or nothing asks for another
// frame.
func (c *FrameClock) Run() {
	for !c.window.ShouldClose() {
		glfw.PollEvents()
		if len(c.pending) == 0 {
			return
		}
		batch := c.pending
		c.pending = nil
		now := glfw.GetTime()
		for _, f := range batch {
			f.fn(now)
		}
	}
}

var _ particlefield.FrameScheduler = (*FrameClock)(nil)
