package particlefield

// Clock is the animation time base. Elapsed is zero on the first frame and
// grows monotonically while the loop runs.
type Clock struct {
	Elapsed float64
	Dt      float64
	Frame   uint64

	started bool
	start   float64
	last    float64
}

type TimeModule struct{}

func (mod TimeModule) Install(app *App, cmd *Commands) error {
	cmd.AddResources(&Clock{})
	cmd.UseSystem(System(clockSystem).InStage(Prelude))
	return nil
}

func clockSystem(frame *FrameTime, clock *Clock) {
	clock.Tick(frame.Now)
}

// Tick moves the clock to the given scheduler timestamp. Timestamps older than
// the previous one are clamped so Elapsed never goes backwards.
func (c *Clock) Tick(now float64) {
	if !c.started {
		c.started = true
		c.start = now
		c.last = now
	}
	if now < c.last {
		now = c.last
	}
	c.Dt = now - c.last
	c.last = now
	c.Elapsed = now - c.start
	c.Frame++
}
