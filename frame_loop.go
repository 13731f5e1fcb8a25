package particlefield

// DefaultFrameStep is the StepScheduler interval used when no scheduler is set.
const DefaultFrameStep = 1.0 / 60.0

type FrameHandle uint64

// FrameCallback receives the frame timestamp in seconds.
type FrameCallback func(timestamp float64)

// FrameScheduler delivers "next display frame" callbacks. Requests are one-shot;
// a callback that wants another frame must request it again.
type FrameScheduler interface {
	RequestFrame(fn FrameCallback) FrameHandle
	CancelFrame(handle FrameHandle)
}

// FrameLoop drives the App's stages once per scheduled frame and re-requests
// itself afterwards. Cancellation is only observed at the top of a tick, so a
// frame that has started always runs to completion.
type FrameLoop struct {
	app       *App
	scheduler FrameScheduler
	handle    FrameHandle
	scheduled bool
	stopped   bool
	frames    uint64
}

func newFrameLoop(app *App, scheduler FrameScheduler) *FrameLoop {
	return &FrameLoop{
		app:       app,
		scheduler: scheduler,
	}
}

// Frames counts ticks that ran to completion.
func (l *FrameLoop) Frames() uint64 {
	return l.frames
}

// Scheduled reports whether a next frame is pending.
func (l *FrameLoop) Scheduled() bool {
	return l.scheduled
}

func (l *FrameLoop) start() {
	l.schedule()
}

func (l *FrameLoop) schedule() {
	l.handle = l.scheduler.RequestFrame(l.tick)
	l.scheduled = true
}

func (l *FrameLoop) cancel() {
	if !l.scheduled {
		return
	}
	l.scheduler.CancelFrame(l.handle)
	l.scheduled = false
}

func (l *FrameLoop) stop() {
	l.stopped = true
	l.cancel()
}

func (l *FrameLoop) tick(timestamp float64) {
	l.scheduled = false
	if l.stopped || !l.app.mounted || l.app.loop != l {
		return
	}

	l.app.frameTime.Now = timestamp
	l.app.runFrame()
	l.frames++

	if !l.stopped && l.app.mounted {
		l.schedule()
	}
}

type scheduledFrame struct {
	handle FrameHandle
	fn     FrameCallback
}

// StepScheduler is a fixed-step FrameScheduler. Nothing fires until Advance is
// called, which moves the clock forward by Step and runs the callbacks that
// were pending at that moment.
type StepScheduler struct {
	Step float64

	now     float64
	next    FrameHandle
	pending []scheduledFrame
}

func NewStepScheduler(step float64) *StepScheduler {
	if step <= 0 {
		step = DefaultFrameStep
	}
	return &StepScheduler{Step: step}
}

func (s *StepScheduler) RequestFrame(fn FrameCallback) FrameHandle {
	s.next++
	s.pending = append(s.pending, scheduledFrame{handle: s.next, fn: fn})
	return s.next
}

func (s *StepScheduler) CancelFrame(handle FrameHandle) {
	for i, f := range s.pending {
		if f.handle == handle {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

func (s *StepScheduler) Pending() int {
	return len(s.pending)
}

func (s *StepScheduler) Now() float64 {
	return s.now
}

// Advance fires one frame and returns how many callbacks ran.
func (s *StepScheduler) Advance() int {
	s.now += s.Step
	batch := s.pending
	s.pending = nil
	for _, f := range batch {
		f.fn(s.now)
	}
	return len(batch)
}

// Run advances up to n frames, stopping early once nothing is pending.
func (s *StepScheduler) Run(n int) int {
	frames := 0
	for i := 0; i < n && len(s.pending) > 0; i++ {
		s.Advance()
		frames++
	}
	return frames
}
