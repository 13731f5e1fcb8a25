package particlefield

// ReleaseStack records release actions in acquisition order and runs them in
// reverse. Each action runs at most once.
type ReleaseStack struct {
	entries []releaseEntry
}

type releaseEntry struct {
	name string
	fn   func()
}

func (s *ReleaseStack) Push(name string, fn func()) {
	if fn == nil {
		return
	}
	s.entries = append(s.entries, releaseEntry{name: name, fn: fn})
}

func (s *ReleaseStack) Len() int {
	return len(s.entries)
}

// Names lists pending releases in the order Release would run them.
func (s *ReleaseStack) Names() []string {
	names := make([]string, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		names = append(names, s.entries[i].name)
	}
	return names
}

// Release pops and runs every pending action, last acquired first. The entry is
// popped before it runs, so a panicking action is never retried.
func (s *ReleaseStack) Release(onRelease func(name string)) {
	for len(s.entries) > 0 {
		last := len(s.entries) - 1
		e := s.entries[last]
		s.entries = s.entries[:last]
		if onRelease != nil {
			onRelease(e.name)
		}
		e.fn()
	}
}
