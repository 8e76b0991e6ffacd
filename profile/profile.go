package profile

// Settings selects what a profiling session records and where.
type Settings struct {
	// Mode is one of [Modes]. An empty mode disables profiling.
	Mode string
	// Dir receives the profile. Empty means the working directory.
	Dir string
	// Quiet suppresses the messages of the underlying profiler.
	Quiet bool
}

// Session is a running profile.
type Session interface {
	Stop()
}

// Start begins profiling according to s. Stop on the returned session is
// always safe to call, including when nothing was started.
func Start(s Settings) Session {
	if s.Mode == "" {
		return nop{}
	}

	return start(s)
}

type nop struct{}

func (nop) Stop() {}
