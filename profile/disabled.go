//go:build !pprof

package profile

// Modes returns nil; profiling is not compiled in.
func Modes() []string { return nil }

func start(Settings) Session { return nop{} }
