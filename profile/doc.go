// Package profile wraps [github.com/pkg/profile] for the weft command.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	weft --pprof-mode=cpu --pprof-dir=/tmp/weft weave notes.tex.w
//
// Without the tag [Modes] is empty and [Start] always returns a session whose
// Stop does nothing. Profiles are written to the session directory, one file
// per mode (cpu.pprof, mem.pprof, trace.out, ...), and can be inspected with
// go tool pprof.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
