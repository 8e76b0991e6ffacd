// Package cli contains the command line interface for weft.
//
// # Usage
//
// Without a command, the arguments are source documents to weave:
//
//	weft notes.md.w            # same as: weft weave notes.md.w
//	weft tangle -b out notes.md.w
//	weft run out/notes.expr
//	weft repl notes.md.w
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory, which "weft init" writes from the current flag values. See
// [loadYAML] for the file layout. Flags given on the command line win.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// Logger flags are applied before parsing, wherever they appear.
//
// # Profiling Options
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: the pprof
//     directory in the user cache directory)
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
package cli
