// Package log provides a concurrency-safe structured logging interface based
// on [log/slog].
//
// Time formatting, caller information, output format and colorization are
// applied at logger creation time using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Warn("processor not found", slog.String("name", "tabel"))
//
// Attributes are always [slog.Attr] values, never loose key/value pairs.
//
// # Default Logger
//
// Package-level functions ([Debug], [Info], [Warn], [Error] and their
// Context variants) write through a default logger on standard error.
// [Config] reconfigures it; the command-line layer calls Config while flags
// are parsed so that early diagnostics already honor --log-level.
//
// # Levels
//
// [LevelTrace], [LevelDebug], [LevelInfo], [LevelWarn], and [LevelError].
// Engine warnings (malformed block headers, unknown processors,
// unterminated blocks) are emitted at [LevelWarn].
package log
