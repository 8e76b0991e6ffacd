// Package processor converts code blocks into document and code fragments.
//
// A [Registry] is built once per run from a [Catalog] of factories. Each
// processor embeds a [Base] that gives it the run [Config], a [Lookup] of its
// siblings and the namespace it executes code against. Blocks are routed by
// their "p" option; an unknown name falls back to the configured default
// with a warning, while a processor chaining to an unknown name fails.
//
// The processors in [Builtin] emit markup for the formats listed by
// [Formats].
package processor
