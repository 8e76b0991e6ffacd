// Package weave scans literate documents and assembles their two outputs.
//
// A document is text interleaved with code blocks:
//
//	Some prose.
//	<<p=default, echo=false>>=
//	x = 1 + 1
//	@
//	More prose.
//
// A block opens on a line that, once trimmed, matches <<header>>= and closes
// on a line beginning with the terminator. Text outside blocks is copied to
// the woven document unchanged. Each block's header is parsed into options
// and the block is handed to the processor registry, whose fragments are
// appended to the woven document and the tangled code.
package weave
