// Package pkg holds the identity of the weft module: its name, version, and
// the path conventions shared by the command-line surface.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command identifier. It appears in help text and in
	// the default configuration and cache paths.
	Name = "weft"

	// Description is a short summary used in help output.
	Description = "Literate-programming preprocessor: weave documents and " +
		"tangle runnable code from annotated sources"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
