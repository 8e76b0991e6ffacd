package processor

import (
	"html"
	"iter"
	"log/slog"
	"strings"

	"github.com/ardnew/weft/log"
	"github.com/ardnew/weft/namespace"
	"github.com/ardnew/weft/option"
)

// Config is shared by every processor of a registry.
type Config struct {
	// Format selects the markup processors emit ("tex", "rst", "sphinx",
	// "md" or "html").
	Format string
	// Store holds the namespaces processors execute code against.
	Store *namespace.Store
	// DefaultProcessor handles blocks that request no processor, or one that
	// is not registered.
	DefaultProcessor string
	// ImageDir is where processors may place generated files.
	ImageDir string
	// Logger receives diagnostics. The zero value uses the default logger.
	Logger log.Logger
	// Warn receives non-fatal problems. When nil, warnings are logged.
	Warn func(msg string, attrs ...slog.Attr)
}

// DefaultFormat is used when [Config.Format] is empty.
const DefaultFormat = "tex"

func (c Config) withDefaults() Config {
	if c.Format == "" {
		c.Format = DefaultFormat
	}

	if c.Store == nil {
		c.Store = namespace.NewStore()
	}

	if c.DefaultProcessor == "" {
		c.DefaultProcessor = option.DefaultProcessor
	}

	if c.Logger.Logger == nil {
		c.Logger = log.Default()
	}

	return c
}

func (c Config) warn(msg string, attrs ...slog.Attr) {
	if c.Warn != nil {
		c.Warn(msg, attrs...)

		return
	}

	c.Logger.Warn(msg, attrs...)
}

// Markup holds the literal strings a format uses around code and output.
type Markup struct {
	Format      string
	CodeStart   string
	CodeEnd     string
	OutputStart string
	OutputEnd   string
	CodeIndent  string
	// Escape makes text safe to embed verbatim. It is the identity for
	// formats that need no escaping.
	Escape func(string) string
}

func identity(s string) string { return s }

var markups = map[string]Markup{
	"tex": {
		CodeStart:   "\\begin{verbatim}\n",
		CodeEnd:     "\\end{verbatim}\n",
		OutputStart: "\\begin{verbatim}\n",
		OutputEnd:   "\\end{verbatim}\n",
	},
	"rst": {
		CodeStart:   "::\n\n",
		CodeEnd:     "\n\n",
		OutputStart: "::\n\n",
		OutputEnd:   "\n\n",
		CodeIndent:  "  ",
	},
	"sphinx": {
		CodeStart:   "::\n\n",
		CodeEnd:     "\n\n",
		OutputStart: "::\n\n",
		OutputEnd:   "\n\n",
		CodeIndent:  "  ",
	},
	"md": {
		CodeStart:   "```\n",
		CodeEnd:     "```\n",
		OutputStart: "```\n",
		OutputEnd:   "```\n",
	},
	"html": {
		CodeStart:   "<pre><code>",
		CodeEnd:     "</code></pre>\n",
		OutputStart: "<pre class=\"output\">",
		OutputEnd:   "</pre>\n",
	},
}

// MarkupFor returns the markup of format.
func MarkupFor(format string) (Markup, error) {
	key := strings.ToLower(strings.TrimSpace(format))

	m, ok := markups[key]
	if !ok {
		return Markup{}, ErrUnknownFormat.With(slog.String("format", format))
	}

	m.Format = key
	m.Escape = identity

	if key == "html" {
		m.Escape = html.EscapeString
	}

	return m, nil
}

// Formats returns an iterator over the supported format names.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []string{"tex", "rst", "sphinx", "md", "html"} {
			if !yield(f) {
				return
			}
		}
	}
}

// Extension returns the file extension of a woven document in format.
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "rst", "sphinx":
		return ".rst"
	case "md":
		return ".md"
	case "html":
		return ".html"
	default:
		return ".tex"
	}
}
