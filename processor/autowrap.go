package processor

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/weft/option"
)

// AutoWrap copies the block into the document, wrapping listed text
// fragments with markup commands. Nothing is tangled.
//
// Options:
//
//	<cmd>_wrapped      fragments to wrap with cmd, separated by list_delimiter
//	list_delimiter=#   separator of fragment lists
//	escape_delimiter=!! a fragment preceded by this is copied unwrapped and
//	                   the escape is removed
//	wrap_format        how a wrapped fragment is written: %c is the command,
//	                   %t the fragment, %% a percent sign. The default
//	                   depends on the format, \%c{%t} for tex.
//
// Fragments are matched left to right. Where several fragments match at the
// same position the longest wins, then the one whose command sorts first.
// Wrapped text is never wrapped again.
type AutoWrap struct {
	Base
}

// NewAutoWrap returns the "autowrap" processor.
func NewAutoWrap(b Base) Processor { return &AutoWrap{Base: b} }

func (a *AutoWrap) Name() string { return "autowrap" }

func (a *AutoWrap) Defaults() option.Set {
	format := `\%c{%t}`

	switch strings.ToLower(a.Config().Format) {
	case "rst", "sphinx":
		format = ":%c:`%t`"
	case "md", "html":
		format = `<span class="%c">%t</span>`
	}

	return option.From(map[string]string{
		"list_delimiter":   "#",
		"escape_delimiter": "!!",
		"wrap_format":      format,
	})
}

type wrapRule struct {
	text    string
	command string
}

const wrapSuffix = "_wrapped"

func (a *AutoWrap) Process(_ context.Context, block Block, opts option.Set) (Fragment, error) {
	rules, err := wrapRules(opts)
	if err != nil {
		return Fragment{}, err.With(slog.Int("line", block.Line))
	}

	format := opts.Get("wrap_format")
	if err := checkWrapFormat(format); err != nil {
		return Fragment{}, err.With(slog.Int("line", block.Line))
	}

	esc := opts.Get("escape_delimiter")
	src := block.Source

	var sb strings.Builder

	for i := 0; i < len(src); {
		if esc != "" && strings.HasPrefix(src[i:], esc) {
			if r, ok := matchRule(rules, src[i+len(esc):]); ok {
				sb.WriteString(r.text)

				i += len(esc) + len(r.text)

				continue
			}
		}

		if r, ok := matchRule(rules, src[i:]); ok {
			sb.WriteString(expandWrap(format, r))

			i += len(r.text)

			continue
		}

		sb.WriteByte(src[i])
		i++
	}

	return Fragment{Doc: sb.String()}, nil
}

// wrapRules collects the fragment rules from opts, longest fragment first,
// then by command and fragment. A fragment listed for several commands is
// wrapped with the first of them.
func wrapRules(opts option.Set) ([]wrapRule, *Error) {
	delim := opts.Get("list_delimiter")
	if delim == "" {
		return nil, ErrWrapTemplate.With(slog.String("reason", "empty list_delimiter"))
	}

	var rules []wrapRule

	for _, key := range opts.Keys() {
		command, ok := strings.CutSuffix(key, wrapSuffix)
		if !ok || command == "" {
			continue
		}

		for _, text := range strings.Split(opts.Get(key), delim) {
			if text != "" {
				rules = append(rules, wrapRule{text: text, command: command})
			}
		}
	}

	slices.SortStableFunc(rules, func(x, y wrapRule) int {
		return cmp.Or(
			cmp.Compare(len(y.text), len(x.text)),
			cmp.Compare(x.command, y.command),
			cmp.Compare(x.text, y.text),
		)
	})

	seen := make(map[string]bool, len(rules))

	return slices.DeleteFunc(rules, func(r wrapRule) bool {
		dup := seen[r.text]
		seen[r.text] = true

		return dup
	}), nil
}

func matchRule(rules []wrapRule, s string) (wrapRule, bool) {
	for _, r := range rules {
		if strings.HasPrefix(s, r.text) {
			return r, true
		}
	}

	return wrapRule{}, false
}

func checkWrapFormat(format string) *Error {
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}

		if i+1 >= len(format) || !strings.ContainsRune("ct%", rune(format[i+1])) {
			return ErrWrapTemplate.With(
				slog.String("wrap_format", format),
				slog.Int("offset", i),
			)
		}

		i++
	}

	return nil
}

func expandWrap(format string, r wrapRule) string {
	var sb strings.Builder

	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 >= len(format) {
			sb.WriteByte(format[i])

			continue
		}

		i++

		switch format[i] {
		case 'c':
			sb.WriteString(r.command)
		case 't':
			sb.WriteString(r.text)
		default:
			sb.WriteByte(format[i])
		}
	}

	return sb.String()
}
