package repl

import (
	"maps"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/weft/namespace"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "use", "edit", "save", "clear", "quit"}

// isWordBoundary reports whether r ends an identifier: whitespace, the
// member-access dot, or expression punctuation.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%', '^',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';',
		'"', '\'', '`':
		return true
	}

	return false
}

// wordBounds returns the identifier under the cursor and its byte offsets.
// The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading to the word starting
// at wordStart: "cfg.pa" completing "pa" has parent "cfg". Top-level words
// have no parent.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:])
}

// candidates returns the completions available under parent: every
// identifier and expression builtin at the top level, or the keys of the
// mapping parent resolves to.
func candidates(ns *namespace.Namespace, parent string) []string {
	if parent == "" {
		names := append(ns.Identifiers(), builtin.Names...)
		slices.Sort(names)

		return slices.Compact(names)
	}

	v, ok := ns.Resolve(parent)
	if !ok {
		return nil
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	return slices.Sorted(maps.Keys(m))
}

// callable reports whether path names a function.
func callable(ns *namespace.Namespace, path string) bool {
	if v, ok := ns.Resolve(path); ok {
		return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
	}

	_, ok := builtin.Index[path]

	return ok
}

// computeMatches ranks the candidates for the word at the cursor. An empty
// word lists nothing at the top level, so the hint stays visible, and every
// member after a dot.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var pool []string

	switch {
	case m.mode == modeCtrl && strings.HasPrefix(input, "use "):
		pool = m.store.Names()
	case m.mode == modeCtrl:
		pool = ctrlCommands
	default:
		parent := parentPath(input, wordStart)
		pool = candidates(m.ns, parent)

		if word == "" && parent != "" {
			matches = make(fuzzy.Matches, len(pool))
			for i, c := range pool {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, wordStart, wordEnd
		}
	}

	if word == "" || len(pool) == 0 {
		return nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, pool), wordStart, wordEnd
}

var (
	matchStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	selectedMatchStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("4")).
				Bold(true)
)

// renderCandidateBar lays the matches out on one line no wider than width,
// ending in an ellipsis when they do not all fit.
func (m model) renderCandidateBar() string {
	if len(m.matches) == 0 || m.width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")

	var (
		b    strings.Builder
		used int
	)

	for i, match := range m.matches {
		item := m.renderCandidate(match, m.tabActive && i == m.suggIdx)

		w := lipgloss.Width(item)
		if i > 0 {
			w += len(sep)
		}

		last := i == len(m.matches)-1
		if i > 0 && used+w+lipgloss.Width(ellipsis) > m.width && !last {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(item)

		used += w
	}

	return b.String()
}

// renderCandidate highlights the matched runes of one candidate. Callables
// get a "()" suffix that is not inserted on completion.
func (m model) renderCandidate(match fuzzy.Match, selected bool) string {
	base, hit := suggestionStyle, matchStyle
	if selected {
		base, hit = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(hit.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if m.mode == modeEval && callable(m.ns, m.qualified(match.Str)) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// qualified prefixes name with the member chain being completed.
func (m model) qualified(name string) string {
	if parent := parentPath(m.input.Value(), m.wordStart); parent != "" {
		return parent + "." + name
	}

	return name
}
