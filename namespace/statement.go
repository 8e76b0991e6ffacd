package namespace

import (
	"log/slog"
	"regexp"
	"strings"
)

type stmtKind int

const (
	kindExpr stmtKind = iota
	kindAssign
	kindUpdate
	kindDelete
)

// statement is one executable unit of a block, with the 1-based line of the
// block it starts on.
type statement struct {
	text string
	line int
}

var (
	assignPattern = regexp.MustCompile(`(?s)^([A-Za-z_][A-Za-z0-9_]*)\s*([-+*/]?=)(.*)$`)
	deletePattern = regexp.MustCompile(`^del\s+([A-Za-z_][A-Za-z0-9_]*)$`)
)

// assignment splits an assignment or update statement into its target,
// operator and right-hand side.
func (s statement) assignment() (name, op, rhs string, ok bool) {
	m := assignPattern.FindStringSubmatch(s.text)
	if m == nil {
		return "", "", "", false
	}

	// "x == y" is a comparison, not an assignment of "= y".
	if m[2] == "=" && strings.HasPrefix(m[3], "=") {
		return "", "", "", false
	}

	return m[1], m[2], strings.TrimSpace(m[3]), true
}

func (s statement) deletion() (string, bool) {
	m := deletePattern.FindStringSubmatch(s.text)
	if m == nil {
		return "", false
	}

	return m[1], true
}

func (s statement) kind() stmtKind {
	if _, ok := s.deletion(); ok {
		return kindDelete
	}

	if _, op, _, ok := s.assignment(); ok {
		if op == "=" {
			return kindAssign
		}

		return kindUpdate
	}

	return kindExpr
}

// splitStatements cuts src into statements. Newlines and semicolons end a
// statement unless they appear inside brackets or string literals. Lines
// starting with "#" or "//" outside brackets are comments.
func splitStatements(src string) ([]statement, error) {
	var (
		stmts []statement
		cur   strings.Builder
		depth int
		quote rune
		line  = 1
		start = 1
	)

	flush := func() {
		if text := strings.TrimSpace(cur.String()); text != "" {
			stmts = append(stmts, statement{text: text, line: start})
		}

		cur.Reset()

		start = line
	}

	runes := []rune(src)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if quote != 0 {
			cur.WriteRune(r)

			switch {
			case r == '\\' && quote != '`' && i+1 < len(runes):
				i++
				cur.WriteRune(runes[i])
			case r == quote:
				quote = 0
			case r == '\n':
				if quote != '`' {
					return nil, ErrStatement.With(
						slog.Int("line", line),
						slog.String("reason", "unterminated string"),
					)
				}

				line++
			}

			continue
		}

		// A comment occupies the rest of its line when it opens a statement.
		if depth == 0 && strings.TrimSpace(cur.String()) == "" && isComment(runes[i:]) {
			for i < len(runes) && runes[i] != '\n' {
				i++
			}

			cur.Reset()

			if i < len(runes) {
				line++
			}

			start = line

			continue
		}

		switch r {
		case '"', '\'', '`':
			quote = r
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth < 0 {
				return nil, ErrStatement.With(
					slog.Int("line", line),
					slog.String("reason", "unbalanced "+string(r)),
				)
			}
		case ';':
			if depth == 0 {
				flush()

				continue
			}
		case '\n':
			line++

			if depth == 0 {
				flush()

				continue
			}
		}

		cur.WriteRune(r)
	}

	if quote != 0 {
		return nil, ErrStatement.With(
			slog.Int("line", line),
			slog.String("reason", "unterminated string"),
		)
	}

	if depth > 0 {
		return nil, ErrStatement.With(
			slog.Int("line", start),
			slog.String("reason", "unclosed bracket"),
		)
	}

	flush()

	return stmts, nil
}

func isComment(rs []rune) bool {
	for i, r := range rs {
		switch r {
		case ' ', '\t', '\r':
			continue
		case '#':
			return true
		case '/':
			return i+1 < len(rs) && rs[i+1] == '/'
		}

		return false
	}

	return false
}
