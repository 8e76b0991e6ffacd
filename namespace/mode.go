package namespace

import (
	"log/slog"
	"strings"
)

// Mode selects how [Namespace.Exec] interprets source text.
type Mode int

const (
	ModeAuto Mode = iota
	ModeExpression
	ModeBlock
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeExpression:
		return "expression"
	case ModeBlock:
		return "block"
	default:
		return "unknown"
	}
}

// ParseMode parses "auto", "expression" (or "expr") and "block".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "expression", "expr":
		return ModeExpression, nil
	case "block", "exec":
		return ModeBlock, nil
	default:
		return ModeAuto, ErrUnknownMode.With(slog.String("mode", s))
	}
}

// Classify resolves [ModeAuto] for src. Other modes are returned unchanged.
func Classify(src string, mode Mode) Mode {
	if mode != ModeAuto {
		return mode
	}

	stmts, err := splitStatements(src)
	if err != nil || len(stmts) != 1 {
		return ModeBlock
	}

	if stmts[0].kind() != kindExpr {
		return ModeBlock
	}

	return ModeExpression
}
