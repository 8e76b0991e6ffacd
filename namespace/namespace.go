package namespace

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/traefik/yaegi/interp"
)

// Namespace is a named set of bindings that persists for the lifetime of its
// [Store]. Bindings are last-write-wins.
type Namespace struct {
	name     string
	mu       sync.Mutex
	vars     map[string]any
	builtins map[string]any
	sink     *redirect
	gi       *interp.Interpreter
	imported map[string]bool
}

func newNamespace(name string, builtins map[string]any, output io.Writer) *Namespace {
	return &Namespace{
		name:     name,
		vars:     make(map[string]any),
		builtins: builtins,
		sink:     &redirect{fallback: output},
		imported: make(map[string]bool),
	}
}

// Name returns the namespace's name.
func (ns *Namespace) Name() string { return ns.name }

// Get returns the value bound to name by executed code or [Namespace.Set].
// Builtins are not reported.
func (ns *Namespace) Get(name string) (any, bool) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	v, ok := ns.vars[name]

	return v, ok
}

// Set binds name to value.
func (ns *Namespace) Set(name string, value any) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	ns.vars[name] = value
}

// Delete removes the binding of name and reports whether it existed.
func (ns *Namespace) Delete(name string) bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	_, ok := ns.vars[name]
	delete(ns.vars, name)

	return ok
}

// Keys returns the sorted names bound in the namespace.
func (ns *Namespace) Keys() []string {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	return slices.Sorted(maps.Keys(ns.vars))
}

// Identifiers returns every name an expression can reference: bindings,
// builtins and the print family, sorted and without duplicates.
func (ns *Namespace) Identifiers() []string {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	env := environment(io.Discard, ns.builtins, ns.vars)

	return slices.Sorted(maps.Keys(env))
}

// Resolve returns the value an expression would see for the dotted path,
// such as "x" or "path.cat". Bindings shadow builtins.
func (ns *Namespace) Resolve(path string) (any, bool) {
	ns.mu.Lock()
	env := environment(io.Discard, ns.builtins, ns.vars)
	ns.mu.Unlock()

	var cur any = env

	for seg := range strings.SplitSeq(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}

		if cur, ok = m[seg]; !ok {
			return nil, false
		}
	}

	return cur, true
}

// Exec runs src in the namespace and returns everything it printed. Output
// routing is restored before Exec returns, also on error.
func (ns *Namespace) Exec(ctx context.Context, src string, mode Mode) (string, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	var buf bytes.Buffer

	restore := ns.sink.capture(&buf)
	defer restore()

	var err error

	switch Classify(src, mode) {
	case ModeExpression:
		err = ns.expression(&buf, src)
	case ModeBlock:
		err = ns.block(ctx, &buf, src)
	default:
		err = ErrUnknownMode.With(slog.String("mode", mode.String()))
	}

	return buf.String(), err
}

func (ns *Namespace) expression(buf *bytes.Buffer, src string) error {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil
	}

	v, err := ns.eval(buf, src, 1)
	if err != nil {
		return err
	}

	if v != nil {
		fmt.Fprintln(buf, v)
	}

	return nil
}

func (ns *Namespace) block(ctx context.Context, buf *bytes.Buffer, src string) error {
	stmts, err := splitStatements(src)
	if err != nil {
		return annotate(err, ns.name)
	}

	for _, st := range stmts {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := ns.execute(buf, st); err != nil {
			return err
		}
	}

	return nil
}

func (ns *Namespace) execute(buf *bytes.Buffer, st statement) error {
	switch st.kind() {
	case kindDelete:
		name, _ := st.deletion()
		if _, ok := ns.vars[name]; !ok {
			return ErrUndefined.With(
				slog.String("namespace", ns.name),
				slog.String("identifier", name),
				slog.Int("line", st.line),
			)
		}

		delete(ns.vars, name)

	case kindAssign:
		name, _, rhs, _ := st.assignment()

		v, err := ns.eval(buf, rhs, st.line)
		if err != nil {
			return err
		}

		ns.vars[name] = v

	case kindUpdate:
		name, op, rhs, _ := st.assignment()

		cur, ok := ns.vars[name]
		if !ok {
			return ErrUndefined.With(
				slog.String("namespace", ns.name),
				slog.String("identifier", name),
				slog.Int("line", st.line),
			)
		}

		v, err := ns.eval(buf, rhs, st.line)
		if err != nil {
			return err
		}

		v, err = combine(cur, strings.TrimSuffix(op, "="), v)
		if err != nil {
			return annotate(err, ns.name).With(slog.Int("line", st.line))
		}

		ns.vars[name] = v

	default:
		if _, err := ns.eval(buf, st.text, st.line); err != nil {
			return err
		}
	}

	return nil
}

// eval compiles and runs one expr-lang expression against the current
// bindings. Printing builtins write to buf.
func (ns *Namespace) eval(buf *bytes.Buffer, src string, line int) (any, error) {
	env := environment(buf, ns.builtins, ns.vars)

	program, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(
			slog.String("namespace", ns.name),
			slog.String("statement", src),
			slog.Int("line", line),
		)
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, ErrEvaluate.Wrap(err).With(
			slog.String("namespace", ns.name),
			slog.String("statement", src),
			slog.Int("line", line),
		)
	}

	return out, nil
}

// combine applies a binary operator with expr-lang semantics, so "+" adds
// numbers and concatenates strings and arrays.
func combine(lhs any, op string, rhs any) (any, error) {
	env := map[string]any{"lhs": lhs, "rhs": rhs}

	program, err := expr.Compile("lhs "+op+" rhs", expr.Env(env))
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("operator", op+"="))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, ErrEvaluate.Wrap(err).With(slog.String("operator", op+"="))
	}

	return out, nil
}
