package namespace

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// ExecGo runs Go source in the namespace's interpreter and returns what it
// printed. The interpreter is created on first use and keeps its
// declarations and imports for the lifetime of the namespace.
//
// In [ModeExpression] the value of the source is printed when it has one.
// [ModeAuto] treats a single non-call Go expression as an expression and
// everything else as statements, except that a lone call which printed
// nothing has its result printed. Import declarations leading the source are
// evaluated first, and an import the namespace already has is not repeated.
func (ns *Namespace) ExecGo(ctx context.Context, src string, mode Mode) (string, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	gi, err := ns.interpreter()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer

	restore := ns.sink.capture(&buf)
	defer restore()

	imports, specs, body := ns.splitImports(src)

	if imports != "" {
		if _, err := gi.EvalWithContext(ctx, imports); err != nil {
			return buf.String(), ErrInterpreter.Wrap(err).With(
				slog.String("namespace", ns.name),
				slog.String("imports", imports),
			)
		}

		for _, spec := range specs {
			ns.imported[spec] = true
		}
	}

	if len(specs) > 0 && strings.TrimSpace(body) == "" {
		return buf.String(), nil
	}

	resolved := classifyGo(body, mode)
	quiet := mode == ModeAuto && isCall(body)
	start := buf.Len()

	v, err := gi.EvalWithContext(ctx, body)
	if err != nil {
		return buf.String(), ErrInterpreter.Wrap(err).With(
			slog.String("namespace", ns.name),
			slog.String("mode", resolved.String()),
		)
	}

	if resolved == ModeExpression || (quiet && buf.Len() == start) {
		writeValue(&buf, v)
	}

	return buf.String(), nil
}

// splitImports separates the import declarations leading src from the rest
// of it. yaegi evaluates either a run of declarations or a run of statements,
// not both at once. imports holds one declaration per spec not yet imported by
// ns, specs lists every leading spec, and body is the remainder of src.
// Source that does not start with imports, or is a complete file with a
// package clause, is returned unchanged as body.
func (ns *Namespace) splitImports(src string) (imports string, specs []string, body string) {
	const header = "package main\n"

	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, "", header+src, parser.ImportsOnly)
	if err != nil || len(f.Imports) == 0 {
		return "", nil, src
	}

	offset := func(p token.Pos) int { return fset.Position(p).Offset - len(header) }

	end := 0

	for _, decl := range f.Decls {
		if g, ok := decl.(*ast.GenDecl); ok && g.Tok == token.IMPORT {
			end = offset(g.End())
		}
	}

	var sb strings.Builder

	for _, is := range f.Imports {
		spec := src[offset(is.Pos()):offset(is.End())]
		specs = append(specs, spec)

		if !ns.imported[spec] {
			sb.WriteString("import " + spec + "\n")
		}
	}

	return sb.String(), specs, strings.TrimLeft(src[end:], " \t;")
}

func (ns *Namespace) interpreter() (*interp.Interpreter, error) {
	if ns.gi != nil {
		return ns.gi, nil
	}

	gi := interp.New(interp.Options{Stdout: ns.sink, Stderr: ns.sink})
	if err := gi.Use(stdlib.Symbols); err != nil {
		return nil, ErrInterpreter.Wrap(err).With(slog.String("namespace", ns.name))
	}

	ns.gi = gi

	return gi, nil
}

func classifyGo(src string, mode Mode) Mode {
	if mode != ModeAuto {
		return mode
	}

	e, err := parser.ParseExpr(src)
	if err != nil {
		return ModeBlock
	}

	if _, call := e.(*ast.CallExpr); call {
		return ModeBlock
	}

	return ModeExpression
}

func isCall(src string) bool {
	e, err := parser.ParseExpr(src)
	if err != nil {
		return false
	}

	_, call := e.(*ast.CallExpr)

	return call
}

func writeValue(w io.Writer, v reflect.Value) {
	if !v.IsValid() || !v.CanInterface() {
		return
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return
		}
	}

	fmt.Fprintln(w, v.Interface())
}

// redirect forwards writes to the active capture buffer, or to fallback when
// nothing is capturing.
type redirect struct {
	mu       sync.Mutex
	w        io.Writer
	fallback io.Writer
}

func (r *redirect) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.w != nil {
		return r.w.Write(p)
	}

	return r.fallback.Write(p)
}

// capture routes writes to w until the returned function is called.
func (r *redirect) capture(w io.Writer) (restore func()) {
	r.mu.Lock()
	prev := r.w
	r.w = w
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		r.w = prev
		r.mu.Unlock()
	}
}
