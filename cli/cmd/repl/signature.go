package repl

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"

	"github.com/ardnew/weft/namespace"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// call describes the innermost function call enclosing the cursor.
type call struct {
	name string // dotted function name, e.g. "path.cat"
	arg  int    // index of the argument under the cursor
}

// enclosingCall finds the call whose argument list contains the cursor.
func enclosingCall(input string, cursor int) (call, bool) {
	cursor = min(cursor, len(input))

	open, depth := -1, 0

	for i := cursor; i > 0 && open < 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return call{}, false
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '.' && isWordBoundary(r) {
			break
		}

		start -= size
	}

	name := strings.Trim(input[start:open], ".")
	if name == "" {
		return call{}, false
	}

	c := call{name: name}
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				c.arg++
			}
		}
	}

	return c, true
}

// signature returns the parameter names of the function name resolves to
// in ns, falling back to the expression builtins.
func signature(ns *namespace.Namespace, name string) ([]string, bool) {
	if v, ok := ns.Resolve(name); ok {
		t := reflect.TypeOf(v)
		if t == nil || t.Kind() != reflect.Func {
			return nil, false
		}

		return funcParams(t), true
	}

	i, ok := builtin.Index[name]
	if !ok {
		return nil, false
	}

	fn := builtin.Builtins[i]

	switch {
	case fn.Predicate:
		return []string{"array", "predicate"}, true
	case len(fn.Types) > 0:
		return funcParams(fn.Types[0]), true
	default:
		return []string{"..."}, true
	}
}

// funcParams names the parameters of a function type by their kinds.
func funcParams(t reflect.Type) []string {
	params := make([]string, t.NumIn())

	for i := range params {
		in := t.In(i)
		if t.IsVariadic() && i == len(params)-1 {
			params[i] = "..." + kindName(in.Elem())
		} else {
			params[i] = kindName(in)
		}
	}

	return params
}

func kindName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "int"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "uint"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Pointer:
		return kindName(t.Elem())
	case reflect.Interface:
		return "any"
	case reflect.Func, reflect.String, reflect.Bool, reflect.Slice, reflect.Map:
		return t.Kind().String()
	default:
		if t.Name() != "" {
			return t.Name()
		}

		return "arg"
	}
}

// renderSignature draws name(params...) with the parameter at arg
// highlighted. A variadic parameter stays highlighted for every argument
// it absorbs.
func renderSignature(name string, params []string, arg int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		current := i == arg || (strings.HasPrefix(p, "...") && arg >= i)
		if current {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
