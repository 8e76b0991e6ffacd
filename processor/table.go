package processor

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"reflect"
	"strings"

	"github.com/ardnew/weft/namespace"
	"github.com/ardnew/weft/option"
)

// Table executes a block that builds a nested list and renders the list as
// a table in the configured format.
//
// Options:
//
//	table_list_name=tablerows  variable holding the rows
//	column_labels              variable holding the column labels
//	row_labels                 variable holding the row labels
//	caption                    table caption
//	center=true                center the table (tex)
//	echo=false                 tangle the block source
type Table struct {
	Base
}

// NewTable returns the "table" processor.
func NewTable(b Base) Processor { return &Table{Base: b} }

func (t *Table) Name() string { return "table" }

func (t *Table) Defaults() option.Set {
	return option.From(map[string]string{
		"caption":         "",
		"center":          "true",
		"table_list_name": "tablerows",
		"column_labels":   "",
		"row_labels":      "",
		"echo":            "false",
	})
}

type tableData struct {
	caption string
	center  bool
	columns []string
	rows    [][]string
	labels  []string
}

func (t *Table) Process(ctx context.Context, block Block, opts option.Set) (Fragment, error) {
	mk, err := t.Markup()
	if err != nil {
		return Fragment{}, err
	}

	if _, err := t.Exec(ctx, block.Source, namespace.ModeBlock); err != nil {
		return Fragment{}, ErrExecute.Wrap(err).With(
			slog.String("processor", t.Name()),
			slog.Int("line", block.Line),
		)
	}

	data, bad := t.collect(opts)
	if bad != nil {
		return Fragment{}, bad.With(slog.Int("line", block.Line))
	}

	var doc string

	switch mk.Format {
	case "rst", "sphinx":
		doc = data.rst()
	case "md":
		doc = data.markdown()
	case "html":
		doc = data.html()
	default:
		doc = data.tex()
	}

	var code string
	if opts.Bool("echo") {
		code = block.Source
	}

	return Fragment{Doc: doc, Code: code}, nil
}

func (t *Table) collect(opts option.Set) (tableData, *Error) {
	data := tableData{caption: opts.Get("caption"), center: opts.Bool("center")}

	listName := opts.Get("table_list_name")

	rows, err := t.list(listName)
	if err != nil {
		return data, err
	}

	if len(rows) == 0 {
		return data, ErrTableData.With(
			slog.String("variable", listName),
			slog.String("reason", "no rows"),
		)
	}

	for i, row := range rows {
		cells, ok := asList(row)
		if !ok {
			return data, ErrTableData.With(
				slog.String("variable", listName),
				slog.Int("row", i),
				slog.String("reason", "row is not a list"),
			)
		}

		data.rows = append(data.rows, stringify(cells))
	}

	if name := opts.Get("column_labels"); name != "" {
		cols, err := t.list(name)
		if err != nil {
			return data, err
		}

		data.columns = stringify(cols)
	}

	if name := opts.Get("row_labels"); name != "" {
		labels, err := t.list(name)
		if err != nil {
			return data, err
		}

		if len(labels) < len(data.rows) {
			return data, ErrTableData.With(
				slog.String("variable", name),
				slog.String("reason", "fewer row labels than rows"),
			)
		}

		data.labels = stringify(labels)
	}

	return data, nil
}

func (t *Table) list(name string) ([]any, *Error) {
	v, ok := t.Namespace().Get(name)
	if !ok {
		return nil, ErrTableData.With(
			slog.String("variable", name),
			slog.String("reason", "not defined"),
		)
	}

	items, ok := asList(v)
	if !ok {
		return nil, ErrTableData.With(
			slog.String("variable", name),
			slog.String("reason", "not a list"),
		)
	}

	return items, nil
}

// asList converts any slice or array to []any.
func asList(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}

	return items, true
}

func stringify(items []any) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprint(item)
	}

	return out
}

func (d tableData) width() int {
	n := len(d.rows[0])
	if d.labels != nil {
		n++
	}

	return n
}

func (d tableData) row(i int, wrapLabel func(string) string) []string {
	if d.labels == nil {
		return d.rows[i]
	}

	return append([]string{wrapLabel(d.labels[i])}, d.rows[i]...)
}

func (d tableData) tex() string {
	var sb strings.Builder

	sb.WriteString("\n\\begin{table}\n")

	if d.caption != "" {
		sb.WriteString("\\caption{" + d.caption + "}\n")
	}

	if d.center {
		sb.WriteString("\\begin{center}\n")
	}

	sb.WriteString("\\begin{tabular}{|" + strings.Repeat("c|", d.width()) + "}\n\\hline\n")

	if len(d.columns) > 0 {
		bold := make([]string, len(d.columns))
		for i, c := range d.columns {
			bold[i] = "\\textbf{" + c + "}"
		}

		sb.WriteString(strings.Join(bold, " & ") + "\\\\ \\hline\n")
	}

	sb.WriteString("\n")

	for i := range d.rows {
		cells := d.row(i, func(s string) string { return "\\textbf{" + s + "}" })
		sb.WriteString(strings.Join(cells, " & ") + "\\\\\n")
	}

	sb.WriteString("\\hline\n\\end{tabular}\n")

	if d.center {
		sb.WriteString("\\end{center}\n")
	}

	sb.WriteString("\\end{table}\n")

	return sb.String()
}

func (d tableData) rst() string {
	var sb strings.Builder

	sb.WriteString("\n.. list-table::")

	if d.caption != "" {
		sb.WriteString(" " + d.caption)
	}

	sb.WriteString("\n")

	if len(d.columns) > 0 {
		sb.WriteString("   :header-rows: 1\n")
	}

	if d.labels != nil {
		sb.WriteString("   :stub-columns: 1\n")
	}

	sb.WriteString("\n")

	writeRow := func(cells []string) {
		for j, c := range cells {
			if j == 0 {
				sb.WriteString("   * - " + c + "\n")
			} else {
				sb.WriteString("     - " + c + "\n")
			}
		}
	}

	if len(d.columns) > 0 {
		header := d.columns
		if d.labels != nil && len(header) < d.width() {
			header = append([]string{""}, header...)
		}

		writeRow(header)
	}

	for i := range d.rows {
		writeRow(d.row(i, identity))
	}

	sb.WriteString("\n")

	return sb.String()
}

func (d tableData) markdown() string {
	var sb strings.Builder

	escape := func(s string) string { return strings.ReplaceAll(s, "|", `\|`) }

	writeRow := func(cells []string) {
		sb.WriteString("|")

		for _, c := range cells {
			sb.WriteString(" " + escape(c) + " |")
		}

		sb.WriteString("\n")
	}

	header := d.columns
	if pad := d.width() - len(header); pad > 0 {
		header = append(make([]string, pad), header...)
	}

	sb.WriteString("\n")
	writeRow(header)
	sb.WriteString("|" + strings.Repeat(" --- |", d.width()) + "\n")

	for i := range d.rows {
		writeRow(d.row(i, func(s string) string { return "**" + s + "**" }))
	}

	if d.caption != "" {
		sb.WriteString("\n*" + d.caption + "*\n")
	}

	sb.WriteString("\n")

	return sb.String()
}

func (d tableData) html() string {
	var sb strings.Builder

	sb.WriteString("<table>\n")

	if d.caption != "" {
		sb.WriteString("<caption>" + html.EscapeString(d.caption) + "</caption>\n")
	}

	if len(d.columns) > 0 {
		sb.WriteString("<thead><tr>")

		if d.labels != nil && len(d.columns) < d.width() {
			sb.WriteString("<th></th>")
		}

		for _, c := range d.columns {
			sb.WriteString("<th>" + html.EscapeString(c) + "</th>")
		}

		sb.WriteString("</tr></thead>\n")
	}

	sb.WriteString("<tbody>\n")

	for i, row := range d.rows {
		sb.WriteString("<tr>")

		if d.labels != nil {
			sb.WriteString("<th>" + html.EscapeString(d.labels[i]) + "</th>")
		}

		for _, c := range row {
			sb.WriteString("<td>" + html.EscapeString(c) + "</td>")
		}

		sb.WriteString("</tr>\n")
	}

	sb.WriteString("</tbody>\n</table>\n")

	return sb.String()
}
