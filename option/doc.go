// Package option parses block headers into option sets.
//
// A header is the text between "<<" and ">>=" on a block start line:
//
//	<<table, caption="Results, 2011", table_list_name=rows>>=
//
// parses to
//
//	{p: table, caption: "Results, 2011", table_list_name: rows}
//
// See [Parse] for the grammar.
package option
