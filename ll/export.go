package ll

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
)

// WriteJSON writes a table as a JSON object of the form
//
//     { "N": { "a": ["a", "B"], "b": [] }, … }
//
// mapping every non-terminal and terminal to the RHS of the rule in the cell.
// ε-productions have an empty RHS. Keys are sorted, so output is stable.
func (T *ParsingTable) WriteJSON(w io.Writer) error {
	dump := make(map[string]map[string][]string)
	T.EachCell(func(N, a *Symbol, r *Rule) {
		row, ok := dump[N.Name]
		if !ok {
			row = make(map[string][]string)
			dump[N.Name] = row
		}
		row[a.Name] = r.RHSNames()
	})
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(dump); err != nil {
		return fmt.Errorf("cannot export LL(1) table: %w", err)
	}
	return nil
}

// WriteHTML exports a table in HTML format, one row per non-terminal and one
// column per terminal. Cells show the serial number and RHS of a rule.
func (T *ParsingTable) WriteHTML(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("<html><body>\n")
	ew.printf("<p>LL(1) table for %s, %d entries</p>\n", html.EscapeString(T.g.Name), T.Size())
	ew.printf("<table border=1 cellspacing=0 cellpadding=5>\n")
	ew.printf("<tr bgcolor=#cccccc><td></td>\n")
	for _, a := range T.terms {
		ew.printf("<td>%s</td>", html.EscapeString(a.Name))
	}
	ew.printf("</tr>\n")
	var td string // table cell
	T.g.EachNonterminal(func(N *Symbol) {
		ew.printf("<tr><td>%s</td>\n", html.EscapeString(N.Name))
		for _, a := range T.terms {
			if r, ok := T.Lookup(N, a); ok {
				td = fmt.Sprintf("%d: %s", r.Serial, html.EscapeString(r.String()))
			} else {
				td = "&nbsp;"
			}
			ew.printf("<td>%s</td>\n", td)
		}
		ew.printf("</tr>\n")
	})
	ew.printf("</table></body></html>\n")
	return ew.err
}

// errWriter remembers the first write error and skips all output afterwards.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// Dump is a debugging helper, writing the table to the tracer.
func (T *ParsingTable) Dump() {
	tracer().Debugf("--- LL(1) table ----------------------------------")
	T.EachCell(func(N, a *Symbol, r *Rule) {
		tracer().Debugf("(%s, %s) = %s", N, a, r)
	})
	tracer().Debugf("-------------------------------------------------")
}
