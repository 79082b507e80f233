package dsl

import (
	"bufio"
	"io"
	"sort"
	"strings"
)

const indentUnit = "  "

// Print writes e in canonical form: attributes sorted by key, child elements
// indented one level per depth, text runs verbatim and empty elements
// self-closing. Parsing the output yields a tree equal to e.
func Print(w io.Writer, e *Element) error {
	bw := bufio.NewWriter(w)
	printElement(bw, e, 0)
	bw.WriteByte('\n')
	return bw.Flush()
}

// String returns the canonical form of the element tree.
func (e *Element) String() string {
	var b strings.Builder
	_ = Print(&b, e)
	return b.String()
}

func printElement(w *bufio.Writer, e *Element, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	w.WriteString(indent)
	w.WriteByte('<')
	w.WriteString(e.Name)

	keys := make([]string, 0, len(e.Attributes))
	for k := range e.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		w.WriteByte(' ')
		w.WriteString(k)
		w.WriteString(`="`)
		w.WriteString(e.Attributes[k])
		w.WriteByte('"')
	}

	if children, ok := e.Elements(); ok {
		w.WriteString(">\n")
		for _, child := range children {
			printElement(w, child, depth+1)
			w.WriteByte('\n')
		}
		w.WriteString(indent)
		writeClose(w, e.Name)
		return
	}

	text, _ := e.Text()
	if text == "" {
		w.WriteString("/>")
		return
	}
	w.WriteByte('>')
	w.WriteString(text)
	writeClose(w, e.Name)
}

func writeClose(w *bufio.Writer, name string) {
	w.WriteString("</")
	w.WriteString(name)
	w.WriteByte('>')
}
