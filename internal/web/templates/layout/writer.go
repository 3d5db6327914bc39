package layout

import (
	"io"

	"github.com/a-h/templ"
)

// Writer accumulates HTML output and remembers the first write error
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes trusted markup as-is
func (hw *Writer) Raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// Text writes s with HTML escaping
func (hw *Writer) Text(s string) {
	hw.Raw(templ.EscapeString(s))
}

// Attr writes name="value" with the value escaped, preceded by a space
func (hw *Writer) Attr(name, value string) {
	hw.Raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// URLAttr writes an href/src style attribute, neutralising unsafe schemes
func (hw *Writer) URLAttr(name, value string) {
	hw.Attr(name, string(templ.URL(value)))
}

// Err returns the first write error
func (hw *Writer) Err() error {
	return hw.err
}
