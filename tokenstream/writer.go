package tokenstream

import (
	"bufio"
	"fmt"
	"io"

	"github.com/FGDES/pdsynth/symtab"
)

// Writer emits a §6.1 token stream, indenting nested sections for
// readability the way libFAUDES's pretty-printed token files do.
type Writer struct {
	w     *bufio.Writer
	depth int
}

// NewWriter wraps w as a token stream sink.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (wr *Writer) indent() {
	for i := 0; i < wr.depth; i++ {
		wr.w.WriteString("  ")
	}
}

// Begin opens a labelled section.
func (wr *Writer) Begin(label string) {
	wr.indent()
	fmt.Fprintf(wr.w, "<%s>\n", label)
	wr.depth++
}

// End closes the most recently opened section.
func (wr *Writer) End(label string) {
	wr.depth--
	wr.indent()
	fmt.Fprintf(wr.w, "</%s>\n", label)
}

// WriteString emits a quoted string token.
func (wr *Writer) WriteString(s string) {
	wr.indent()
	fmt.Fprintf(wr.w, "%q\n", s)
}

// WriteInt emits a decimal integer token.
func (wr *Writer) WriteInt(n int64) {
	wr.indent()
	fmt.Fprintf(wr.w, "%d\n", n)
}

// WriteIdent emits a bare identifier token.
func (wr *Writer) WriteIdent(s string) {
	wr.indent()
	fmt.Fprintf(wr.w, "%s\n", s)
}

// WriteFlags emits a self-closed Flags element, §6.2's bit layout
// rendered as hexadecimal.
func (wr *Writer) WriteFlags(f symtab.Flags) {
	wr.indent()
	fmt.Fprintf(wr.w, "<Flags value=\"0x%x\"/>\n", uint32(f))
}

// Flush flushes any buffered output to the underlying writer.
func (wr *Writer) Flush() error {
	return wr.w.Flush()
}
