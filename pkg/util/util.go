// Package util holds the source-file accessors and the diagnostics reporter
// shared by every pipeline stage.
package util

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/uvmkit/uas/pkg/token"
)

// SourceFile is the immutable source text a token stream was produced from.
// Tokens address into it by byte offset and length.
type SourceFile struct {
	Name    string
	Content []byte
}

func NewSourceFile(name string, content []byte) *SourceFile {
	return &SourceFile{Name: name, Content: content}
}

// SubStr returns the source text for [pos, pos+size). Out-of-range requests
// are clamped so diagnostics on a truncated file never panic.
func (s *SourceFile) SubStr(pos, size uint32) string {
	start := int(pos)
	if start > len(s.Content) {
		start = len(s.Content)
	}
	end := start + int(size)
	if end > len(s.Content) {
		end = len(s.Content)
	}
	return string(s.Content[start:end])
}

// Line returns the full line containing the byte at pos and the offset of
// the line's first byte.
func (s *SourceFile) Line(pos uint32) (string, uint32) {
	start := int(pos)
	if start > len(s.Content) {
		start = len(s.Content)
	}
	for start > 0 && s.Content[start-1] != '\n' {
		start--
	}
	end := start
	for end < len(s.Content) && s.Content[end] != '\n' {
		end++
	}
	return string(s.Content[start:end]), uint32(start)
}

// Category classifies a diagnostic so the caller can distinguish failure
// classes without parsing message text.
type Category int

const (
	SyntaxError Category = iota
	OverflowError
	RedefinitionError
	UnresolvedError
	MissingEntryError
	ResolutionError
)

var categoryNames = map[Category]string{
	SyntaxError:       "syntax error",
	OverflowError:     "overflow error",
	RedefinitionError: "redefinition error",
	UnresolvedError:   "unresolved reference",
	MissingEntryError: "missing entry",
	ResolutionError:   "resolution error",
}

func (c Category) String() string { return categoryNames[c] }

// Diagnostic is one reported failure with its source position.
type Diagnostic struct {
	Cat  Category
	Pos  uint32
	Len  uint32
	Line uint32
	Col  uint32
	Msg  string
}

// Reporter accumulates diagnostics for one pipeline invocation. Every error
// is printed the moment it is reported; the driver reads HasErrors at the end
// of each stage.
type Reporter struct {
	Src    *SourceFile
	Out    io.Writer
	Color  bool
	errors []Diagnostic
}

func NewReporter(src *SourceFile) *Reporter {
	return &Reporter{Src: src, Out: os.Stderr, Color: true}
}

func (r *Reporter) HasErrors() bool      { return len(r.errors) > 0 }
func (r *Reporter) Errors() []Diagnostic { return r.errors }
func (r *Reporter) Count() int           { return len(r.errors) }

// ReportToken reports a diagnostic positioned at tok.
func (r *Reporter) ReportToken(cat Category, tok token.Token, format string, args ...interface{}) {
	r.Report(cat, tok.Pos, tok.Len, tok.Line, tok.Col, format, args...)
}

// Report records a diagnostic and prints it with the offending source line
// and a caret underline.
func (r *Reporter) Report(cat Category, pos, size, line, col uint32, format string, args ...interface{}) {
	d := Diagnostic{Cat: cat, Pos: pos, Len: size, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
	r.errors = append(r.errors, d)
	r.print(d)
}

func (r *Reporter) paint(code, s string) string {
	if !r.Color {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

func (r *Reporter) print(d Diagnostic) {
	fmt.Fprintf(r.Out, "%s:%d:%d: %s: %s\n", r.Src.Name, d.Line, d.Col, r.paint("31", d.Cat.String()), d.Msg)

	srcLine, lineStart := r.Src.Line(d.Pos)
	if srcLine == "" {
		return
	}
	fmt.Fprintf(r.Out, "  %s\n", srcLine)

	caretCol := int(d.Pos - lineStart)
	if caretCol < 0 || caretCol > len(srcLine) {
		caretCol = 0
	}
	underline := "^"
	if d.Len > 1 {
		underline += strings.Repeat("~", int(d.Len-1))
	}
	fmt.Fprintf(r.Out, "  %s%s\n", strings.Repeat(" ", caretCol), r.paint("32", underline))
}
