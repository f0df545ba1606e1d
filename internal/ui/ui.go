package ui

import (
	"io"

	"github.com/fatih/color"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
)

// Printer writes coloured user messages to one writer. Concurrent use is
// safe as long as the writer is.
type Printer struct {
	w io.Writer
}

// New creates a Printer for w. A nil w discards everything.
func New(w io.Writer) *Printer {
	if w == nil {
		w = io.Discard
	}
	return &Printer{w: w}
}

func (p *Printer) Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(p.w, format+"\n", a...)
}

func (p *Printer) Info(format string, a ...interface{}) {
	InfoColor.Fprintf(p.w, format+"\n", a...)
}

func (p *Printer) Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(p.w, format+"\n", a...)
}

func (p *Printer) Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(p.w, format+"\n", a...)
}

func (p *Printer) Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(p.w, format+"\n", a...)
}

// Path prints an indented path line.
func (p *Printer) Path(format string, a ...interface{}) {
	PathColor.Fprintf(p.w, "  "+format+"\n", a...)
}
