// Package output renders CLI output in terminal, markdown, and JSON modes.
//
// Mode auto picks text when stdout is a terminal and markdown otherwise, so
// piped and scripted invocations get machine-friendly output without flags.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Mode selects the output format.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Renderer writes command output in one resolved mode.
type Renderer struct {
	out       io.Writer
	errOut    io.Writer
	requested Mode
	effective Mode
	styles    Styles
}

// NewRenderer creates a renderer. Mode auto (or any unknown mode) resolves
// against whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	r := &Renderer{out: out, errOut: errOut, requested: mode}
	r.effective = r.resolve(mode)
	if r.effective == ModeText {
		r.styles = DefaultStyles()
	} else {
		r.styles = PlainStyles()
	}
	return r
}

func (r *Renderer) resolve(mode Mode) Mode {
	switch mode {
	case ModeText, ModeMarkdown, ModeJSON:
		return mode
	}
	if f, ok := r.out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return ModeText
	}
	return ModeMarkdown
}

// EffectiveMode returns the mode the renderer resolved to.
func (r *Renderer) EffectiveMode() Mode {
	return r.effective
}

// Writer returns the underlying output writer, for table renderers that
// write directly.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the underlying error writer.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// Styles returns the active style set. Plain (unstyled) outside text mode.
func (r *Renderer) Styles() Styles {
	return r.styles
}

// Println writes a line to the output writer.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Printf writes formatted output to the output writer.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Header writes a section header at the given level.
func (r *Renderer) Header(level int, text string) {
	if r.effective == ModeText {
		if level <= 1 {
			r.Println(r.styles.Title.Render(text))
		} else {
			r.Println(r.styles.Header.Render(text))
		}
		return
	}
	r.Println(FormatHeader(level, text))
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	if r.effective == ModeText {
		r.Println(r.styles.Success.Render("✓ " + msg))
		return
	}
	r.Println("**" + msg + "**")
}

// Muted writes a low-emphasis message.
func (r *Renderer) Muted(msg string) {
	if r.effective == ModeText {
		r.Println(r.styles.Muted.Render(msg))
		return
	}
	r.Println(msg)
}

// StatusLine writes one name/status line, optionally with detail. Status is
// one of success, error, warning; anything else renders neutrally.
func (r *Renderer) StatusLine(name, status, detail string) {
	if r.effective != ModeText {
		line := "- " + name + ": " + status
		if detail != "" {
			line += " (" + detail + ")"
		}
		r.Println(line)
		return
	}

	var mark string
	switch status {
	case "success":
		mark = r.styles.Success.Render("✓")
	case "error":
		mark = r.styles.Error.Render("✗")
	case "warning":
		mark = r.styles.Warning.Render("!")
	default:
		mark = r.styles.Muted.Render("•")
	}
	line := "  " + mark + " " + name
	if detail != "" {
		line += "  " + r.styles.Muted.Render(detail)
	}
	r.Println(line)
}

// JSON writes v as indented JSON to the output writer.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}
