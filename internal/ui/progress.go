package ui

import (
	"fmt"
	"io"
)

// Progress reports the outcome of a sequence of package updates.
type Progress struct {
	out    io.Writer
	total  int
	step   int
	failed []string
}

// NewProgress creates a progress reporter for n packages.
func NewProgress(out io.Writer, total int) *Progress {
	return &Progress{out: out, total: total}
}

// Start announces the next package.
func (p *Progress) Start(label string) {
	p.step++
	_, _ = fmt.Fprintf(p.out, "--- [%d/%d] %s\n", p.step, p.total, label)
}

// Done marks the current package as completed.
func (p *Progress) Done(label string) {
	_, _ = fmt.Fprintf(p.out, "[%d/%d] %s\n", p.step, p.total, label)
}

// Fail marks the current package as failed and remembers it for Summary.
func (p *Progress) Fail(label string, err error) {
	p.failed = append(p.failed, label)
	_, _ = fmt.Fprintf(p.out, "%s [%d/%d] %s: %v\n", errStyle.Render("ERROR"), p.step, p.total, label, err)
}

// Log prints an informational message within the progress context.
func (p *Progress) Log(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// Failed returns the labels passed to Fail, in order.
func (p *Progress) Failed() []string {
	return p.failed
}

// Summary returns a one-line tally of the run.
func (p *Progress) Summary() string {
	return fmt.Sprintf("%d updated, %d failed", p.step-len(p.failed), len(p.failed))
}
