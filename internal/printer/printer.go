// Package printer writes the output of the one-shot commands.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Printer 带颜色的命令输出，颜色可被 NO_COLOR 关闭
// Printer writes colored command output to out and errors to errOut.
// Colors follow fatih/color, which honors NO_COLOR and non-TTY output.
type Printer struct {
	out    io.Writer
	errOut io.Writer
}

// New returns a printer; nil writers mean stdout and stderr.
func New(out, errOut io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{out: out, errOut: errOut}
}

// Out returns the standard output writer.
func (p *Printer) Out() io.Writer { return p.out }

// Success prints a success message in green with a checkmark prefix
func (p *Printer) Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	green.Fprintln(p.out, msg)
}

// Info prints an informational message in the default color
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintf(p.out, format+"\n", a...)
}

// Warning 中性提示（如输入被忽略），不是错误
// Warning prints a neutral hint in yellow, used for ignored input.
func (p *Printer) Warning(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠") {
		msg = "⚠ " + msg
	}
	yellow.Fprintln(p.out, msg)
}

// Step prints a step message with emphasis
func (p *Printer) Step(format string, a ...any) {
	cyan.Fprintln(p.out, "→ "+fmt.Sprintf(format, a...))
}

// Error 向 errOut 打印格式化错误，并返回仅含标题的错误供 cobra 使用
// Error prints title, explanation and suggestions to errOut and returns a
// plain error carrying the title for cobra's exit status.
func (p *Printer) Error(title, explanation string, suggestions []string) error {
	red.Fprintf(p.errOut, "%s\n", title)
	if explanation != "" {
		fmt.Fprintf(p.errOut, "\n%s\n", explanation)
	}
	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(p.errOut, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(p.errOut, "\nEither:\n")
		for i, s := range suggestions {
			fmt.Fprintf(p.errOut, "  %d. %s\n", i+1, s)
		}
	}
	return fmt.Errorf("%s", title)
}

// Raw writes data followed by a newline when it lacks one.
func (p *Printer) Raw(data []byte) error {
	if _, err := p.out.Write(data); err != nil {
		return err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		_, err := io.WriteString(p.out, "\n")
		return err
	}
	return nil
}
