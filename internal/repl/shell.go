// Package repl is the line-mode command shell over the habit tracker.
package repl

import (
	"context"
	"errors"
	"io"
	"strings"

	"habits/internal/habit"
	"habits/internal/i18n"
	"habits/internal/printer"
)

// Shell 解析并执行一行命令 / Parses and runs one command line at a time
type Shell struct {
	tracker *habit.Tracker
	out     *printer.Printer
}

// New returns a shell operating on tracker and writing through out.
func New(tracker *habit.Tracker, out *printer.Printer) *Shell {
	return &Shell{tracker: tracker, out: out}
}

// Run 读取并执行命令，直到 quit、EOF 或 Ctrl+C
// Run executes lines from r until quit, EOF or an interrupt. Persistence
// errors are reported and the loop continues; read errors other than EOF
// and interrupt are returned.
func (s *Shell) Run(ctx context.Context, r LineReader) error {
	s.out.Info("%s", i18n.T("repl.welcome"))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := r.ReadLine(i18n.T("repl.prompt"))
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, ErrInterrupt) {
				s.out.Info("%s", i18n.T("repl.bye"))
				return nil
			}
			return err
		}
		quit, err := s.Exec(ctx, line)
		if err != nil {
			_ = s.out.Error(i18n.T("error.storage", err), "", nil)
		}
		if quit {
			s.out.Info("%s", i18n.T("repl.bye"))
			return nil
		}
	}
}

// Exec 执行单条命令；只有持久化失败才返回错误
// Exec runs one command line and reports whether the shell should exit.
// Unknown commands and unresolvable input print a hint; the returned error
// is a persistence failure only.
func (s *Shell) Exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		s.out.Info("%s", i18n.T("repl.help"))
	case "list", "ls":
		s.out.Grid(s.tracker.Habits(), s.tracker.Window())
	case "add":
		return false, s.add(ctx, strings.Join(args, " "))
	case "done", "toggle":
		if len(args) < 1 || len(args) > 2 {
			s.out.Warning("%s", i18n.T("repl.usage", "done <ref> [date]"))
			return false, nil
		}
		date := ""
		if len(args) == 2 {
			date = args[1]
		}
		return false, s.toggle(ctx, args[0], date)
	case "rm", "delete":
		if len(args) != 1 {
			s.out.Warning("%s", i18n.T("repl.usage", "rm <ref>"))
			return false, nil
		}
		return false, s.remove(ctx, args[0])
	default:
		s.out.Warning("%s", i18n.T("repl.unknown", cmd))
	}
	return false, nil
}

func (s *Shell) add(ctx context.Context, name string) error {
	h, ok, err := s.tracker.Create(ctx, name)
	if !ok {
		s.out.Warning("%s", i18n.T("repl.no_name"))
		return nil
	}
	s.out.Success("%s", i18n.T("print.created", h.Name, h.ID.String()))
	return err
}

func (s *Shell) toggle(ctx context.Context, ref, date string) error {
	h, ok := s.tracker.Lookup(ref)
	if !ok {
		s.out.Warning("%s", i18n.T("repl.no_match", ref))
		return nil
	}
	day, err := habit.ParseDay(date, s.tracker.Now())
	if err != nil {
		s.out.Warning("%s", i18n.T("repl.bad_date", date))
		return nil
	}
	h, ok, err = s.tracker.ToggleDate(ctx, h.ID, day)
	if !ok {
		return err
	}
	if h.Done(day) {
		s.out.Success("%s", i18n.T("repl.done", h.Name, day, h.Streak))
	} else {
		s.out.Info("%s", i18n.T("repl.undone", h.Name, day, h.Streak))
	}
	return err
}

func (s *Shell) remove(ctx context.Context, ref string) error {
	h, ok := s.tracker.Lookup(ref)
	if !ok {
		s.out.Warning("%s", i18n.T("repl.no_match", ref))
		return nil
	}
	if _, err := s.tracker.Delete(ctx, h.ID); err != nil {
		return err
	}
	s.out.Success("%s", i18n.T("repl.removed", h.Name))
	return nil
}
