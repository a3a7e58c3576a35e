package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"habits/internal/config"
	"habits/internal/i18n"
	"habits/internal/repl"
	"habits/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// reportedError 已经打印给用户的错误 / An error already shown to the user
type reportedError struct{ error }

func reportedErr(err error) error { return reportedError{err} }

func reported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// storageErr 打印持久化失败 / Report a persistence failure
func (c *cli) storageErr(err error) error {
	if err == nil {
		return nil
	}
	c.log.Error("persist failed", zap.Error(err))
	return reportedErr(c.out.Error(i18n.T("error.storage", err), "", nil))
}

// shell 一次性命令与交互命令行共用同一套命令解析
func (c *cli) shell() *repl.Shell {
	return repl.New(c.tracker, c.out)
}

func (c *cli) runGrid(cmd *cobra.Command) error {
	err := tui.Run(cmd.Context(), c.tracker, c.notifier, c.cfg.UI.AltScreen)
	if err != nil && cmd.Context().Err() == nil {
		return err
	}
	return nil
}

// execLine 以命令行语法执行一次
func (c *cli) execLine(cmd *cobra.Command, line string) error {
	_, err := c.shell().Exec(cmd.Context(), line)
	return c.storageErr(err)
}

func newAddCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME...",
		Short: "Add a habit",
		Long:  "Add a habit. The words of NAME are joined with single spaces.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.execLine(cmd, "add "+strings.Join(args, " "))
		},
	}
}

func newDoneCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done REF [DATE]",
		Short: "Toggle a habit's completion for a day",
		Long: `Toggle completion of the habit REF (row number from list, or id) for DATE.
DATE is today when omitted, and may be yesterday, -N (days back) or YYYY-MM-DD.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.execLine(cmd, "done "+strings.Join(args, " "))
		},
	}
	// -3 是日期而不是短选项 / -3 is a date, not a shorthand flag
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newRmCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rm REF",
		Aliases: []string{"delete"},
		Short:   "Delete a habit",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.execLine(cmd, "rm "+args[0])
		},
	}
}

func newListCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show habits over the last seven days",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return c.writeExport()
			}
			c.out.Grid(c.tracker.Habits(), c.tracker.Window())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored JSON instead of the grid")
	return cmd
}

func newExportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write all habits as JSON to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.writeExport()
		},
	}
}

func (c *cli) writeExport() error {
	data, err := c.tracker.Export()
	if err != nil {
		return err
	}
	return c.out.Raw(data)
}

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all habits with the JSON in FILE (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInputFile(cmd, args[0])
			if err != nil {
				return reportedErr(c.out.Error(i18n.T("error.generic", err), "", nil))
			}
			n, err := c.tracker.Import(cmd.Context(), data)
			if err != nil {
				c.log.Warn("import failed", zap.String("file", args[0]), zap.Error(err))
				return reportedErr(c.out.Error(i18n.T("error.generic", err), "",
					[]string{"The file must hold the JSON written by habits export"}))
			}
			c.out.Success("%s", i18n.T("print.imported", n))
			return nil
		},
	}
}

func readInputFile(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func newReplCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the line-mode shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := c.lineReader(cmd)
			if err != nil {
				c.log.Warn("readline unavailable, using plain input", zap.Error(err))
			}
			defer reader.Close()
			return c.shell().Run(cmd.Context(), reader)
		},
	}
}

// lineReader 标准输入被替换时（测试、嵌入）使用普通读取
func (c *cli) lineReader(cmd *cobra.Command) (repl.LineReader, error) {
	if in := cmd.InOrStdin(); in != io.Reader(os.Stdin) {
		return repl.NewBasicReader(in, nil), nil
	}
	return repl.NewLineReader(c.cfg.HistoryPath())
}

func newInitConfigCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:         "init-config [DIR]",
		Short:       "Write a project config scaffold to DIR/.habits/config.json",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			path, err := config.InitProjectConfigScaffold(dir)
			if err != nil {
				return reportedErr(c.out.Error(i18n.T("error.config", err), "", nil))
			}
			c.out.Success("%s", path)
			return nil
		},
	}
}
