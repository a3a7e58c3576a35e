package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"habits/internal/config"
	"habits/internal/habit"
	"habits/internal/i18n"
	"habits/internal/logging"
	"habits/internal/printer"
	"habits/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli 命令行运行期状态，由 PersistentPreRunE 装配
// cli holds the state wired by the root command's pre-run hook.
type cli struct {
	// Global flags
	configPath string
	backend    string
	baseDir    string
	verbose    bool

	cfg      config.Config
	log      *zap.Logger
	slot     storage.Slot
	notifier *habit.Notifier
	tracker  *habit.Tracker
	out      *printer.Printer
}

// skipStore 标记不需要打开存储的命令
const skipStore = "skip-store"

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "habits",
		Short: "Track daily habits over a rolling seven-day window",
		Long: `habits keeps a short list of daily habits on this device.

Run without arguments to open the interactive grid. The subcommands change
the same collection from scripts or a plain terminal.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGrid(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Path to config file (JSONC or YAML)")
	root.PersistentFlags().StringVar(&c.backend, "backend", "", "Storage backend: sqlite, file or redis")
	root.PersistentFlags().StringVar(&c.baseDir, "base-dir", "", "Data directory (default: ~/.habits)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newAddCmd(c),
		newDoneCmd(c),
		newRmCmd(c),
		newListCmd(c),
		newExportCmd(c),
		newImportCmd(c),
		newReplCmd(c),
		newInitConfigCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	c.out = printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return reportedErr(c.out.Error(i18n.T("error.config", err), "", nil))
	}
	if c.backend != "" {
		cfg.Storage.Backend = c.backend
	}
	if c.baseDir != "" {
		cfg.Storage.BaseDir = c.baseDir
	}
	if err := config.Normalize(&cfg); err != nil {
		return reportedErr(c.out.Error(i18n.T("error.config", err), "", nil))
	}
	c.cfg = cfg
	i18n.Init(cfg.UI.Locale)

	if cmd.Annotations[skipStore] == "true" {
		return nil
	}

	c.log, err = logging.New(cfg, c.verbose)
	if err != nil {
		return reportedErr(c.out.Error(i18n.T("error.config", err), "", nil))
	}
	c.slot, err = storage.Open(cmd.Context(), cfg, c.log)
	if err != nil {
		return reportedErr(c.out.Error(i18n.T("error.storage", err), "",
			[]string{"Check storage.backend and storage.base_dir, or pass --backend file"}))
	}
	c.notifier = habit.NewNotifier(habit.NoticeDelay)
	c.tracker = habit.NewTracker(c.slot,
		habit.WithNotifier(c.notifier),
		habit.WithLogger(c.log),
	)
	c.tracker.Load(cmd.Context())
	c.log.Debug("store ready",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("base_dir", cfg.Storage.BaseDir))
	return nil
}

// close 释放定时器和存储连接；重复调用安全
func (c *cli) close() {
	if c.notifier != nil {
		c.notifier.Close()
		c.notifier = nil
	}
	if c.slot != nil {
		if err := c.slot.Close(); err != nil && c.log != nil {
			c.log.Warn("close storage", zap.Error(err))
		}
		c.slot = nil
	}
	if c.log != nil {
		_ = c.log.Sync()
	}
}

// run 执行命令树并返回退出码 / Execute the command tree, returning the exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := &cli{}
	defer c.close()

	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		// 已由 printer 输出的错误不再重复 / printer-reported errors are not repeated
		if !reported(err) {
			printer.New(stdout, stderr).Error(err.Error(), "", nil)
		}
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
