// Command ttylsnap runs a program on a pseudo terminal and prints the final screen.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fyne-io/ttyl"
	"github.com/fyne-io/ttyl/internal/config"
)

type snapOptions struct {
	configPath string
	rows, cols int
	timeout    time.Duration
	history    bool
	color      bool
	debug      bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &snapOptions{}
	cmd := &cobra.Command{
		Use:   "ttylsnap [flags] -- command [args...]",
		Short: "Run a command in a terminal emulator and print what its screen shows",
		Long: `ttylsnap starts a command on a pseudo terminal, interprets everything it prints
and writes the resulting screen to stdout once the command exits.

Examples:
  ttylsnap -- ls --color=always
  ttylsnap --rows 10 --cols 40 --history -- seq 100`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnap(cmd.Context(), opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", config.DefaultPath(), "settings file")
	flags.IntVar(&opts.rows, "rows", 0, "screen rows, defaults to the settings file or the current terminal")
	flags.IntVar(&opts.cols, "cols", 0, "screen columns, defaults to the settings file or the current terminal")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "stop the command after this long")
	flags.BoolVarP(&opts.history, "history", "s", false, "also print the scrollback")
	flags.BoolVar(&opts.color, "color", false, "keep the colors of each cell")
	flags.BoolVar(&opts.debug, "debug", false, "log unknown escape sequences")
	return cmd
}

func runSnap(ctx context.Context, opts *snapOptions, args []string) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	cfg.Rows, cfg.Cols = screenSize(cfg, opts)
	cfg.Shell, cfg.Args = args[0], args[1:]
	cfg.Debug = cfg.Debug || opts.debug
	if err := cfg.Validate(); err != nil {
		return err
	}

	t, err := ttyl.New(cfg.Options()...)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	if err := t.RunLocalShell(ctx); err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}

	snap := t.Snapshot()
	if opts.color {
		fmt.Println(renderColor(snap, opts.history))
	} else if opts.history {
		fmt.Println(snap.History())
	} else {
		fmt.Println(snap.Text())
	}

	if code := t.ExitCode(); code > 0 {
		os.Exit(code)
	}
	return nil
}

// screenSize prefers flags, then the size of the terminal we run in, then the settings file.
func screenSize(cfg *config.Config, opts *snapOptions) (rows, cols int) {
	rows, cols = cfg.Rows, cfg.Cols
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if w, h, err := term.GetSize(fd); err == nil && w > 0 && h > 0 {
			rows, cols = h, w
		}
	}
	if opts.rows > 0 {
		rows = opts.rows
	}
	if opts.cols > 0 {
		cols = opts.cols
	}
	return rows, cols
}
