package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lvim-tech/hud/pkg/config"
	"github.com/lvim-tech/hud/pkg/executables"
	"github.com/lvim-tech/hud/pkg/hud"
	"github.com/lvim-tech/hud/pkg/launcher"
	"github.com/lvim-tech/hud/pkg/logging"
	"github.com/lvim-tech/hud/pkg/utils"
	"github.com/lvim-tech/hud/pkg/window"
)

var version = "0.1.0"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	launcher   string
	configPath string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "hud [launcher]",
		Short: "Search the focused window's menu, programs and windows from one launcher",
		Long: "hud flattens the menu of the focused window into \"File > Open\" entries,\n" +
			"mixes in executables from PATH and open windows, and runs whatever you pick.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.launcher = args[0]
			}
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.launcher, "launcher", "l", "", "launcher to use (dmenu, rofi, fzf, bemenu, fuzzel, tui or one from the config)")
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ~/.config/hud/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(newInitCommand(), newVersionCommand())
	return cmd
}

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default config to ~/.config/hud/config.toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.InitUserConfig(); err != nil {
				return err
			}
			fmt.Printf("Config initialized at: %s\n", config.GetUserConfigPath())
			fmt.Println("\nYou can now edit the config file to customize hud.")
			fmt.Println("Bind 'hud' to a hotkey to start using it!")
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hud version %s\n", version)
		},
	}
}

// run fails only when no launcher can be started or the config given on the
// command line is unusable. Everything else degrades to a smaller list.
func run(ctx context.Context, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(opts.logLevel, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	picker, err := launcher.New(opts.launcher, cfg)
	if err != nil {
		if errors.Is(err, launcher.ErrNoLauncher) {
			utils.ShowErrorNotificationWithConfig(&cfg.Notifications, "hud", err.Error())
		}
		return fmt.Errorf("failed to create launcher: %w", err)
	}
	logger.Debug("launcher ready", zap.String("launcher", picker.Name()),
		zap.Stringer("display", utils.DetectDisplayServer()))

	runner := utils.SystemRunner{}
	tools := window.NewTools(runner, cfg.Window.Xprop, cfg.Window.Wmctrl)

	h := &hud.HUD{
		Config:      cfg,
		Windows:     tools,
		Executables: func() []string { return executables.List(os.Getenv("PATH")) },
		Picker:      picker,
		Runner:      runner,
		Logger:      logger,
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		logger.Debug("no session bus, menus disabled", zap.Error(err))
	} else {
		defer conn.Close()
		h.Menus = &hud.BusProber{
			Conn:           conn,
			Properties:     tools,
			ActionPrefixes: cfg.Menu.ActionPrefixes,
			Logger:         logger,
		}
	}

	// the action's own failure is logged and optionally notified, never fatal
	_, _ = h.Run(ctx)
	return nil
}

// newLogger prefers the --log-level flag, which must be valid. A bad level
// in the config file only earns a warning and the default level.
func newLogger(flagLevel, configLevel string) (*zap.Logger, error) {
	if flagLevel != "" {
		return logging.New(flagLevel)
	}

	logger, err := logging.New(configLevel)
	if err == nil {
		return logger, nil
	}

	logger, fallbackErr := logging.New(logging.DefaultLevel)
	if fallbackErr != nil {
		return nil, fallbackErr
	}
	logger.Warn("ignoring [log] level from config", zap.Error(err))
	return logger, nil
}
