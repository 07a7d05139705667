// Package launcher provides an abstraction layer for different launcher programs.
// It supports dmenu, rofi, fzf, bemenu, fuzzel and a built-in terminal picker
// with a unified interface. Any other dmenu-compatible program can be used by
// giving it a command in the config.
package launcher

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/lvim-tech/hud/pkg/config"
	"github.com/lvim-tech/hud/pkg/utils"
)

// Launcher shows options and returns the one the user picked
type Launcher interface {
	Name() string
	Show(options []string, prompt string) (string, error)
}

type factory func(command string, args []string) Launcher

var registry = map[string]factory{
	"dmenu":  func(c string, a []string) Launcher { return NewDmenu(c, a) },
	"rofi":   func(c string, a []string) Launcher { return NewRofi(c, a) },
	"fzf":    func(c string, a []string) Launcher { return NewFzf(c, a) },
	"bemenu": func(c string, a []string) Launcher { return NewBemenu(c, a) },
	"fuzzel": func(c string, a []string) Launcher { return NewFuzzel(c, a) },
	"tui":    func(_ string, _ []string) Launcher { return NewTUI() },
}

// detectPriority is the order DetectAvailable tries launchers in
var detectPriority = []string{"rofi", "dmenu", "fuzzel", "bemenu", "fzf"}

// New returns the launcher called name, or the configured default when name
// is empty, or the first installed one when neither is set.
func New(name string, cfg *config.Config) (Launcher, error) {
	if name == "" {
		name = cfg.DefaultLauncher
	}
	if name == "" {
		return DetectAvailable(cfg)
	}

	var command string
	var args []string
	if lc := cfg.GetLauncherCommand(name); lc != nil {
		command, args = lc.Command, lc.Args
	}

	build, builtin := registry[name]
	if !builtin {
		if command == "" {
			return nil, fmt.Errorf("%w: unknown launcher %q", ErrNoLauncher, name)
		}
		build = func(c string, a []string) Launcher { return NewCustom(name, c, a) }
	}

	if command == "" {
		command = name
	}
	if name != "tui" && !utils.CommandExists(command) {
		return nil, fmt.Errorf("%w: %s not found in PATH", ErrNoLauncher, command)
	}

	return build(command, args), nil
}

// DetectAvailable returns the first launcher whose binary is installed
func DetectAvailable(cfg *config.Config) (Launcher, error) {
	for _, name := range detectPriority {
		if l, err := New(name, cfg); err == nil {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: install rofi, dmenu, fuzzel, bemenu or fzf", ErrNoLauncher)
}

// Choose shows options and returns the selection, or "" when the user
// cancelled or the launcher failed.
func Choose(l Launcher, options []string, prompt string) string {
	choice, err := l.Show(options, prompt)
	if err != nil {
		return ""
	}
	return choice
}

// runPiped writes options to command's stdin, one per line, and returns the
// first line it prints. Exit status 1 or no output means cancel.
func runPiped(command string, args []string, options []string, prepare func(*exec.Cmd)) (string, error) {
	cmd := exec.Command(command, args...)
	cmd.Stdin = strings.NewReader(strings.Join(options, "\n"))
	if prepare != nil {
		prepare(cmd)
	}

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := unwrapExit(err); ok && exitErr.ExitCode() == 1 {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("%s failed: %w", command, err)
	}

	line, _, _ := bytes.Cut(output, []byte("\n"))
	result := strings.TrimSuffix(string(line), "\r")
	if result == "" {
		return "", ErrCancelled
	}

	return result, nil
}

func unwrapExit(err error) (*exec.ExitError, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr, true
	}
	return nil, false
}
