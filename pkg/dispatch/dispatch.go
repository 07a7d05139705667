// Package dispatch turns the launcher's answer into exactly one action:
// a menu item, a file search, a program launch, a window raise or an open.
package dispatch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"

	"github.com/lvim-tech/hud/pkg/menu"
	"github.com/lvim-tech/hud/pkg/utils"
	"github.com/lvim-tech/hud/pkg/window"
)

// Outcome tells which branch handled a choice
type Outcome int

const (
	None Outcome = iota
	FileSearch
	MenuItem
	RaiseProgram
	SpawnProgram
	RaiseWindow
	OpenPath
)

func (o Outcome) String() string {
	switch o {
	case FileSearch:
		return "file-search"
	case MenuItem:
		return "menu-item"
	case RaiseProgram:
		return "raise-program"
	case SpawnProgram:
		return "spawn-program"
	case RaiseWindow:
		return "raise-window"
	case OpenPath:
		return "open"
	default:
		return "none"
	}
}

// Searcher runs the file search behind the search entry
type Searcher interface {
	Search(ctx context.Context) error
}

// Raiser brings a window to the front
type Raiser interface {
	Raise(id string) error
}

// Dispatcher holds the lookup tables of one invocation
type Dispatcher struct {
	SearchLabel string
	Marker      string
	Executables []string
	Menu        menu.FlatMenu
	Windows     window.Table
	Searcher    Searcher
	Raiser      Raiser
	Runner      utils.Runner
	OpenCommand string
	Logger      *zap.Logger
}

// Dispatch performs the action for choice. The first matching rule wins:
// search entry, menu item, marked executable, window title, anything else is
// opened as a path or URI. An empty choice does nothing.
func (d *Dispatcher) Dispatch(ctx context.Context, choice string) (Outcome, error) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	switch {
	case choice == "":
		return None, nil

	case d.SearchLabel != "" && choice == d.SearchLabel:
		if d.Searcher == nil {
			return FileSearch, fmt.Errorf("file search is not configured")
		}
		return FileSearch, d.Searcher.Search(ctx)

	case d.Menu[choice] != nil:
		logger.Debug("activating menu item", zap.String("label", choice))
		return MenuItem, d.Menu[choice].Activate(ctx)

	case d.Marker != "" && strings.HasPrefix(choice, d.Marker):
		return d.runOrRaise(strings.TrimPrefix(choice, d.Marker), logger)
	}

	if id, ok := d.Windows[choice]; ok {
		return RaiseWindow, d.Raiser.Raise(id)
	}

	return OpenPath, d.Open(choice)
}

// runOrRaise raises a window of the program if one is open, otherwise starts
// it detached. The program's own success is never checked.
// A listed executable is run by its exact name; anything else typed after the
// marker is split with shell rules so arguments can be given.
func (d *Dispatcher) runOrRaise(command string, logger *zap.Logger) (Outcome, error) {
	if strings.TrimSpace(command) == "" {
		return None, nil
	}

	args := []string{command}
	if !slices.Contains(d.Executables, command) {
		parsed, err := shellwords.Parse(command)
		if err != nil {
			logger.Debug("running unparsable command as a program name", zap.String("command", command), zap.Error(err))
		} else if len(parsed) > 0 {
			args = parsed
		}
	}

	program := filepath.Base(args[0])
	if id, ok := d.Windows.FindByCommand(program); ok {
		logger.Debug("raising running program", zap.String("program", program), zap.String("window", id))
		return RaiseProgram, d.Raiser.Raise(id)
	}

	logger.Debug("starting program", zap.Strings("args", args))
	if err := d.Runner.Detach(args[0], args[1:]...); err != nil {
		return SpawnProgram, fmt.Errorf("failed to start %s: %w", args[0], err)
	}
	return SpawnProgram, nil
}

// Open hands target to the open command, with a leading ~ expanded
func (d *Dispatcher) Open(target string) error {
	opener := d.OpenCommand
	if opener == "" {
		opener = "xdg-open"
	}
	args, err := shellwords.Parse(opener)
	if err != nil || len(args) == 0 {
		return fmt.Errorf("invalid open command %q", opener)
	}

	args = append(args, utils.ExpandHomeDir(target))
	if err := d.Runner.Detach(args[0], args[1:]...); err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	return nil
}
