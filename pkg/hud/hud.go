// Package hud ties the pieces together for one invocation: find the focused
// window's menu, merge it with programs and windows, ask the user, dispatch.
package hud

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lvim-tech/hud/pkg/config"
	"github.com/lvim-tech/hud/pkg/dispatch"
	"github.com/lvim-tech/hud/pkg/launcher"
	"github.com/lvim-tech/hud/pkg/menu"
	"github.com/lvim-tech/hud/pkg/search"
	"github.com/lvim-tech/hud/pkg/utils"
	"github.com/lvim-tech/hud/pkg/window"
)

// Windows is what the HUD needs from the window tools
type Windows interface {
	ActiveWindow(ctx context.Context) (string, error)
	List(ctx context.Context) window.Table
	Raise(id string) error
}

// HUD runs one invocation
type HUD struct {
	Config      *config.Config
	Windows     Windows
	Menus       MenuProber
	Executables func() []string
	Picker      launcher.Launcher
	Runner      utils.Runner
	Logger      *zap.Logger
}

// Run walks detect, probe, present and dispatch once and reports which
// dispatch branch ran. Menu problems never fail the run; they only drop the
// menu from the list. The returned error is the dispatched action's failure.
func (h *HUD) Run(ctx context.Context) (dispatch.Outcome, error) {
	logger := h.logger()

	flat := h.probeMenu(ctx)
	programs := h.executables()
	windows := h.Windows.List(ctx)
	options := h.Options(flat, programs, windows)

	choice := launcher.Choose(h.Picker, options, h.Config.Menu.Prompt)
	logger.Debug("picked", zap.String("choice", choice))

	d := &dispatch.Dispatcher{
		SearchLabel: h.Config.Menu.SearchLabel,
		Marker:      h.Config.Menu.ExecutableMarker,
		Executables: programs,
		Menu:        flat,
		Windows:     windows,
		Raiser:      h.Windows,
		Runner:      h.Runner,
		OpenCommand: h.Config.Open.Command,
		Logger:      logger,
	}
	d.Searcher = search.New(h.Config.Search, h.Runner, h.Picker, d, logger)

	outcome, err := d.Dispatch(ctx, choice)
	logger.Debug("dispatched", zap.Stringer("outcome", outcome))
	if err != nil {
		logger.Warn("action failed", zap.Stringer("outcome", outcome), zap.Error(err))
		utils.ShowErrorNotificationWithConfig(&h.Config.Notifications, "hud", err.Error())
	}
	return outcome, err
}

// probeMenu returns the focused window's flattened menu, or nil for the fallback
// list. Errors and panics from the menu source end up here as nil.
func (h *HUD) probeMenu(ctx context.Context) menu.FlatMenu {
	logger := h.logger()

	id, err := h.Windows.ActiveWindow(ctx)
	if err != nil {
		logger.Debug("no focused window, using fallback", zap.Error(err))
		return nil
	}
	if h.Menus == nil {
		return nil
	}

	flat, err := h.flatten(ctx, id)
	if err != nil {
		logger.Debug("menu unavailable, using fallback", zap.String("window", id), zap.Error(err))
		return nil
	}
	return flat
}

func (h *HUD) flatten(ctx context.Context, id string) (flat menu.FlatMenu, err error) {
	defer func() {
		if r := recover(); r != nil {
			flat, err = nil, fmt.Errorf("%w: panic: %v", menu.ErrProtocol, r)
		}
	}()

	source, err := h.Menus.Probe(ctx, id)
	if err != nil {
		return nil, err
	}
	flat, err = source.Flatten(ctx)
	if err != nil {
		return nil, err
	}
	h.logger().Debug("menu flattened", zap.String("source", source.Name()), zap.Int("items", len(flat)))
	return flat, nil
}

// Options builds the picker list: the search entry, menu labels sorted,
// marked executables, window titles sorted.
func (h *HUD) Options(flat menu.FlatMenu, executables []string, windows window.Table) []string {
	options := make([]string, 0, 1+len(flat)+len(executables)+len(windows))
	if label := h.Config.Menu.SearchLabel; label != "" {
		options = append(options, label)
	}
	options = append(options, flat.Keys()...)
	for _, name := range executables {
		options = append(options, h.Config.Menu.ExecutableMarker+name)
	}
	return append(options, windows.Titles()...)
}

func (h *HUD) executables() []string {
	if h.Executables == nil {
		return nil
	}
	return h.Executables()
}

func (h *HUD) logger() *zap.Logger {
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}
	return h.Logger
}
