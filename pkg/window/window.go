// Package window queries X11 windows through xprop and wmctrl.
package window

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lvim-tech/hud/pkg/utils"
)

const (
	// GTK menubar properties read from the focused window
	GtkBusNameAtom     = "_GTK_UNIQUE_BUS_NAME"
	GtkMenubarPathAtom = "_GTK_MENUBAR_OBJECT_PATH"

	activeWindowAtom = "_NET_ACTIVE_WINDOW"
	nullWindow       = "0x0"
)

// ErrNoWindow is returned when no window has focus
var ErrNoWindow = errors.New("no focused window")

// Tools runs xprop and wmctrl
type Tools struct {
	Runner utils.Runner
	Xprop  string
	Wmctrl string
}

// NewTools returns Tools using the given binaries, xprop/wmctrl if empty
func NewTools(runner utils.Runner, xprop, wmctrl string) *Tools {
	if xprop == "" {
		xprop = "xprop"
	}
	if wmctrl == "" {
		wmctrl = "wmctrl"
	}
	return &Tools{Runner: runner, Xprop: xprop, Wmctrl: wmctrl}
}

// ActiveWindow returns the focused window id as printed by xprop, e.g. "0x3a00007"
func (t *Tools) ActiveWindow(ctx context.Context) (string, error) {
	out, err := t.Runner.Output(ctx, t.Xprop, "-root", "-notype", activeWindowAtom)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoWindow, err)
	}
	return parseActiveWindow(out)
}

// parseActiveWindow reads "_NET_ACTIVE_WINDOW: window id # 0x3a00007"
func parseActiveWindow(out string) (string, error) {
	_, value, ok := strings.Cut(out, "#")
	if !ok {
		return "", fmt.Errorf("%w: unexpected xprop output %q", ErrNoWindow, strings.TrimSpace(out))
	}
	id := strings.TrimSpace(strings.Split(value, ",")[0])
	if id == "" || id == nullWindow {
		return "", ErrNoWindow
	}
	return id, nil
}

// Property reads a string property of window id. ok is false when the window
// doesn't have it.
func (t *Tools) Property(ctx context.Context, id, atom string) (string, bool, error) {
	out, err := t.Runner.Output(ctx, t.Xprop, "-id", id, "-notype", atom)
	if err != nil {
		return "", false, fmt.Errorf("xprop %s: %w", atom, err)
	}
	value, ok := parseProperty(out)
	return value, ok, nil
}

// parseProperty reads `_GTK_UNIQUE_BUS_NAME = ":1.42"`
func parseProperty(out string) (string, bool) {
	if strings.Contains(out, "not found") || strings.Contains(out, "no such atom") {
		return "", false
	}
	start := strings.IndexByte(out, '"')
	if start < 0 {
		return "", false
	}
	end := strings.IndexByte(out[start+1:], '"')
	if end < 0 {
		return "", false
	}
	return out[start+1 : start+1+end], true
}

// Table maps window titles to window ids
type Table map[string]string

// Titles returns the window titles sorted ascending
func (t Table) Titles() []string {
	titles := make([]string, 0, len(t))
	for title := range t {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// FindByCommand returns the id of a window whose title contains name,
// ignoring case. Titles are checked in sorted order.
func (t Table) FindByCommand(name string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false
	}
	for _, title := range t.Titles() {
		if strings.Contains(strings.ToLower(title), needle) {
			return t[title], true
		}
	}
	return "", false
}

// List returns the open windows. Any failure yields an empty table.
func (t *Tools) List(ctx context.Context) Table {
	out, err := t.Runner.Output(ctx, t.Wmctrl, "-l")
	if err != nil {
		return Table{}
	}
	return parseList(out)
}

// parseList reads `wmctrl -l` lines: id, desktop, host, title.
// Blank titles are skipped; a later window wins over an earlier one with the same title.
func parseList(out string) Table {
	windows := Table{}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		// title keeps its inner spacing: cut after the third field
		rest := line
		for i := 0; i < 3; i++ {
			rest = strings.TrimLeft(rest, " \t")
			rest = rest[len(fields[i]):]
		}
		title := strings.TrimLeft(rest, " \t")
		if strings.TrimSpace(title) == "" {
			continue
		}
		windows[title] = fields[0]
	}
	return windows
}

// Raise activates window id. wmctrl is left running on its own.
func (t *Tools) Raise(id string) error {
	return t.Runner.Detach(t.Wmctrl, "-ia", id)
}
