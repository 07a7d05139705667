// Package menu flattens application menus exported over D-Bus into a single
// label to action mapping that can be fed to a launcher.
//
// Two protocols are supported through the Source interface: the AppMenu
// registrar (com.canonical.dbusmenu layouts) and GTK exported menus
// (org.gtk.Menus groups). Both end up as a FlatMenu keyed by "File > Open"
// style labels.
package menu

import (
	"context"
	"errors"
	"sort"
	"strings"
)

const (
	// PathSeparator joins label path segments
	PathSeparator = " > "

	// RootLabel is the label some exporters give to the invisible root item
	RootLabel = "Root"
)

var (
	// ErrUnavailable is returned when the focused window does not export a menu
	ErrUnavailable = errors.New("menu source unavailable")

	// ErrProtocol is returned when a menu source answers with something we can't read
	ErrProtocol = errors.New("malformed menu response")
)

// Action activates one menu entry
type Action interface {
	Activate(ctx context.Context) error
}

// ActionFunc adapts a plain function to Action
type ActionFunc func(ctx context.Context) error

// Activate calls f
func (f ActionFunc) Activate(ctx context.Context) error {
	return f(ctx)
}

// FlatMenu maps a formatted label path to the action it triggers.
// Only leaf entries are present.
type FlatMenu map[string]Action

// Keys returns the menu labels sorted ascending
func (m FlatMenu) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Source is anything that can produce a FlatMenu for the focused window
type Source interface {
	Name() string
	Flatten(ctx context.Context) (FlatMenu, error)
}

// FormatLabelPath renders a label path for display.
// Mnemonic underscores are dropped first, then every leading "Root" segment is
// hidden. Doing it in this order makes the result stable when formatted again:
// "R_oot > Edit" becomes "Edit", not "Root > Edit".
func FormatLabelPath(path []string) string {
	return formatLabel(strings.Join(path, PathSeparator))
}

func formatLabel(label string) string {
	label = strings.ReplaceAll(label, "_", "")
	for strings.HasPrefix(label, RootLabel+PathSeparator) {
		label = strings.TrimPrefix(label, RootLabel+PathSeparator)
	}
	return label
}

func extend(path []string, label string) []string {
	next := make([]string, len(path), len(path)+1)
	copy(next, path)
	return append(next, label)
}
