package hud

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/lvim-tech/hud/pkg/menu"
	"github.com/lvim-tech/hud/pkg/menu/dbusmenu"
	"github.com/lvim-tech/hud/pkg/menu/gtkmenu"
	"github.com/lvim-tech/hud/pkg/window"
)

// MenuProber finds the menu source exported by a window
type MenuProber interface {
	Probe(ctx context.Context, windowID string) (menu.Source, error)
}

// BusConn is the part of *dbus.Conn the menu sources need
type BusConn interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
}

// PropertyReader reads X11 window properties
type PropertyReader interface {
	Property(ctx context.Context, id, atom string) (string, bool, error)
}

// BusProber picks a GTK menubar when the window advertises one and asks the
// AppMenu registrar otherwise.
type BusProber struct {
	Conn           BusConn
	Properties     PropertyReader
	ActionPrefixes []string
	Logger         *zap.Logger
}

// Probe implements MenuProber
func (p *BusProber) Probe(ctx context.Context, windowID string) (menu.Source, error) {
	if p.Conn == nil {
		return nil, fmt.Errorf("%w: no session bus", menu.ErrUnavailable)
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	busName, hasBus, err := p.Properties.Property(ctx, windowID, window.GtkBusNameAtom)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", menu.ErrUnavailable, err)
	}
	objectPath, hasPath, err := p.Properties.Property(ctx, windowID, window.GtkMenubarPathAtom)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", menu.ErrUnavailable, err)
	}

	if hasBus && hasPath {
		logger.Debug("window exports a GTK menubar", zap.String("bus", busName), zap.String("path", objectPath))
		source, err := gtkmenu.New(p.Conn, busName, objectPath, p.ActionPrefixes, logger)
		if err != nil {
			return nil, err
		}
		return source, nil
	}

	id, err := parseWindowID(windowID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", menu.ErrUnavailable, err)
	}
	source, err := dbusmenu.Probe(ctx, p.Conn, id, logger)
	if err != nil {
		return nil, err
	}
	return source, nil
}

// parseWindowID converts xprop's "0x3a00007" into the registrar's uint32 id
func parseWindowID(windowID string) (uint32, error) {
	hex := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(windowID)), "0x")
	id, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", windowID)
	}
	return uint32(id), nil
}
