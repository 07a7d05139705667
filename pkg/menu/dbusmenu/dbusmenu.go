// Package dbusmenu reads application menus published through the AppMenu
// registrar (com.canonical.dbusmenu), as used by Qt, Electron and other
// toolkits that export a global menu.
package dbusmenu

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/lvim-tech/hud/pkg/menu"
)

const (
	RegistrarName  = "com.canonical.AppMenu.Registrar"
	RegistrarPath  = dbus.ObjectPath("/com/canonical/AppMenu/Registrar")
	RegistrarIface = "com.canonical.AppMenu.Registrar"
	MenuIface      = "com.canonical.dbusmenu"
)

// Conn is the part of *dbus.Conn used here
type Conn interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
}

// Source is the dbusmenu exported by one window
type Source struct {
	obj    dbus.BusObject
	logger *zap.Logger
}

// Probe asks the registrar which menu belongs to windowID.
// Returns an error wrapping menu.ErrUnavailable when the window has none.
func Probe(ctx context.Context, conn Conn, windowID uint32, logger *zap.Logger) (*Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	registrar := conn.Object(RegistrarName, RegistrarPath)
	call := registrar.CallWithContext(ctx, RegistrarIface+".GetMenuForWindow", 0, windowID)
	if call.Err != nil {
		return nil, fmt.Errorf("%w: registrar: %v", menu.ErrUnavailable, call.Err)
	}

	var service string
	var path dbus.ObjectPath
	if err := call.Store(&service, &path); err != nil {
		return nil, fmt.Errorf("%w: registrar reply: %v", menu.ErrProtocol, err)
	}
	if service == "" || path == "" || path == "/" {
		return nil, fmt.Errorf("%w: no menu registered for window 0x%x", menu.ErrUnavailable, windowID)
	}

	logger.Debug("dbusmenu found", zap.String("service", service), zap.String("path", string(path)))

	return &Source{obj: conn.Object(service, path), logger: logger}, nil
}

// Name implements menu.Source
func (s *Source) Name() string {
	return "dbusmenu"
}

// Flatten fetches the full layout and flattens it
func (s *Source) Flatten(ctx context.Context) (menu.FlatMenu, error) {
	root, err := s.layout(ctx)
	if err != nil {
		return nil, err
	}

	ids, collisions := menu.FlattenLayout(root)
	if collisions > 0 {
		s.logger.Debug("dbusmenu labels collided", zap.Int("count", collisions))
	}

	flat := make(menu.FlatMenu, len(ids))
	for label, id := range ids {
		flat[label] = &itemAction{obj: s.obj, id: id}
	}
	return flat, nil
}

func (s *Source) layout(ctx context.Context) (menu.LayoutNode, error) {
	call := s.obj.CallWithContext(ctx, MenuIface+".GetLayout", 0, int32(0), int32(-1), []string{"label"})
	if call.Err != nil {
		return menu.LayoutNode{}, fmt.Errorf("%w: GetLayout: %v", menu.ErrProtocol, call.Err)
	}
	if len(call.Body) != 2 {
		return menu.LayoutNode{}, fmt.Errorf("%w: GetLayout returned %d values", menu.ErrProtocol, len(call.Body))
	}
	return decodeLayout(call.Body[1])
}

// decodeLayout converts a (ia{sv}av) layout item. Nested items arrive as
// variants holding []interface{}.
func decodeLayout(v interface{}) (menu.LayoutNode, error) {
	if variant, ok := v.(dbus.Variant); ok {
		v = variant.Value()
	}

	fields, ok := v.([]interface{})
	if !ok || len(fields) != 3 {
		return menu.LayoutNode{}, fmt.Errorf("%w: layout item has type %T", menu.ErrProtocol, v)
	}

	id, ok := fields[0].(int32)
	if !ok {
		return menu.LayoutNode{}, fmt.Errorf("%w: item id has type %T", menu.ErrProtocol, fields[0])
	}
	props, ok := fields[1].(map[string]dbus.Variant)
	if !ok {
		return menu.LayoutNode{}, fmt.Errorf("%w: item %d properties have type %T", menu.ErrProtocol, id, fields[1])
	}
	children, ok := fields[2].([]dbus.Variant)
	if !ok {
		return menu.LayoutNode{}, fmt.Errorf("%w: item %d children have type %T", menu.ErrProtocol, id, fields[2])
	}

	node := menu.LayoutNode{ID: id}
	if label, ok := props["label"]; ok {
		text, ok := label.Value().(string)
		if !ok {
			return menu.LayoutNode{}, fmt.Errorf("%w: item %d label has type %T", menu.ErrProtocol, id, label.Value())
		}
		node.Label = text
		node.HasLabel = true
	}

	for _, child := range children {
		decoded, err := decodeLayout(child)
		if err != nil {
			return menu.LayoutNode{}, err
		}
		node.Children = append(node.Children, decoded)
	}

	return node, nil
}

type itemAction struct {
	obj dbus.BusObject
	id  int32
}

// Activate sends a "clicked" event. The reply is not awaited.
func (a *itemAction) Activate(ctx context.Context) error {
	call := a.obj.CallWithContext(ctx, MenuIface+".Event", dbus.FlagNoReplyExpected,
		a.id, "clicked", dbus.MakeVariant(int32(0)), uint32(time.Now().Unix()))
	if call.Err != nil {
		return fmt.Errorf("dbusmenu event %d: %w", a.id, call.Err)
	}
	return nil
}
