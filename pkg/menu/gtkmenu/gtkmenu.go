// Package gtkmenu reads menus exported by GTK applications through
// org.gtk.Menus and activates them through org.gtk.Actions.
package gtkmenu

import (
	"context"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/lvim-tech/hud/pkg/menu"
)

const (
	MenusIface   = "org.gtk.Menus"
	ActionsIface = "org.gtk.Actions"

	// subscriptions is how many menu groups Start asks for
	subscriptions = 1024
)

// Conn is the part of *dbus.Conn used here
type Conn interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
}

// Source is the GTK menubar exported by one window
type Source struct {
	obj          dbus.BusObject
	busName      string
	actionPrefix []string
	logger       *zap.Logger
}

// New binds to the menubar at busName/objectPath, as read from the window's
// _GTK_UNIQUE_BUS_NAME and _GTK_MENUBAR_OBJECT_PATH properties.
// actionPrefixes are namespaces stripped from action names before activation.
func New(conn Conn, busName, objectPath string, actionPrefixes []string, logger *zap.Logger) (*Source, error) {
	if busName == "" || !dbus.ObjectPath(objectPath).IsValid() {
		return nil, fmt.Errorf("%w: bus %q path %q", menu.ErrUnavailable, busName, objectPath)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		obj:          conn.Object(busName, dbus.ObjectPath(objectPath)),
		busName:      busName,
		actionPrefix: actionPrefixes,
		logger:       logger,
	}, nil
}

// Name implements menu.Source
func (s *Source) Name() string {
	return "gtkmenu"
}

// Flatten subscribes to the menu groups and flattens them
func (s *Source) Flatten(ctx context.Context) (menu.FlatMenu, error) {
	ids := make([]uint32, subscriptions)
	for i := range ids {
		ids[i] = uint32(i)
	}

	call := s.obj.CallWithContext(ctx, MenusIface+".Start", 0, ids)
	if call.Err != nil {
		return nil, fmt.Errorf("%w: Start on %s: %v", menu.ErrProtocol, s.busName, call.Err)
	}
	if len(call.Body) != 1 {
		return nil, fmt.Errorf("%w: Start returned %d values", menu.ErrProtocol, len(call.Body))
	}

	groups, err := decodeGroups(call.Body[0])
	if err != nil {
		return nil, err
	}

	actions, collisions := menu.FlattenGroups(groups)
	if collisions > 0 {
		s.logger.Debug("gtkmenu labels collided", zap.Int("count", collisions))
	}

	flat := make(menu.FlatMenu, len(actions))
	for label, name := range actions {
		flat[label] = &namedAction{obj: s.obj, name: s.stripPrefix(name)}
	}
	return flat, nil
}

func (s *Source) stripPrefix(name string) string {
	for _, prefix := range s.actionPrefix {
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

// decodeGroups converts the a(uuaa{sv}) reply of Start
func decodeGroups(v interface{}) (map[menu.GroupID][]menu.Entry, error) {
	var rows [][]interface{}
	switch raw := v.(type) {
	case [][]interface{}:
		rows = raw
	case []interface{}:
		for _, r := range raw {
			row, ok := r.([]interface{})
			if !ok {
				return nil, fmt.Errorf("%w: menu group has type %T", menu.ErrProtocol, r)
			}
			rows = append(rows, row)
		}
	default:
		return nil, fmt.Errorf("%w: Start reply has type %T", menu.ErrProtocol, v)
	}

	groups := make(map[menu.GroupID][]menu.Entry, len(rows))
	for _, row := range rows {
		if len(row) != 3 {
			return nil, fmt.Errorf("%w: menu group has %d fields", menu.ErrProtocol, len(row))
		}
		group, ok1 := row[0].(uint32)
		number, ok2 := row[1].(uint32)
		items, ok3 := row[2].([]map[string]dbus.Variant)
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("%w: menu group fields have types %T, %T, %T", menu.ErrProtocol, row[0], row[1], row[2])
		}

		id := menu.GroupID{Group: group, Menu: number}
		entries := make([]menu.Entry, 0, len(items))
		for _, attrs := range items {
			entry, err := decodeEntry(attrs)
			if err != nil {
				return nil, fmt.Errorf("group %d/%d: %w", group, number, err)
			}
			entries = append(entries, entry)
		}
		groups[id] = entries
	}

	return groups, nil
}

func decodeEntry(attrs map[string]dbus.Variant) (menu.Entry, error) {
	var entry menu.Entry

	if v, ok := attrs["label"]; ok {
		label, ok := v.Value().(string)
		if !ok {
			return entry, fmt.Errorf("%w: label has type %T", menu.ErrProtocol, v.Value())
		}
		entry.Label, entry.HasLabel = label, true
	}

	if v, ok := attrs["action"]; ok {
		action, ok := v.Value().(string)
		if !ok {
			return entry, fmt.Errorf("%w: action has type %T", menu.ErrProtocol, v.Value())
		}
		entry.Action, entry.HasAction = action, true
	}

	var err error
	if v, ok := attrs[":section"]; ok {
		if entry.Section, err = decodeRef(v); err != nil {
			return entry, err
		}
	}
	if v, ok := attrs[":submenu"]; ok {
		if entry.Submenu, err = decodeRef(v); err != nil {
			return entry, err
		}
	}

	return entry, nil
}

func decodeRef(v dbus.Variant) (*menu.GroupID, error) {
	pair, ok := v.Value().([]interface{})
	if !ok || len(pair) != 2 {
		return nil, fmt.Errorf("%w: group reference has type %T", menu.ErrProtocol, v.Value())
	}
	group, ok1 := pair[0].(uint32)
	number, ok2 := pair[1].(uint32)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("%w: group reference fields have types %T, %T", menu.ErrProtocol, pair[0], pair[1])
	}
	return &menu.GroupID{Group: group, Menu: number}, nil
}

type namedAction struct {
	obj  dbus.BusObject
	name string
}

// Activate invokes the action without parameters. The reply is not awaited.
func (a *namedAction) Activate(ctx context.Context) error {
	call := a.obj.CallWithContext(ctx, ActionsIface+".Activate", dbus.FlagNoReplyExpected,
		a.name, []dbus.Variant{}, map[string]dbus.Variant{})
	if call.Err != nil {
		return fmt.Errorf("gtk action %s: %w", a.name, call.Err)
	}
	return nil
}
