package dbusmenu

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"

	"github.com/lvim-tech/hud/pkg/menu"
)

type recordedCall struct {
	method string
	flags  dbus.Flags
	args   []interface{}
}

type stubObject struct {
	dbus.BusObject
	replies map[string]*dbus.Call
	calls   []recordedCall
}

func (o *stubObject) CallWithContext(_ context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	o.calls = append(o.calls, recordedCall{method: method, flags: flags, args: args})
	if reply, ok := o.replies[method]; ok {
		return reply
	}
	return &dbus.Call{Err: errors.New("unexpected call " + method)}
}

type stubConn struct {
	objects map[string]*stubObject
}

func (c *stubConn) Object(dest string, path dbus.ObjectPath) dbus.BusObject {
	if obj, ok := c.objects[dest+string(path)]; ok {
		return obj
	}
	return &stubObject{}
}

func item(id int32, label string, children ...dbus.Variant) []interface{} {
	props := map[string]dbus.Variant{}
	if label != "" {
		props["label"] = dbus.MakeVariant(label)
	}
	if children == nil {
		children = []dbus.Variant{}
	}
	return []interface{}{id, props, children}
}

func child(v []interface{}) dbus.Variant {
	return dbus.MakeVariant(v)
}

func newStubConn(layout []interface{}) (*stubConn, *stubObject) {
	registrar := &stubObject{replies: map[string]*dbus.Call{
		RegistrarIface + ".GetMenuForWindow": {Body: []interface{}{":1.42", dbus.ObjectPath("/MenuBar/1")}},
	}}
	app := &stubObject{replies: map[string]*dbus.Call{
		MenuIface + ".GetLayout": {Body: []interface{}{uint32(3), layout}},
		MenuIface + ".Event":     {},
	}}
	conn := &stubConn{objects: map[string]*stubObject{
		RegistrarName + string(RegistrarPath): registrar,
		":1.42/MenuBar/1":                     app,
	}}
	return conn, app
}

func TestFlattenAndActivate(t *testing.T) {
	layout := item(0, "",
		child(item(1, "_File",
			child(item(2, "_Open")),
			child(item(3, "")),
		)),
		child(item(4, "Help",
			child(item(5, "_About")),
		)),
	)
	conn, app := newStubConn(layout)

	src, err := Probe(context.Background(), conn, 0x3a00007, nil)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	flat, err := src.Flatten(context.Background())
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}

	if len(flat) != 2 {
		t.Fatalf("expected 2 entries, got %v", flat.Keys())
	}
	action, ok := flat["Help > About"]
	if !ok {
		t.Fatalf("missing Help > About in %v", flat.Keys())
	}

	if err := action.Activate(context.Background()); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	last := app.calls[len(app.calls)-1]
	if last.method != MenuIface+".Event" {
		t.Fatalf("expected Event call, got %s", last.method)
	}
	if last.args[0] != int32(5) || last.args[1] != "clicked" {
		t.Fatalf("unexpected Event args %v", last.args)
	}
	if last.flags&dbus.FlagNoReplyExpected == 0 {
		t.Fatalf("Event should not wait for a reply")
	}
}

func TestProbeWithoutRegisteredMenu(t *testing.T) {
	conn := &stubConn{objects: map[string]*stubObject{
		RegistrarName + string(RegistrarPath): {replies: map[string]*dbus.Call{
			RegistrarIface + ".GetMenuForWindow": {Err: errors.New("no menu")},
		}},
	}}

	_, err := Probe(context.Background(), conn, 1, nil)
	if !errors.Is(err, menu.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestProbeEmptyReply(t *testing.T) {
	conn := &stubConn{objects: map[string]*stubObject{
		RegistrarName + string(RegistrarPath): {replies: map[string]*dbus.Call{
			RegistrarIface + ".GetMenuForWindow": {Body: []interface{}{"", dbus.ObjectPath("/")}},
		}},
	}}

	_, err := Probe(context.Background(), conn, 1, nil)
	if !errors.Is(err, menu.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFlattenMalformedLayout(t *testing.T) {
	tests := []struct {
		name   string
		layout interface{}
	}{
		{"not a struct", "oops"},
		{"wrong id type", []interface{}{"0", map[string]dbus.Variant{}, []dbus.Variant{}}},
		{"bad child", []interface{}{int32(0), map[string]dbus.Variant{}, []dbus.Variant{dbus.MakeVariant(int32(1))}}},
		{"label not string", []interface{}{int32(0), map[string]dbus.Variant{"label": dbus.MakeVariant(int64(7))}, []dbus.Variant{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, app := newStubConn(nil)
			app.replies[MenuIface+".GetLayout"] = &dbus.Call{Body: []interface{}{uint32(1), tt.layout}}

			src, err := Probe(context.Background(), conn, 1, nil)
			if err != nil {
				t.Fatalf("Probe: %v", err)
			}
			if _, err := src.Flatten(context.Background()); !errors.Is(err, menu.ErrProtocol) {
				t.Fatalf("expected ErrProtocol, got %v", err)
			}
		})
	}
}
