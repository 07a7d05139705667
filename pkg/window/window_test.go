package window

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type stubRunner struct {
	outputs  map[string]string
	failures map[string]error
	detached [][]string
}

func (r *stubRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	if err, ok := r.failures[key]; ok {
		return "", err
	}
	return r.outputs[key], nil
}

func (r *stubRunner) Detach(name string, args ...string) error {
	r.detached = append(r.detached, append([]string{name}, args...))
	return nil
}

func TestActiveWindow(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{"focused", "_NET_ACTIVE_WINDOW: window id # 0x3a00007\n", "0x3a00007", false},
		{"with trailing ids", "_NET_ACTIVE_WINDOW: window id # 0x1c00003, 0x0\n", "0x1c00003", false},
		{"null window", "_NET_ACTIVE_WINDOW: window id # 0x0\n", "", true},
		{"garbage", "_NET_ACTIVE_WINDOW:  not found.\n", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &stubRunner{outputs: map[string]string{
				"xprop -root -notype _NET_ACTIVE_WINDOW": tt.output,
			}}
			got, err := NewTools(runner, "", "").ActiveWindow(context.Background())
			if tt.wantErr {
				if !errors.Is(err, ErrNoWindow) {
					t.Fatalf("expected ErrNoWindow, got %q, %v", got, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("got %q, %v, want %q", got, err, tt.want)
			}
		})
	}
}

func TestActiveWindowXpropMissing(t *testing.T) {
	runner := &stubRunner{failures: map[string]error{
		"xprop -root -notype _NET_ACTIVE_WINDOW": errors.New("exec: not found"),
	}}
	if _, err := NewTools(runner, "", "").ActiveWindow(context.Background()); !errors.Is(err, ErrNoWindow) {
		t.Fatalf("expected ErrNoWindow, got %v", err)
	}
}

func TestProperty(t *testing.T) {
	runner := &stubRunner{outputs: map[string]string{
		"xprop -id 0x1 -notype _GTK_UNIQUE_BUS_NAME":     "_GTK_UNIQUE_BUS_NAME = \":1.42\"\n",
		"xprop -id 0x1 -notype _GTK_MENUBAR_OBJECT_PATH": "_GTK_MENUBAR_OBJECT_PATH:  not found.\n",
		"xprop -id 0x2 -notype _GTK_UNIQUE_BUS_NAME":     "_GTK_UNIQUE_BUS_NAME:  no such atom on any window.\n",
	}}
	tools := NewTools(runner, "", "")

	value, ok, err := tools.Property(context.Background(), "0x1", GtkBusNameAtom)
	if err != nil || !ok || value != ":1.42" {
		t.Fatalf("bus name = %q, %v, %v", value, ok, err)
	}

	if _, ok, _ := tools.Property(context.Background(), "0x1", GtkMenubarPathAtom); ok {
		t.Fatalf("missing property reported as present")
	}
	if _, ok, _ := tools.Property(context.Background(), "0x2", GtkBusNameAtom); ok {
		t.Fatalf("unknown atom reported as present")
	}
}

func TestList(t *testing.T) {
	runner := &stubRunner{outputs: map[string]string{
		"wmctrl -l": strings.Join([]string{
			"0x01000003  0 host Terminal",
			"0x02000004  1 host Firefox  -  Mozilla",
			"0x03000005 -1 host    ",
			"0x04000006  0 host Terminal",
			"short line",
			"",
		}, "\n"),
	}}

	got := NewTools(runner, "", "").List(context.Background())

	want := Table{
		"Terminal":            "0x04000006",
		"Firefox  -  Mozilla": "0x02000004",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestListFailureIsEmpty(t *testing.T) {
	runner := &stubRunner{failures: map[string]error{"wmctrl -l": errors.New("exit status 1")}}
	if got := NewTools(runner, "", "").List(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty table, got %v", got)
	}
}

func TestFindByCommand(t *testing.T) {
	table := Table{
		"GNU Emacs":          "0x1",
		"Mozilla Firefox":    "0x2",
		"firefox - Settings": "0x3",
	}

	if id, ok := table.FindByCommand("FIREFOX"); !ok || id != "0x2" {
		t.Fatalf("expected first sorted match 0x2, got %q %v", id, ok)
	}
	if _, ok := table.FindByCommand("vim"); ok {
		t.Fatalf("unexpected match for vim")
	}
	if _, ok := table.FindByCommand(" "); ok {
		t.Fatalf("blank name must not match")
	}
}

func TestRaise(t *testing.T) {
	runner := &stubRunner{}
	if err := NewTools(runner, "", "wmctrl").Raise("0x2"); err != nil {
		t.Fatalf("Raise: %v", err)
	}
	want := [][]string{{"wmctrl", "-ia", "0x2"}}
	if !reflect.DeepEqual(runner.detached, want) {
		t.Fatalf("detached %v, want %v", runner.detached, want)
	}
}
