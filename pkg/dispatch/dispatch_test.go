package dispatch

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/mitchellh/go-homedir"

	"github.com/lvim-tech/hud/pkg/menu"
	"github.com/lvim-tech/hud/pkg/window"
)

type recorder struct {
	detached [][]string
	raised   []string
	searches int
	fired    []string
	failWith error
}

func (r *recorder) Output(context.Context, string, ...string) (string, error) {
	return "", nil
}

func (r *recorder) Detach(name string, args ...string) error {
	r.detached = append(r.detached, append([]string{name}, args...))
	return r.failWith
}

func (r *recorder) Raise(id string) error {
	r.raised = append(r.raised, id)
	return nil
}

func (r *recorder) Search(context.Context) error {
	r.searches++
	return nil
}

func (r *recorder) action(label string) menu.Action {
	return menu.ActionFunc(func(context.Context) error {
		r.fired = append(r.fired, label)
		return nil
	})
}

func newDispatcher(r *recorder) *Dispatcher {
	return &Dispatcher{
		SearchLabel: "search file",
		Marker:      "*",
		Menu: menu.FlatMenu{
			"File > Open": r.action("File > Open"),
			"*firefox":    r.action("*firefox"),
		},
		Windows: window.Table{
			"Mozilla Firefox": "0x2",
			"Terminal":        "0x3",
		},
		Searcher:    r,
		Raiser:      r,
		Runner:      r,
		OpenCommand: "xdg-open",
	}
}

func TestDispatchPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		choice   string
		want     Outcome
		fired    []string
		raised   []string
		detached [][]string
		searches int
	}{
		{name: "empty does nothing", choice: "", want: None},
		{name: "search entry", choice: "search file", want: FileSearch, searches: 1},
		{name: "menu item", choice: "File > Open", want: MenuItem, fired: []string{"File > Open"}},
		{name: "menu wins over marked executable", choice: "*firefox", want: MenuItem, fired: []string{"*firefox"}},
		{name: "running program is raised", choice: "*Terminal", want: RaiseProgram, raised: []string{"0x3"}},
		{
			name:     "program is started with its arguments",
			choice:   "*gimp --new-instance 'my file.png'",
			want:     SpawnProgram,
			detached: [][]string{{"gimp", "--new-instance", "my file.png"}},
		},
		{name: "window title", choice: "Mozilla Firefox", want: RaiseWindow, raised: []string{"0x2"}},
		{
			name:     "anything else is opened",
			choice:   "https://example.org",
			want:     OpenPath,
			detached: [][]string{{"xdg-open", "https://example.org"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			got, err := newDispatcher(r).Dispatch(context.Background(), tt.choice)
			if err != nil {
				t.Fatalf("Dispatch(%q): %v", tt.choice, err)
			}
			if got != tt.want {
				t.Fatalf("outcome = %v, want %v", got, tt.want)
			}
			if !reflect.DeepEqual(r.fired, tt.fired) {
				t.Errorf("fired %v, want %v", r.fired, tt.fired)
			}
			if !reflect.DeepEqual(r.raised, tt.raised) {
				t.Errorf("raised %v, want %v", r.raised, tt.raised)
			}
			if !reflect.DeepEqual(r.detached, tt.detached) {
				t.Errorf("detached %v, want %v", r.detached, tt.detached)
			}
			if r.searches != tt.searches {
				t.Errorf("searches = %d, want %d", r.searches, tt.searches)
			}
		})
	}
}

func TestDispatchOpenExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	r := &recorder{}
	if _, err := newDispatcher(r).Dispatch(context.Background(), "~/notes.md"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	want := [][]string{{"xdg-open", home + string(os.PathSeparator) + "notes.md"}}
	if !reflect.DeepEqual(r.detached, want) {
		t.Fatalf("detached %v, want %v", r.detached, want)
	}
}

func TestDispatchDisabledSearchEntry(t *testing.T) {
	r := &recorder{}
	d := newDispatcher(r)
	d.SearchLabel = ""

	got, err := d.Dispatch(context.Background(), "search file")
	if err != nil || got != OpenPath || r.searches != 0 {
		t.Fatalf("got %v, %v with %d searches", got, err, r.searches)
	}
}

func TestDispatchErrors(t *testing.T) {
	r := &recorder{failWith: errors.New("exec: not found")}
	d := newDispatcher(r)

	if _, err := d.Dispatch(context.Background(), "*nosuchprogram"); !errors.Is(err, r.failWith) {
		t.Errorf("spawn failure not reported: %v", err)
	}
	if got, err := d.Dispatch(context.Background(), "*"); err != nil || got != None {
		t.Errorf("bare marker = %v, %v", got, err)
	}
	if got, err := d.Dispatch(context.Background(), "*   "); err != nil || got != None {
		t.Errorf("blank command = %v, %v", got, err)
	}
}

func TestDispatchListedExecutableRunsByName(t *testing.T) {
	tests := []struct {
		name   string
		choice string
		want   []string
	}{
		{"quote in the name", "*it's-a-tool", []string{"it's-a-tool"}},
		{"space in the name", "*my tool", []string{"my tool"}},
		{"shell operator in the name", "*a&b", []string{"a&b"}},
		{"unlisted text is still split", "*gimp 'my file.png'", []string{"gimp", "my file.png"}},
		{"unparsable text runs as typed", "*broken 'quote", []string{"broken 'quote"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			d := newDispatcher(r)
			d.Executables = []string{"a&b", "gimp", "it's-a-tool", "my tool"}

			got, err := d.Dispatch(context.Background(), tt.choice)
			if err != nil || got != SpawnProgram {
				t.Fatalf("Dispatch(%q) = %v, %v", tt.choice, got, err)
			}
			if !reflect.DeepEqual(r.detached, [][]string{tt.want}) {
				t.Fatalf("detached %v, want %v", r.detached, [][]string{tt.want})
			}
		})
	}
}
