package executables

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), mode); err != nil {
		t.Fatal(err)
	}
}

func TestList(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	writeFile(t, filepath.Join(first, "zeta"), 0755)
	writeFile(t, filepath.Join(first, "Alpha"), 0755)
	writeFile(t, filepath.Join(first, "notes.txt"), 0644)
	if err := os.Mkdir(filepath.Join(first, "subdir"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(second, "zeta"), 0755)
	writeFile(t, filepath.Join(second, "alpha"), 0700)
	if err := os.Symlink(filepath.Join(first, "zeta"), filepath.Join(second, "linked")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(first, filepath.Join(second, "dirlink")); err != nil {
		t.Fatal(err)
	}

	pathEnv := strings.Join([]string{
		first,
		filepath.Join(first, "missing"),
		"",
		second,
	}, string(os.PathListSeparator))

	got := List(pathEnv)

	want := []string{"Alpha", "alpha", "linked", "zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
}

func TestListEmptyPath(t *testing.T) {
	if got := List(""); len(got) != 0 {
		t.Fatalf("expected nothing, got %v", got)
	}
}
