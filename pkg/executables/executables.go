// Package executables lists the programs reachable through PATH.
package executables

import (
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sys/unix"
)

// List returns the names of executable files in every directory of pathEnv
// (a PATH style list), deduplicated and sorted. Directories that don't exist
// or can't be read are skipped.
func List(pathEnv string) []string {
	seen := make(map[string]struct{})

	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			if isExecutable(full) {
				seen[entry.Name()] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isExecutable follows symlinks, so a link to a directory is not executable
// but a link to a binary is.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return unix.Access(path, unix.X_OK) == nil
}
