// Package utils provides common utility functions for hud.
// It includes helpers for command execution, detached launches,
// display server detection and terminal checks.
package utils

import (
	"context"
	"os"
	"os/exec"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
)

// ============================================================================
// Display Server Detection
// ============================================================================

// ServerType represents the display server type
type ServerType int

const (
	Unknown ServerType = iota
	X11
	Wayland
)

// DetectDisplayServer detects the current display server.
// XWayland sessions report X11 because xprop and wmctrl still work there.
func DetectDisplayServer() ServerType {
	if os.Getenv("DISPLAY") != "" {
		return X11
	}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return Wayland
	}
	return Unknown
}

// String returns string representation of ServerType
func (s ServerType) String() string {
	switch s {
	case X11:
		return "X11"
	case Wayland:
		return "Wayland"
	default:
		return "Unknown"
	}
}

// ============================================================================
// Command Utilities
// ============================================================================

// Runner runs external tools. The window, search and dispatch packages take
// one so tests can replace the real processes.
type Runner interface {
	// Output runs name and returns its stdout
	Output(ctx context.Context, name string, args ...string) (string, error)
	// Detach starts name and forgets about it
	Detach(name string, args ...string) error
}

// SystemRunner runs real processes
type SystemRunner struct{}

// Output implements Runner
func (SystemRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	return RunCommand(ctx, name, args...)
}

// Detach implements Runner
func (SystemRunner) Detach(name string, args ...string) error {
	return StartDetachedProcess(name, args...)
}

// CommandExists checks if a command exists in PATH
func CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// RunCommand executes a command and returns its stdout
func RunCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.Output()
	return string(output), err
}

// StartDetachedProcess starts a process in its own process group and never
// waits for it. Exit status and output are intentionally lost: the launched
// program outlives hud.
func StartDetachedProcess(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Env = os.Environ()
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
		Pgid:    0,
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// ============================================================================
// File System Utilities
// ============================================================================

// ExpandHomeDir expands ~ in paths. Paths it can't expand are returned as is.
func ExpandHomeDir(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// ============================================================================
// Terminal Detection
// ============================================================================

// IsTerminal checks if program is running in a terminal
func IsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
