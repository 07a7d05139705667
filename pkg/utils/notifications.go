// Package utils provides notification utilities for hud.
// Supports configurable notification behavior via NotificationConfig.
package utils

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/lvim-tech/hud/pkg/config"
)

// ShowErrorNotificationWithConfig reports a failure that would otherwise go
// unnoticed. Does nothing unless notifications are enabled.
func ShowErrorNotificationWithConfig(cfg *config.NotificationConfig, title, message string) {
	if cfg == nil || !cfg.Enabled {
		return
	}

	// If in terminal and ShowInTerminal is enabled, print to stderr
	if cfg.ShowInTerminal && IsTerminal() {
		fmt.Fprintf(os.Stderr, "[ERROR] [%s] %s\n", title, message)
		return
	}

	tool := cfg.Tool
	if tool == "" || tool == "auto" {
		tool = detectNotificationTool()
	}

	sendNotification(tool, title, message, cfg.Timeout, cfg.Urgency, "critical")
}

// detectNotificationTool detects which notification tool is available
func detectNotificationTool() string {
	if CommandExists("dunstify") {
		return "dunstify"
	}
	if CommandExists("notify-send") {
		return "notify-send"
	}
	return ""
}

// notificationArgs builds the argument list for tool, nil if the tool is unsupported
func notificationArgs(tool, title, message string, timeout int, urgency, fallbackUrgency string) []string {
	if urgency == "" {
		urgency = fallbackUrgency
	}
	if timeout <= 0 {
		timeout = 5000
	}

	switch tool {
	case "dunstify", "notify-send":
		return []string{"-u", urgency, "-t", strconv.Itoa(timeout), title, message}
	default:
		return nil
	}
}

// sendNotification sends a notification using the specified tool
func sendNotification(tool, title, message string, timeout int, urgency, fallbackUrgency string) {
	args := notificationArgs(tool, title, message, timeout, urgency, fallbackUrgency)
	if args == nil {
		return
	}

	cmd := exec.Command(tool, args...)
	cmd.Env = os.Environ()
	cmd.Start()
}
