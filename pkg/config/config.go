// Package config provides configuration management for hud.
// It handles loading, merging, and accessing configuration from default and user config files.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/mattn/go-shellwords"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
)

//go:embed default.toml
var defaultConfigData string

// Config is the merged hud configuration
type Config struct {
	DefaultLauncher string                     `toml:"default_launcher"`
	Launchers       map[string]LauncherCommand `toml:"-"`
	Menu            MenuConfig                 `toml:"menu"`
	Search          SearchConfig               `toml:"search"`
	Window          WindowConfig               `toml:"window"`
	Open            OpenConfig                 `toml:"open"`
	Notifications   NotificationConfig         `toml:"notifications"`
	Log             LogConfig                  `toml:"log"`
}

// LauncherCommand describes how to start a picker.
// Command overrides the binary name, Args are passed before the prompt flag.
type LauncherCommand struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// MenuConfig controls how the option list is built
type MenuConfig struct {
	Prompt           string   `toml:"prompt"`
	SearchLabel      string   `toml:"search_label"`
	ExecutableMarker string   `toml:"executable_marker"`
	ActionPrefixes   []string `toml:"action_prefixes"`
}

// SearchConfig for the file search entry
type SearchConfig struct {
	Command string `toml:"command"`
	Prompt  string `toml:"prompt"`
}

// WindowConfig names the X11 tools used to query and raise windows
type WindowConfig struct {
	Xprop  string `toml:"xprop"`
	Wmctrl string `toml:"wmctrl"`
}

// OpenConfig for opening files and URIs
type OpenConfig struct {
	Command string `toml:"command"`
}

// NotificationConfig controls desktop notifications for dispatch failures
type NotificationConfig struct {
	Enabled        bool   `toml:"enabled"`
	Tool           string `toml:"tool"`
	Timeout        int    `toml:"timeout"`
	Urgency        string `toml:"urgency"`
	ShowInTerminal bool   `toml:"show_in_terminal"`
}

// LogConfig for the stderr logger
type LogConfig struct {
	Level string `toml:"level"`
}

// rawConfig is what the embedded default decodes into
type rawConfig struct {
	Config
	Launchers map[string]interface{} `toml:"launchers"`
}

// MenuConfigFile is for reading from TOML (pointers for optional fields)
type MenuConfigFile struct {
	Prompt           *string  `toml:"prompt"`
	SearchLabel      *string  `toml:"search_label"`
	ExecutableMarker *string  `toml:"executable_marker"`
	ActionPrefixes   []string `toml:"action_prefixes"`
}

// SearchConfigFile is for reading from TOML
type SearchConfigFile struct {
	Command *string `toml:"command"`
	Prompt  *string `toml:"prompt"`
}

// WindowConfigFile is for reading from TOML
type WindowConfigFile struct {
	Xprop  *string `toml:"xprop"`
	Wmctrl *string `toml:"wmctrl"`
}

// OpenConfigFile is for reading from TOML
type OpenConfigFile struct {
	Command *string `toml:"command"`
}

// NotificationConfigFile is for reading from TOML
type NotificationConfigFile struct {
	Enabled        *bool   `toml:"enabled"`
	Tool           *string `toml:"tool"`
	Timeout        *int    `toml:"timeout"`
	Urgency        *string `toml:"urgency"`
	ShowInTerminal *bool   `toml:"show_in_terminal"`
}

// LogConfigFile is for reading from TOML
type LogConfigFile struct {
	Level *string `toml:"level"`
}

// ConfigFile is for reading a user or system TOML file
type ConfigFile struct {
	DefaultLauncher *string                `toml:"default_launcher"`
	Launchers       map[string]interface{} `toml:"launchers"`
	Menu            MenuConfigFile         `toml:"menu"`
	Search          SearchConfigFile       `toml:"search"`
	Window          WindowConfigFile       `toml:"window"`
	Open            OpenConfigFile         `toml:"open"`
	Notifications   NotificationConfigFile `toml:"notifications"`
	Log             LogConfigFile          `toml:"log"`
}

// GetUserConfigPath returns the path to the user config
func GetUserConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := homedir.Dir()
		if err != nil {
			home = os.Getenv("HOME")
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "hud", "config.toml")
}

// GetSystemConfigPath returns the path to the system config
func GetSystemConfigPath() string {
	return "/etc/hud/config.toml"
}

// Load builds the configuration. An explicit path must exist and parse.
// Otherwise the user config, then the system config, is merged over the
// defaults; a broken file there only produces a warning.
func Load(path string) (*Config, error) {
	defaultCfg, err := loadDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path %s: %w", path, err)
		}
		userCfg, err := loadConfigFromFile(expanded)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		return mergeConfigs(defaultCfg, userCfg)
	}

	for _, candidate := range []string{GetUserConfigPath(), GetSystemConfigPath()} {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		fileCfg, err := loadConfigFromFile(candidate)
		if err == nil {
			var merged *Config
			merged, err = mergeConfigs(defaultCfg, fileCfg)
			if err == nil {
				return merged, nil
			}
		}
		fmt.Fprintf(os.Stderr, "Warning: failed to load config %s: %v\n", candidate, err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		return defaultCfg, nil
	}

	return defaultCfg, nil
}

// loadDefaultConfig decodes the embedded default config
func loadDefaultConfig() (*Config, error) {
	var raw rawConfig
	if _, err := toml.Decode(defaultConfigData, &raw); err != nil {
		return nil, err
	}

	cfg := raw.Config
	cfg.Launchers = make(map[string]LauncherCommand, len(raw.Launchers))
	for name, value := range raw.Launchers {
		launcher, err := decodeLauncher(value)
		if err != nil {
			return nil, fmt.Errorf("launcher %s: %w", name, err)
		}
		cfg.Launchers[name] = launcher
	}
	return &cfg, nil
}

// loadConfigFromFile reads a config file
func loadConfigFromFile(path string) (*ConfigFile, error) {
	var cfg ConfigFile
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decodeLauncher turns a [launchers.<name>] table into a LauncherCommand.
// args may be given as a list or as a single shell-quoted string.
func decodeLauncher(value interface{}) (LauncherCommand, error) {
	var cmd LauncherCommand
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       splitArgsHook,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cmd,
	})
	if err != nil {
		return cmd, err
	}
	if err := decoder.Decode(value); err != nil {
		return cmd, err
	}
	return cmd, nil
}

func splitArgsHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf([]string{}) {
		return data, nil
	}
	return shellwords.Parse(data.(string))
}

// mergeConfigs merges a user config over the defaults (user overrides defaults)
func mergeConfigs(defaultCfg *Config, userCfg *ConfigFile) (*Config, error) {
	merged := *defaultCfg
	merged.Launchers = make(map[string]LauncherCommand, len(defaultCfg.Launchers))
	for name, cmd := range defaultCfg.Launchers {
		merged.Launchers[name] = cmd
	}

	if userCfg.DefaultLauncher != nil && *userCfg.DefaultLauncher != "" {
		merged.DefaultLauncher = *userCfg.DefaultLauncher
	}

	for name, value := range userCfg.Launchers {
		user, err := decodeLauncher(value)
		if err != nil {
			return nil, fmt.Errorf("launcher %s: %w", name, err)
		}
		current := merged.Launchers[name]
		if user.Command != "" {
			current.Command = user.Command
		}
		if user.Args != nil {
			current.Args = user.Args
		}
		merged.Launchers[name] = current
	}

	mergeMenuConfig(&merged.Menu, &userCfg.Menu)
	mergeString(&merged.Search.Command, userCfg.Search.Command)
	mergeString(&merged.Search.Prompt, userCfg.Search.Prompt)
	mergeString(&merged.Window.Xprop, userCfg.Window.Xprop)
	mergeString(&merged.Window.Wmctrl, userCfg.Window.Wmctrl)
	mergeString(&merged.Open.Command, userCfg.Open.Command)
	mergeNotificationConfig(&merged.Notifications, &userCfg.Notifications)
	mergeString(&merged.Log.Level, userCfg.Log.Level)

	return &merged, nil
}

// mergeMenuConfig merges menu settings. An empty search_label disables the
// search entry, so it is taken even when empty.
func mergeMenuConfig(merged *MenuConfig, user *MenuConfigFile) {
	mergeString(&merged.Prompt, user.Prompt)
	if user.SearchLabel != nil {
		merged.SearchLabel = *user.SearchLabel
	}
	mergeString(&merged.ExecutableMarker, user.ExecutableMarker)
	if user.ActionPrefixes != nil {
		merged.ActionPrefixes = user.ActionPrefixes
	}
}

// mergeNotificationConfig merges notification settings
func mergeNotificationConfig(merged *NotificationConfig, user *NotificationConfigFile) {
	if user.Enabled != nil {
		merged.Enabled = *user.Enabled
	}
	mergeString(&merged.Tool, user.Tool)
	if user.Timeout != nil {
		merged.Timeout = *user.Timeout
	}
	mergeString(&merged.Urgency, user.Urgency)
	if user.ShowInTerminal != nil {
		merged.ShowInTerminal = *user.ShowInTerminal
	}
}

func mergeString(dst *string, src *string) {
	if src != nil && *src != "" {
		*dst = *src
	}
}

// GetLauncherCommand returns the command for a launcher, nil if unknown
func (c *Config) GetLauncherCommand(name string) *LauncherCommand {
	cmd, ok := c.Launchers[name]
	if !ok {
		return nil
	}
	return &cmd
}

// LauncherNames returns the configured launcher names sorted
func (c *Config) LauncherNames() []string {
	names := make([]string, 0, len(c.Launchers))
	for name := range c.Launchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InitUserConfig copies the default config into the user config directory
func InitUserConfig() error {
	userConfigPath := GetUserConfigPath()
	userConfigDir := filepath.Dir(userConfigPath)

	if _, err := os.Stat(userConfigPath); err == nil {
		return fmt.Errorf("config already exists: %s", userConfigPath)
	}

	if err := os.MkdirAll(userConfigDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(userConfigPath, []byte(defaultConfigData), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigContent returns the embedded default config
func GetDefaultConfigContent() string {
	return defaultConfigData
}
