// Package search runs the file search offered as the first HUD entry.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"

	"github.com/lvim-tech/hud/pkg/config"
	"github.com/lvim-tech/hud/pkg/launcher"
	"github.com/lvim-tech/hud/pkg/utils"
)

// FailurePrefix starts the only entry shown when the search command fails
const FailurePrefix = "search failed: "

// Opener opens the picked file
type Opener interface {
	Open(target string) error
}

// Files lists files with an external command and lets the user pick one
type Files struct {
	Command string
	Prompt  string
	Runner  utils.Runner
	Picker  launcher.Launcher
	Opener  Opener
	Logger  *zap.Logger
}

// New builds a Files search from the [search] config section
func New(cfg config.SearchConfig, runner utils.Runner, picker launcher.Launcher, opener Opener, logger *zap.Logger) *Files {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Files{
		Command: cfg.Command,
		Prompt:  cfg.Prompt,
		Runner:  runner,
		Picker:  picker,
		Opener:  opener,
		Logger:  logger,
	}
}

// Search shows the command's output in the picker and opens the choice.
// A failing command is reported as a single entry; picking it does nothing.
func (f *Files) Search(ctx context.Context) error {
	options, err := f.list(ctx)
	if err != nil {
		f.Logger.Debug("file search failed", zap.Error(err))
		options = []string{FailurePrefix + err.Error()}
	}

	prompt := f.Prompt
	if prompt == "" {
		prompt = "File:"
	}

	choice := launcher.Choose(f.Picker, options, prompt)
	if choice == "" || strings.HasPrefix(choice, FailurePrefix) {
		return nil
	}
	return f.Opener.Open(choice)
}

func (f *Files) list(ctx context.Context) ([]string, error) {
	args, err := shellwords.Parse(f.Command)
	if err != nil {
		return nil, fmt.Errorf("invalid search command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no search command configured")
	}
	for i, arg := range args {
		args[i] = utils.ExpandHomeDir(arg)
	}

	out, err := f.Runner.Output(ctx, args[0], args[1:]...)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}
