package launcher

import (
	"os"
	"os/exec"
)

type Fzf struct {
	command string
	args    []string
}

func NewFzf(command string, args []string) *Fzf {
	return &Fzf{command: command, args: args}
}

// Show runs fzf with its UI on the terminal; exit 130 (ESC) also means cancel
func (f *Fzf) Show(options []string, prompt string) (string, error) {
	args := append([]string{}, f.args...)
	args = append(args, "--prompt", prompt+" ")

	choice, err := runPiped(f.command, args, options, func(cmd *exec.Cmd) {
		cmd.Stderr = os.Stderr
	})
	if exitErr, ok := unwrapExit(err); ok && exitErr.ExitCode() == 130 {
		return "", ErrCancelled
	}
	return choice, err
}

func (f *Fzf) Name() string {
	return "fzf"
}

func (f *Fzf) Args() []string {
	return f.args
}
