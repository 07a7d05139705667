package launcher

type Fuzzel struct {
	command string
	args    []string
}

func NewFuzzel(command string, args []string) *Fuzzel {
	return &Fuzzel{command: command, args: args}
}

func (f *Fuzzel) Show(options []string, prompt string) (string, error) {
	args := append([]string{}, f.args...)
	args = append(args, "--dmenu", "--prompt", prompt+" ")
	return runPiped(f.command, args, options, nil)
}

func (f *Fuzzel) Name() string {
	return "fuzzel"
}

func (f *Fuzzel) Args() []string {
	return f.args
}
