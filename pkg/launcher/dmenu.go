package launcher

type Dmenu struct {
	command string
	args    []string
}

func NewDmenu(command string, args []string) *Dmenu {
	return &Dmenu{command: command, args: args}
}

func (d *Dmenu) Show(options []string, prompt string) (string, error) {
	args := append([]string{}, d.args...)
	args = append(args, "-p", prompt)
	return runPiped(d.command, args, options, nil)
}

func (d *Dmenu) Name() string {
	return "dmenu"
}

func (d *Dmenu) Args() []string {
	return d.args
}
