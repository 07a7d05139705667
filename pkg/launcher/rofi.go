package launcher

type Rofi struct {
	command string
	args    []string
}

func NewRofi(command string, args []string) *Rofi {
	return &Rofi{command: command, args: args}
}

func (r *Rofi) Show(options []string, prompt string) (string, error) {
	args := append([]string{}, r.args...)
	args = append(args, "-p", prompt, "-dmenu")
	return runPiped(r.command, args, options, nil)
}

func (r *Rofi) Name() string {
	return "rofi"
}

func (r *Rofi) Args() []string {
	return r.args
}
