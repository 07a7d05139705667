package launcher

type Bemenu struct {
	command string
	args    []string
}

func NewBemenu(command string, args []string) *Bemenu {
	return &Bemenu{command: command, args: args}
}

func (b *Bemenu) Show(options []string, prompt string) (string, error) {
	args := append([]string{}, b.args...)
	args = append(args, "-p", prompt)
	return runPiped(b.command, args, options, nil)
}

func (b *Bemenu) Name() string {
	return "bemenu"
}

func (b *Bemenu) Args() []string {
	return b.args
}
