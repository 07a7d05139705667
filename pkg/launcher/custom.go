package launcher

// Custom is any dmenu-compatible program configured under [launchers.<name>]
// with a command, e.g. wofi or tofi.
type Custom struct {
	name    string
	command string
	args    []string
}

func NewCustom(name, command string, args []string) *Custom {
	return &Custom{name: name, command: command, args: args}
}

func (c *Custom) Show(options []string, prompt string) (string, error) {
	args := append([]string{}, c.args...)
	args = append(args, "-p", prompt)
	return runPiped(c.command, args, options, nil)
}

func (c *Custom) Name() string {
	return c.name
}

func (c *Custom) Args() []string {
	return c.args
}
