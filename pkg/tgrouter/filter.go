package tgrouter

type Filter func(*Ctx) bool

func Cmd(cmd string) Filter {
	return func(c *Ctx) bool {
		return c.update.Message != nil && c.update.Message.IsCommand() && c.update.Message.Command() == cmd
	}
}

// Text matches plain text messages that are not commands.
func Text() Filter {
	return func(c *Ctx) bool {
		return c.update.Message != nil && c.update.Message.Text != "" && !c.update.Message.IsCommand()
	}
}

func Any() Filter {
	return func(c *Ctx) bool {
		return true
	}
}
