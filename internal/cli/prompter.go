package cli

// Prompter abstracts interactive terminal prompts so commands can be
// exercised in tests without a TTY.
type Prompter interface {
	Select(label string, items []string, defaultValue string) (int, string, error)
	Prompt(label, defaultValue string) (string, error)
	Confirm(label string, defaultYes bool) (bool, error)
}
