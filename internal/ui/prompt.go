package ui

import (
	"github.com/pterm/pterm"
)

// Prompter asks the operator for input.
type Prompter interface {
	Select(title string, options []string) (string, error)
	Text(title string, multiline bool) (string, error)
}

// PtermPrompter prompts with pterm's interactive widgets.
type PtermPrompter struct{}

var _ Prompter = PtermPrompter{}

func (PtermPrompter) Select(title string, options []string) (string, error) {
	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithDefaultText(title).
		WithMaxHeight(len(options)).
		Show()
	pterm.Println()
	return choice, err
}

func (PtermPrompter) Text(title string, multiline bool) (string, error) {
	text, err := pterm.DefaultInteractiveTextInput.
		WithMultiLine(multiline).
		WithDefaultText(title).
		Show()
	pterm.Println()
	return text, err
}
