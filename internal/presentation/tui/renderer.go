package tui

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// The style follows the terminal background.
func NewRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// JSONBlock formats v as an indented JSON code block, ready for a renderer.
func JSONBlock(title string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	block := "```json\n" + string(data) + "\n```\n"
	if title == "" {
		return block, nil
	}
	return "### " + title + "\n\n" + block, nil
}
