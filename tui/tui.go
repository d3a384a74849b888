package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the reader on the terminal and blocks until it quits.
func Run(ctx context.Context, cfg Config) error {
	m := New(ctx, cfg)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.send = p.Send
	_, err := p.Run()
	return err
}
