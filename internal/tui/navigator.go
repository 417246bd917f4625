package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Navigator turns the request client's session-expired redirect into a message for the
// running program. Redirects before Attach are dropped.
type Navigator struct {
	mu      sync.Mutex
	program *tea.Program
}

func NewNavigator() *Navigator {
	return &Navigator{}
}

func (n *Navigator) Attach(p *tea.Program) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.program = p
}

// ToLogin is called from command goroutines, never from Update
func (n *Navigator) ToLogin() {
	n.mu.Lock()
	p := n.program
	n.mu.Unlock()
	if p != nil {
		p.Send(sessionExpiredMsg{})
	}
}

// Run starts the program with the navigator attached
func Run(m Model, nav *Navigator) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	nav.Attach(p)
	_, err := p.Run()
	return err
}
