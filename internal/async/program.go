package async

import tea "github.com/charmbracelet/bubbletea"

// Sender is the part of *tea.Program used for delivery
type Sender interface {
	Send(msg tea.Msg)
}

// DispatchMsg carries a delivery into a bubbletea Update loop.
// The model's Update must call Invoke when it receives one.
type DispatchMsg struct {
	fn func()
}

// Invoke runs the delivered function on the Update goroutine
func (m DispatchMsg) Invoke() {
	if m.fn != nil {
		m.fn()
	}
}

// ProgramDispatcher delivers through a running bubbletea program, making its
// Update loop the owning context.
type ProgramDispatcher struct {
	sender Sender
}

// NewProgramDispatcher creates a dispatcher that sends to s
func NewProgramDispatcher(s Sender) *ProgramDispatcher {
	return &ProgramDispatcher{sender: s}
}

// Dispatch wraps fn in a DispatchMsg and sends it to the program
func (d *ProgramDispatcher) Dispatch(fn func()) {
	d.sender.Send(DispatchMsg{fn: fn})
}

// Ensure ProgramDispatcher implements Dispatcher interface
var _ Dispatcher = (*ProgramDispatcher)(nil)
