// Package router keeps the stack of screens the app navigates through.
// Screens never touch the stack directly; they return the commands below
// and the app model feeds the resulting messages to Router.Update.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/fol2/mathsquiz/internal/screen"
)

type (
	// PushScreenMsg stacks Screen on top of the active one.
	PushScreenMsg struct{ Screen screen.Screen }

	// PopScreenMsg drops the active screen. The root is never popped.
	PopScreenMsg struct{}

	// ReplaceScreenMsg swaps the active screen without growing the stack.
	ReplaceScreenMsg struct{ Screen screen.Screen }

	// PopToRootMsg drops everything above the root screen.
	PopToRootMsg struct{}
)

func Push(s screen.Screen) tea.Cmd    { return func() tea.Msg { return PushScreenMsg{Screen: s} } }
func Replace(s screen.Screen) tea.Cmd { return func() tea.Msg { return ReplaceScreenMsg{Screen: s} } }
func Pop() tea.Cmd                    { return func() tea.Msg { return PopScreenMsg{} } }
func PopToRoot() tea.Cmd              { return func() tea.Msg { return PopToRootMsg{} } }

// Router owns the stack. Every screen that becomes active, whether new or
// exposed by a pop, gets its Init run so it can refresh.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int { return len(r.stack) }

// truncate shrinks the stack to n screens and reinitialises the new top.
func (r *Router) truncate(n int) tea.Cmd {
	if n < 1 || n >= len(r.stack) {
		return nil
	}
	clear(r.stack[n:])
	r.stack = r.stack[:n]
	return r.Active().Init()
}

// Update applies navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		r.stack = append(r.stack, msg.Screen)
		return msg.Screen.Init()
	case ReplaceScreenMsg:
		r.stack[len(r.stack)-1] = msg.Screen
		return msg.Screen.Init()
	case PopScreenMsg:
		return r.truncate(len(r.stack) - 1)
	case PopToRootMsg:
		return r.truncate(1)
	}

	active := r.Active()
	if active == nil {
		return nil
	}
	next, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if active := r.Active(); active != nil {
		return active.View(width, height)
	}
	return ""
}
