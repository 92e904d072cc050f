package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fol2/mathsquiz/internal/ui/theme"
)

type inputMark int

const (
	markNone inputMark = iota
	markRight
	markWrong
)

// TextInput is a focused bubbles textinput that can be locked after a
// submit and marked right or wrong.
type TextInput struct {
	field  textinput.Model
	accept func(string) bool
	mark   inputMark
	locked bool
}

func newInput(placeholder string, limit int, accept func(string) bool) TextInput {
	field := textinput.New()
	field.Placeholder = placeholder
	field.CharLimit = limit
	field.Focus()
	return TextInput{field: field, accept: accept}
}

// NewAnswerInput only takes the characters of a decimal number.
func NewAnswerInput(placeholder string, limit int) TextInput {
	return newInput(placeholder, limit, func(s string) bool {
		return strings.Trim(s, "0123456789-.") == ""
	})
}

// NewSecretInput masks what is typed.
func NewSecretInput(placeholder string, limit int) TextInput {
	in := newInput(placeholder, limit, nil)
	in.field.EchoMode = textinput.EchoPassword
	in.field.EchoCharacter = '•'
	return in
}

func (t TextInput) Init() tea.Cmd {
	return t.field.Focus()
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.locked {
		return t, nil
	}
	if key, ok := msg.(tea.KeyPressMsg); ok && key.Text != "" && t.accept != nil && !t.accept(key.Text) {
		return t, nil
	}
	var cmd tea.Cmd
	t.field, cmd = t.field.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	switch t.mark {
	case markRight:
		return t.field.View() + " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	case markWrong:
		return t.field.View() + " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return t.field.View()
}

func (t TextInput) Value() string {
	return t.field.Value()
}

func (t TextInput) NumericValue() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(t.field.Value()), 64)
}

// Submit locks the input until Reset and marks it right or wrong.
func (t *TextInput) Submit(right bool) {
	t.locked = true
	t.mark = markWrong
	if right {
		t.mark = markRight
	}
}

func (t TextInput) Submitted() bool {
	return t.locked
}

// Reset clears the value, the mark and the lock.
func (t *TextInput) Reset() {
	t.field.SetValue("")
	t.locked = false
	t.mark = markNone
}
