package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fol2/mathsquiz/internal/ui/theme"
)

// MenuItem is one choice. Action runs on Enter or on the item's number key.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a list of choices with a cursor that skips disabled items and
// wraps at both ends.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(1)
	return m
}

// move steps the cursor by dir until it lands on an enabled item. It stays
// put if there is none.
func (m *Menu) move(dir int) {
	n := len(m.Items)
	for step := 1; step <= n; step++ {
		i := ((m.Selected+dir*step)%n + n) % n
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch s := key.String(); s {
	case "up", "k", "shift+tab":
		m.move(-1)
	case "down", "j", "tab":
		m.move(1)
	case "enter", "space":
		return m, m.activate(m.Selected)
	default:
		// 1-9 pick an item directly.
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			i := int(s[0] - '1')
			if i < len(m.Items) && !m.Items[i].Disabled {
				m.Selected = i
				return m, m.activate(i)
			}
		}
	}
	return m, nil
}

// View renders the items on one line, for screens with little room.
func (m Menu) View() string {
	parts := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.Border).Render(item.Label))
		case i == m.Selected:
			parts = append(parts, theme.Selected.Render("[ "+item.Label+" ]"))
		default:
			parts = append(parts, theme.Unselected.Render("  "+item.Label+"  "))
		}
	}
	return strings.Join(parts, "   ")
}

const buttonWidth = 22

// Buttons renders the items as a centred column of boxed buttons.
func (m Menu) Buttons(cw int) string {
	box := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	buttons := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			buttons = append(buttons, box.Foreground(theme.TextDim).BorderForeground(theme.Border).Render(item.Label))
		case i == m.Selected:
			buttons = append(buttons, box.Bold(true).
				Foreground(theme.BgDark).Background(theme.Gold).BorderForeground(theme.Gold).
				Render("▸ "+item.Label))
		default:
			buttons = append(buttons, box.Foreground(theme.Text).BorderForeground(theme.Border).Render(item.Label))
		}
	}
	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, strings.Join(buttons, "\n"))
}
