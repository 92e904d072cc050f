package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/fol2/mathsquiz/internal/ui/theme"
)

const bannerArt = `
 ███╗   ███╗ █████╗ ████████╗██╗  ██╗███████╗ ██████╗ ██╗   ██╗██╗███████╗
 ████╗ ████║██╔══██╗╚══██╔══╝██║  ██║██╔════╝██╔═══██╗██║   ██║██║╚══███╔╝
 ██╔████╔██║███████║   ██║   ███████║███████╗██║   ██║██║   ██║██║  ███╔╝
 ██║╚██╔╝██║██╔══██║   ██║   ██╔══██║╚════██║██║▄▄ ██║██║   ██║██║ ███╔╝
 ██║ ╚═╝ ██║██║  ██║   ██║   ██║  ██║███████║╚██████╔╝╚██████╔╝██║███████╗
 ╚═╝     ╚═╝╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚══════╝ ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝`

const bannerCompact = "M A T H S Q U I Z"

// bannerWidth is the widest line of bannerArt.
const bannerWidth = 76

// RenderBanner returns the banner styled in the primary color, or the
// compact form when the terminal is too narrow for the block letters.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
