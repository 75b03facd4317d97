package banner

import (
	"reqbench/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

func GetString() string {
	renderer := lipgloss.DefaultRenderer()

	style := renderer.NewStyle().
		Foreground(styles.ColorBanner).
		Bold(true)

	ascii := `
                 __                    __  
   ________  ___/ /_  ___  ____  _____/ /_ 
  / ___/ _ \/ __ / __ \/ _ \/ __ \/ ___/ __ \
 / /  /  __/ /_/ / /_/ /  __/ / / / /__/ / / /
/_/   \___/\__, /_.___/\___/_/ /_/\___/_/ /_/ 
             /_/                              `

	return "\n" + style.Render(ascii) + "\n"
}
