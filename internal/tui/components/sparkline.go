package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var levels = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the most recent Width values on one line, scaled between
// the window's min and max.
type Sparkline struct {
	Data  []uint64
	Width int
	Label string
	Style lipgloss.Style
}

func NewSparkline(width int, label string, style lipgloss.Style) Sparkline {
	return Sparkline{
		Width: width,
		Label: label,
		Style: style,
		Data:  make([]uint64, 0, width),
	}
}

func (s *Sparkline) Add(val uint64) {
	s.Data = append(s.Data, val)
	if len(s.Data) > s.Width {
		s.Data = s.Data[len(s.Data)-s.Width:]
	}
}

func (s Sparkline) bounds() (lo, hi uint64) {
	if len(s.Data) == 0 {
		return 0, 0
	}
	lo, hi = s.Data[0], s.Data[0]
	for _, v := range s.Data {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func (s Sparkline) View() string {
	if s.Width <= 0 {
		return ""
	}
	lo, hi := s.bounds()

	var graph strings.Builder
	for _, v := range s.Data {
		idx := 0
		if hi > lo {
			idx = int(float64(v-lo) / float64(hi-lo) * float64(len(levels)-1))
		}
		graph.WriteRune(levels[idx])
	}
	if pad := s.Width - len(s.Data); pad > 0 {
		graph.WriteString(strings.Repeat(" ", pad))
	}

	label := fmt.Sprintf("%s  min %d  max %d", s.Label, lo, hi)
	return s.Style.Render(label) + "\n" + s.Style.Render(graph.String())
}
