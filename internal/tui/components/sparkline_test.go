package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestSparklineKeepsWindow(t *testing.T) {
	s := NewSparkline(3, "lat", lipgloss.NewStyle())
	for _, v := range []uint64{5, 1, 2, 3} {
		s.Add(v)
	}
	assert.Equal(t, []uint64{1, 2, 3}, s.Data)
}

func TestSparklineView(t *testing.T) {
	s := NewSparkline(4, "lat", lipgloss.NewStyle())
	s.Add(10)
	s.Add(20)

	view := s.View()
	assert.Contains(t, view, "min 10  max 20")
	lines := strings.Split(view, "\n")
	assert.Equal(t, "▁█", strings.TrimRight(lines[1], " "))
}
