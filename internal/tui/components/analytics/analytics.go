package analytics

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/taskforge/internal/models"
	"github.com/julianstephens/taskforge/internal/tui/components/theme"
)

const defaultBarWidth = 40

var labelStyle = lipgloss.NewStyle().Width(12)

// Model draws completed-task counts as horizontal bars in input order
type Model struct {
	points   []models.ChartPoint
	total    float64
	barWidth int
}

func New() Model {
	return Model{barWidth: defaultBarWidth}
}

func (m *Model) SetPoints(points []models.ChartPoint, total float64) {
	m.points = points
	m.total = total
}

func (m *Model) SetWidth(width int) {
	// label, count and percentage take roughly 26 columns
	m.barWidth = min(max(width-26, 10), defaultBarWidth)
}

func (m Model) View() string {
	if len(m.points) == 0 {
		return ""
	}

	peak := 0.0
	for _, p := range m.points {
		peak = max(peak, p.Value)
	}

	var b strings.Builder
	b.WriteString("Completed Tasks by Category\n\n")
	for i, p := range m.points {
		n := 0
		if peak > 0 {
			n = int(p.Value / peak * float64(m.barWidth))
		}
		if p.Value > 0 && n == 0 {
			n = 1
		}
		bar := lipgloss.NewStyle().Foreground(theme.ChartColor(i)).Render(strings.Repeat("█", n))
		share := 0.0
		if m.total > 0 {
			share = p.Value / m.total * 100
		}
		fmt.Fprintf(&b, "%s %s %s\n", labelStyle.Render(p.Name), bar, theme.Muted.Render(fmt.Sprintf("%g (%.0f%%)", p.Value, share)))
	}
	return b.String()
}
