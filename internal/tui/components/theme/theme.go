package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/taskforge/internal/models"
)

var categoryColors = map[models.Category]lipgloss.Color{
	models.CategoryHealth:    lipgloss.Color("42"),
	models.CategoryStudy:     lipgloss.Color("33"),
	models.CategoryWork:      lipgloss.Color("208"),
	models.CategoryPersonal:  lipgloss.Color("135"),
	models.CategoryEmotional: lipgloss.Color("205"),
}

var neutral = lipgloss.Color("250")

var chartPalette = []lipgloss.Color{
	lipgloss.Color("39"),
	lipgloss.Color("42"),
	lipgloss.Color("214"),
	lipgloss.Color("203"),
	lipgloss.Color("135"),
}

var (
	Muted    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	Done     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	Deadline = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	Success  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// CategoryColor returns the colour for c. Unknown categories render neutrally.
func CategoryColor(c models.Category) lipgloss.Color {
	if !c.Valid() {
		return neutral
	}
	return categoryColors[c]
}

func CategoryBadge(c models.Category) string {
	return lipgloss.NewStyle().Foreground(CategoryColor(c)).Render("● " + string(c))
}

// ChartColor cycles through the chart palette by position
func ChartColor(i int) lipgloss.Color {
	return chartPalette[i%len(chartPalette)]
}
