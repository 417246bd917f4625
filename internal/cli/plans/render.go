package plans

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/julianstephens/taskforge/internal/cli"
	"github.com/julianstephens/taskforge/internal/models"
)

const wrapWidth = 80

// renderSummary renders the plan heading and summary as markdown, falling back to the raw
// text when the renderer cannot be built
func renderSummary(style string, p models.Plan) string {
	var md strings.Builder
	if p.Date != "" {
		fmt.Fprintf(&md, "## Plan for %s\n\n", p.Date)
	} else {
		md.WriteString("## Your Plan\n\n")
	}
	md.WriteString(p.Summary)

	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return md.String()
	}
	out, err := r.Render(md.String())
	if err != nil {
		return md.String()
	}
	return strings.TrimRight(out, "\n")
}

func formatTask(n int, t models.Task) string {
	check := "[ ]"
	if t.IsCompleted {
		check = "[x]"
	}
	line := fmt.Sprintf("%2d. %s %s (%s)", n, check, t.Description, t.Category)
	if t.HasDeadline() {
		line += " due " + *t.Deadline
	}
	return line
}

func printPlan(ctx *cli.Context, p models.Plan) {
	ctx.Println(renderSummary(ctx.MarkdownStyle, p))
	ctx.Println()
	for i, t := range p.DailySchedule {
		ctx.Println(formatTask(i+1, t))
	}
	ctx.Printf("\n%d/%d done\n", p.CompletedCount(), len(p.DailySchedule))
}

func printTasks(ctx *cli.Context, title string, tasks []models.Task) {
	ctx.Println(title)
	ctx.Println()
	for i, t := range tasks {
		ctx.Println(formatTask(i+1, t))
	}
}
