package plans

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/taskforge/internal/api"
	"github.com/julianstephens/taskforge/internal/cli"
	"github.com/julianstephens/taskforge/internal/constants"
	"github.com/julianstephens/taskforge/internal/planner"
	"github.com/julianstephens/taskforge/internal/views"
)

type GenerateCmd struct {
	Tasks []string `arg:"" optional:"" help:"Tasks to plan, as free text."`
	File  string   `short:"f" help:"Read tasks from a file, or '-' for stdin."`
}

func (c *GenerateCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireSession(); err != nil {
		return err
	}

	text := strings.Join(c.Tasks, " ")
	if c.File != "" {
		data, err := readInput(c.File)
		if err != nil {
			return err
		}
		text = strings.TrimSpace(text + "\n" + string(data))
	}

	ctx.Println(constants.MsgGenerating)
	res := views.NewDashboard(ctx.Client).Generate(context.Background(), text)
	if err := cli.StateError(res.State); err != nil {
		return err
	}
	printPlan(ctx, res.Editor.Plan())
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks file: %w", err)
	}
	return data, nil
}

// loadEditor loads the saved plan for editing
func loadEditor(ctx *cli.Context) (*planner.Editor, error) {
	if err := ctx.RequireSession(); err != nil {
		return nil, err
	}
	res := views.NewPlanView(ctx.Client).Load(context.Background())
	if res.State.Status == views.StatusEmpty {
		return nil, errors.New(constants.MsgNoPlan + " " + constants.MsgNoPlanHint)
	}
	if err := cli.StateError(res.State); err != nil {
		return nil, err
	}
	return res.Editor, nil
}

func outcomeError(out planner.Outcome) error {
	switch out.Kind {
	case planner.OutcomeConfirmed:
		return nil
	case planner.OutcomeRolledBack:
		return errors.New(out.Notice)
	case planner.OutcomeAbandoned:
		return api.ErrSessionExpired
	default:
		return errors.New(constants.MsgGenericError)
	}
}

type PlanShowCmd struct{}

func (c *PlanShowCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireSession(); err != nil {
		return err
	}
	res := views.NewPlanView(ctx.Client).Load(context.Background())
	if res.State.Status == views.StatusEmpty {
		ctx.Println(res.State.Message)
		ctx.Println(constants.MsgNoPlanHint)
		return nil
	}
	if err := cli.StateError(res.State); err != nil {
		return err
	}
	printPlan(ctx, res.Editor.Plan())
	return nil
}

type PlanToggleCmd struct {
	Task int `arg:"" help:"Task number as listed by 'plan show'."`
}

func (c *PlanToggleCmd) Run(ctx *cli.Context) error {
	index, err := cli.ParseIndex(c.Task)
	if err != nil {
		return err
	}
	editor, err := loadEditor(ctx)
	if err != nil {
		return err
	}

	out, err := editor.ToggleTask(context.Background(), index)
	if err != nil {
		return fmt.Errorf("task %d: %w", c.Task, err)
	}
	if err := outcomeError(out); err != nil {
		return err
	}

	task := out.Plan.DailySchedule[index]
	state := "not done"
	if task.IsCompleted {
		state = "done"
	}
	ctx.Printf("✓ Marked %q as %s\n", task.Description, state)
	return nil
}

type PlanDeadlineCmd struct {
	Task int    `arg:"" help:"Task number as listed by 'plan show'."`
	Date string `arg:"" optional:"" help:"Deadline (YYYY-MM-DD). Omit to clear."`
}

func (c *PlanDeadlineCmd) Run(ctx *cli.Context) error {
	index, err := cli.ParseIndex(c.Task)
	if err != nil {
		return err
	}
	if _, err := planner.ParseDeadline(c.Date); err != nil {
		return err
	}
	editor, err := loadEditor(ctx)
	if err != nil {
		return err
	}

	out, err := editor.UpdateDeadline(context.Background(), index, c.Date)
	if err != nil {
		return fmt.Errorf("task %d: %w", c.Task, err)
	}
	if err := outcomeError(out); err != nil {
		return err
	}

	task := out.Plan.DailySchedule[index]
	if task.HasDeadline() {
		ctx.Printf("✓ %q is due %s\n", task.Description, *task.Deadline)
	} else {
		ctx.Printf("✓ Cleared the deadline of %q\n", task.Description)
	}
	return nil
}
