package plans

import (
	"context"

	"github.com/julianstephens/taskforge/internal/cli"
	"github.com/julianstephens/taskforge/internal/tui/components/analytics"
	"github.com/julianstephens/taskforge/internal/views"
)

type ScheduleCmd struct{}

func (c *ScheduleCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireSession(); err != nil {
		return err
	}
	res := views.NewSchedule(ctx.Client).Load(context.Background())
	if res.State.Status == views.StatusEmpty {
		ctx.Println(res.State.Message)
		return nil
	}
	if err := cli.StateError(res.State); err != nil {
		return err
	}
	printTasks(ctx, "Schedule & Deadlines", res.Tasks)
	ctx.Printf("\n%d of %d tasks have a deadline\n", res.Deadlines, len(res.Tasks))
	return nil
}

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireSession(); err != nil {
		return err
	}
	res := views.NewToday(ctx.Client).Load(context.Background())
	if res.State.Status == views.StatusEmpty {
		ctx.Println(res.State.Message)
		return nil
	}
	if err := cli.StateError(res.State); err != nil {
		return err
	}
	printTasks(ctx, "Today's Deadlines", res.Tasks)
	return nil
}

type AnalyticsCmd struct{}

func (c *AnalyticsCmd) Run(ctx *cli.Context) error {
	if err := ctx.RequireSession(); err != nil {
		return err
	}
	res := views.NewAnalyticsView(ctx.Client).Load(context.Background())
	if res.State.Status == views.StatusEmpty {
		ctx.Println(res.State.Message)
		return nil
	}
	if err := cli.StateError(res.State); err != nil {
		return err
	}

	chart := analytics.New()
	chart.SetPoints(res.Points, res.Total)
	ctx.Print(chart.View())
	return nil
}
