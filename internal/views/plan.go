package views

import (
	"context"
	"strings"

	"github.com/julianstephens/taskforge/internal/constants"
	"github.com/julianstephens/taskforge/internal/logger"
	"github.com/julianstephens/taskforge/internal/models"
	"github.com/julianstephens/taskforge/internal/planner"
)

// PlanResult carries an editor over the loaded plan when State is Ready
type PlanResult struct {
	State  State
	Editor *planner.Editor
}

type Dashboard struct {
	service PlanService
}

func NewDashboard(service PlanService) *Dashboard {
	return &Dashboard{service: service}
}

// Generate asks the planning service for a plan built from free-text tasks
func (d *Dashboard) Generate(ctx context.Context, text string) PlanResult {
	if strings.TrimSpace(text) == "" {
		return PlanResult{State: State{Status: StatusFailed, Message: constants.MsgEnterTasks}}
	}

	plan, err := d.service.GeneratePlan(ctx, text)
	if err != nil {
		logger.Error("Plan generation failed", "error", err)
		st := failure(err, constants.MsgGenerateFailed)
		if !st.Aborted() {
			st.Message = constants.MsgGenerateFailed
		}
		return PlanResult{State: st}
	}
	logger.Info("Plan generated", "tasks", len(plan.DailySchedule))
	return PlanResult{State: ready(), Editor: planner.NewEditor(plan, d.service)}
}

type PlanView struct {
	service PlanService
}

func NewPlanView(service PlanService) *PlanView {
	return &PlanView{service: service}
}

// Load fetches the saved plan. No plan yet is the Empty state.
func (v *PlanView) Load(ctx context.Context) PlanResult {
	plan, err := v.service.LoadPlan(ctx)
	if err != nil {
		return PlanResult{State: failure(err, constants.MsgLoadFailed)}
	}
	if plan == nil {
		return PlanResult{State: empty(constants.MsgNoPlan)}
	}
	return PlanResult{State: ready(), Editor: planner.NewEditor(*plan, v.service)}
}

type TasksResult struct {
	State State
	Tasks []models.Task
	// Deadlines counts the listed tasks that carry a deadline
	Deadlines int
}

type Schedule struct {
	service PlanService
}

func NewSchedule(service PlanService) *Schedule {
	return &Schedule{service: service}
}

// Load returns the saved plan's tasks in schedule order, deadlines included
func (s *Schedule) Load(ctx context.Context) TasksResult {
	plan, err := s.service.LoadPlan(ctx)
	if err != nil {
		return TasksResult{State: failure(err, constants.MsgLoadFailed)}
	}
	if plan == nil || plan.Empty() {
		return TasksResult{State: empty(constants.MsgNoSchedule)}
	}
	return TasksResult{State: ready(), Tasks: plan.Clone().DailySchedule, Deadlines: len(plan.WithDeadlines())}
}

type Today struct {
	service PlanService
}

func NewToday(service PlanService) *Today {
	return &Today{service: service}
}

// Load returns the tasks whose deadline is today. The list is read-only.
func (t *Today) Load(ctx context.Context) TasksResult {
	tasks, err := t.service.Today(ctx)
	if err != nil {
		return TasksResult{State: failure(err, constants.MsgLoadFailed)}
	}
	if len(tasks) == 0 {
		return TasksResult{State: empty(constants.MsgNoTodayTasks)}
	}
	return TasksResult{State: ready(), Tasks: tasks, Deadlines: len(tasks)}
}

type AnalyticsResult struct {
	State  State
	Points []models.ChartPoint
	Total  float64
}

type AnalyticsView struct {
	service PlanService
}

func NewAnalyticsView(service PlanService) *AnalyticsView {
	return &AnalyticsView{service: service}
}

// Load returns completed-task counts per category in the order the service sent them
func (a *AnalyticsView) Load(ctx context.Context) AnalyticsResult {
	analytics, err := a.service.Analytics(ctx)
	if err != nil {
		return AnalyticsResult{State: failure(err, constants.MsgLoadFailed)}
	}
	points := analytics.ChartPoints()
	if len(points) == 0 {
		return AnalyticsResult{State: empty(constants.MsgNoAnalytics)}
	}
	return AnalyticsResult{State: ready(), Points: points, Total: analytics.Total()}
}
