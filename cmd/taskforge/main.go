package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/taskforge/internal/api"
	"github.com/julianstephens/taskforge/internal/cli"
	"github.com/julianstephens/taskforge/internal/cli/auth"
	"github.com/julianstephens/taskforge/internal/cli/plans"
	"github.com/julianstephens/taskforge/internal/cli/system"
	"github.com/julianstephens/taskforge/internal/constants"
	apperrors "github.com/julianstephens/taskforge/internal/errors"
	"github.com/julianstephens/taskforge/internal/logger"
	"github.com/julianstephens/taskforge/internal/session"
)

var CLI struct {
	Version      kong.VersionFlag
	APIURL       string `name:"api-url" help:"Base URL of the TaskForge service." env:"TASKFORGE_API_URL" default:"${api_url}"`
	DataDir      string `help:"Directory for logs and local session data." type:"path" env:"TASKFORGE_DATA_DIR" default:"${data_dir}"`
	SessionStore string `help:"Where the session is kept (${enum})." enum:"keyring,sqlite" env:"TASKFORGE_SESSION_STORE" default:"keyring"`
	Style        string `help:"Markdown style for plan summaries (${enum})." enum:"dark,light,notty,ascii" env:"TASKFORGE_STYLE" default:"dark"`
	Debug        bool   `help:"Enable debug logging." env:"TASKFORGE_DEBUG"`

	Login    auth.LoginCmd     `cmd:"" help:"Log in and store the session."`
	Signup   auth.SignupCmd    `cmd:"" help:"Create an account."`
	Logout   auth.LogoutCmd    `cmd:"" help:"Forget the stored session."`
	Whoami   auth.WhoamiCmd    `cmd:"" help:"Show the logged-in user."`
	Generate plans.GenerateCmd `cmd:"" help:"Generate a plan from free-text tasks."`
	Plan     struct {
		Show     plans.PlanShowCmd     `cmd:"" help:"Show the saved plan." default:"1"`
		Toggle   plans.PlanToggleCmd   `cmd:"" help:"Toggle a task's completion."`
		Deadline plans.PlanDeadlineCmd `cmd:"" help:"Set or clear a task's deadline."`
	} `cmd:"" help:"View and edit the saved plan."`
	Schedule  plans.ScheduleCmd  `cmd:"" help:"List the plan with deadlines."`
	Today     plans.TodayCmd     `cmd:"" help:"List tasks due today."`
	Analytics plans.AnalyticsCmd `cmd:"" help:"Show completed tasks by category."`
	Ping      system.PingCmd     `cmd:"" help:"Check the service is reachable."`
	Doctor    system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Tui       system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
}

func main() {
	// A missing .env is normal
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Terminal client for the TaskForge AI day planner"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":  constants.Version,
			"api_url":  constants.DefaultAPIURL,
			"data_dir": constants.DefaultDataDir,
		},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: CLI.DataDir,
		Quiet:     ctx.Command() == "tui",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	backend, err := session.NewBackend(CLI.SessionStore, CLI.DataDir)
	if err != nil {
		apperrors.Fatalf("failed to open %s session store: %v", CLI.SessionStore, err)
	}

	sess := session.NewManager(backend)
	appCtx := &cli.Context{
		Session:       sess,
		Client:        api.New(CLI.APIURL, sess, cli.SessionNavigator(os.Stderr)),
		MarkdownStyle: CLI.Style,
		SessionStore:  CLI.SessionStore,
	}

	err = ctx.Run(appCtx)
	if closer, ok := backend.(io.Closer); ok {
		if cerr := closer.Close(); cerr != nil {
			logger.Error("Failed to close session store", "error", cerr)
		}
	}
	if errors.Is(err, api.ErrSessionExpired) {
		// already reported by the navigator
		logger.Warn("Session expired", "command", ctx.Command())
		os.Exit(1)
	}
	apperrors.Fatal(err)
}
