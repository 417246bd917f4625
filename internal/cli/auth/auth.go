package auth

import (
	"context"
	"errors"

	"github.com/julianstephens/taskforge/internal/cli"
	"github.com/julianstephens/taskforge/internal/models"
	"github.com/julianstephens/taskforge/internal/views"
)

type LoginCmd struct {
	Username string `arg:"" help:"Account username."`
	Password string `help:"Account password. Prompted for when omitted." env:"TASKFORGE_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	password, err := cli.PromptPassword(c.Password)
	if err != nil {
		return err
	}

	res := views.NewAuth(ctx.Client, ctx.Session).Submit(context.Background(), views.ModeLogin, models.Credentials{
		Username: c.Username,
		Password: password,
	})
	if !res.OK {
		return errors.New(res.Message)
	}

	ctx.Printf("✓ Logged in as %s\n", ctx.Session.Name())
	return nil
}

type SignupCmd struct {
	Username string `arg:"" help:"Username for the new account."`
	Password string `help:"Password for the new account. Prompted for when omitted." env:"TASKFORGE_PASSWORD"`
	Login    bool   `help:"Log in right after the account is created."`
}

func (c *SignupCmd) Run(ctx *cli.Context) error {
	password, err := cli.PromptPassword(c.Password)
	if err != nil {
		return err
	}
	creds := models.Credentials{Username: c.Username, Password: password}

	auth := views.NewAuth(ctx.Client, ctx.Session)
	res := auth.Submit(context.Background(), views.ModeSignup, creds)
	if !res.OK {
		return errors.New(res.Message)
	}
	ctx.Println("✓ " + res.Message)

	if !c.Login {
		return nil
	}
	res = auth.Submit(context.Background(), views.ModeLogin, creds)
	if !res.OK {
		return errors.New(res.Message)
	}
	ctx.Printf("✓ Logged in as %s\n", ctx.Session.Name())
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := views.NewHeader(ctx.Session, nil).Logout(); err != nil {
		return err
	}
	ctx.Println("Logged out.")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	if !ctx.Session.Authenticated() {
		ctx.Println("Not logged in.")
		return nil
	}
	ctx.Printf("%s\n", ctx.Session.Name())
	if exp, ok := ctx.Session.ExpiresAt(); ok {
		ctx.Printf("Session expires %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
