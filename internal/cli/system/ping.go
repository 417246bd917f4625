package system

import (
	"context"

	"github.com/julianstephens/taskforge/internal/cli"
)

type PingCmd struct{}

func (cmd *PingCmd) Run(ctx *cli.Context) error {
	ping, err := ctx.Client.Ping(context.Background())
	if err != nil {
		return err
	}
	ctx.Printf("✓ %s: %s (%s)\n", ctx.Client.BaseURL(), ping.Status, ping.Message)
	return nil
}
