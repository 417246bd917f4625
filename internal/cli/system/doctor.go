package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/taskforge/internal/cli"
	"github.com/julianstephens/taskforge/internal/constants"
	"github.com/julianstephens/taskforge/internal/session"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false

	// Check 1: service reachable
	if err := checkServiceReachable(ctx); err != nil {
		ctx.Printf("❌ Service reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.Printf("✓ Service reachable: OK (%s)\n", ctx.Client.BaseURL())
	}

	// Check 2: keyring usable
	if ctx.SessionStore == constants.SessionStoreKeyring {
		if !session.NewKeyringBackend().IsAvailable() {
			ctx.Printf("❌ Keyring: FAIL\n")
			ctx.Printf("   OS keyring is not reachable, try --session-store %s\n", constants.SessionStoreSQLite)
			hasError = true
		} else {
			ctx.Printf("✓ Keyring: OK\n")
		}
	}

	// Check 3: session stored
	if !ctx.Session.Authenticated() {
		ctx.Printf("⚠ Session: WARNING\n")
		ctx.Printf("   Not logged in (store: %s)\n", ctx.SessionStore)
		ctx.Printf("⊘ Session expiry: SKIPPED (no session)\n")
	} else {
		ctx.Printf("✓ Session: OK (%s, store: %s)\n", ctx.Session.Name(), ctx.SessionStore)

		// Check 4: token expiry, informational only
		if err := checkSessionExpiry(ctx, time.Now()); err != nil {
			ctx.Printf("⚠ Session expiry: WARNING\n")
			ctx.Printf("   %v\n", err)
		} else {
			ctx.Printf("✓ Session expiry: OK\n")
		}
	}

	ctx.Println()
	if hasError {
		return errors.New("diagnostics failed")
	}
	ctx.Println("All checks passed.")
	return nil
}

func checkServiceReachable(ctx *cli.Context) error {
	reqCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := ctx.Client.Ping(reqCtx)
	return err
}

func checkSessionExpiry(ctx *cli.Context, now time.Time) error {
	exp, ok := ctx.Session.ExpiresAt()
	if !ok {
		return errors.New("token carries no readable expiry")
	}
	if !exp.After(now) {
		return fmt.Errorf("token expired at %s, log in again", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
