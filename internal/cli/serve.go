package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/habitbloom/internal/api"
	"github.com/julianstephens/habitbloom/internal/keyring"
	"github.com/julianstephens/habitbloom/internal/logger"
	"github.com/julianstephens/habitbloom/internal/notifier"
	"github.com/julianstephens/habitbloom/internal/reminder"
)

type ServeCmd struct {
	Addr      string `help:"Listen address, overrides server.addr."`
	NoAuth    bool   `help:"Serve without a bearer token."`
	Reminders bool   `help:"Also run the reminder and garden decay loop."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	opts := api.Options{
		Addr:       ctx.Config.Server.Addr,
		RateLimit:  ctx.Config.Server.RateLimit,
		RateWindow: ctx.Config.Server.RateWindow,
		UserID:     ctx.userID(),
		Now:        ctx.clock(),
	}
	if c.Addr != "" {
		opts.Addr = c.Addr
	}
	if !c.NoAuth {
		token, err := resolveToken(ctx)
		if err != nil {
			return err
		}
		opts.Token = token
	}
	if !ctx.Config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.Reminders {
		svc := newReminderService(ctx)
		go func() {
			if err := svc.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Reminder service stopped", "error", err)
			}
		}()
	}

	srv := api.New(runCtx, ctx.Store, opts)
	ctx.printf("🌻 Serving the garden on http://%s\n", opts.Addr)
	return srv.Run(runCtx)
}

// resolveToken prefers the configured token and falls back to the keyring.
func resolveToken(ctx *Context) (string, error) {
	if ctx.Config.Server.Token != "" {
		return ctx.Config.Server.Token, nil
	}
	token, err := keyring.GetToken()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("no API token configured; run 'habitbloom token generate' or pass --no-auth")
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

type DaemonCmd struct{}

func (c *DaemonCmd) Run(ctx *Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.println("⏰ Watching reminders; press Ctrl+C to stop")
	err := newReminderService(ctx).Run(runCtx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newReminderService(ctx *Context) *reminder.Service {
	var chain notifier.Fallback
	if ctx.Config.Notify.Tray {
		chain = append(chain, notifier.NewTray())
	}
	if ctx.Config.Notify.Console || len(chain) == 0 {
		chain = append(chain, notifier.NewConsole(ctx.out()))
	}
	svc := reminder.NewService(ctx.Reminders(), ctx.Garden(), chain, reminder.StoreSettings{Store: ctx.Store})
	svc.UserID = ctx.userID()
	return svc
}
