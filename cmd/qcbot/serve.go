package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Spok95/qc-tracker/internal/app"
	"github.com/Spok95/qc-tracker/internal/httpapi"
	"github.com/Spok95/qc-tracker/internal/jobs"
	"github.com/Spok95/qc-tracker/internal/observability"
)

const pingInterval = time.Minute

var newBotAPI = tgbotapi.NewBotAPI

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the Telegram bot and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx)
		},
	}
}

func runServe(parent context.Context, cc *commandContext) error {
	cfg, log := cc.cfg, cc.log.Base
	secret := cfg.RequireJWTSecret()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Release)
	if err != nil {
		log.Warn("sentry init failed", zap.Error(err))
	}
	defer flush()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, kv, err := cc.newService(ctx)
	if err != nil {
		return err
	}
	defer kv.Close()

	seeded, err := svc.SeedUsers(ctx)
	if err != nil {
		return err
	}
	if seeded {
		log.Info("seeded initial users")
	}

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := app.NewHTTPServer(cfg.HTTPAddr, httpapi.NewRouter(httpapi.NewHandler(svc, log, secret)), log)

	var bot *tgbotapi.BotAPI
	if cfg.BotToken != "" {
		if bot, err = newBotAPI(cfg.BotToken); err != nil {
			return fmt.Errorf("telegram bot: %w", err)
		}
		log.Info("bot started", zap.String("username", bot.Self.UserName))
	} else {
		log.Info("BOT_TOKEN not set, telegram bot disabled")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })

	runner := jobs.New(gctx, log)
	runner.Every(pingInterval, "store-ping", func(ctx context.Context) error { return svc.Ping(ctx) })

	if bot != nil {
		svc.SetNotifier(app.NewBotNotifier(svc.Users, bot, log))
		runner.Every(cfg.DigestInterval, "digest", jobs.Digest(svc, bot))

		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		updates := bot.GetUpdatesChan(u)
		d := app.NewDispatcher(svc, bot, log)
		g.Go(func() error { return d.Run(gctx, updates) })
		g.Go(func() error {
			<-gctx.Done()
			bot.StopReceivingUpdates()
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		runner.Wait()
		return nil
	})

	err = g.Wait()
	log.Info("shutdown complete")
	return err
}
