package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/samber/do"
	"github.com/serroba/miniurl/internal/cli"
	"github.com/serroba/miniurl/internal/container"
	"github.com/serroba/miniurl/internal/reaper"
	"github.com/serroba/miniurl/internal/shortener"
	"go.uber.org/zap"
)

func main() {
	app := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector := do.New()
		do.ProvideValue(injector, options)
		container.LoggerPackage(injector)
		container.ConfigPackage(injector)
		container.DiscardEventsPackage(injector)
		container.CorePackage(injector)

		hooks.OnStart(func() {
			logger := do.MustInvoke[*zap.Logger](injector)

			defer func() {
				if err := injector.Shutdown(); err != nil {
					logger.Error("shutdown error", zap.Error(err))
				}
			}()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := do.MustInvoke[*reaper.Reaper](injector).Start(ctx); err != nil {
				logger.Fatal("reaper failed to start", zap.Error(err))
			}

			session := cli.NewSession(do.MustInvoke[*shortener.Service](injector), os.Stdin, os.Stdout)
			if err := session.Run(ctx); err != nil {
				logger.Error("session ended", zap.Error(err))
			}
		})
	})

	app.Run()
}
