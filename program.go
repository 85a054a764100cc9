package main

import (
	"context"

	"blackcenter/sources/catalog"
	"blackcenter/sources/configuration"
	"blackcenter/sources/external"
	"blackcenter/sources/features"
	"blackcenter/sources/metrics"
	"blackcenter/sources/network"
	"blackcenter/sources/notify"
	"blackcenter/sources/persistence"
	"blackcenter/sources/reconciler"
	"blackcenter/sources/repository"
	"blackcenter/sources/telegram"
	"blackcenter/sources/throttler"
	"blackcenter/sources/tracing"

	"go.uber.org/fx"
)

var (
	version   = "0.0.0"
	buildTime = "1970-01-01"
)

func main() {
	fx.New(
		tracing.Module,
		configuration.Module,
		external.Module,
		network.Module,
		persistence.Module,
		repository.Module,
		catalog.Module,
		metrics.Module,
		features.Module,
		throttler.Module,
		notify.Module,
		reconciler.Module,
		telegram.Module,

		fx.Invoke(func(lc fx.Lifecycle, log *tracing.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					log.I("Black Upgrade Center started successfully", "version", version, "build_time", buildTime)
					return nil
				},
				OnStop: func(ctx context.Context) error {
					log.I("Black Upgrade Center stopped", "version", version, "build_time", buildTime)
					return nil
				},
			})
		}),
	).Run()
}
