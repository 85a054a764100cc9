package reconciler

import (
	"blackcenter/sources/repository"

	"go.uber.org/fx"
)

var Module = fx.Module("reconciler",
	fx.Provide(
		func(r *repository.AccountsRepository) AccountStore { return r },
		func(r *repository.ChargesRepository) ChargeLedger { return r },
		NewReconciler,
	),
)
