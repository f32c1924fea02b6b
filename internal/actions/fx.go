package actions

import "go.uber.org/fx"

var Module = fx.Module("actions",
	fx.Provide(NewEnforcer),
	fx.Provide(NewHooks),
)
