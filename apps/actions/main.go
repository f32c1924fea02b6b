package main

import (
	"github.com/smallbiznis/replate/internal/actions"
	"github.com/smallbiznis/replate/internal/config"
	"github.com/smallbiznis/replate/internal/observability"
	"github.com/smallbiznis/replate/internal/providers"
	"github.com/smallbiznis/replate/internal/server"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,

		// No database: hooks only read the event they are given.
		providers.Module,
		actions.Module,

		server.Module,
		server.ActionsModule,
	)
	app.Run()
}
