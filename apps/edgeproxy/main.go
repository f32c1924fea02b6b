package main

import (
	"github.com/smallbiznis/replate/internal/config"
	"github.com/smallbiznis/replate/internal/observability"
	"github.com/smallbiznis/replate/internal/server"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		server.EdgeProxyModule,
	)
	app.Run()
}
