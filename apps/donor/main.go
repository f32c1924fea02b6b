package main

import (
	"github.com/smallbiznis/replate/internal/clock"
	"github.com/smallbiznis/replate/internal/config"
	"github.com/smallbiznis/replate/internal/donation"
	"github.com/smallbiznis/replate/internal/identity"
	"github.com/smallbiznis/replate/internal/migration"
	"github.com/smallbiznis/replate/internal/observability"
	"github.com/smallbiznis/replate/internal/server"
	"github.com/smallbiznis/replate/internal/suggestion"
	"github.com/smallbiznis/replate/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		clock.Module,
		db.Module,
		migration.Module,
		identity.Module,

		donation.Module,
		suggestion.Module,

		server.Module,
		server.DonorModule,
	)
	app.Run()
}
