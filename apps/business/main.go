package main

import (
	"github.com/smallbiznis/replate/internal/clock"
	"github.com/smallbiznis/replate/internal/config"
	"github.com/smallbiznis/replate/internal/identity"
	"github.com/smallbiznis/replate/internal/management"
	"github.com/smallbiznis/replate/internal/migration"
	"github.com/smallbiznis/replate/internal/observability"
	"github.com/smallbiznis/replate/internal/organization"
	"github.com/smallbiznis/replate/internal/pickupjob"
	"github.com/smallbiznis/replate/internal/pickupschedule"
	"github.com/smallbiznis/replate/internal/server"
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
		// organization service depends on it; the business API never calls upstream
		management.Module,

		organization.Module,
		pickupjob.Module,
		pickupschedule.Module,

		server.Module,
		server.BusinessModule,
	)
	app.Run()
}
