package main

import (
	"github.com/smallbiznis/replate/internal/clock"
	"github.com/smallbiznis/replate/internal/config"
	"github.com/smallbiznis/replate/internal/events"
	"github.com/smallbiznis/replate/internal/identity"
	"github.com/smallbiznis/replate/internal/invitation"
	"github.com/smallbiznis/replate/internal/management"
	"github.com/smallbiznis/replate/internal/migration"
	"github.com/smallbiznis/replate/internal/observability"
	"github.com/smallbiznis/replate/internal/organization"
	"github.com/smallbiznis/replate/internal/server"
	"github.com/smallbiznis/replate/internal/user"
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
		management.Module,

		organization.Module,
		user.Module,
		invitation.Module,
		events.Module,

		server.Module,
		server.AdminModule,
	)
	app.Run()
}
