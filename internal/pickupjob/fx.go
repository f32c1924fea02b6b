package pickupjob

import (
	"github.com/smallbiznis/replate/internal/pickupjob/repository"
	"github.com/smallbiznis/replate/internal/pickupjob/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pickupjob.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
