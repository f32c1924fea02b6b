package pickupschedule

import (
	"github.com/smallbiznis/replate/internal/pickupschedule/repository"
	"github.com/smallbiznis/replate/internal/pickupschedule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pickupschedule.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
