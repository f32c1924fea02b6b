package donation

import (
	"github.com/smallbiznis/replate/internal/donation/repository"
	"github.com/smallbiznis/replate/internal/donation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("donation.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
