package user

import (
	"github.com/smallbiznis/replate/internal/user/repository"
	"github.com/smallbiznis/replate/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
