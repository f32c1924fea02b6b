package suggestion

import (
	"github.com/smallbiznis/replate/internal/suggestion/repository"
	"github.com/smallbiznis/replate/internal/suggestion/service"
	"go.uber.org/fx"
)

var Module = fx.Module("suggestion.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
