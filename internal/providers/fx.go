package providers

import (
	"github.com/smallbiznis/replate/internal/providers/slack"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	fx.Provide(
		fx.Annotate(slack.NewWebhookProvider, fx.As(new(slack.Provider))),
	),
)
