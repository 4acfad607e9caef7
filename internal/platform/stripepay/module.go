package stripepay

import (
	"go.uber.org/fx"

	cfgpkg "github.com/innercompass/payments/pkg/config"
)

func newFromConfig(cfg *cfgpkg.Config) Client {
	return NewClient(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
}

var Module = fx.Options(
	fx.Provide(newFromConfig),
)
