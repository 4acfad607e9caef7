package setupintent

import "go.uber.org/fx"

// Module exposes the setup intent service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
