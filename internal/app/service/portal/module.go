package portal

import "go.uber.org/fx"

// Module exposes the billing portal service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
