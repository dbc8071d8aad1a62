package classroom

import "go.uber.org/fx"

// Module exposes the classroom service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
