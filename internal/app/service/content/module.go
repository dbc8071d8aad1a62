package content

import "go.uber.org/fx"

// Module exposes the forum content service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
