package community

import "go.uber.org/fx"

// Module exposes the community service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
