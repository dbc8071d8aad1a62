package events

import "go.uber.org/fx"

// Module exposes the events service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
