package paymentmethod

import "go.uber.org/fx"

// Module exposes the payment method catalog and per-community configs via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
