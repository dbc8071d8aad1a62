package reports

import "go.uber.org/fx"

// Module exposes the reporting service and schedules the daily snapshot job.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(NewSnapshotter),
	fx.Invoke(registerSnapshotCron),
)
