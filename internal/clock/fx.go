package clock

import "go.uber.org/fx"

// New returns the production clock.
func New() Clock { return SystemClock{} }

var Module = fx.Module("clock",
	fx.Provide(New),
)
