package guard

import "go.uber.org/fx"

// Module wires the duplicate guard and its rate limiter.
var Module = fx.Provide(
	func() *RateLimiter { return NewRateLimiter(DefaultCreationWindow) },
	New,
)
