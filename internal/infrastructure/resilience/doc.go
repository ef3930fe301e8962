/*
Package resilience provides a circuit breaker for repeated pipeline runs.

# Overview

A live benchmark that keeps failing (corrupt input, a stage that always
times out) would otherwise burn a full pipeline run per request. The breaker
opens after a number of consecutive failures and rejects runs with
ErrCircuitOpen until a cooldown has passed. One probe run is then let
through: success closes the breaker, failure opens it again.

# Usage

	breaker := resilience.New(resilience.Settings{
		Threshold: 3,
		Cooldown:  30 * time.Second,
		OnStateChange: func(from, to resilience.State) {
			logger.Warn("breaker", zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})

	err := breaker.Do(ctx, func(ctx context.Context) error {
		return runPipeline(ctx)
	})

# States

	Closed --[Threshold failures]-> Open --[Cooldown]-> HalfOpen --[probe ok]-> Closed
	                                  ^                     |
	                                  +----[probe failed]---+
*/
package resilience
