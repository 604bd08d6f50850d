/*
Package resilience provides a circuit breaker for outbound vault traffic.

# Overview

The breaker sits between the backend and the vault REST API. When the
vault becomes unreachable or consistently errors, the breaker opens and
requests fail fast instead of piling up behind a dead connection.

# Usage

	breaker := resilience.New("vault", resilience.Options{
		Probes:    3,
		Window:    60 * time.Second,
		Cooldown:  30 * time.Second,
		TripAfter: 5,
		OnStateChange: func(name string, from, to resilience.State) {
			log.Printf("breaker %s: %s -> %s", name, from, to)
		},
	})

	err := breaker.Do(func() error {
		return client.Call()
	})

# States

  - Closed: Normal operation, requests pass through
  - Open: Vault unavailable, requests fail immediately with ErrOpen
  - Half-Open: Testing recovery, up to Probes requests allowed

State transitions:

	Closed --[TripAfter consecutive failures]-> Open
	Open --[Cooldown elapsed]-> Half-Open
	Half-Open --[Probes consecutive successes]-> Closed
	Half-Open --[any failure]-> Open
*/
package resilience
