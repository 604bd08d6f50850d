package sandbox

import "time"

// Timeout and memory policy. Requested timeouts are clamped, never rejected.
const (
	MinTimeout     = 1 * time.Second
	MaxTimeout     = 120 * time.Second
	DefaultTimeout = 30 * time.Second

	// DefaultMemoryLimit is the default guest memory ceiling in bytes.
	DefaultMemoryLimit = 128 << 20

	// maxCallStackSize bounds guest recursion depth. goja exposes no
	// per-VM heap cap, so the memory ceiling is enforced best-effort
	// through stack depth plus the wall-clock timeout.
	maxCallStackSize = 2048
)

// Config defines per-execution sandbox limits.
type Config struct {
	Timeout     time.Duration // wall-clock execution ceiling
	MemoryLimit int64         // guest memory ceiling in bytes
}

// DefaultConfig returns the standard execution limits.
func DefaultConfig() Config {
	return Config{
		Timeout:     DefaultTimeout,
		MemoryLimit: DefaultMemoryLimit,
	}
}

// withDefaults fills unset limits. Clamping to the [MinTimeout, MaxTimeout]
// window is the orchestrator's job (see ClampTimeout); the runtime honors
// whatever ceiling it is handed so tests can use tight timeouts.
func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MemoryLimit <= 0 {
		c.MemoryLimit = DefaultMemoryLimit
	}
	return c
}

// ClampTimeout applies the timeout policy to a raw millisecond request.
// Zero or negative means "use the default".
func ClampTimeout(ms int64) time.Duration {
	if ms <= 0 {
		return DefaultTimeout
	}
	d := time.Duration(ms) * time.Millisecond
	if d < MinTimeout {
		return MinTimeout
	}
	if d > MaxTimeout {
		return MaxTimeout
	}
	return d
}

// LogEntry is one captured console call.
type LogEntry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Result is the normalized outcome of one execution. Exactly one of Value
// and Error is meaningful, gated by OK.
type Result struct {
	Value    interface{}   // JSON-safe return value, nil when none
	Error    string        // human-readable failure, empty on success
	TimedOut bool          // the interpreter was killed by the timeout
	Logs     []LogEntry    // console output in emission order
	Duration time.Duration // interpreter-side wall clock
}

// OK reports whether the execution succeeded.
func (r *Result) OK() bool {
	return r.Error == ""
}
