package core

// RuntimeConfig contains what the driver knows about its surroundings when
// it builds a universe.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Generations per second
	Seed     int64 // 0 means draw a seed from system entropy
}

// Driver bounds for TickRate.
const (
	MinTickRate     = 1
	MaxTickRate     = 120
	DefaultTickRate = 10
)

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: DefaultTickRate,
	}
}

// ClampTickRate keeps a tick rate within the driver bounds.
func ClampTickRate(rate int) int {
	return Clamp(rate, MinTickRate, MaxTickRate)
}
