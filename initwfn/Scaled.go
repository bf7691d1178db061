package initwfn

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// ScaledConfig configures the variance scaling initializers. Glorot
// initializers scale weights by the fan in and fan out of a layer, He
// initializers by the fan in only. Each draws from either a uniform or
// a normal distribution.
type ScaledConfig struct {
	Init Type
	Gain float64
}

// NewGlorotU returns a new Glorot Uniform weight initializer
func NewGlorotU(gain float64) (*InitWFn, error) {
	return New(GlorotU, gain)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (s ScaledConfig) Type() Type {
	return s.Init
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (s ScaledConfig) Create() G.InitWFn {
	switch s.Init {
	case GlorotU:
		return G.GlorotU(s.Gain)
	case GlorotN:
		return G.GlorotN(s.Gain)
	case HeU:
		return G.HeU(s.Gain)
	case HeN:
		return G.HeN(s.Gain)
	}
	panic(fmt.Sprintf("create: %v is not a scaled initializer", s.Init))
}

// ZeroesConfig configures an initializer setting all weights to 0
type ZeroesConfig struct{}

// Type returns the type of initialization algorithm described by
// the configuration.
func (z ZeroesConfig) Type() Type {
	return Zeroes
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (z ZeroesConfig) Create() G.InitWFn {
	return G.Zeroes()
}
