package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// CategoricalStarter returns starting states as vectors sampled from
// a multi-dimensional uniform categorical distribution. Dimension i
// samples values in (0, 1, 2, ... bounds[i]-1).
type CategoricalStarter struct {
	features int
	rand     []distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter, sampling
// dimension i from (0, 1, 2, ... bounds[i]-1). All dimensions draw
// from the same source, so a shared source yields a reproducible
// sequence of starting states.
func NewCategoricalStarter(bounds []int,
	source rand.Source) (*CategoricalStarter, error) {
	if len(bounds) == 0 {
		return nil, fmt.Errorf("newCategoricalStarter: at least one " +
			"dimension required")
	}

	dists := make([]distuv.Categorical, len(bounds))
	for i := range dists {
		if bounds[i] < 1 {
			return nil, fmt.Errorf("newCategoricalStarter: dimension %d "+
				"must have at least one category, got %d", i, bounds[i])
		}

		// Create the weights for the uniform categorical distribution
		weights := make([]float64, bounds[i])
		for j := range weights {
			weights[j] = 1.0 / float64(len(weights))
		}

		dists[i] = distuv.NewCategorical(weights, source)
	}

	return &CategoricalStarter{len(bounds), dists}, nil
}

// Start returns a starting state vector
func (c *CategoricalStarter) Start() *mat.VecDense {
	start := make([]float64, c.features)
	for i := range start {
		start[i] = c.rand[i].Rand()
	}

	return mat.NewVecDense(c.features, start)
}
