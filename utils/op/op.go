// Package op provides extended Gorgonia graph operations.
package op

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// LogSumExp calculates the log of the summation of exponentials of
// the rows of a matrix of logits, returning a vector with one element
// per row. The maximum of each row is subtracted before exponentiating
// so that large logits do not overflow.
//
// Use this in place of Gorgonia's LogSumExp, which has the final sum
// and log interchanged, which is incorrect.
func LogSumExp(logits *G.Node) (*G.Node, error) {
	if logits.Dims() != 2 {
		return nil, fmt.Errorf("logSumExp: expected matrix of logits, got "+
			"shape %v", logits.Shape())
	}
	rows := logits.Shape()[0]

	max, err := G.Max(logits, 1)
	if err != nil {
		return nil, fmt.Errorf("logSumExp: %v", err)
	}

	// Broadcast the row maxima across columns
	rowMax, err := G.Reshape(max, tensor.Shape{rows, 1})
	if err != nil {
		return nil, fmt.Errorf("logSumExp: %v", err)
	}
	exponent, err := G.BroadcastSub(logits, rowMax, nil, []byte{1})
	if err != nil {
		return nil, fmt.Errorf("logSumExp: %v", err)
	}
	exponent = G.Must(G.Exp(exponent))

	sum := G.Must(G.Sum(exponent, 1))
	log := G.Must(G.Log(sum))

	return G.Add(max, log)
}
