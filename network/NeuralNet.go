// Package network implements feed forward neural networks as Gorgonia
// computational graphs
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet is a network whose forward pass lives in its own graph.
// Policies keep one copy per batch size: a single-row copy to score
// the current observation and a batched copy to learn from an episode.
type NeuralNet interface {
	Graph() *G.ExprGraph

	BatchSize() int // Rows of each input
	Features() int  // Columns of each input
	Outputs() int   // One output per action score

	// SetInput sets the BatchSize() x Features() input, row major
	SetInput([]float64) error

	// Set copies the weights of a network of the same layer sizes,
	// whatever its batch size
	Set(NeuralNet) error

	Learnables() G.Nodes
	Model() []G.ValueGrad

	// Output is the value of Prediction after a VM has run Graph
	Output() G.Value
	Prediction() *G.Node
}
