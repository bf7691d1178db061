package mastermind

import (
	"fmt"
	"strings"
)

// Code is a sequence of colours, either the hidden secret or a guess.
// Each element is a colour index in [0, NumColors).
type Code []int

// Equal returns whether two codes hold the same colours in the same
// positions
func (c Code) Equal(other Code) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the code
func (c Code) Clone() Code {
	out := make(Code, len(c))
	copy(out, c)
	return out
}

func (c Code) String() string {
	digits := make([]string, len(c))
	for i, colour := range c {
		digits[i] = fmt.Sprint(colour)
	}
	return "[" + strings.Join(digits, " ") + "]"
}

// Feedback is the score of a guess against the secret. Black counts
// pegs of the right colour in the right position. White counts pegs of
// a colour present in the secret but in the wrong position, where each
// secret peg is matched at most once.
type Feedback struct {
	Black int
	White int
}

func (f Feedback) String() string {
	return fmt.Sprintf("(black: %d, white: %d)", f.Black, f.White)
}

// Evaluate scores guess against secret. Black pegs are the positions
// where the colours agree. White pegs sum, over colours, the smaller of
// the secret's and guess's counts of that colour among the positions
// that did not score black.
//
// Evaluate panics if the two codes have different lengths.
func Evaluate(secret, guess Code) Feedback {
	if len(secret) != len(guess) {
		panic(fmt.Sprintf("evaluate: secret length %d does not match "+
			"guess length %d", len(secret), len(guess)))
	}

	var black int
	secretCounts := make(map[int]int)
	guessCounts := make(map[int]int)
	for i := range secret {
		if secret[i] == guess[i] {
			black++
			continue
		}
		secretCounts[secret[i]]++
		guessCounts[guess[i]]++
	}

	var white int
	for colour, n := range guessCounts {
		white += minInt(n, secretCounts[colour])
	}

	return Feedback{Black: black, White: white}
}

// Decode converts an action index into a guess of codeLength colours.
// The action is read as a mixed-radix number in base numColors, least
// significant digit first: position 0 holds action mod numColors.
func Decode(action, codeLength, numColors int) Code {
	code := make(Code, codeLength)
	for i := range code {
		code[i] = action % numColors
		action /= numColors
	}
	return code
}

// Encode is the inverse of Decode, converting a code into its action
// index
func Encode(code Code, numColors int) int {
	var action int
	for i := len(code) - 1; i >= 0; i-- {
		action = action*numColors + code[i]
	}
	return action
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
