package service

import "math/rand"

// Dice - the single source of nondeterminism in a session; injectable so
// tests can script every roll.
type Dice interface {
	Roll() int
}

type randomDice struct{}

func NewDice() Dice {
	return &randomDice{}
}

func (that *randomDice) Roll() int {
	return rand.Intn(6) + 1 //nolint: gosec // it's ok
}
