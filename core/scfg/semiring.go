package scfg

import "math"

// Semiring is the value algebra the recurrences are written against.
// Plus aggregates alternatives, Times combines independent parts.
type Semiring interface {
	Zero() float64
	One() float64
	Plus(a, b float64) float64
	Times(a, b float64) float64
}

// MinPlus is the MFE algebra over free energies in kcal/mol.
type MinPlus struct{}

func (MinPlus) Zero() float64 { return math.Inf(1) }
func (MinPlus) One() float64  { return 0 }

func (MinPlus) Plus(a, b float64) float64 {
	if b < a {
		return b
	}
	return a
}

func (MinPlus) Times(a, b float64) float64 { return a + b }

// SumProduct is the partition-function algebra over scaled Boltzmann weights.
type SumProduct struct{}

func (SumProduct) Zero() float64              { return 0 }
func (SumProduct) One() float64               { return 1 }
func (SumProduct) Plus(a, b float64) float64  { return a + b }
func (SumProduct) Times(a, b float64) float64 { return a * b }

func isZero(s Semiring, v float64) bool { return v == s.Zero() }

func times3(s Semiring, a, b, c float64) float64 { return s.Times(a, s.Times(b, c)) }
