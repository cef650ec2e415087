// Package functional provides the elementwise math primitives used by the
// layer implementations.
package functional

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mizuki1024/gradlayer/internal/parallel"
)

// Sigmoid computes the logistic function 1 / (1 + e^-x).
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// SigmoidPrime computes the derivative of the logistic function,
// sigmoid(x) * (1 - sigmoid(x)).
func SigmoidPrime(x float64) float64 {
	s := Sigmoid(x)
	return s * (1 - s)
}

// Apply maps f over every entry of m and returns the result as a new matrix.
func Apply(f func(float64) float64, m mat.Matrix) *mat.Dense {
	// DenseCopyOf yields a contiguous matrix, so the backing slice can be
	// chunked directly.
	out := mat.DenseCopyOf(m)
	data := out.RawMatrix().Data
	parallel.For(len(data), func(start, end int) {
		for i := start; i < end; i++ {
			data[i] = f(data[i])
		}
	})
	return out
}
