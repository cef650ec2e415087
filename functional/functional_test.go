package functional

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestSigmoidValues(t *testing.T) {
	if got := Sigmoid(0); got != 0.5 {
		t.Fatalf("Sigmoid(0) = %v, want exactly 0.5", got)
	}
	for _, x := range []float64{0.1, 1, 3, 10, 50} {
		s := Sigmoid(x)
		if s <= 0 || s >= 1 {
			t.Fatalf("Sigmoid(%v) = %v, want value strictly in (0, 1)", x, s)
		}
		// Symmetry: sigmoid(-x) = 1 - sigmoid(x).
		if diff := math.Abs(Sigmoid(-x) - (1 - s)); diff > 1e-12 {
			t.Fatalf("symmetry broken at %v: diff %v", x, diff)
		}
	}
}

func TestSigmoidPrime(t *testing.T) {
	if got := SigmoidPrime(0); got != 0.25 {
		t.Fatalf("SigmoidPrime(0) = %v, want exactly 0.25", got)
	}
	for _, x := range []float64{-3, -1, 1, 3} {
		want := Sigmoid(x) * (1 - Sigmoid(x))
		if got := SigmoidPrime(x); got != want {
			t.Fatalf("SigmoidPrime(%v) = %v, want %v", x, got, want)
		}
		if SigmoidPrime(x) >= 0.25 {
			t.Fatalf("SigmoidPrime(%v) >= peak value 0.25", x)
		}
	}
}

func TestApplyMatchesScalar(t *testing.T) {
	in := mat.NewDense(2, 3, []float64{-2, -1, 0, 1, 2, 3})
	out := Apply(Sigmoid, in)
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			if got, want := out.At(r, c), Sigmoid(in.At(r, c)); got != want {
				t.Fatalf("Apply[%d][%d] = %v, want %v", r, c, got, want)
			}
		}
	}
}

func TestApplyLargeMatrix(t *testing.T) {
	rows, cols := 64, 128
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(i%17) - 8
	}
	in := mat.NewDense(rows, cols, data)
	out := Apply(SigmoidPrime, in)
	want := make([]float64, len(data))
	for i, v := range data {
		want[i] = SigmoidPrime(v)
	}
	if !floats.EqualApprox(out.RawMatrix().Data, want, 1e-15) {
		t.Fatalf("large Apply result diverges from scalar map")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := mat.NewDense(1, 3, []float64{1, 2, 3})
	_ = Apply(Sigmoid, in)
	if !floats.Equal(in.RawMatrix().Data, []float64{1, 2, 3}) {
		t.Fatalf("Apply mutated its input: %v", in.RawMatrix().Data)
	}
}

func TestApplyOnSubmatrixView(t *testing.T) {
	base := mat.NewDense(4, 4, nil)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			base.Set(r, c, float64(r*4+c)-8)
		}
	}
	view := base.Slice(1, 3, 1, 3)
	out := Apply(Sigmoid, view)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if got, want := out.At(r, c), Sigmoid(view.At(r, c)); got != want {
				t.Fatalf("view Apply[%d][%d] = %v, want %v", r, c, got, want)
			}
		}
	}
}
