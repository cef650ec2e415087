package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LocalGrad is the derivative of a layer's output with respect to its
// input, evaluated at one input. Implementations carry whatever
// representation suits the layer's Jacobian structure together with the
// matching chain-rule combination.
type LocalGrad interface {
	// Apply combines an upstream gradient with the local derivative,
	// producing the downstream gradient.
	Apply(upstream *mat.Dense) (*mat.Dense, error)
}

// DenseGrad is a full Jacobian of shape (in, out), shared by every row of
// the batch. Apply right-multiplies the upstream gradient by the
// transposed Jacobian: (batch, out) · (out, in) -> (batch, in).
type DenseGrad struct {
	Jac *mat.Dense
}

func (g *DenseGrad) Apply(upstream *mat.Dense) (*mat.Dense, error) {
	in, out := g.Jac.Dims()
	rows, cols := upstream.Dims()
	if cols != out {
		return nil, fmt.Errorf("upstream has %d columns, jacobian expects %d: %w", cols, out, ErrShapeMismatch)
	}
	down := mat.NewDense(rows, in, nil)
	down.Mul(upstream, g.Jac.T())
	return down, nil
}

// ElemGrad is the derivative of an elementwise map: one derivative value
// per entry of the input batch. The Jacobian of such a map is diagonal, so
// Apply is a Hadamard product rather than a dense matrix product, keeping
// the representation O(n) instead of O(n^2).
type ElemGrad struct {
	Deriv *mat.Dense
}

func (g *ElemGrad) Apply(upstream *mat.Dense) (*mat.Dense, error) {
	dr, dc := g.Deriv.Dims()
	ur, uc := upstream.Dims()
	if dr != ur || dc != uc {
		return nil, fmt.Errorf("upstream shape (%d, %d) does not match derivative shape (%d, %d): %w",
			ur, uc, dr, dc, ErrShapeMismatch)
	}
	down := mat.NewDense(ur, uc, nil)
	down.MulElem(upstream, g.Deriv)
	return down, nil
}

// Activation is the result of one forward pass: the output, a copy of the
// input it was computed from, and the local gradient evaluated at that
// input. It is the token Backward and GradW operate on; each Call produces
// a fresh one, so passes never read state left over from an earlier call.
type Activation struct {
	Output *mat.Dense
	Input  *mat.Dense
	Local  LocalGrad
}

// checkActivation validates the token and the upstream gradient shared by
// every Backward and GradW implementation: the token must come from a
// completed Call and the upstream gradient must match the output shape.
func checkActivation(act *Activation, upstream *mat.Dense) error {
	if act == nil || act.Output == nil || act.Local == nil {
		return ErrNoActivation
	}
	if upstream == nil {
		return fmt.Errorf("nil upstream gradient: %w", ErrShapeMismatch)
	}
	or, oc := act.Output.Dims()
	ur, uc := upstream.Dims()
	if or != ur || oc != uc {
		return fmt.Errorf("upstream shape (%d, %d) does not match output shape (%d, %d): %w",
			ur, uc, or, oc, ErrShapeMismatch)
	}
	return nil
}
