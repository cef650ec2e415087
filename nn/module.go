// Package nn implements a small differentiable-function engine for
// feed-forward layers: a forward/backward protocol over 2-D batches and two
// concrete layers, a fully-connected linear transform and a pointwise
// sigmoid. Composition into networks, loss functions and the parameter
// update rule belong to the caller.
package nn

import (
	"gonum.org/v1/gonum/mat"
)

// Function is a differentiable map from an input batch of shape
// (batch, in) to an output batch of shape (batch, out).
type Function interface {
	// Forward computes the output at x.
	Forward(x *mat.Dense) (*mat.Dense, error)

	// GradX computes the local derivative of the output with respect to
	// the input, evaluated at x. It does not depend on Forward having
	// been called.
	GradX(x *mat.Dense) (LocalGrad, error)

	// Backward combines an upstream gradient (shape of the output) with
	// the local gradient captured in act, producing the downstream
	// gradient (shape of the input).
	Backward(act *Activation, upstream *mat.Dense) (*mat.Dense, error)
}

// Layer is a Function with a parameter surface. Stateless layers report
// Parameterized() == false and make GradW and ApplyUpdate no-ops, so a
// caller can drive parameterized and stateless layers uniformly.
type Layer interface {
	Function

	// Parameterized reports whether the layer owns trainable parameters.
	Parameterized() bool

	// GradW computes the gradient of the output with respect to the
	// layer's parameters for the forward pass captured in act. Stateless
	// layers return (nil, nil).
	GradW(act *Activation, upstream *mat.Dense) (*ParamGrad, error)

	// ApplyUpdate adds the given deltas into the parameters in place.
	// The update rule (learning rate, momentum, ...) is the optimizer's
	// concern; the layer only applies the finished step. A nil step is a
	// no-op, which lets a stateless layer's nil GradW flow back in
	// unconditionally.
	ApplyUpdate(step *ParamGrad) error
}

// ParamGrad holds per-parameter matrices, either a gradient produced by
// GradW or a step consumed by ApplyUpdate. Fields are nil for parameters
// the layer does not have.
type ParamGrad struct {
	Weight *mat.Dense
	Bias   *mat.Dense
}

// Call runs one forward pass of f. The local gradient is evaluated at x
// before the output is computed, and both are captured in the returned
// Activation together with a copy of x. Backward and GradW operate on that
// token, so a pass backpropagates through the state the layer had at call
// time even if the layer is updated in between.
func Call(f Function, x *mat.Dense) (*Activation, error) {
	local, err := f.GradX(x)
	if err != nil {
		return nil, err
	}
	out, err := f.Forward(x)
	if err != nil {
		return nil, err
	}
	return &Activation{
		Output: out,
		Input:  mat.DenseCopyOf(x),
		Local:  local,
	}, nil
}
