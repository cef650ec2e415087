package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mizuki1024/gradlayer/functional"
)

// Sigmoid applies the logistic function 1 / (1 + e^-x) elementwise. It is
// stateless: there are no parameters, and GradW and ApplyUpdate are
// uniform no-ops so a caller can drive it like any other layer.
type Sigmoid struct{}

func NewSigmoid() *Sigmoid { return &Sigmoid{} }

func (s *Sigmoid) Forward(x *mat.Dense) (*mat.Dense, error) {
	return functional.Apply(functional.Sigmoid, x), nil
}

// GradX returns the elementwise derivative sigmoid(x)·(1-sigmoid(x))
// evaluated at x. The Jacobian of an elementwise map is diagonal, so the
// derivative is kept as one value per entry rather than a dense diagonal
// matrix.
func (s *Sigmoid) GradX(x *mat.Dense) (LocalGrad, error) {
	return &ElemGrad{Deriv: functional.Apply(functional.SigmoidPrime, x)}, nil
}

// Backward multiplies the upstream gradient elementwise by the derivative
// captured at call time.
func (s *Sigmoid) Backward(act *Activation, upstream *mat.Dense) (*mat.Dense, error) {
	if err := checkActivation(act, upstream); err != nil {
		return nil, fmt.Errorf("sigmoid backward: %w", err)
	}
	down, err := act.Local.Apply(upstream)
	if err != nil {
		return nil, fmt.Errorf("sigmoid backward: %w", err)
	}
	return down, nil
}

// Parameterized reports false; the layer has nothing to train.
func (s *Sigmoid) Parameterized() bool { return false }

// GradW returns no parameter gradient.
func (s *Sigmoid) GradW(act *Activation, upstream *mat.Dense) (*ParamGrad, error) {
	return nil, nil
}

// ApplyUpdate is a no-op.
func (s *Sigmoid) ApplyUpdate(step *ParamGrad) error { return nil }
