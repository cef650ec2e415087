package nn

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	defaultRNG   = rand.New(rand.NewSource(time.Now().UnixNano()))
	defaultRNGMu sync.Mutex
)

// Linear is a fully-connected affine layer: Forward computes x·W + b for a
// weight matrix W of shape (in, out) and a bias row vector b of shape
// (1, out). Dimensions are fixed at construction; the parameters are owned
// by the layer and mutated only through ApplyUpdate.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *mat.Dense
	bias        *mat.Dense
}

// NewLinear creates a linear layer mapping inFeatures columns to
// outFeatures columns. Weights and biases are drawn independently from a
// uniform distribution on [-scale/2, scale/2] with scale = 1/sqrt(in), so
// initial activations stay in a reasonable range regardless of layer
// width. rng makes initialization reproducible; a nil rng uses a
// process-wide time-seeded source.
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand) (*Linear, error) {
	if inFeatures <= 0 || outFeatures <= 0 {
		return nil, fmt.Errorf("linear (%d, %d): %w", inFeatures, outFeatures, ErrInvalidDimension)
	}
	l := &Linear{inFeatures: inFeatures, outFeatures: outFeatures}
	l.initWeights(rng)
	return l, nil
}

func (l *Linear) initWeights(rng *rand.Rand) {
	scale := 1 / math.Sqrt(float64(l.inFeatures))
	draw := func(n int) []float64 {
		data := make([]float64, n)
		if rng == nil {
			defaultRNGMu.Lock()
			defer defaultRNGMu.Unlock()
			for i := range data {
				data[i] = scale * (defaultRNG.Float64() - 0.5)
			}
			return data
		}
		for i := range data {
			data[i] = scale * (rng.Float64() - 0.5)
		}
		return data
	}
	l.weight = mat.NewDense(l.inFeatures, l.outFeatures, draw(l.inFeatures*l.outFeatures))
	l.bias = mat.NewDense(1, l.outFeatures, draw(l.outFeatures))
}

// Forward computes x·W + b, broadcasting the bias across the batch.
func (l *Linear) Forward(x *mat.Dense) (*mat.Dense, error) {
	batch, features := x.Dims()
	if features != l.inFeatures {
		return nil, fmt.Errorf("linear forward: input has %d features, layer expects %d: %w",
			features, l.inFeatures, ErrShapeMismatch)
	}
	out := mat.NewDense(batch, l.outFeatures, nil)
	out.Mul(x, l.weight)
	biasRow := l.bias.RawRowView(0)
	for r := 0; r < batch; r++ {
		floats.Add(out.RawRowView(r), biasRow)
	}
	return out, nil
}

// GradX returns the layer's Jacobian with respect to its input. For an
// affine map this is the weight matrix itself, independent of x; the
// returned DenseGrad holds a snapshot so a later ApplyUpdate cannot leak
// into a pending backward pass.
func (l *Linear) GradX(x *mat.Dense) (LocalGrad, error) {
	if _, features := x.Dims(); features != l.inFeatures {
		return nil, fmt.Errorf("linear gradX: input has %d features, layer expects %d: %w",
			features, l.inFeatures, ErrShapeMismatch)
	}
	return &DenseGrad{Jac: mat.DenseCopyOf(l.weight)}, nil
}

// Backward computes the downstream gradient upstream·Wᵀ, using the weights
// captured at call time.
func (l *Linear) Backward(act *Activation, upstream *mat.Dense) (*mat.Dense, error) {
	if err := checkActivation(act, upstream); err != nil {
		return nil, fmt.Errorf("linear backward: %w", err)
	}
	down, err := act.Local.Apply(upstream)
	if err != nil {
		return nil, fmt.Errorf("linear backward: %w", err)
	}
	return down, nil
}

// Parameterized reports true: the layer owns a weight matrix and a bias.
func (l *Linear) Parameterized() bool { return true }

// GradW computes the parameter gradients for the captured forward pass:
// xᵀ·upstream for the weights (shape (in, out)) and the column sums of
// upstream for the bias (shape (1, out)).
func (l *Linear) GradW(act *Activation, upstream *mat.Dense) (*ParamGrad, error) {
	if err := checkActivation(act, upstream); err != nil {
		return nil, fmt.Errorf("linear gradW: %w", err)
	}
	if act.Input == nil {
		return nil, fmt.Errorf("linear gradW: %w", ErrNoActivation)
	}
	batch, features := act.Input.Dims()
	if features != l.inFeatures {
		return nil, fmt.Errorf("linear gradW: captured input has %d features, layer expects %d: %w",
			features, l.inFeatures, ErrShapeMismatch)
	}
	wg := mat.NewDense(l.inFeatures, l.outFeatures, nil)
	wg.Mul(act.Input.T(), upstream)
	bg := mat.NewDense(1, l.outFeatures, nil)
	for r := 0; r < batch; r++ {
		floats.Add(bg.RawRowView(0), upstream.RawRowView(r))
	}
	return &ParamGrad{Weight: wg, Bias: bg}, nil
}

// ApplyUpdate adds the supplied deltas into the parameters in place. The
// caller is responsible for scaling (e.g. by a negative learning rate).
func (l *Linear) ApplyUpdate(step *ParamGrad) error {
	if step == nil {
		return nil
	}
	if step.Weight != nil {
		if r, c := step.Weight.Dims(); r != l.inFeatures || c != l.outFeatures {
			return fmt.Errorf("linear update: weight step is (%d, %d), want (%d, %d): %w",
				r, c, l.inFeatures, l.outFeatures, ErrShapeMismatch)
		}
		l.weight.Add(l.weight, step.Weight)
	}
	if step.Bias != nil {
		if r, c := step.Bias.Dims(); r != 1 || c != l.outFeatures {
			return fmt.Errorf("linear update: bias step is (%d, %d), want (1, %d): %w",
				r, c, l.outFeatures, ErrShapeMismatch)
		}
		l.bias.Add(l.bias, step.Bias)
	}
	return nil
}

// InFeatures returns the layer's input dimension.
func (l *Linear) InFeatures() int { return l.inFeatures }

// OutFeatures returns the layer's output dimension.
func (l *Linear) OutFeatures() int { return l.outFeatures }

// Weight returns a copy of the weight matrix.
func (l *Linear) Weight() *mat.Dense { return mat.DenseCopyOf(l.weight) }

// Bias returns a copy of the bias row vector.
func (l *Linear) Bias() *mat.Dense { return mat.DenseCopyOf(l.bias) }

// SetWeight overwrites the weight matrix. The replacement must be
// (in, out).
func (l *Linear) SetWeight(w *mat.Dense) error {
	if r, c := w.Dims(); r != l.inFeatures || c != l.outFeatures {
		return fmt.Errorf("set weight: got (%d, %d), want (%d, %d): %w",
			r, c, l.inFeatures, l.outFeatures, ErrShapeMismatch)
	}
	l.weight.Copy(w)
	return nil
}

// SetBias overwrites the bias row vector. The replacement must be
// (1, out).
func (l *Linear) SetBias(b *mat.Dense) error {
	if r, c := b.Dims(); r != 1 || c != l.outFeatures {
		return fmt.Errorf("set bias: got (%d, %d), want (1, %d): %w",
			r, c, l.outFeatures, ErrShapeMismatch)
	}
	l.bias.Copy(b)
	return nil
}
