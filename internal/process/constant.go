package process

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ConstantDiffusion is a process with additive noise: the diffusion matrix
// is sqrt(2D) times the identity, independent of state and time. The
// convention sigma = sqrt(2D) keeps the associated Fokker-Planck diffusion
// coefficient equal to D.
type ConstantDiffusion struct {
	drift VectorField
	d0    float64
	dim   int
}

// NewConstantDiffusion builds an additive-noise process with noise
// amplitude D >= 0.
func NewConstantDiffusion(drift VectorField, d0 float64, dim int) (*ConstantDiffusion, error) {
	if dim < 1 {
		return nil, fmt.Errorf("%w: dimension %d, want >= 1", ErrInvalidDimension, dim)
	}
	if drift == nil {
		return nil, fmt.Errorf("%w: drift must be non-nil", ErrInvalidCoefficient)
	}
	if d0 < 0 {
		return nil, fmt.Errorf("%w: noise amplitude %g, want >= 0", ErrInvalidCoefficient, d0)
	}
	return &ConstantDiffusion{drift: drift, d0: d0, dim: dim}, nil
}

func (c *ConstantDiffusion) Drift(x State, t float64) State { return c.drift(x, t) }

func (c *ConstantDiffusion) Diffusion(x State, t float64) *mat.Dense {
	m := mat.NewDense(c.dim, c.dim, nil)
	amp := c.Amplitude()
	for i := 0; i < c.dim; i++ {
		m.Set(i, i, amp)
	}
	return m
}

func (c *ConstantDiffusion) Dimension() int { return c.dim }

// Amplitude returns sqrt(2D), the constant scale of the noise.
func (c *ConstantDiffusion) Amplitude() float64 { return math.Sqrt(2 * c.d0) }

// D0 returns the noise amplitude D.
func (c *ConstantDiffusion) D0() float64 { return c.d0 }

// OrnsteinUhlenbeck is the process dx = theta(mu-x)dt + sqrt(2D)dW.
// It is a gradient system in a harmonic potential and many of its
// properties are known in closed form, which makes it a convenient
// reference process.
type OrnsteinUhlenbeck struct {
	ConstantDiffusion
	mu    float64
	theta float64
}

// NewOrnsteinUhlenbeck builds an Ornstein-Uhlenbeck process of dimension
// dim with mean mu, relaxation rate theta and noise amplitude D.
func NewOrnsteinUhlenbeck(mu, theta, d0 float64, dim int) (*OrnsteinUhlenbeck, error) {
	drift := func(x State, t float64) State {
		out := make(State, len(x))
		for i := range x {
			out[i] = theta * (mu - x[i])
		}
		return out
	}
	base, err := NewConstantDiffusion(drift, d0, dim)
	if err != nil {
		return nil, err
	}
	return &OrnsteinUhlenbeck{ConstantDiffusion: *base, mu: mu, theta: theta}, nil
}

func (o *OrnsteinUhlenbeck) Mu() float64    { return o.mu }
func (o *OrnsteinUhlenbeck) Theta() float64 { return o.theta }

func (o *OrnsteinUhlenbeck) String() string {
	return fmt.Sprintf("%dD Ornstein-Uhlenbeck process: dx_t = theta(mu-x_t)dt + sqrt(2D)dW_t, with theta=%g, mu=%g and D=%g.",
		o.Dimension(), o.theta, o.mu, o.D0())
}

// Potential evaluates the quadratic potential theta*(mu-x)^2/2 at the
// given points.
func (o *OrnsteinUhlenbeck) Potential(xs []State) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		sum := 0.0
		for _, xi := range x {
			sum += (o.mu - xi) * (o.mu - xi)
		}
		out[i] = 0.5 * o.theta * sum
	}
	return out
}

// Wiener is Brownian motion with noise amplitude D: the Ornstein-Uhlenbeck
// process with mu = 0 and theta = 0.
type Wiener struct {
	OrnsteinUhlenbeck
}

// NewWiener builds a dim-dimensional Wiener process.
func NewWiener(dim int, d0 float64) (*Wiener, error) {
	base, err := NewOrnsteinUhlenbeck(0, 0, d0, dim)
	if err != nil {
		return nil, err
	}
	return &Wiener{OrnsteinUhlenbeck: *base}, nil
}

// Potential is identically zero for the Wiener process.
func (w *Wiener) Potential(xs []State) []float64 {
	return make([]float64, len(xs))
}
