// Package pick chooses which slice a spin should land on.
//
// A picker is an expr-lang expression evaluated against Env. It must produce
// an integer slice index. Besides the expr builtins (for example
// findIndex(labels, # == "Jackpot")) two functions are registered:
//
//	rand(n)             uniform integer in [0,n)
//	weighted([w0, ...]) index i with probability w_i / sum(w)
package pick

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var ErrOutOfRange = errors.New("picked index out of range")

// DefaultExpr picks uniformly.
const DefaultExpr = "rand(count)"

// Env is the evaluation environment.
type Env struct {
	Count  int      `expr:"count"`
	Labels []string `expr:"labels"`
	// Spins is the number of spins that already landed.
	Spins int `expr:"spins"`
	// Last is the index of the last landed slice, -1 before the first.
	Last int `expr:"last"`
}

type Picker struct {
	src     string
	program *vm.Program
	rng     *rand.Rand
}

type Option func(*Picker)

// WithRand sets the random source, for reproducible picks.
func WithRand(r *rand.Rand) Option {
	return func(p *Picker) { p.rng = r }
}

// WithSeed seeds a PCG source.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Compile parses src. An empty src compiles DefaultExpr.
func Compile(src string, opts ...Option) (*Picker, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		src = DefaultExpr
	}

	p := &Picker{src: src}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	program, err := expr.Compile(src, p.compileOptions()...)
	if err != nil {
		return nil, fmt.Errorf("invalid target expression %q: %w", src, err)
	}
	p.program = program
	return p, nil
}

func (p *Picker) String() string {
	return p.src
}

// Pick evaluates the expression and validates the result against env.Count.
func (p *Picker) Pick(env Env) (int, error) {
	out, err := expr.Run(p.program, env)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", p.src, err)
	}

	idx, err := toIndex(out)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", p.src, err)
	}
	if idx < 0 || idx >= env.Count {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, idx, env.Count)
	}
	return idx, nil
}

func (p *Picker) compileOptions() []expr.Option {
	return []expr.Option{
		expr.Env(Env{}),
		expr.Function("rand", p.randFunc,
			new(func(int) int),
		),
		expr.Function("weighted", p.weightedFunc,
			new(func([]any) int),
		),
	}
}

// rand returns a uniform index in [0,n).
// Usage: rand(count)
func (p *Picker) randFunc(params ...any) (any, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("rand: expected 1 argument, got %d", len(params))
	}
	n, ok := params[0].(int)
	if !ok {
		return nil, fmt.Errorf("rand: expected int, got %T", params[0])
	}
	if n <= 0 {
		return nil, fmt.Errorf("rand: n must be positive, got %d", n)
	}
	return p.rng.IntN(n), nil
}

// weighted picks an index with probability proportional to its weight.
// Usage: weighted([1, 1, 5, 1])
func (p *Picker) weightedFunc(params ...any) (any, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("weighted: expected 1 argument, got %d", len(params))
	}
	list, ok := params[0].([]any)
	if !ok {
		return nil, fmt.Errorf("weighted: expected list, got %T", params[0])
	}

	weights := make([]float64, len(list))
	total := 0.0
	for i, v := range list {
		w, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("weighted: weight %d: %w", i, err)
		}
		if w < 0 {
			return nil, fmt.Errorf("weighted: weight %d is negative", i)
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return nil, errors.New("weighted: weights must sum to a positive value")
	}

	r := p.rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return i, nil
		}
	}
	// Float rounding can leave r == total; land on the last positive weight.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i, nil
		}
	}
	return len(weights) - 1, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

func toIndex(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("result %v is not an integer", n)
		}
		return int(n), nil
	case nil:
		// findIndex and friends yield nil when nothing matches.
		return 0, fmt.Errorf("%w: no slice matched", ErrOutOfRange)
	default:
		return 0, fmt.Errorf("result must be an integer, got %T", v)
	}
}
