package sweep

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/workmatechiho-source/shotcrete/internal/codes"
	"github.com/workmatechiho-source/shotcrete/internal/design"
)

// Parameter names the input field varied by a sweep
type Parameter string

const (
	Spacing         Parameter = "spacing"          // both joint spacings together (m)
	SpacingX        Parameter = "spacing_x"        // m
	SpacingY        Parameter = "spacing_y"        // m
	LiningThickness Parameter = "lining_thickness" // shotcrete thickness (m)
	BlockThickness  Parameter = "block_thickness"  // flat block loosened zone (m)
	SideAngle       Parameter = "side_angle"       // both shale wedge angles (degrees)
)

// Parameters lists the sweepable fields
var Parameters = []Parameter{Spacing, SpacingX, SpacingY, LiningThickness, BlockThickness, SideAngle}

// ParseParameter accepts a parameter name, case-insensitive
func ParseParameter(s string) (Parameter, error) {
	key := Parameter(strings.ToLower(strings.TrimSpace(s)))
	for _, p := range Parameters {
		if key == p {
			return p, nil
		}
	}
	switch key {
	case "s", "bolt_spacing":
		return Spacing, nil
	case "t", "thickness":
		return LiningThickness, nil
	case "theta", "angle":
		return SideAngle, nil
	}
	return "", fmt.Errorf("unknown sweep parameter %q", s)
}

// Unit returns the display unit of the parameter
func (p Parameter) Unit() string {
	if p == SideAngle {
		return "°"
	}
	return "m"
}

// Apply returns a copy of in with the parameter set to value
func (p Parameter) Apply(in design.Input, value float64) design.Input {
	out := in
	if in.Reinforcement != nil {
		r := *in.Reinforcement
		out.Reinforcement = &r
	}
	switch p {
	case Spacing:
		out.Geometry.SpacingX = value
		out.Geometry.SpacingY = value
	case SpacingX:
		out.Geometry.SpacingX = value
	case SpacingY:
		out.Geometry.SpacingY = value
	case LiningThickness:
		out.Shotcrete.Thickness = value
	case BlockThickness:
		out.Geometry.Thickness = value
	case SideAngle:
		out.Geometry.SideAngleX = value
		out.Geometry.SideAngleY = value
	}
	return out
}

// Options controls a sweep
type Options struct {
	Parameter Parameter
	From      float64
	To        float64
	Steps     int // number of grid points, at least 2
	Workers   int // concurrent evaluations; zero uses GOMAXPROCS
}

// Point is one evaluation of the sweep
type Point struct {
	Value  float64       `json:"value"`
	Result design.Result `json:"result"`
}

// Series holds the sweep in grid order
type Series struct {
	Parameter Parameter `json:"parameter"`
	Points    []Point   `json:"points"`
}

// Grid returns the evenly spaced parameter values
func Grid(from, to float64, steps int) ([]float64, error) {
	if steps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", steps)
	}
	if from == to {
		return nil, fmt.Errorf("sweep range is empty: from=%g to=%g", from, to)
	}
	return floats.Span(make([]float64, steps), from, to), nil
}

// Run evaluates base once per grid value. Evaluations run in parallel;
// the first error cancels the rest and is returned.
func Run(ctx context.Context, ev *design.Evaluator, base design.Input, opts Options) (*Series, error) {
	if _, err := ParseParameter(string(opts.Parameter)); err != nil {
		return nil, err
	}
	values, err := Grid(opts.From, opts.To, opts.Steps)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	points := make([]Point, len(values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, v := range values {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := ev.Evaluate(opts.Parameter.Apply(base, v))
			if err != nil {
				return fmt.Errorf("%s=%g: %w", opts.Parameter, v, err)
			}
			points[i] = Point{Value: v, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Series{Parameter: opts.Parameter, Points: points}, nil
}

// Values returns the parameter values
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Margins returns the margin of one mode at every point
func (s *Series) Margins(mode codes.Mode) []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		if mr, ok := p.Result.Mode(mode); ok {
			out[i] = mr.Margin
		}
	}
	return out
}

// GoverningMargins returns the governing margin at every point
func (s *Series) GoverningMargins() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Result.GoverningMargin
	}
	return out
}

// Threshold returns the pass threshold the series was evaluated against
func (s *Series) Threshold() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[0].Result.RequiredFoS
}
