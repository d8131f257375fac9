package uncertain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSpec indicates a distribution specification that cannot be sampled.
var ErrInvalidSpec = errors.New("uncertain: invalid distribution spec")

type Kind string

const (
	KindPoint    Kind = "point"
	KindGaussian Kind = "gaussian"
	KindUniform  Kind = "uniform"
	KindGamma    Kind = "gamma"
)

// Spec describes how to obtain one uncertain input. Only the fields of its
// Kind are used.
type Spec struct {
	Kind   Kind    `yaml:"kind" json:"kind"`
	Value  float64 `yaml:"value,omitempty" json:"value,omitempty"`
	Mean   float64 `yaml:"mean,omitempty" json:"mean,omitempty"`
	StdDev float64 `yaml:"stddev,omitempty" json:"stddev,omitempty"`
	Low    float64 `yaml:"low,omitempty" json:"low,omitempty"`
	High   float64 `yaml:"high,omitempty" json:"high,omitempty"`
	Shape  float64 `yaml:"shape,omitempty" json:"shape,omitempty"`
	Scale  float64 `yaml:"scale,omitempty" json:"scale,omitempty"`
}

func PointSpec(x float64) Spec { return Spec{Kind: KindPoint, Value: x} }

func Gaussian(mean, stddev float64) Spec {
	return Spec{Kind: KindGaussian, Mean: mean, StdDev: stddev}
}

func Uniform(low, high float64) Spec {
	return Spec{Kind: KindUniform, Low: low, High: high}
}

// Gamma uses the shape/scale parameterisation; its mean is shape*scale.
func Gamma(shape, scale float64) Spec {
	return Spec{Kind: KindGamma, Shape: shape, Scale: scale}
}

// IsPoint reports whether sampling s yields a point value.
func (s Spec) IsPoint() bool {
	return s.Kind == KindPoint || s.Kind == "" || (s.Kind == KindGaussian && s.StdDev == 0)
}

func (s Spec) Validate() error {
	finite := func(xs ...float64) bool {
		for _, x := range xs {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return false
			}
		}
		return true
	}

	switch s.Kind {
	case KindPoint, "":
		if !finite(s.Value) {
			return fmt.Errorf("%w: point value %v", ErrInvalidSpec, s.Value)
		}
	case KindGaussian:
		if !finite(s.Mean, s.StdDev) || s.StdDev < 0 {
			return fmt.Errorf("%w: gaussian(%v, %v) needs a finite mean and stddev >= 0", ErrInvalidSpec, s.Mean, s.StdDev)
		}
	case KindUniform:
		if !finite(s.Low, s.High) || s.High <= s.Low {
			return fmt.Errorf("%w: uniform(%v, %v) needs low < high", ErrInvalidSpec, s.Low, s.High)
		}
	case KindGamma:
		if !finite(s.Shape, s.Scale) || s.Shape <= 0 || s.Scale <= 0 {
			return fmt.Errorf("%w: gamma(%v, %v) needs shape > 0 and scale > 0", ErrInvalidSpec, s.Shape, s.Scale)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidSpec, s.Kind)
	}
	return nil
}

// Expected is the mean of the described distribution.
func (s Spec) Expected() float64 {
	switch s.Kind {
	case KindGaussian:
		return s.Mean
	case KindUniform:
		return (s.Low + s.High) / 2
	case KindGamma:
		return s.Shape * s.Scale
	default:
		return s.Value
	}
}

func (s Spec) String() string {
	switch s.Kind {
	case KindGaussian:
		return fmt.Sprintf("gaussian(%g,%g)", s.Mean, s.StdDev)
	case KindUniform:
		return fmt.Sprintf("uniform(%g,%g)", s.Low, s.High)
	case KindGamma:
		return fmt.Sprintf("gamma(%g,%g)", s.Shape, s.Scale)
	default:
		return strconv.FormatFloat(s.Value, 'g', -1, 64)
	}
}

// ParseSpec parses the textual forms accepted on the command line:
//
//	0.025
//	gaussian(0.75,0.01)   normal(...) and gauss(...) are aliases
//	uniform(0.1,0.2)
//	gamma(900,0.000333)
func ParseSpec(text string) (Spec, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Spec{}, fmt.Errorf("%w: empty", ErrInvalidSpec)
	}

	open := strings.IndexByte(text, '(')
	if open < 0 {
		x, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %q is not a number", ErrInvalidSpec, text)
		}
		spec := PointSpec(x)
		return spec, spec.Validate()
	}
	if !strings.HasSuffix(text, ")") {
		return Spec{}, fmt.Errorf("%w: %q is missing ')'", ErrInvalidSpec, text)
	}

	name := strings.ToLower(strings.TrimSpace(text[:open]))
	fields := strings.Split(text[open+1:len(text)-1], ",")
	args := make([]float64, 0, len(fields))
	for _, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Spec{}, fmt.Errorf("%w: bad argument %q in %q", ErrInvalidSpec, f, text)
		}
		args = append(args, x)
	}

	var spec Spec
	switch name {
	case "point":
		if len(args) != 1 {
			return Spec{}, fmt.Errorf("%w: point takes 1 argument", ErrInvalidSpec)
		}
		spec = PointSpec(args[0])
	case "gaussian", "normal", "gauss":
		if len(args) != 2 {
			return Spec{}, fmt.Errorf("%w: %s takes 2 arguments (mean, stddev)", ErrInvalidSpec, name)
		}
		spec = Gaussian(args[0], args[1])
	case "uniform":
		if len(args) != 2 {
			return Spec{}, fmt.Errorf("%w: uniform takes 2 arguments (low, high)", ErrInvalidSpec)
		}
		spec = Uniform(args[0], args[1])
	case "gamma":
		if len(args) != 2 {
			return Spec{}, fmt.Errorf("%w: gamma takes 2 arguments (shape, scale)", ErrInvalidSpec)
		}
		spec = Gamma(args[0], args[1])
	default:
		return Spec{}, fmt.Errorf("%w: unknown distribution %q", ErrInvalidSpec, name)
	}
	return spec, spec.Validate()
}

// UnmarshalYAML accepts a bare number, a string in ParseSpec form, or a
// mapping with explicit fields.
func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		spec, err := ParseSpec(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*s = spec
		return nil
	}

	type plain Spec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = Spec(p)
	if s.Kind == "" {
		s.Kind = KindPoint
	}
	s.Kind = Kind(strings.ToLower(string(s.Kind)))
	if s.Kind == "normal" || s.Kind == "gauss" {
		s.Kind = KindGaussian
	}
	return nil
}
