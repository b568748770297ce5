package cpf

import (
	"fmt"
	"strconv"
	"strings"
)

// StopMode names the kind of stopping rule for a trace.
type StopMode int

const (
	// StopNose stops as soon as lambda decreases (the nose has been passed).
	StopNose StopMode = iota
	// StopFull stops once lambda returns to zero on the lower branch.
	StopFull
	// StopLambda stops at a numeric lambda target.
	StopLambda
)

// StopAt is the stop target of a continuation run. Lambda is only meaningful
// when Mode is StopLambda.
type StopAt struct {
	Mode   StopMode
	Lambda float64
}

// ParseStopAt accepts "NOSE", "FULL" (case-insensitive) or a numeric lambda.
func ParseStopAt(s string) (StopAt, error) {
	switch strings.ToUpper(s) {
	case "NOSE":
		return StopAt{Mode: StopNose}, nil
	case "FULL":
		return StopAt{Mode: StopFull}, nil
	}
	lam, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return StopAt{}, fmt.Errorf("%w: %q", ErrBadStopAt, s)
	}
	return StopAt{Mode: StopLambda, Lambda: lam}, nil
}

func (s StopAt) String() string {
	switch s.Mode {
	case StopNose:
		return "NOSE"
	case StopFull:
		return "FULL"
	default:
		return strconv.FormatFloat(s.Lambda, 'g', -1, 64)
	}
}

// Options configures a continuation run.
type Options struct {
	Step             float64          // initial continuation step length
	Parameterization Parameterization // predictor/corrector constraint scheme
	AdaptStep        bool             // adapt step size to the prediction error
	StepMin          float64          // adaptive step lower bound
	StepMax          float64          // adaptive step upper bound
	ErrorTol         float64          // adaptive step target prediction error
	Tol              float64          // corrector convergence tolerance
	MaxIt            int              // corrector iteration cap
	StopAt           StopAt           // stopping rule
}

func DefaultOptions() Options {
	return Options{
		Step:             0.05,
		Parameterization: PseudoArcLength,
		AdaptStep:        false,
		StepMin:          1e-4,
		StepMax:          0.2,
		ErrorTol:         1e-3,
		Tol:              1e-6,
		MaxIt:            20,
		StopAt:           StopAt{Mode: StopNose},
	}
}

func (o Options) validate() error {
	if o.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %g", ErrBadOptions, o.Step)
	}
	switch o.Parameterization {
	case Natural, ArcLength, PseudoArcLength:
	default:
		return fmt.Errorf("%w: %v", ErrBadOptions, ErrBadParameterization)
	}
	if o.AdaptStep {
		if o.StepMin <= 0 || o.StepMax < o.StepMin {
			return fmt.Errorf("%w: need 0 < step_min <= step_max, got [%g, %g]", ErrBadOptions, o.StepMin, o.StepMax)
		}
		if o.ErrorTol <= 0 {
			return fmt.Errorf("%w: error_tol must be positive, got %g", ErrBadOptions, o.ErrorTol)
		}
	}
	if o.Tol <= 0 {
		return fmt.Errorf("%w: tol must be positive, got %g", ErrBadOptions, o.Tol)
	}
	if o.MaxIt <= 0 {
		return fmt.Errorf("%w: max_it must be positive, got %d", ErrBadOptions, o.MaxIt)
	}
	return nil
}
