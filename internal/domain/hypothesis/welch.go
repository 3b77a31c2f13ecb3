package hypothesis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Result is the outcome of a two-tailed Welch's t-test of A against B.
type Result struct {
	T  float64 // (mean A - mean B) / standard error
	P  float64 // two-tailed p-value
	DF float64 // Welch–Satterthwaite degrees of freedom

	MeanA, MeanB float64
	VarA, VarB   float64
	NA, NB       int
}

// WelchTTest compares the means of two independent samples without
// assuming equal variances. Swapping the samples negates T and leaves P
// and DF unchanged.
func WelchTTest(a, b []float64) (Result, error) {
	if len(a) < 2 || len(b) < 2 {
		return Result{}, fmt.Errorf("%w: got %d and %d", ErrInsufficientSample, len(a), len(b))
	}

	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)
	na, nb := float64(len(a)), float64(len(b))

	sa, sb := varA/na, varB/nb
	se2 := sa + sb
	if se2 == 0 {
		return Result{}, ErrZeroVariance
	}

	t := (meanA - meanB) / math.Sqrt(se2)
	df := se2 * se2 / (sa*sa/(na-1) + sb*sb/(nb-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := math.Min(1, 2*dist.Survival(math.Abs(t)))

	return Result{
		T:     t,
		P:     p,
		DF:    df,
		MeanA: meanA,
		MeanB: meanB,
		VarA:  varA,
		VarB:  varB,
		NA:    len(a),
		NB:    len(b),
	}, nil
}

// Decision is the verdict on the null hypothesis of equal means.
type Decision struct {
	Alpha      float64
	RejectNull bool
}

// Decide rejects the null hypothesis when P is below alpha.
func Decide(r Result, alpha float64) (Decision, error) {
	if !(alpha > 0 && alpha < 1) {
		return Decision{}, fmt.Errorf("%w: got %v", ErrInvalidAlpha, alpha)
	}
	return Decision{Alpha: alpha, RejectNull: r.P < alpha}, nil
}
