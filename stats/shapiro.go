package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrTooFewObservations is returned by ShapiroWilk for samples under three values.
var ErrTooFewObservations = errors.New("data must be at least length 3")

// Shapiro-Wilk warnings.
const (
	WarnRangeZero = "input data has range zero; the results may not be accurate"
	WarnLargeN    = "p-value may not be accurate for N > 5000"
)

// Polynomial coefficients for the Royston (1995) approximation.
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

// ShapiroResult represents the result of a Shapiro-Wilk normality test.
// H0: the sample was drawn from a normal distribution.
type ShapiroResult struct {
	Statistic float64
	PValue    float64
	N         int
	Warnings  []string
}

// IsNormal reports whether H0 is retained at significance level alpha.
func (r *ShapiroResult) IsNormal(alpha float64) bool {
	return r.PValue > alpha
}

// ShapiroWilk performs the Shapiro-Wilk test for normality using Royston's
// algorithm (AS R94). The input must not contain NaN.
func ShapiroWilk(values []float64) (*ShapiroResult, error) {
	n := len(values)
	if n < 3 {
		return nil, fmt.Errorf("shapiro: %w, got %d", ErrTooFewObservations, n)
	}

	x := make([]float64, n)
	copy(x, values)
	for _, v := range x {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("shapiro: %w", ErrMissingValues)
		}
	}
	sort.Float64s(x)

	result := &ShapiroResult{N: n}
	if n > 5000 {
		result.Warnings = append(result.Warnings, WarnLargeN)
	}

	rng := x[n-1] - x[0]
	if rng < 1e-19 {
		result.Statistic = 1
		result.PValue = 1
		result.Warnings = append(result.Warnings, WarnRangeZero)
		return result, nil
	}

	coef := shapiroCoefficients(n)

	// W is the squared correlation between the ordered sample and the coefficients.
	sa, sx := 0.0, 0.0
	for i := range x {
		sa += coef[i]
		sx += x[i] / rng
	}
	sa /= float64(n)
	sx /= float64(n)

	ssa, ssx, sax := 0.0, 0.0, 0.0
	for i := range x {
		asa := coef[i] - sa
		xsx := x[i]/rng - sx
		ssa += asa * asa
		ssx += xsx * xsx
		sax += asa * xsx
	}
	ssassx := math.Sqrt(ssa * ssx)
	w1 := (ssassx - sax) * (ssassx + sax) / (ssa * ssx)
	w := 1 - w1

	result.Statistic = w
	result.PValue = shapiroPValue(w, w1, n)
	return result, nil
}

// shapiroCoefficients returns the antisymmetric weights for every order
// statistic, negative in the lower half.
func shapiroCoefficients(n int) []float64 {
	half := n / 2
	a := make([]float64, half+1) // 1-based

	if n == 3 {
		a[1] = math.Sqrt(0.5)
	} else {
		an25 := float64(n) + 0.25
		m := make([]float64, half+1)
		summ2 := 0.0
		for i := 1; i <= half; i++ {
			m[i] = distuv.UnitNormal.Quantile((float64(i) - 0.375) / an25)
			summ2 += m[i] * m[i]
		}
		summ2 *= 2
		ssumm2 := math.Sqrt(summ2)
		rsn := 1 / math.Sqrt(float64(n))
		a1 := poly(swC1, rsn) - m[1]/ssumm2

		var i1 int
		var fac float64
		if n > 5 {
			i1 = 3
			a2 := -m[2]/ssumm2 + poly(swC2, rsn)
			fac = math.Sqrt((summ2 - 2*m[1]*m[1] - 2*m[2]*m[2]) /
				(1 - 2*a1*a1 - 2*a2*a2))
			a[2] = a2
		} else {
			i1 = 2
			fac = math.Sqrt((summ2 - 2*m[1]*m[1]) / (1 - 2*a1*a1))
		}
		a[1] = a1
		for i := i1; i <= half; i++ {
			a[i] = -m[i] / fac
		}
	}

	coef := make([]float64, n)
	for i := 1; i <= half; i++ {
		coef[i-1] = -a[i]
		coef[n-i] = a[i]
	}
	return coef
}

func shapiroPValue(w, w1 float64, n int) float64 {
	if n == 3 {
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Pi/3)
		return math.Max(p, 0)
	}

	an := float64(n)
	y := math.Log(w1)
	var m, s float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			return 1e-99
		}
		y = -math.Log(gamma - y)
		m = poly(swC3, an)
		s = math.Exp(poly(swC4, an))
	} else {
		xx := math.Log(an)
		m = poly(swC5, xx)
		s = math.Exp(poly(swC6, xx))
	}
	return distuv.Normal{Mu: m, Sigma: s}.Survival(y)
}

// poly evaluates c[0] + c[1]*x + c[2]*x^2 + ...
func poly(c []float64, x float64) float64 {
	result := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		result = result*x + c[i]
	}
	return result
}
