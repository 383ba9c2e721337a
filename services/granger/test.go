package granger

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/edu-bd/StockVisualizer/models"
)

// minVariance is the threshold below which a return series is treated
// as constant; regressing on it would be meaningless.
const minVariance = 1e-12

// RunTest tests whether x Granger-causes y over lag orders
// 1..maxLag. For each lag it fits a restricted autoregression (y on
// its own lags) and an unrestricted one (plus x's lags) and compares
// residual sums of squares with an F-test.
//
// Failures that invalidate the whole batch (too few observations,
// degenerate series, a fit that cannot be solved) come back as a
// result with Error set and the default no-causality verdict.
func RunTest(x, y []float64, maxLag int, significance float64) models.CausalityTestResult {
	if err := checkInputs(x, y, maxLag); err != nil {
		return failedResult(err)
	}

	lags := make([]models.PerLagResult, 0, maxLag)
	pValues := make([]float64, 0, maxLag)
	significant := []int{}

	for lag := 1; lag <= maxLag; lag++ {
		fValue, pValue, err := lagFTest(x, y, lag)
		if err != nil {
			return failedResult(fmt.Errorf("lag %d: %w", lag, err))
		}
		isSignificant := pValue < significance
		lags = append(lags, models.PerLagResult{
			Lag:           lag,
			FValue:        fValue,
			PValue:        pValue,
			IsSignificant: isSignificant,
		})
		pValues = append(pValues, pValue)
		if isSignificant {
			significant = append(significant, lag)
		}
	}

	minP, err := stats.Min(pValues)
	if err != nil {
		return failedResult(fmt.Errorf("no p-values computed: %w", err))
	}

	return models.CausalityTestResult{
		Lags: lags,
		Conclusion: models.CausalityVerdict{
			HasCausality:    len(significant) > 0,
			SignificantLags: significant,
			MinPValue:       &minP,
		},
	}
}

func failedResult(err error) models.CausalityTestResult {
	return models.CausalityTestResult{
		Conclusion: models.CausalityVerdict{SignificantLags: []int{}},
		Error:      err.Error(),
	}
}

func checkInputs(x, y []float64, maxLag int) error {
	if maxLag < 1 {
		return fmt.Errorf("max lag must be at least 1, got %d", maxLag)
	}
	if len(x) != len(y) {
		return fmt.Errorf("series lengths differ: %d vs %d", len(x), len(y))
	}
	// Same bound statsmodels enforces for a lagged regression with
	// constant term.
	if len(y) <= 3*maxLag+1 {
		return fmt.Errorf("insufficient observations: have %d, need more than %d for max lag %d",
			len(y), 3*maxLag+1, maxLag)
	}
	for name, series := range map[string][]float64{"x": x, "y": y} {
		variance, err := stats.Variance(series)
		if err != nil {
			return fmt.Errorf("variance of %s: %w", name, err)
		}
		if variance < minVariance {
			return fmt.Errorf("series %s is constant, cannot fit regression", name)
		}
	}
	return nil
}

// lagFTest runs the restricted/unrestricted comparison for one lag
// order and returns the F statistic and its p-value.
func lagFTest(x, y []float64, lag int) (float64, float64, error) {
	n := len(y)
	m := n - lag
	dfDenom := m - 2*lag - 1
	if dfDenom <= 0 {
		return 0, 0, fmt.Errorf("insufficient observations for %d lags", lag)
	}

	dep := mat.NewVecDense(m, nil)
	restricted := mat.NewDense(m, lag+1, nil)
	unrestricted := mat.NewDense(m, 2*lag+1, nil)
	for t := 0; t < m; t++ {
		dep.SetVec(t, y[lag+t])
		restricted.Set(t, 0, 1)
		unrestricted.Set(t, 0, 1)
		for j := 1; j <= lag; j++ {
			yLag := y[lag+t-j]
			restricted.Set(t, j, yLag)
			unrestricted.Set(t, j, yLag)
			unrestricted.Set(t, lag+j, x[lag+t-j])
		}
	}

	rssRestricted, err := residualSumOfSquares(restricted, dep)
	if err != nil {
		return 0, 0, err
	}
	rssUnrestricted, err := residualSumOfSquares(unrestricted, dep)
	if err != nil {
		return 0, 0, err
	}
	if rssUnrestricted <= 0 {
		return 0, 0, fmt.Errorf("unrestricted fit has zero residual variance")
	}

	fValue := ((rssRestricted - rssUnrestricted) / float64(lag)) / (rssUnrestricted / float64(dfDenom))
	if fValue < 0 {
		// Numerically the unrestricted RSS can exceed the restricted
		// one by a rounding hair; the statistic is zero then.
		fValue = 0
	}

	dist := distuv.F{D1: float64(lag), D2: float64(dfDenom)}
	return fValue, dist.Survival(fValue), nil
}

// residualSumOfSquares fits OLS by least squares and returns the RSS.
func residualSumOfSquares(design *mat.Dense, dep *mat.VecDense) (float64, error) {
	var beta mat.VecDense
	if err := beta.SolveVec(design, dep); err != nil {
		// A Condition error flags an ill-conditioned system but still
		// carries a usable solution.
		if _, ok := err.(mat.Condition); !ok {
			return 0, fmt.Errorf("least squares fit failed: %w", err)
		}
	}

	rows, _ := design.Dims()
	fitted := mat.NewVecDense(rows, nil)
	fitted.MulVec(design, &beta)

	rss := 0.0
	for i := 0; i < rows; i++ {
		r := dep.AtVec(i) - fitted.AtVec(i)
		rss += r * r
	}
	return rss, nil
}
