// Package optimization solves the mean-variance efficient-frontier problem:
// minimum-risk weights for a target return under full-investment and box
// constraints.
package optimization

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// FrontierPoints is the default number of target returns sampled when
// sweeping the frontier.
const FrontierPoints = 100

// Optimizer performs mean-variance portfolio optimization.
//
// Mathematical formulation:
//
//	minimize   sqrt(w'Σw)
//	subject to μ'w = target_return
//	           Σw  = 1
//	           0 ≤ w_i ≤ 1
//
// Solved with a penalty method: box constraints by projection, equality
// constraints as quadratic penalties on the objective.
type Optimizer struct {
	log zerolog.Logger
}

// NewOptimizer creates a new mean-variance optimizer.
func NewOptimizer(log zerolog.Logger) *Optimizer {
	return &Optimizer{log: log.With().Str("component", "optimizer").Logger()}
}

// Result is a solved portfolio.
type Result struct {
	Weights []float64 `json:"weights"`
	Return  float64   `json:"return"`
	Risk    float64   `json:"risk"` // portfolio standard deviation
}

// successStatuses are the optimize statuses accepted as convergence.
var successStatuses = map[optimize.Status]bool{
	optimize.Success:             true,
	optimize.GradientThreshold:   true,
	optimize.FunctionConvergence: true,
}

// MinimumRiskWeights solves for the minimum-variance weights achieving
// targetReturn. Starts from equal weights; retries with a second method
// when the first does not converge.
func (o *Optimizer) MinimumRiskWeights(meanReturns []float64, covMatrix [][]float64, targetReturn float64) (*Result, error) {
	n := len(meanReturns)
	if n == 0 {
		return nil, fmt.Errorf("no assets provided")
	}
	if len(covMatrix) != n {
		return nil, fmt.Errorf("covariance matrix size %d doesn't match %d assets", len(covMatrix), n)
	}
	for i := range covMatrix {
		if len(covMatrix[i]) != n {
			return nil, fmt.Errorf("covariance matrix row %d has size %d, expected %d", i, len(covMatrix[i]), n)
		}
	}

	minMu, maxMu := minMax(meanReturns)
	if targetReturn < minMu-1e-9 || targetReturn > maxMu+1e-9 {
		return nil, fmt.Errorf("target return %.6f outside achievable range [%.6f, %.6f]", targetReturn, minMu, maxMu)
	}

	sigma := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sigma.Set(i, j, covMatrix[i][j])
		}
	}

	const penaltyWeight = 1000.0

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			xProj := projectToBox(x)

			var variance float64
			var portfolioReturn float64
			for i := 0; i < n; i++ {
				portfolioReturn += meanReturns[i] * xProj[i]
				for j := 0; j < n; j++ {
					variance += xProj[i] * xProj[j] * sigma.At(i, j)
				}
			}

			sum := 0.0
			for i := 0; i < n; i++ {
				sum += xProj[i]
			}

			obj := variance
			obj += penaltyWeight * (sum - 1.0) * (sum - 1.0)
			obj += penaltyWeight * (portfolioReturn - targetReturn) * (portfolioReturn - targetReturn)
			return obj
		},
		Grad: func(grad, x []float64) {
			xProj := projectToBox(x)

			var portfolioReturn float64
			sum := 0.0
			for i := 0; i < n; i++ {
				portfolioReturn += meanReturns[i] * xProj[i]
				sum += xProj[i]
			}

			for i := 0; i < n; i++ {
				grad[i] = 0
				for j := 0; j < n; j++ {
					grad[i] += 2 * sigma.At(i, j) * xProj[j]
				}
				grad[i] += 2 * penaltyWeight * (sum - 1.0)
				grad[i] += 2 * penaltyWeight * (portfolioReturn - targetReturn) * meanReturns[i]
			}
		},
	}

	initial := make([]float64, n)
	for i := range initial {
		initial[i] = 1.0 / float64(n)
	}

	result, err := optimize.Minimize(problem, initial, &optimize.Settings{}, &optimize.BFGS{})
	if err != nil || !successStatuses[result.Status] {
		result, err = optimize.Minimize(problem, initial, &optimize.Settings{}, &optimize.NelderMead{})
		if err != nil {
			return nil, fmt.Errorf("optimization failed: %w", err)
		}
		if !successStatuses[result.Status] {
			return nil, fmt.Errorf("optimization did not converge: status=%v", result.Status)
		}
	}

	// Project the final iterate to the box and normalize to full investment.
	weights := projectToBox(result.X)
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return nil, fmt.Errorf("optimization produced degenerate weights")
	}
	for i := range weights {
		weights[i] /= sum
	}

	achieved, risk := PortfolioPerformance(weights, meanReturns, covMatrix)
	return &Result{Weights: weights, Return: achieved, Risk: risk}, nil
}

// PortfolioPerformance returns the expected return μ'w and standard
// deviation sqrt(w'Σw) of a weights vector.
func PortfolioPerformance(weights, meanReturns []float64, covMatrix [][]float64) (portfolioReturn, portfolioStdDev float64) {
	for i, w := range weights {
		portfolioReturn += w * meanReturns[i]
	}

	var variance float64
	for i := range weights {
		for j := range weights {
			variance += weights[i] * weights[j] * covMatrix[i][j]
		}
	}
	return portfolioReturn, math.Sqrt(math.Max(variance, 0))
}

// projectToBox clamps each weight to [0, 1].
func projectToBox(x []float64) []float64 {
	proj := make([]float64, len(x))
	for i := range x {
		proj[i] = math.Max(0, math.Min(1, x[i]))
	}
	return proj
}

func minMax(values []float64) (minV, maxV float64) {
	minV, maxV = values[0], values[0]
	for _, v := range values[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	return minV, maxV
}
