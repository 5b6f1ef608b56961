package optimization

import (
	"fmt"

	"github.com/google/uuid"
)

// FrontierPoint is one solved portfolio on the efficient frontier.
type FrontierPoint struct {
	TargetReturn float64   `json:"target_return"`
	Return       float64   `json:"return"`
	Risk         float64   `json:"risk"`
	Weights      []float64 `json:"weights"`
}

// Frontier is a sampled efficient frontier. RunID identifies the sweep in
// logs and responses.
type Frontier struct {
	RunID   string          `json:"run_id"`
	Tickers []string        `json:"tickers"`
	Points  []FrontierPoint `json:"points"`
	Skipped int             `json:"skipped"`
}

// SampleFrontier solves the minimum-risk problem for numPoints target
// returns evenly spaced between the minimum and maximum single-asset mean
// return. Targets where the solve does not converge are skipped with a
// warning rather than aborting the sweep.
func (o *Optimizer) SampleFrontier(tickers []string, meanReturns []float64, covMatrix [][]float64, numPoints int) (*Frontier, error) {
	if numPoints <= 0 {
		numPoints = FrontierPoints
	}
	if len(meanReturns) == 0 {
		return nil, fmt.Errorf("no assets provided")
	}

	frontier := &Frontier{
		RunID:   uuid.NewString(),
		Tickers: tickers,
	}

	log := o.log.With().Str("run_id", frontier.RunID).Logger()
	log.Info().
		Int("num_assets", len(meanReturns)).
		Int("num_points", numPoints).
		Msg("Sampling efficient frontier")

	err := o.walkFrontier(meanReturns, covMatrix, numPoints, func(p FrontierPoint) {
		frontier.Points = append(frontier.Points, p)
	}, func(target float64, solveErr error) {
		frontier.Skipped++
		log.Warn().Err(solveErr).Float64("target_return", target).Msg("Skipping infeasible frontier point")
	})
	if err != nil {
		return nil, err
	}

	if len(frontier.Points) == 0 {
		return nil, fmt.Errorf("no frontier point converged")
	}

	log.Info().
		Int("points", len(frontier.Points)).
		Int("skipped", frontier.Skipped).
		Msg("Frontier sweep complete")

	return frontier, nil
}

// walkFrontier runs the sweep, invoking onPoint for each solved target and
// onSkip for each failed one. Shared by the batch and streaming paths.
func (o *Optimizer) walkFrontier(
	meanReturns []float64,
	covMatrix [][]float64,
	numPoints int,
	onPoint func(FrontierPoint),
	onSkip func(float64, error),
) error {
	minMu, maxMu := minMax(meanReturns)
	if numPoints == 1 {
		numPoints = 2
	}
	step := (maxMu - minMu) / float64(numPoints-1)

	for i := 0; i < numPoints; i++ {
		target := minMu + float64(i)*step
		result, err := o.MinimumRiskWeights(meanReturns, covMatrix, target)
		if err != nil {
			onSkip(target, err)
			continue
		}
		onPoint(FrontierPoint{
			TargetReturn: target,
			Return:       result.Return,
			Risk:         result.Risk,
			Weights:      result.Weights,
		})
	}

	return nil
}
