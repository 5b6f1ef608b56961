// Package charts renders analytics results as PNG images.
package charts

import (
	"fmt"
	"strings"

	"github.com/quantfolio/quantfolio/internal/modules/optimization"
	"github.com/rs/zerolog"
	charts "github.com/vicanso/go-charts/v2"
)

// Service renders chart images from optimization results.
type Service struct {
	log zerolog.Logger
}

// NewService creates a new chart service.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "charts").Logger(),
	}
}

// RenderFrontier renders the efficient frontier as a PNG line chart with
// risk on the x-axis and expected return on the y-axis.
func (s *Service) RenderFrontier(frontier *optimization.Frontier) ([]byte, error) {
	if frontier == nil || len(frontier.Points) < 2 {
		return nil, fmt.Errorf("not enough frontier points to render")
	}

	xAxisData := make([]string, len(frontier.Points))
	returnsSeries := make([]float64, len(frontier.Points))
	yMin, yMax := frontier.Points[0].Return, frontier.Points[0].Return
	for i, p := range frontier.Points {
		xAxisData[i] = fmt.Sprintf("%.4f", p.Risk)
		returnsSeries[i] = p.Return
		if p.Return < yMin {
			yMin = p.Return
		}
		if p.Return > yMax {
			yMax = p.Return
		}
	}

	pad := (yMax - yMin) * 0.05
	yMin -= pad
	yMax += pad

	painter, err := charts.LineRender([][]float64{returnsSeries},
		charts.TitleTextOptionFunc("Efficient Frontier • "+strings.Join(frontier.Tickers, ", ")),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: xAxisData, BoundaryGap: charts.FalseFlag()}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render frontier chart: %w", err)
	}

	img, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode frontier chart: %w", err)
	}

	s.log.Debug().
		Str("run_id", frontier.RunID).
		Int("points", len(frontier.Points)).
		Int("bytes", len(img)).
		Msg("Rendered frontier chart")

	return img, nil
}
