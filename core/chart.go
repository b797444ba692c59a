package core

import (
	"io"

	"github.com/pkg/errors"
)

type ChartKind string

const (
	ChartBar        ChartKind = "bar"
	ChartStackedBar ChartKind = "stackedbar"
	ChartLine       ChartKind = "line"
	ChartArea       ChartKind = "area"
	ChartPie        ChartKind = "pie"
)

var ErrInvalidChartData = errors.New("invalid chart data")

type (
	ChartSeries struct {
		Name   string    `json:"name"`
		Values []float64 `json:"values"`
		Color  string    `json:"color,omitempty"` // hex, e.g. #10B981
	}

	// ChartData is the shape every chart consumes: one value per category, for each series.
	ChartData struct {
		Categories []string      `json:"categories"`
		Series     []ChartSeries `json:"series"`
	}

	ChartSpec struct {
		Name  string    `json:"name"`
		Title string    `json:"title"`
		Kind  ChartKind `json:"kind"`
		Data  ChartData `json:"data"`
		Max   float64   `json:"max,omitempty"` // y-axis upper bound; 0 = auto
	}

	ChartOptions struct {
		Width  int
		Height int
		Dark   bool
	}

	// ChartRenderer is any chart drawing backend (see services/chart).
	ChartRenderer interface {
		Render(w io.Writer, spec ChartSpec, opts ChartOptions) error
	}
)

// Validate checks that every series carries exactly one value per category.
func (d ChartData) Validate() error {
	if len(d.Categories) == 0 {
		return errors.Wrap(ErrInvalidChartData, "no categories")
	}
	if len(d.Series) == 0 {
		return errors.Wrap(ErrInvalidChartData, "no series")
	}
	for _, s := range d.Series {
		if len(s.Values) != len(d.Categories) {
			return errors.Wrapf(ErrInvalidChartData, "series %q has %d values for %d categories", s.Name, len(s.Values), len(d.Categories))
		}
	}
	return nil
}
