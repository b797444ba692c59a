package chartsvc

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/trezcool/rollcall/core"
)

const (
	minWidth  = 160
	minHeight = 120
)

type theme struct {
	background drawing.Color
	canvas     drawing.Color
	font       drawing.Color
	grid       drawing.Color
}

var (
	lightTheme = theme{
		background: hexColor("#FFFFFF"),
		canvas:     hexColor("#FFFFFF"),
		font:       hexColor("#374151"),
		grid:       hexColor("#E5E7EB"),
	}
	darkTheme = theme{
		background: hexColor("#1F2937"),
		canvas:     hexColor("#1F2937"),
		font:       hexColor("#E5E7EB"),
		grid:       hexColor("#4B5563"),
	}
	fallbackColor = hexColor("#6B7280")
)

// goChartRenderer draws charts as SVG with go-chart.
type goChartRenderer struct{}

var _ core.ChartRenderer = (*goChartRenderer)(nil)

func NewGoChartRenderer() core.ChartRenderer {
	return &goChartRenderer{}
}

func (r *goChartRenderer) Render(w io.Writer, spec core.ChartSpec, opts core.ChartOptions) error {
	if err := spec.Data.Validate(); err != nil {
		return err
	}
	if opts.Width < minWidth {
		opts.Width = minWidth
	}
	if opts.Height < minHeight {
		opts.Height = minHeight
	}
	th := lightTheme
	if opts.Dark {
		th = darkTheme
	}

	var err error
	switch spec.Kind {
	case core.ChartBar, core.ChartStackedBar:
		err = r.stackedBar(spec, opts, th).Render(chart.SVG, w)
	case core.ChartLine, core.ChartArea:
		ch := r.series(spec, opts, th)
		err = ch.Render(chart.SVG, w)
	case core.ChartPie:
		err = r.pie(spec, opts, th).Render(chart.SVG, w)
	default:
		return errors.Errorf("unsupported chart kind %q", spec.Kind)
	}
	return errors.Wrapf(err, "rendering %s chart %q", spec.Kind, spec.Name)
}

func (r *goChartRenderer) stackedBar(spec core.ChartSpec, opts core.ChartOptions, th theme) chart.StackedBarChart {
	data := spec.Data
	bars := make([]chart.StackedBar, 0, len(data.Categories))
	for i, cat := range data.Categories {
		values := make([]chart.Value, 0, len(data.Series))
		for _, s := range data.Series {
			values = append(values, chart.Value{
				Label: s.Name,
				Value: s.Values[i],
				Style: chart.Style{
					FillColor:   seriesColor(s),
					StrokeColor: seriesColor(s),
					FontColor:   th.font,
				},
			})
		}
		bars = append(bars, chart.StackedBar{Name: cat, Values: values})
	}

	return chart.StackedBarChart{
		Title:      spec.Title,
		TitleStyle: chart.Style{FontColor: th.font},
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{FillColor: th.background, Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		Canvas:     chart.Style{FillColor: th.canvas},
		XAxis:      chart.Style{FontColor: th.font, StrokeColor: th.grid},
		YAxis:      chart.Style{FontColor: th.font, StrokeColor: th.grid},
		BarSpacing: 20,
		Bars:       bars,
	}
}

func (r *goChartRenderer) series(spec core.ChartSpec, opts core.ChartOptions, th theme) *chart.Chart {
	data := spec.Data
	xValues := make([]float64, len(data.Categories))
	ticks := make([]chart.Tick, len(data.Categories))
	for i, cat := range data.Categories {
		xValues[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: cat}
	}

	series := make([]chart.Series, 0, len(data.Series))
	for _, s := range data.Series {
		style := chart.Style{StrokeColor: seriesColor(s), StrokeWidth: 2, DotColor: seriesColor(s), DotWidth: 3}
		if spec.Kind == core.ChartArea {
			style.FillColor = seriesColor(s).WithAlpha(64)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			Style:   style,
			XValues: xValues,
			YValues: s.Values,
		})
	}

	ch := &chart.Chart{
		Title:      spec.Title,
		TitleStyle: chart.Style{FontColor: th.font},
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{FillColor: th.background, Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		Canvas:     chart.Style{FillColor: th.canvas},
		XAxis: chart.XAxis{
			Style: chart.Style{FontColor: th.font, StrokeColor: th.grid},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontColor: th.font, StrokeColor: th.grid},
			ValueFormatter: percentFormatter,
		},
		Series: series,
	}
	if spec.Max > 0 {
		ch.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: spec.Max}
	}
	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(ch, chart.Style{FontColor: th.font, FillColor: th.background})}
	}
	return ch
}

// pie draws one slice per series, from its first value.
func (r *goChartRenderer) pie(spec core.ChartSpec, opts core.ChartOptions, th theme) chart.PieChart {
	values := make([]chart.Value, 0, len(spec.Data.Series))
	for _, s := range spec.Data.Series {
		values = append(values, chart.Value{
			Label: s.Name,
			Value: s.Values[0],
			Style: chart.Style{FillColor: seriesColor(s), StrokeColor: th.background, FontColor: th.font},
		})
	}

	return chart.PieChart{
		Title:      spec.Title,
		TitleStyle: chart.Style{FontColor: th.font},
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{FillColor: th.background},
		Canvas:     chart.Style{FillColor: th.canvas},
		Values:     values,
	}
}

func percentFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return chart.FloatValueFormatterWithFormat(f, "%.0f%%")
	}
	return ""
}

func seriesColor(s core.ChartSeries) drawing.Color {
	if s.Color == "" {
		return fallbackColor
	}
	return hexColor(s.Color)
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
