package dashboard

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/rollcall/core"
	"github.com/trezcool/rollcall/core/attendance"
)

type ChartName string

const (
	ChartWeekly       ChartName = "weekly"
	ChartMonthly      ChartName = "monthly"
	ChartOverview     ChartName = "overview"
	ChartDistribution ChartName = "distribution"
	ChartTrend        ChartName = "trend"
)

var (
	ErrUnknownChart = errors.New("unknown chart")

	AllCharts = []ChartName{ChartWeekly, ChartMonthly, ChartOverview, ChartDistribution, ChartTrend}
)

func ParseChartName(s string) (ChartName, error) {
	n := ChartName(core.CleanString(s, true /* lower */))
	for _, name := range AllCharts {
		if n == name {
			return n, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownChart, "%q", s)
}

// Periods lists the periods a chart can show; nil when it has a single one.
func (n ChartName) Periods() []string {
	switch n {
	case ChartWeekly:
		return attendance.WeeklyPeriods
	case ChartMonthly:
		return attendance.MonthlyPeriods
	}
	return nil
}

// ChartSpec builds the spec of chart `name` from the seed history.
func ChartSpec(h attendance.History, name ChartName, period string) (core.ChartSpec, error) {
	spec := core.ChartSpec{Name: string(name)}
	var err error

	switch name {
	case ChartWeekly:
		spec.Title, spec.Kind, spec.Max = "Weekly Attendance", core.ChartBar, 100
		spec.Data, err = h.WeeklyData(period)
	case ChartMonthly:
		spec.Title, spec.Kind, spec.Max = "Monthly Attendance", core.ChartLine, 100
		spec.Data, err = h.MonthlyData(period)
	case ChartOverview:
		spec.Title, spec.Kind, spec.Max = "Attendance Overview", core.ChartStackedBar, 100
		spec.Data = h.OverviewData()
	case ChartDistribution:
		spec.Title, spec.Kind = "Attendance Distribution", core.ChartPie
		spec.Data = h.DistributionData()
	case ChartTrend:
		spec.Title, spec.Kind, spec.Max = "Attendance Trend", core.ChartArea, 100
		spec.Data = h.TrendData()
	default:
		return core.ChartSpec{}, errors.Wrapf(ErrUnknownChart, "%q", name)
	}
	if err != nil {
		return core.ChartSpec{}, err
	}
	if err = spec.Data.Validate(); err != nil {
		return core.ChartSpec{}, errors.Wrapf(err, "chart %s", name)
	}
	return spec, nil
}

// Resize sets the size every chart is drawn at. Non-positive dimensions are ignored.
func (d *Dashboard) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if width > 0 {
		d.chartWidth = width
	}
	if height > 0 {
		d.chartHeight = height
	}
}

// ChartSize returns the current chart size.
func (d *Dashboard) ChartSize() (width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.chartWidth, d.chartHeight
}

func (d *Dashboard) ChartSpec(name ChartName, period string) (core.ChartSpec, error) {
	return ChartSpec(d.history, name, period)
}

// RenderChart draws chart `name` at the current size, with the dark palette when dark mode is on.
func (d *Dashboard) RenderChart(_ context.Context, w io.Writer, name ChartName, period string) error {
	spec, err := ChartSpec(d.history, name, period)
	if err != nil {
		return err
	}

	d.mu.Lock()
	opts := core.ChartOptions{Width: d.chartWidth, Height: d.chartHeight, Dark: d.dark}
	d.mu.Unlock()

	if err = d.charts.Render(w, spec, opts); err != nil {
		return errors.Wrapf(err, "rendering chart %s", name)
	}
	return nil
}
