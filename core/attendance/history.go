package attendance

import (
	"github.com/pkg/errors"

	"github.com/trezcool/rollcall/core"
)

// chart periods
const (
	PeriodCurrent  = "current"
	PeriodLast     = "last"
	PeriodTwoWeeks = "twoweeks"
)

var (
	WeeklyPeriods  = []string{PeriodCurrent, PeriodLast, PeriodTwoWeeks}
	MonthlyPeriods = []string{PeriodCurrent, PeriodLast}

	ErrUnknownPeriod = errors.New("unknown period")
)

type (
	// Breakdown holds per-category attendance percentages.
	Breakdown struct {
		Categories []string  `mapstructure:"categories" json:"categories"`
		Present    []float64 `mapstructure:"present" json:"present"`
		Absent     []float64 `mapstructure:"absent" json:"absent"`
		Late       []float64 `mapstructure:"late" json:"late"`
	}

	Distribution struct {
		Present float64 `mapstructure:"present" json:"present"`
		Absent  float64 `mapstructure:"absent" json:"absent"`
		Late    float64 `mapstructure:"late" json:"late"`
	}

	Trend struct {
		Categories []string  `mapstructure:"categories" json:"categories"`
		Values     []float64 `mapstructure:"values" json:"values"`
	}

	Palette struct {
		Present string `mapstructure:"present" json:"present"`
		Absent  string `mapstructure:"absent" json:"absent"`
		Late    string `mapstructure:"late" json:"late"`
		Trend   string `mapstructure:"trend" json:"trend"`
	}

	// History is the static attendance history shown by the charts.
	// It is seed data: status changes on the roster do not affect it.
	History struct {
		Weekly       map[string]Breakdown `mapstructure:"weekly" json:"weekly"`
		Monthly      map[string]Breakdown `mapstructure:"monthly" json:"monthly"`
		Overview     Breakdown            `mapstructure:"overview" json:"overview"`
		Distribution Distribution         `mapstructure:"distribution" json:"distribution"`
		Trend        Trend                `mapstructure:"trend" json:"trend"`
		Colors       Palette              `mapstructure:"colors" json:"colors"`
	}
)

var defaultPalette = Palette{Present: "#10B981", Absent: "#EF4444", Late: "#F59E0B", Trend: "#4F46E5"}

func (p Palette) withDefaults() Palette {
	if p.Present == "" {
		p.Present = defaultPalette.Present
	}
	if p.Absent == "" {
		p.Absent = defaultPalette.Absent
	}
	if p.Late == "" {
		p.Late = defaultPalette.Late
	}
	if p.Trend == "" {
		p.Trend = defaultPalette.Trend
	}
	return p
}

// ChartData feeds a breakdown to a chart: one series per status.
func (b Breakdown) ChartData(p Palette) core.ChartData {
	p = p.withDefaults()
	return core.ChartData{
		Categories: b.Categories,
		Series: []core.ChartSeries{
			{Name: StatusPresent.Label(), Values: b.Present, Color: p.Present},
			{Name: StatusAbsent.Label(), Values: b.Absent, Color: p.Absent},
			{Name: StatusLate.Label(), Values: b.Late, Color: p.Late},
		},
	}
}

// ChartData has a single category: each status is one slice of the pie.
func (d Distribution) ChartData(p Palette) core.ChartData {
	p = p.withDefaults()
	return core.ChartData{
		Categories: []string{"Distribution"},
		Series: []core.ChartSeries{
			{Name: StatusPresent.Label(), Values: []float64{d.Present}, Color: p.Present},
			{Name: StatusAbsent.Label(), Values: []float64{d.Absent}, Color: p.Absent},
			{Name: StatusLate.Label(), Values: []float64{d.Late}, Color: p.Late},
		},
	}
}

func (t Trend) ChartData(p Palette) core.ChartData {
	p = p.withDefaults()
	return core.ChartData{
		Categories: t.Categories,
		Series:     []core.ChartSeries{{Name: "Attendance Rate", Values: t.Values, Color: p.Trend}},
	}
}

// WeeklyData returns the weekly breakdown of `period`; empty means current.
func (h History) WeeklyData(period string) (core.ChartData, error) {
	return h.breakdown(h.Weekly, "weekly", period)
}

// MonthlyData returns the monthly breakdown of `period`; empty means current.
func (h History) MonthlyData(period string) (core.ChartData, error) {
	return h.breakdown(h.Monthly, "monthly", period)
}

func (h History) breakdown(bds map[string]Breakdown, kind, period string) (core.ChartData, error) {
	if period == "" {
		period = PeriodCurrent
	}
	bd, ok := bds[core.CleanString(period, true /* lower */)]
	if !ok {
		return core.ChartData{}, errors.Wrapf(ErrUnknownPeriod, "%s %q", kind, period)
	}
	return bd.ChartData(h.Colors), nil
}

func (h History) OverviewData() core.ChartData     { return h.Overview.ChartData(h.Colors) }
func (h History) DistributionData() core.ChartData { return h.Distribution.ChartData(h.Colors) }
func (h History) TrendData() core.ChartData        { return h.Trend.ChartData(h.Colors) }

// Validate checks that every chart of the history is well-formed.
func (h History) Validate() error {
	for period, bd := range h.Weekly {
		if err := bd.ChartData(h.Colors).Validate(); err != nil {
			return errors.Wrapf(err, "weekly %s", period)
		}
	}
	for period, bd := range h.Monthly {
		if err := bd.ChartData(h.Colors).Validate(); err != nil {
			return errors.Wrapf(err, "monthly %s", period)
		}
	}
	if err := h.OverviewData().Validate(); err != nil {
		return errors.Wrap(err, "overview")
	}
	if err := h.TrendData().Validate(); err != nil {
		return errors.Wrap(err, "trend")
	}
	return nil
}
