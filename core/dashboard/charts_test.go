package dashboard_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/rollcall/core"
	"github.com/trezcool/rollcall/core/attendance"
	"github.com/trezcool/rollcall/core/dashboard"
	"github.com/trezcool/rollcall/tests"
)

type recordingRenderer struct {
	specs []core.ChartSpec
	opts  []core.ChartOptions
}

func (r *recordingRenderer) Render(w io.Writer, spec core.ChartSpec, opts core.ChartOptions) error {
	r.specs = append(r.specs, spec)
	r.opts = append(r.opts, opts)
	_, err := io.WriteString(w, spec.Name)
	return err
}

func TestChartSpec(t *testing.T) {
	app := testutil.NewApp(t)
	h := app.Seed.History

	tests := []struct {
		name       dashboard.ChartName
		period     string
		wantKind   core.ChartKind
		wantSeries int
		wantCats   int
		wantErr    error
	}{
		{name: dashboard.ChartWeekly, wantKind: core.ChartBar, wantSeries: 3, wantCats: 5},
		{name: dashboard.ChartWeekly, period: "twoWeeks", wantKind: core.ChartBar, wantSeries: 3, wantCats: 5},
		{name: dashboard.ChartMonthly, period: attendance.PeriodLast, wantKind: core.ChartLine, wantSeries: 3, wantCats: 4},
		{name: dashboard.ChartOverview, wantKind: core.ChartStackedBar, wantSeries: 3, wantCats: 4},
		{name: dashboard.ChartDistribution, wantKind: core.ChartPie, wantSeries: 3, wantCats: 1},
		{name: dashboard.ChartTrend, wantKind: core.ChartArea, wantSeries: 1, wantCats: 6},
		{name: dashboard.ChartMonthly, period: attendance.PeriodTwoWeeks, wantErr: attendance.ErrUnknownPeriod},
		{name: dashboard.ChartName("lol"), wantErr: dashboard.ErrUnknownChart},
	}
	for _, tt := range tests {
		t.Run(string(tt.name)+"/"+tt.period, func(t *testing.T) {
			spec, err := dashboard.ChartSpec(h, tt.name, tt.period)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, string(tt.name), spec.Name)
			assert.Equal(t, tt.wantKind, spec.Kind)
			assert.Len(t, spec.Data.Series, tt.wantSeries)
			assert.Len(t, spec.Data.Categories, tt.wantCats)
		})
	}
}

func TestParseChartName(t *testing.T) {
	name, err := dashboard.ParseChartName(" Weekly ")
	assert.NoError(t, err)
	assert.Equal(t, dashboard.ChartWeekly, name)
	assert.Equal(t, attendance.WeeklyPeriods, name.Periods())
	assert.Nil(t, dashboard.ChartTrend.Periods())

	_, err = dashboard.ParseChartName("pie")
	assert.Equal(t, dashboard.ErrUnknownChart, errors.Cause(err))
}

func TestDashboard_RenderChart(t *testing.T) {
	ctx := context.Background()
	app := testutil.NewApp(t)

	renderer := new(recordingRenderer)
	dash, err := dashboard.New(ctx, dashboard.Deps{
		Attendance:  app.AttSvc,
		Preferences: app.PrefSvc,
		Charts:      renderer,
		History:     app.Seed.History,
		Logger:      app.Logger,
	}, dashboard.Options{ChartWidth: 640, ChartHeight: 320})
	if !assert.NoError(t, err) {
		return
	}

	buf := new(bytes.Buffer)
	assert.NoError(t, dash.RenderChart(ctx, buf, dashboard.ChartWeekly, ""))
	assert.Equal(t, "weekly", buf.String())

	dash.Resize(800, 0)
	w, h := dash.ChartSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 320, h)

	_, err = dash.ToggleDarkMode(ctx)
	assert.NoError(t, err)
	assert.NoError(t, dash.RenderChart(ctx, io.Discard, dashboard.ChartTrend, ""))

	assert.Equal(t, []core.ChartOptions{
		{Width: 640, Height: 320},
		{Width: 800, Height: 320, Dark: true},
	}, renderer.opts)

	err = dash.RenderChart(ctx, io.Discard, dashboard.ChartWeekly, "lol")
	assert.Equal(t, attendance.ErrUnknownPeriod, errors.Cause(err))
	assert.Len(t, renderer.specs, 2)
}

func TestDashboard_RenderChart_svg(t *testing.T) {
	app := testutil.NewApp(t)

	for _, name := range dashboard.AllCharts {
		t.Run(string(name), func(t *testing.T) {
			buf := new(bytes.Buffer)
			assert.NoError(t, app.Dashboard.RenderChart(context.Background(), buf, name, ""))
			assert.Contains(t, buf.String(), "<svg")
		})
	}
}
