package attendance

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func testHistory() History {
	bd := func(p float64) Breakdown {
		return Breakdown{
			Categories: []string{"Mon", "Tue"},
			Present:    []float64{p, p},
			Absent:     []float64{100 - p, 100 - p},
			Late:       []float64{0, 0},
		}
	}
	return History{
		Weekly:       map[string]Breakdown{PeriodCurrent: bd(90), PeriodLast: bd(80), PeriodTwoWeeks: bd(70)},
		Monthly:      map[string]Breakdown{PeriodCurrent: bd(85), PeriodLast: bd(75)},
		Overview:     bd(88),
		Distribution: Distribution{Present: 85, Absent: 10, Late: 5},
		Trend:        Trend{Categories: []string{"Jan", "Feb"}, Values: []float64{88, 92}},
		Colors:       Palette{Present: "#00FF00"},
	}
}

func TestHistory_WeeklyData(t *testing.T) {
	h := testHistory()

	tests := []struct {
		period      string
		wantPresent float64
		wantErr     error
	}{
		{period: "", wantPresent: 90},
		{period: PeriodCurrent, wantPresent: 90},
		{period: PeriodLast, wantPresent: 80},
		{period: "twoWeeks", wantPresent: 70},
		{period: "lol", wantErr: ErrUnknownPeriod},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			data, err := h.WeeklyData(tt.period)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			assert.NoError(t, err)
			assert.NoError(t, data.Validate())
			if assert.Len(t, data.Series, 3) {
				assert.Equal(t, tt.wantPresent, data.Series[0].Values[0])
				assert.Equal(t, "#00FF00", data.Series[0].Color)
				assert.Equal(t, defaultPalette.Absent, data.Series[1].Color)
			}
		})
	}

	_, err := h.MonthlyData(PeriodTwoWeeks)
	assert.Equal(t, ErrUnknownPeriod, errors.Cause(err))
}

func TestHistory_charts(t *testing.T) {
	h := testHistory()
	assert.NoError(t, h.Validate())

	dist := h.DistributionData()
	assert.NoError(t, dist.Validate())
	assert.Equal(t, []string{"Distribution"}, dist.Categories)
	assert.Equal(t, []string{"Present", "Absent", "Late"}, []string{dist.Series[0].Name, dist.Series[1].Name, dist.Series[2].Name})

	trend := h.TrendData()
	if assert.Len(t, trend.Series, 1) {
		assert.Equal(t, "Attendance Rate", trend.Series[0].Name)
		assert.Equal(t, defaultPalette.Trend, trend.Series[0].Color)
	}

	h.Trend.Values = h.Trend.Values[:1]
	assert.Error(t, h.Validate())
}
