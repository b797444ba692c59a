package dashboard

import (
	"github.com/pkg/errors"

	"github.com/trezcool/rollcall/core"
	"github.com/trezcool/rollcall/core/attendance"
)

// View is one screen of the dashboard.
type View string

const (
	ViewHome       View = "home"
	ViewAttendance View = "attendance"
	ViewReports    View = "reports"
	ViewSettings   View = "settings"
)

// EmptyText is shown in place of the rows of an empty list view.
const EmptyText = "No students found"

var (
	ErrUnknownView = errors.New("unknown view")

	AllViews  = []View{ViewHome, ViewAttendance, ViewReports, ViewSettings}
	ListViews = []View{ViewHome, ViewAttendance}
)

func ParseView(s string) (View, error) {
	v := View(core.CleanString(s, true /* lower */))
	for _, view := range AllViews {
		if v == view {
			return v, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownView, "%q", s)
}

// HasList reports whether the view shows a student list.
func (v View) HasList() bool {
	return v == ViewHome || v == ViewAttendance
}

func (v View) Mode() attendance.Mode {
	if v == ViewAttendance {
		return attendance.ModeAttendance
	}
	return attendance.ModeList
}

// Charts lists the charts drawn on the view.
func (v View) Charts() []ChartName {
	switch v {
	case ViewHome:
		return []ChartName{ChartWeekly, ChartMonthly}
	case ViewReports:
		return []ChartName{ChartOverview, ChartDistribution, ChartTrend}
	}
	return nil
}

// Screen is a rendered view.
type Screen struct {
	View     View                       `json:"view"`
	Date     string                     `json:"date"`
	DarkMode bool                       `json:"darkMode"`
	Notice   string                     `json:"notice,omitempty"`
	Sections []string                   `json:"sections"`
	State    *attendance.ViewState      `json:"state,omitempty"`
	Rows     []attendance.RowDescriptor `json:"rows,omitempty"`
	Empty    bool                       `json:"empty"`
	Stats    *attendance.AggregateStats `json:"stats,omitempty"`
	Charts   []ChartName                `json:"charts,omitempty"`
}

// EmptyText is the empty-state indicator of a list screen, if any.
func (s Screen) EmptyText() string {
	if s.Empty {
		return EmptyText
	}
	return ""
}
