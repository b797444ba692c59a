package attendance

import (
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

type (
	// Status is the attendance state of a student.
	Status string

	// StatusFilter narrows a view to one Status, or keeps them all.
	StatusFilter string
)

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"

	FilterAll     StatusFilter = "all"
	FilterPresent              = StatusFilter(StatusPresent)
	FilterAbsent               = StatusFilter(StatusAbsent)
	FilterLate                 = StatusFilter(StatusLate)

	// NoTime is the time shown for absent students.
	NoTime = "-"

	timeLayout = "15:04"
)

var (
	// errors
	ErrNotFound      = errors.New("student not found")
	ErrInvalidStatus = errors.New("invalid attendance status")

	AllStatuses = []Status{StatusPresent, StatusAbsent, StatusLate}
	AllFilters  = []StatusFilter{FilterAll, FilterPresent, FilterAbsent, FilterLate}

	// mockable
	nowFunc = time.Now
)

type (
	StudentRecord struct {
		ID      int         `json:"id" validate:"required,gt=0"`
		Name    string      `json:"name" validate:"required,notblank"`
		Section string      `json:"section" validate:"required,notblank"`
		Status  Status      `json:"status" validate:"attstatus"`
		Time    string      `json:"time"`
		Note    null.String `json:"note"`
	}

	// ViewState is the explicit state of a list view.
	ViewState struct {
		Status  StatusFilter `json:"status"`
		Search  string       `json:"search"`
		Section string       `json:"section"`
	}
)

func (st Status) Valid() bool {
	switch st {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

func (f StatusFilter) Valid() bool {
	return f == FilterAll || Status(f).Valid()
}

// Matches reports whether a record with status `st` passes the filter.
func (f StatusFilter) Matches(st Status) bool {
	return f == FilterAll || Status(f) == st
}

// StampTime returns the time a record gets when its status is set to `st`.
func StampTime(st Status, loc *time.Location) string {
	if st == StatusAbsent {
		return NoTime
	}
	if loc == nil {
		loc = time.Local
	}
	return nowFunc().In(loc).Format(timeLayout)
}

// ValidTime checks the status/time invariant: "-" exactly when absent, "HH:MM" otherwise.
func ValidTime(st Status, tm string) bool {
	if st == StatusAbsent {
		return tm == NoTime
	}
	if len(tm) != len(timeLayout) {
		return false
	}
	_, err := time.Parse(timeLayout, tm)
	return err == nil
}

// HasNote reports whether a note has been set, even to an empty string.
func (r StudentRecord) HasNote() bool {
	return r.Note.Valid
}
