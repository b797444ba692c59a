package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStampTime(t *testing.T) {
	nowFunc = func() time.Time { return time.Date(2024, 3, 4, 7, 5, 0, 0, time.UTC) }
	defer func() { nowFunc = time.Now }()

	wat := time.FixedZone("WAT", 3600)
	assert.Equal(t, "07:05", StampTime(StatusPresent, time.UTC))
	assert.Equal(t, "08:05", StampTime(StatusLate, wat))
	assert.Equal(t, NoTime, StampTime(StatusAbsent, wat))
}

func TestValidTime(t *testing.T) {
	tests := []struct {
		st   Status
		tm   string
		want bool
	}{
		{StatusAbsent, NoTime, true},
		{StatusAbsent, "08:30", false},
		{StatusPresent, "08:30", true},
		{StatusLate, "23:59", true},
		{StatusPresent, NoTime, false},
		{StatusPresent, "8:30", false},
		{StatusPresent, "25:00", false},
		{StatusLate, "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidTime(tt.st, tt.tm), "ValidTime(%s, %q)", tt.st, tt.tm)
	}
}

func TestStatusFilter(t *testing.T) {
	assert.True(t, FilterAll.Valid())
	assert.True(t, FilterLate.Valid())
	assert.False(t, StatusFilter("lol").Valid())
	assert.False(t, Status("all").Valid())

	assert.True(t, FilterAll.Matches(StatusAbsent))
	assert.True(t, FilterAbsent.Matches(StatusAbsent))
	assert.False(t, FilterAbsent.Matches(StatusPresent))
}
