package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitelink.com/sitelink/utils"
)

func TestWorkedHours(t *testing.T) {
	day := func(h, m, s int) time.Time {
		return time.Date(2025, 6, 2, h, m, s, 0, time.UTC)
	}

	tests := []struct {
		name     string
		in, out  time.Time
		hours    float64
		overtime float64
		err      error
	}{
		{name: "Standard day with half hour overtime", in: day(9, 0, 0), out: day(17, 30, 0), hours: 8.5, overtime: 0.5},
		{name: "Short shift", in: day(7, 0, 0), out: day(11, 20, 0), hours: 4.33, overtime: 0},
		{name: "Exactly eight hours", in: day(6, 0, 0), out: day(14, 0, 0), hours: 8, overtime: 0},
		{name: "Seconds are ignored", in: day(9, 0, 59), out: day(9, 30, 1), hours: 0.5, overtime: 0},
		{name: "Long shift", in: day(5, 45, 0), out: day(19, 5, 0), hours: 13.33, overtime: 5.33},
		{name: "Check-out before check-in", in: day(12, 0, 0), out: day(11, 0, 0), err: ErrCheckOutBeforeCheckIn},
		{name: "Same instant", in: day(12, 0, 0), out: day(12, 0, 0), err: ErrCheckOutBeforeCheckIn},
		{name: "Crossing midnight", in: day(22, 0, 0), out: time.Date(2025, 6, 3, 2, 0, 0, 0, time.UTC), err: ErrShiftCrossesMidnight},
		{name: "Check-out on earlier day", in: day(8, 0, 0), out: time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC), err: ErrCheckOutBeforeCheckIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, overtime, err := WorkedHours(tt.in, tt.out)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hours, hours)
			assert.Equal(t, tt.overtime, overtime)
		})
	}
}

func TestWorkedHoursUsesCheckInZone(t *testing.T) {
	in := time.Date(2025, 6, 2, 23, 0, 0, 0, utils.SiteZone)
	// 13:30 UTC on the same day is 23:30 at the site.
	out := time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC)
	hours, overtime, err := WorkedHours(in, out)
	require.NoError(t, err)
	assert.Equal(t, 0.5, hours)
	assert.Equal(t, 0.0, overtime)
}

func TestFindOpenRecord(t *testing.T) {
	closed := "16:00:00"
	records := []AttendanceRecord{
		{ID: 1, User: 7, Date: "2025-06-01", CheckInTime: "08:00:00"},
		{ID: 2, User: 7, Date: "2025-06-02", CheckInTime: "08:00:00", CheckOutTime: &closed},
		{ID: 3, User: 8, Date: "2025-06-02", CheckInTime: "07:30:00"},
		{ID: 4, User: 7, Date: "2025-06-02", CheckInTime: "12:00:00"},
	}

	self := 7
	open := FindOpenRecord(records, "2025-06-02", &self)
	require.NotNil(t, open)
	assert.Equal(t, 4, open.ID)

	open = FindOpenRecord(records, "2025-06-02", nil)
	require.NotNil(t, open)
	assert.Equal(t, 3, open.ID)

	other := 9
	assert.Nil(t, FindOpenRecord(records, "2025-06-02", &other))
	assert.Nil(t, FindOpenRecord(records, "2025-06-03", nil))
}

func TestCheckInAt(t *testing.T) {
	r := AttendanceRecord{Date: "2025-06-02", CheckInTime: "09:00:00"}
	at, err := r.CheckInAt(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), at)
}
