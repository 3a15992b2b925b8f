package model

import (
	"errors"
	"time"

	"sitelink.com/sitelink/utils"
)

// StandardShiftHours is the paid day before overtime starts.
const StandardShiftHours = 8.0

var (
	ErrCheckOutBeforeCheckIn = errors.New("check-out must be after check-in")
	ErrShiftCrossesMidnight  = errors.New("check-out must be on the same day as check-in")
)

type AttendanceRecord struct {
	ID            int      `gorm:"primaryKey;column:id" json:"id"`
	User          int      `gorm:"column:user_id;uniqueIndex:uq_attendance_user_date" json:"user"`
	Project       int      `gorm:"column:project_id" json:"project"`
	Date          string   `gorm:"column:date;type:varchar(10);uniqueIndex:uq_attendance_user_date" json:"date"` // yyyy-MM-dd
	CheckInTime   string   `gorm:"column:check_in_time;type:varchar(8)" json:"check_in_time"`               // HH:mm:ss
	CheckOutTime  *string  `gorm:"column:check_out_time;type:varchar(8)" json:"check_out_time"`
	Latitude      float64  `gorm:"column:latitude" json:"latitude"`
	Longitude     float64  `gorm:"column:longitude" json:"longitude"`
	HoursWorked   *float64 `gorm:"column:hours_worked;type:decimal(6,2)" json:"hours_worked"`
	OvertimeHours *float64 `gorm:"column:overtime_hours;type:decimal(6,2)" json:"overtime_hours"`
	Notes         *string  `gorm:"column:notes" json:"notes,omitempty"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// IsOpen reports whether the record is checked in but not yet checked out.
func (r AttendanceRecord) IsOpen() bool {
	return r.CheckInTime != "" && (r.CheckOutTime == nil || *r.CheckOutTime == "")
}

// CheckInAt is the absolute check-in instant in loc.
func (r AttendanceRecord) CheckInAt(loc *time.Location) (time.Time, error) {
	return utils.CombineDateTime(r.Date, r.CheckInTime, loc)
}

// CheckInRequest is the payload of a check-in action.
type CheckInRequest struct {
	User        int     `json:"user"`
	Project     int     `json:"project" binding:"required"`
	Date        string  `json:"date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	CheckInTime string  `json:"check_in_time" binding:"required,datetime=15:04:05"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Notes       *string `json:"notes,omitempty"`
}

// CheckOutRequest is the partial update sent by a check-out action.
type CheckOutRequest struct {
	CheckOutTime  string  `json:"check_out_time" binding:"required,datetime=15:04:05"`
	HoursWorked   float64 `json:"hours_worked"`
	OvertimeHours float64 `json:"overtime_hours"`
}

// WorkedHours computes hours worked and overtime between two instants. Both
// are truncated to the minute; the result is rounded to two decimals.
// Shifts must start and end on the same calendar day in checkIn's location.
func WorkedHours(checkIn, checkOut time.Time) (hours float64, overtime float64, err error) {
	checkOut = checkOut.In(checkIn.Location())
	if checkOut.Format(utils.DateLayout) != checkIn.Format(utils.DateLayout) {
		if checkOut.Before(checkIn) {
			return 0, 0, ErrCheckOutBeforeCheckIn
		}
		return 0, 0, ErrShiftCrossesMidnight
	}

	inMinutes := checkIn.Hour()*60 + checkIn.Minute()
	outMinutes := checkOut.Hour()*60 + checkOut.Minute()
	if !checkOut.After(checkIn) || outMinutes < inMinutes {
		return 0, 0, ErrCheckOutBeforeCheckIn
	}

	hours = utils.Round2(float64(outMinutes-inMinutes) / 60)
	overtime = utils.Round2(max(0, hours-StandardShiftHours))
	return hours, overtime, nil
}

// FindOpenRecord scans records for an open record dated today. When userID is
// set only that user's records are considered.
func FindOpenRecord(records []AttendanceRecord, today string, userID *int) *AttendanceRecord {
	return utils.Find(records, func(r AttendanceRecord) bool {
		if r.Date != today || !r.IsOpen() {
			return false
		}
		return userID == nil || r.User == *userID
	})
}
