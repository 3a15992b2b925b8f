package core

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sitelink.com/sitelink/model"
)

type AttendanceFilter struct {
	User *int
	From string
	To   string
}

func ListAttendance(db *gorm.DB, f AttendanceFilter) ([]model.AttendanceRecord, error) {
	var conds []Cond
	if f.User != nil {
		conds = append(conds, Where("user_id = ?", *f.User))
	}
	if f.From != "" {
		conds = append(conds, Where("date >= ?", f.From))
	}
	if f.To != "" {
		conds = append(conds, Where("date <= ?", f.To))
	}
	return List[model.AttendanceRecord](db, conds...)
}

// CheckIn creates the day's record. A user has at most one record per date.
func CheckIn(db *gorm.DB, rec *model.AttendanceRecord) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.AttendanceRecord{}).
			Where("user_id = ? AND date = ?", rec.User, rec.Date).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateCheckIn
		}
		return createAttendance(tx, rec)
	})
}

// createAttendance inserts rec. A concurrent check-in for the same user and
// date that slipped past the count hits the unique index instead.
func createAttendance(tx *gorm.DB, rec *model.AttendanceRecord) error {
	err := tx.Create(rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateCheckIn
	}
	return err
}

// CheckOut closes the open record id. It returns nil, nil when there is no
// such record.
func CheckOut(db *gorm.DB, id int, req model.CheckOutRequest) (*model.AttendanceRecord, error) {
	var out *model.AttendanceRecord
	err := db.Transaction(func(tx *gorm.DB) error {
		rec, err := Find[model.AttendanceRecord](tx, id)
		if err != nil || rec == nil {
			return err
		}
		if !rec.IsOpen() {
			return ErrAlreadyCheckedOut
		}
		if req.CheckOutTime <= rec.CheckInTime {
			return fmt.Errorf("%w: %s is not after %s", model.ErrCheckOutBeforeCheckIn, req.CheckOutTime, rec.CheckInTime)
		}
		rec.CheckOutTime = &req.CheckOutTime
		rec.HoursWorked = &req.HoursWorked
		rec.OvertimeHours = &req.OvertimeHours
		if err := tx.Save(rec).Error; err != nil {
			return err
		}
		out = rec
		return nil
	})
	return out, err
}
