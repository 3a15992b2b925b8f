// Package report renders attendance as a spreadsheet.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/utils"
)

const (
	AttendanceSheet = "Attendance"
	ContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var attendanceHeaders = []string{"Date", "Employee", "Project", "Check in", "Check out", "Hours", "Overtime", "Latitude", "Longitude"}

// Lookup resolves display names for ids in a record.
type Lookup struct {
	Users    map[int]model.User
	Projects map[int]model.Project
}

func (l Lookup) user(id int) string {
	if u, ok := l.Users[id]; ok {
		return u.DisplayName()
	}
	return fmt.Sprintf("#%d", id)
}

func (l Lookup) project(id int) string {
	if p, ok := l.Projects[id]; ok {
		return p.Name
	}
	return fmt.Sprintf("#%d", id)
}

// FileName is the report name for a date range.
func FileName(from, to string) string {
	if from == to {
		return fmt.Sprintf("attendance-%s.xlsx", from)
	}
	return fmt.Sprintf("attendance-%s_%s.xlsx", from, to)
}

// WriteAttendance writes one row per record, ordered by date then employee,
// followed by a totals row.
func WriteAttendance(w io.Writer, records []model.AttendanceRecord, lookup Lookup) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", AttendanceSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, h := range attendanceHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(AttendanceSheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(attendanceHeaders), 1)
	if err := f.SetCellStyle(AttendanceSheet, "A1", last, bold); err != nil {
		return err
	}

	sorted := append([]model.AttendanceRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return lookup.user(sorted[i].User) < lookup.user(sorted[j].User)
	})

	var hours, overtime float64
	row := 2
	for _, r := range sorted {
		values := []any{
			r.Date,
			lookup.user(r.User),
			lookup.project(r.Project),
			r.CheckInTime,
			utils.Deref(r.CheckOutTime),
			utils.Deref(r.HoursWorked),
			utils.Deref(r.OvertimeHours),
			r.Latitude,
			r.Longitude,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(AttendanceSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		hours += utils.Deref(r.HoursWorked)
		overtime += utils.Deref(r.OvertimeHours)
		row++
	}

	totals := []any{"Total", "", "", "", "", utils.Round2(hours), utils.Round2(overtime)}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(AttendanceSheet, cell, &totals); err != nil {
		return err
	}
	end, _ := excelize.CoordinatesToCellName(len(totals), row)
	if err := f.SetCellStyle(AttendanceSheet, cell, end, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(AttendanceSheet, "A", "C", 18); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
