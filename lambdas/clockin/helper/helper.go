// Package helper turns clock terminal exports into attendance records.
package helper

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"sitelink.com/sitelink/core"
	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/utils"
)

// Punch is one badge swipe. Site is the project code of the terminal.
type Punch struct {
	Seq   int
	Badge string
	At    time.Time
	Date  string
	Site  string
}

// Shift is every punch of one badge on one day.
type Shift struct {
	Badge   string
	Date    string
	Site    string
	From    time.Time
	To      time.Time
	Punches int
}

type Stats struct {
	Created int `json:"created"`
	Open    int `json:"open"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ParsePunches reads "seq,badge,timestamp,site" rows after a header line.
// Timestamps are RFC 3339 and are dated in loc.
func ParsePunches(r io.Reader, loc *time.Location) ([]Punch, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var punches []Punch
	for line := 1; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 {
			continue
		}
		if len(row) < 4 {
			return nil, fmt.Errorf("row %d: expected 4 columns, got %d", line, len(row))
		}

		seq, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid sequence: %w", line, err)
		}
		at, err := time.Parse(time.RFC3339, row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid timestamp: %w", line, err)
		}
		at = at.In(loc)

		punches = append(punches, Punch{
			Seq:   seq,
			Badge: strings.TrimSpace(row[1]),
			At:    at,
			Date:  at.Format(utils.DateLayout),
			Site:  strings.TrimSpace(row[3]),
		})
	}
	return punches, nil
}

// GroupShifts collapses punches per badge and date, ordered by date then
// badge. The first punch of the day decides the site.
func GroupShifts(punches []Punch) []Shift {
	sorted := append([]Punch(nil), punches...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	byKey := make(map[string]*Shift)
	var shifts []*Shift
	for _, p := range sorted {
		key := p.Badge + "|" + p.Date
		s, ok := byKey[key]
		if !ok {
			s = &Shift{Badge: p.Badge, Date: p.Date, Site: p.Site, From: p.At, To: p.At}
			byKey[key] = s
			shifts = append(shifts, s)
		}
		s.To = p.At
		s.Punches++
	}

	sort.SliceStable(shifts, func(i, j int) bool {
		if shifts[i].Date != shifts[j].Date {
			return shifts[i].Date < shifts[j].Date
		}
		return shifts[i].Badge < shifts[j].Badge
	})
	return utils.Map(shifts, func(s *Shift) Shift { return *s })
}

// Import stores one attendance record per shift. A single punch leaves the
// record open. Days that already have a record for the user are skipped;
// unknown badges or sites are counted as failed.
func Import(db *gorm.DB, shifts []Shift, log *utils.Logger) (Stats, error) {
	var stats Stats
	projects := make(map[string]*model.Project)

	for _, s := range shifts {
		user, err := core.FindUserByUsername(db, s.Badge)
		if err != nil {
			return stats, err
		}
		if user == nil {
			log.Warnf("unknown badge %q on %s", s.Badge, s.Date)
			stats.Failed++
			continue
		}

		project, ok := projects[s.Site]
		if !ok {
			found, err := core.List[model.Project](db, core.Where("code = ?", s.Site))
			if err != nil {
				return stats, err
			}
			if len(found) > 0 {
				project = &found[0]
			}
			projects[s.Site] = project
		}
		if project == nil {
			log.Warnf("unknown site %q for %s on %s", s.Site, s.Badge, s.Date)
			stats.Failed++
			continue
		}

		rec := model.AttendanceRecord{
			User:        user.ID,
			Project:     project.ID,
			Date:        s.Date,
			CheckInTime: s.From.Format(utils.TimeLayout),
			Notes:       utils.Ptr("clock terminal import"),
		}
		if s.Punches > 1 {
			hours, overtime, err := model.WorkedHours(s.From, s.To)
			if err != nil {
				log.Warnf("%s on %s: %v, left open", s.Badge, s.Date, err)
			} else {
				rec.CheckOutTime = utils.Ptr(s.To.Format(utils.TimeLayout))
				rec.HoursWorked = &hours
				rec.OvertimeHours = &overtime
			}
		}

		err = core.CheckIn(db, &rec)
		switch {
		case errors.Is(err, core.ErrDuplicateCheckIn):
			log.Debugf("%s already has a record on %s", s.Badge, s.Date)
			stats.Skipped++
		case err != nil:
			return stats, fmt.Errorf("import %s on %s: %w", s.Badge, s.Date, err)
		case rec.IsOpen():
			stats.Open++
		default:
			stats.Created++
		}
	}
	return stats, nil
}
