// Package helper builds the scheduled attendance workbook.
package helper

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"slices"
	"time"

	"gorm.io/gorm"

	"sitelink.com/sitelink/core"
	"sitelink.com/sitelink/infrastructure/filesystem"
	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/report"
	"sitelink.com/sitelink/utils"
)

const Prefix = "attendance"

// Event selects the report period. An empty From means yesterday; an empty
// To means From.
type Event struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Force bool   `json:"force"`
}

// Range resolves the period against now in loc.
func (e Event) Range(now time.Time, loc *time.Location) (from, to string, err error) {
	from, to = e.From, e.To
	if from == "" {
		from = now.In(loc).AddDate(0, 0, -1).Format(utils.DateLayout)
	}
	if to == "" {
		to = from
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse(utils.DateLayout, d); err != nil {
			return "", "", fmt.Errorf("invalid date %q", d)
		}
	}
	if to < from {
		return "", "", fmt.Errorf("to %s is before from %s", to, from)
	}
	return from, to, nil
}

type Workbook struct {
	Name    string
	Summary string
	Data    []byte
	Records int
}

// Generate renders the records dated from..to.
func Generate(db *gorm.DB, from, to string) (*Workbook, error) {
	records, err := core.ListAttendance(db, core.AttendanceFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	users, err := core.List[model.User](db)
	if err != nil {
		return nil, err
	}
	projects, err := core.List[model.Project](db)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	lookup := report.Lookup{
		Users:    utils.KeyBy(users, func(u model.User) int { return u.ID }),
		Projects: utils.KeyBy(projects, func(p model.Project) int { return p.ID }),
	}
	if err := report.WriteAttendance(&buf, records, lookup); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &Workbook{
		Name:    report.FileName(from, to),
		Summary: report.Summary(from, to, records),
		Data:    buf.Bytes(),
		Records: len(records),
	}, nil
}

// AlreadyPublished reports whether name is in the bucket under Prefix.
func AlreadyPublished(ctx context.Context, b *filesystem.Bucket, name string) (bool, error) {
	keys, err := b.ListFiles(ctx, Prefix+"/")
	if err != nil {
		return false, err
	}
	return slices.Contains(keys, path.Join(Prefix, name)), nil
}
