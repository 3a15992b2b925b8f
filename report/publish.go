package report

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"sitelink.com/sitelink/infrastructure/communication"
	"sitelink.com/sitelink/infrastructure/filesystem"
	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/utils"
)

// Publisher distributes a finished workbook. Each channel is skipped when it
// is not configured.
type Publisher struct {
	Bucket *filesystem.Bucket
	Prefix string

	Mail       communication.RawEmailAPI
	From       string
	Recipients []string

	Slack *communication.Slack
	Log   *utils.Logger
}

// Published lists where a report went.
type Published struct {
	Key       string
	MessageID string
}

// Publish uploads, mails and announces the workbook name holding data.
func (p *Publisher) Publish(ctx context.Context, name, summary string, data []byte) (Published, error) {
	var out Published
	log := p.Log
	if log == nil {
		log = utils.DefaultLogger
	}

	if p.Bucket != nil {
		key := path.Join(p.Prefix, name)
		if err := p.Bucket.WriteFile(ctx, key, ContentType, bytes.NewReader(data)); err != nil {
			return out, fmt.Errorf("upload %s: %w", name, err)
		}
		out.Key = key
		log.Infof("uploaded s3://%s/%s", p.Bucket.Name, key)
	}

	if p.Mail != nil && len(p.Recipients) > 0 {
		id, err := communication.SendEmailWith(ctx, p.Mail, &communication.Email{
			From:    p.From,
			To:      p.Recipients,
			Subject: "Attendance report " + name,
			Text:    summary,
			Attachments: []communication.Attachment{
				{Filename: name, ContentType: ContentType, Content: data},
			},
		})
		if err != nil {
			return out, err
		}
		out.MessageID = id
		log.Infof("mailed %s to %d recipients", name, len(p.Recipients))
	}

	if p.Slack != nil {
		msg := fmt.Sprintf(":bar_chart: %s\n%s", name, summary)
		if out.Key != "" {
			msg += fmt.Sprintf("\ns3://%s/%s", p.Bucket.Name, out.Key)
		}
		if err := p.Slack.Info(msg); err != nil {
			// the report itself is already delivered
			log.Warnf("slack notice for %s: %v", name, err)
		}
	}
	return out, nil
}

// Summary is the one-line description sent with a report.
func Summary(from, to string, records []model.AttendanceRecord) string {
	var hours, overtime float64
	people := make(map[int]bool)
	for _, r := range records {
		hours += utils.Deref(r.HoursWorked)
		overtime += utils.Deref(r.OvertimeHours)
		people[r.User] = true
	}
	period := from
	if to != from {
		period = from + " to " + to
	}
	return fmt.Sprintf("%s: %d records, %d people, %.2f hours (%.2f overtime)",
		period, len(records), len(people), utils.Round2(hours), utils.Round2(overtime))
}
