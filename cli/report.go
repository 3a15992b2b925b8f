package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sitelink.com/sitelink/infrastructure/communication"
	"sitelink.com/sitelink/infrastructure/filesystem"
	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/report"
	"sitelink.com/sitelink/screens"
	"sitelink.com/sitelink/utils"
)

func (a *App) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Spreadsheet reports",
	}
	cmd.AddCommand(a.attendanceReportCmd())
	return cmd
}

func (a *App) attendanceReportCmd() *cobra.Command {
	var from, to, dir string
	var upload, email bool
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Export attendance to a workbook",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if _, err := a.user(); err != nil {
				return err
			}
			if from == "" {
				from = a.today()
			}
			if to == "" {
				to = from
			}
			if to < from {
				return screens.Local(fmt.Errorf("--to %s is before --from %s", to, from))
			}

			ctx := cmd.Context()
			records, lookup, err := a.attendanceData(ctx, from, to)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := report.WriteAttendance(&buf, records, lookup); err != nil {
				return screens.Local(err)
			}
			name := report.FileName(from, to)
			file := filepath.Join(dir, name)
			if err := os.WriteFile(file, buf.Bytes(), 0o644); err != nil {
				return screens.Local(err)
			}
			summary := report.Summary(from, to, records)
			a.printf("Wrote %s\n%s\n", file, summary)

			if !upload && !email {
				return nil
			}
			pub, err := a.publisher(ctx, upload, email)
			if err != nil {
				return screens.Local(err)
			}
			res, err := pub.Publish(ctx, name, summary, buf.Bytes())
			if err != nil {
				return screens.Local(err)
			}
			if res.Key != "" {
				a.printf("Uploaded s3://%s/%s\n", a.cfg.Report.Bucket, res.Key)
			}
			if res.MessageID != "" {
				a.printf("Mailed to %d recipients\n", len(a.cfg.Report.Recipients))
			}
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&from, "from", "", "first date, yyyy-MM-dd, defaults to today")
	f.StringVar(&to, "to", "", "last date, yyyy-MM-dd, defaults to --from")
	f.StringVar(&dir, "out", ".", "directory to write the workbook to")
	f.BoolVar(&upload, "upload", false, "upload to the report bucket")
	f.BoolVar(&email, "email", false, "mail to the report recipients")
	return cmd
}

// attendanceData fetches the records in range together with the names
// needed to label them.
func (a *App) attendanceData(ctx context.Context, from, to string) ([]model.AttendanceRecord, report.Lookup, error) {
	var (
		records  []model.AttendanceRecord
		users    []model.User
		projects []model.Project
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		records, err = a.client.Attendance.List(gctx, map[string]string{"from": from, "to": to})
		return err
	})
	g.Go(func() (err error) {
		users, err = a.client.Users.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		projects, err = a.client.Projects.GetAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, report.Lookup{}, err
	}

	lookup := report.Lookup{
		Users:    utils.KeyBy(users, func(u model.User) int { return u.ID }),
		Projects: utils.KeyBy(projects, func(p model.Project) int { return p.ID }),
	}
	return records, lookup, nil
}

func (a *App) publisher(ctx context.Context, upload, email bool) (*report.Publisher, error) {
	a.secrets(ctx)
	pub := &report.Publisher{
		Prefix: "attendance",
		Slack:  a.slack(ctx),
		Log:    a.log,
	}
	if upload {
		if a.cfg.Report.Bucket == "" {
			return nil, fmt.Errorf("no report bucket configured")
		}
		bucket, err := filesystem.Open(ctx, a.cfg.Report.Bucket)
		if err != nil {
			return nil, err
		}
		pub.Bucket = bucket
	}
	if email {
		if a.cfg.Report.Sender == "" || len(a.cfg.Report.Recipients) == 0 {
			return nil, fmt.Errorf("report sender and recipients must be configured")
		}
		mail, err := communication.OpenMail(ctx)
		if err != nil {
			return nil, err
		}
		pub.Mail = mail
		pub.From = a.cfg.Report.Sender
		pub.Recipients = a.cfg.Report.Recipients
	}
	return pub, nil
}
