package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/screens/attendance"
	"sitelink.com/sitelink/utils"
)

func (a *App) attendanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attendance",
		Aliases: []string{"att"},
		Short:   "Check in and out of site",
	}
	cmd.AddCommand(a.attendanceStatusCmd(), a.attendanceListCmd(), a.checkInCmd(), a.checkOutCmd())
	return cmd
}

func (a *App) tracker(ctx context.Context) (*attendance.Tracker, error) {
	if _, err := a.user(); err != nil {
		return nil, err
	}
	t := attendance.NewTracker(a.client.Attendance, a.client.Projects, a.cfg.Locator(), a.session,
		attendance.WithClock(a.Now),
		attendance.WithLocation(a.cfg.Zone()),
		attendance.WithLogger(a.log),
	)
	if err := t.Load(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

func (a *App) attendanceStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's attendance state",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			t, err := a.tracker(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("%s: %s\n", a.today(), t.State())
			if open := t.OpenRecord(); open != nil {
				a.printf("Checked in at %s on project %d\n", open.CheckInTime, open.Project)
			}
			return nil
		}),
	}
}

func (a *App) attendanceListCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attendance records",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			t, err := a.tracker(cmd.Context())
			if err != nil {
				return err
			}
			records := utils.Filter(t.Records(), func(r model.AttendanceRecord) bool {
				return (from == "" || r.Date >= from) && (to == "" || r.Date <= to)
			})

			w := a.table()
			fmt.Fprintln(w, "ID\tDATE\tUSER\tPROJECT\tIN\tOUT\tHOURS\tOVERTIME")
			for _, r := range records {
				out := utils.Deref(r.CheckOutTime)
				if out == "" {
					out = "-"
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%s\t%.2f\t%.2f\n",
					r.ID, r.Date, r.User, r.Project, r.CheckInTime, out,
					utils.Deref(r.HoursWorked), utils.Deref(r.OvertimeHours))
			}
			return w.Flush()
		}),
	}
	cmd.Flags().StringVar(&from, "from", "", "first date, yyyy-MM-dd")
	cmd.Flags().StringVar(&to, "to", "", "last date, yyyy-MM-dd")
	return cmd
}

func (a *App) checkInCmd() *cobra.Command {
	var project int
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Check in to a project",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			t, err := a.tracker(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := t.CheckIn(cmd.Context(), project)
			if err != nil {
				return err
			}
			a.printf("Checked in at %s on project %d\n", rec.CheckInTime, rec.Project)
			return nil
		}),
	}
	cmd.Flags().IntVar(&project, "project", 0, "project id, defaults to the first project")
	return cmd
}

func (a *App) checkOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Check out of today's record",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			t, err := a.tracker(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := t.CheckOut(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("Checked out at %s: %.2f hours, %.2f overtime\n",
				utils.Deref(rec.CheckOutTime), utils.Deref(rec.HoursWorked), utils.Deref(rec.OvertimeHours))
			return nil
		}),
	}
}
