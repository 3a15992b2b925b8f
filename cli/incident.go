package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/screens/forms"
	"sitelink.com/sitelink/utils"
)

func (a *App) incidentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incident",
		Short: "Safety incidents",
	}
	cmd.AddCommand(a.incidentListCmd(), a.incidentReportCmd())
	return cmd
}

func (a *App) incidentListCmd() *cobra.Command {
	var open bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List safety incidents",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if _, err := a.user(); err != nil {
				return err
			}
			incidents, err := a.client.Safety.GetIncidents(cmd.Context())
			if err != nil {
				return err
			}
			if open {
				incidents = utils.Filter(incidents, func(i model.Incident) bool { return i.Status == model.IncidentOpen })
			}
			w := a.table()
			fmt.Fprintln(w, "ID\tDATE\tSEVERITY\tSTATUS\tPROJECT\tTITLE")
			for _, i := range incidents {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n", i.ID, i.IncidentDate, i.Severity, i.Status, i.Project, i.Title)
			}
			return w.Flush()
		}),
	}
	cmd.Flags().BoolVar(&open, "open", false, "only open incidents")
	return cmd
}

func (a *App) incidentReportCmd() *cobra.Command {
	d := forms.NewIncidentDraft()
	var severity string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report a safety incident",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			d.Severity = model.Severity(severity)
			d.ReportedBy = u.ID
			if d.IncidentDate == "" {
				d.IncidentDate = a.today()
			}

			form := forms.NewController[forms.IncidentDraft, model.Incident](a.client.Safety.Incidents(), d)
			form.SetLogger(a.log)
			form.OnSaved = func(ctx context.Context, i *model.Incident) {
				slack := a.slack(ctx)
				if slack == nil {
					return
				}
				if err := slack.Incident(*i, u.DisplayName()); err != nil {
					a.log.Warnf("notify incident %d: %v", i.ID, err)
				}
			}
			i, err := form.Submit(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("Reported incident %d: [%s] %s\n", i.ID, i.Severity, i.Title)
			return nil
		}),
	}
	f := cmd.Flags()
	f.IntVar(&d.Project, "project", 0, "project id")
	f.StringVar(&d.Title, "title", "", "short title")
	f.StringVar(&d.Description, "description", "", "what happened")
	f.StringVar(&severity, "severity", string(d.Severity), "low, medium, high or critical")
	f.StringVar(&d.IncidentDate, "date", "", "incident date, yyyy-MM-dd, defaults to today")
	f.StringVar(&d.Location, "location", "", "where on site")
	return cmd
}
