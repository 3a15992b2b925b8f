package cli

import (
	"github.com/spf13/cobra"

	"sitelink.com/sitelink/screens/dashboard"
)

func (a *App) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard for your role",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			u, err := a.user()
			if err != nil {
				return err
			}
			d := dashboard.New(u, dashboard.SourcesFrom(a.client), a.Now, dashboard.WithLocation(a.cfg.Zone()))
			if err := d.Load(cmd.Context()); err != nil {
				return err
			}
			a.printf("Welcome, %s (%s)\n", u.DisplayName(), u.Role)
			out := dashboard.NewTextRenderer(a.Out)
			if err := d.Render(out); err != nil {
				return err
			}
			return out.Flush()
		}),
	}
}
