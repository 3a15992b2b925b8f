package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/screens/forms"
	"sitelink.com/sitelink/utils"
)

func (a *App) projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Projects",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if _, err := a.user(); err != nil {
				return err
			}
			projects, err := a.client.Projects.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			w := a.table()
			fmt.Fprintln(w, "ID\tCODE\tNAME\tSTATUS\tSTART\tBUDGET")
			for _, p := range projects {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.2f\n", p.ID, p.Code, p.Name, p.Status, p.StartDate, p.Budget)
			}
			return w.Flush()
		}),
	}

	d := forms.NewProjectDraft()
	var manager int
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if _, err := a.user(); err != nil {
				return err
			}
			if manager != 0 {
				d.Manager = utils.Ptr(manager)
			}
			form := forms.NewController[forms.ProjectDraft, model.Project](a.client.Projects, d)
			form.SetLogger(a.log)
			p, err := form.Submit(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("Created project %d: %s (%s)\n", p.ID, p.Name, p.Code)
			return nil
		}),
	}
	f := create.Flags()
	f.StringVar(&d.Name, "name", "", "project name")
	f.StringVar(&d.Code, "code", "", "unique project code")
	f.StringVar(&d.Location, "location", "", "site address")
	f.StringVar(&d.Status, "status", d.Status, "planning, active, on_hold or completed")
	f.StringVar(&d.StartDate, "start", "", "start date, yyyy-MM-dd")
	f.StringVar(&d.EndDate, "end", "", "end date, yyyy-MM-dd")
	f.StringVar(&d.Budget, "budget", "", "total budget")
	f.IntVar(&manager, "manager", 0, "manager user id")

	cmd.AddCommand(list, create)
	return cmd
}

func (a *App) vendorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendor",
		Short: "Vendors",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List vendors",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if _, err := a.user(); err != nil {
				return err
			}
			vendors, err := a.client.Vendors.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			w := a.table()
			fmt.Fprintln(w, "ID\tCODE\tNAME\tCATEGORY\tCONTACT\tRATING")
			for _, v := range vendors {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.1f\n", v.ID, v.Code, v.Name, v.Category, v.ContactPerson, v.Rating)
			}
			return w.Flush()
		}),
	}

	var d forms.VendorDraft
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a vendor",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if _, err := a.user(); err != nil {
				return err
			}
			form := forms.NewController[forms.VendorDraft, model.Vendor](a.client.Vendors, d)
			form.SetLogger(a.log)
			v, err := form.Submit(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("Created vendor %d: %s (%s)\n", v.ID, v.Name, v.Code)
			return nil
		}),
	}
	f := create.Flags()
	f.StringVar(&d.Name, "name", "", "vendor name")
	f.StringVar(&d.Code, "code", "", "unique vendor code")
	f.StringVar(&d.ContactPerson, "contact", "", "contact person")
	f.StringVar(&d.Email, "email", "", "email address")
	f.StringVar(&d.Phone, "phone", "", "phone number")
	f.StringVar(&d.Category, "category", "", "trade or supply category")
	f.StringVar(&d.Rating, "rating", "", "rating out of 5")

	cmd.AddCommand(list, create)
	return cmd
}
