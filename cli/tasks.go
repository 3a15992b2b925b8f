package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/screens"
	"sitelink.com/sitelink/screens/forms"
	"sitelink.com/sitelink/screens/tasks"
	"sitelink.com/sitelink/utils"
)

func (a *App) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Task board",
	}
	cmd.AddCommand(a.taskListCmd(), a.taskCreateCmd(), a.taskStatusCmd())
	return cmd
}

func (a *App) board() *tasks.Board {
	return tasks.NewBoard(a.client.Tasks, a.Now, tasks.WithLocation(a.cfg.Zone()))
}

func (a *App) taskListCmd() *cobra.Command {
	var overdue bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks grouped by status",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if _, err := a.user(); err != nil {
				return err
			}
			b := a.board()
			if err := b.Load(cmd.Context()); err != nil {
				return err
			}

			w := a.table()
			if overdue {
				fmt.Fprintln(w, "ID\tTITLE\tDUE\tSTATUS")
				for _, t := range b.Overdue() {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, t.Title, t.DueDate, t.Status)
				}
				return w.Flush()
			}

			groups := b.ByStatus()
			for _, status := range model.TaskStatuses {
				fmt.Fprintf(w, "%s (%d)\n", status, len(groups[status]))
				for _, t := range groups[status] {
					fmt.Fprintf(w, "  %d\t%s\t%s\tdue %s\n", t.ID, t.Title, t.Priority, t.DueDate)
				}
			}
			return w.Flush()
		}),
	}
	cmd.Flags().BoolVar(&overdue, "overdue", false, "only overdue tasks")
	return cmd
}

func (a *App) taskCreateCmd() *cobra.Command {
	d := forms.NewTaskDraft()
	var assignee int
	var status, priority string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if _, err := a.user(); err != nil {
				return err
			}
			if assignee != 0 {
				d.AssignedTo = utils.Ptr(assignee)
			}
			d.Status = model.TaskStatus(status)
			d.Priority = model.Priority(priority)

			form := forms.NewController[forms.TaskDraft, model.Task](a.client.Tasks, d)
			form.SetLogger(a.log)
			t, err := form.Submit(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("Created task %d: %s\n", t.ID, t.Title)
			return nil
		}),
	}
	f := cmd.Flags()
	f.IntVar(&d.Project, "project", 0, "project id")
	f.StringVar(&d.Title, "title", "", "title")
	f.StringVar(&d.Description, "description", "", "description")
	f.IntVar(&assignee, "assign", 0, "assignee user id")
	f.StringVar(&status, "status", string(d.Status), "not_started, in_progress, completed or on_hold")
	f.StringVar(&priority, "priority", string(d.Priority), "low, medium, high or critical")
	f.StringVar(&d.StartDate, "start", "", "start date, yyyy-MM-dd")
	f.StringVar(&d.DueDate, "due", "", "due date, yyyy-MM-dd")
	f.StringVar(&d.EstimatedHours, "hours", "", "estimated hours")
	return cmd
}

func (a *App) taskStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status TASK_ID STATUS",
		Short: "Move a task to another status",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return screens.Local(fmt.Errorf("invalid task id %q", args[0]))
			}
			if _, err := a.user(); err != nil {
				return err
			}
			t, err := a.board().SetStatus(cmd.Context(), id, model.TaskStatus(args[1]))
			if err != nil {
				return err
			}
			a.printf("Task %d is now %s\n", t.ID, t.Status)
			return nil
		}),
	}
}
