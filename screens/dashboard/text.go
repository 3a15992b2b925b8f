package dashboard

import (
	"fmt"
	"io"
	"text/tabwriter"

	"sitelink.com/sitelink/model"
)

// TextRenderer prints panel summaries as aligned columns.
type TextRenderer struct {
	tw *tabwriter.Writer
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

// Flush must be called after Render.
func (t *TextRenderer) Flush() error {
	return t.tw.Flush()
}

func (t *TextRenderer) heading(title string) {
	fmt.Fprintf(t.tw, "\n== %s ==\t\n", title)
}

func (t *TextRenderer) row(label string, value any) {
	fmt.Fprintf(t.tw, "%s\t%v\n", label, value)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func (t *TextRenderer) Projects(p *ProjectsPanel) error {
	t.heading(p.Title())
	t.row("Total", len(p.Projects))
	t.row("Active", p.Active())
	t.row("Planning", p.ByStatus[model.ProjectPlanning])
	t.row("Completed", p.ByStatus[model.ProjectCompleted])
	return nil
}

func (t *TextRenderer) Tasks(p *TasksPanel) error {
	t.heading(p.Title())
	t.row("Total", p.Total)
	for _, s := range model.TaskStatuses {
		t.row(string(s), p.ByStatus[s])
	}
	t.row("Assigned to me", p.Mine)
	t.row("Overdue", len(p.Overdue))
	for _, task := range p.Overdue {
		t.row("  "+task.Title, "due "+task.DueDate)
	}
	return nil
}

func (t *TextRenderer) Budget(p *BudgetPanel) error {
	t.heading(p.Title())
	t.row("Allocated", money(p.Totals.Allocated))
	t.row("Spent", money(p.Totals.Spent))
	t.row("Committed", money(p.Totals.Committed))
	t.row("Remaining", money(p.Totals.Remaining()))
	t.row("Overspent budgets", len(p.Overspent))
	for _, b := range p.Overspent {
		t.row("  "+b.Category, money(b.Remaining()))
	}
	return nil
}

func (t *TextRenderer) Attendance(p *AttendancePanel) error {
	t.heading(p.Title())
	t.row("Records today", len(p.Today))
	t.row("On site", p.OnSite)
	t.row("Hours logged", fmt.Sprintf("%.2f", p.HoursToday))
	return nil
}

func (t *TextRenderer) Safety(p *SafetyPanel) error {
	t.heading(p.Title())
	t.row("Incidents", p.Total)
	t.row("Open", len(p.Open))
	t.row("High or critical", p.Severe)
	for _, i := range p.Open {
		t.row(fmt.Sprintf("  [%s] %s", i.Severity, i.Title), i.IncidentDate)
	}
	return nil
}

func (t *TextRenderer) Equipment(p *EquipmentPanel) error {
	t.heading(p.Title())
	t.row("Available", p.ByStatus[model.EquipmentAvailable])
	t.row("In use", p.ByStatus[model.EquipmentInUse])
	t.row("Maintenance", p.ByStatus[model.EquipmentMaintenance])
	t.row("Maintenance due", len(p.MaintenanceDue))
	return nil
}

func (t *TextRenderer) Materials(p *MaterialsPanel) error {
	t.heading(p.Title())
	t.row("Pending requests", len(p.Pending))
	t.row("Approved", p.ByStatus[model.MaterialApproved])
	t.row("Delivered", p.ByStatus[model.MaterialDelivered])
	return nil
}
