package dashboard

import (
	"context"
	"sort"

	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/model/role"
	"sitelink.com/sitelink/utils"
)

type PageID string

const (
	PageProjects   PageID = "projects"
	PageTasks      PageID = "tasks"
	PageBudget     PageID = "budget"
	PageAttendance PageID = "attendance"
	PageSafety     PageID = "safety"
	PageEquipment  PageID = "equipment"
	PageMaterials  PageID = "materials"
)

// view is what a panel loads against.
type view struct {
	sources Sources
	viewer  model.User
	today   string
}

// Panel is one dashboard section. The set of panels is closed: every
// implementation lives in this file and Renderer has a method for each.
type Panel interface {
	ID() PageID
	Title() string
	load(ctx context.Context, v view) error
	accept(r Renderer) error
}

type ProjectsPanel struct {
	Projects []model.Project
	ByStatus map[string]int
}

func (*ProjectsPanel) ID() PageID { return PageProjects }
func (*ProjectsPanel) Title() string { return "Projects" }
func (p *ProjectsPanel) accept(r Renderer) error { return r.Projects(p) }

func (p *ProjectsPanel) load(ctx context.Context, v view) error {
	projects, err := v.sources.Projects.GetAll(ctx)
	if err != nil {
		return err
	}
	p.Projects = projects
	p.ByStatus = utils.CountBy(projects, func(p model.Project) string { return p.Status })
	return nil
}

func (p *ProjectsPanel) Active() int {
	return p.ByStatus[model.ProjectActive]
}

type TasksPanel struct {
	Total    int
	ByStatus map[model.TaskStatus]int
	Overdue  []model.Task
	Mine     int
}

func (*TasksPanel) ID() PageID { return PageTasks }
func (*TasksPanel) Title() string { return "Tasks" }
func (p *TasksPanel) accept(r Renderer) error { return r.Tasks(p) }

func (p *TasksPanel) load(ctx context.Context, v view) error {
	tasks, err := v.sources.Tasks.GetAll(ctx)
	if err != nil {
		return err
	}
	p.Total = len(tasks)
	p.ByStatus = utils.CountBy(tasks, func(t model.Task) model.TaskStatus { return t.Status })
	p.Overdue = utils.Filter(tasks, func(t model.Task) bool { return t.Overdue(v.today) })
	p.Mine = len(utils.Filter(tasks, func(t model.Task) bool {
		return t.AssignedTo != nil && *t.AssignedTo == v.viewer.ID
	}))
	return nil
}

type BudgetPanel struct {
	Totals    model.BudgetTotals
	Overspent []model.Budget
}

func (*BudgetPanel) ID() PageID { return PageBudget }
func (*BudgetPanel) Title() string { return "Budget" }
func (p *BudgetPanel) accept(r Renderer) error { return r.Budget(p) }

func (p *BudgetPanel) load(ctx context.Context, v view) error {
	budgets, err := v.sources.Budgets.GetAll(ctx)
	if err != nil {
		return err
	}
	p.Totals = model.SumBudgets(budgets)
	p.Overspent = utils.Filter(budgets, model.Budget.Overspent)
	return nil
}

// AttendancePanel covers today only. Non-administrators see their own
// records.
type AttendancePanel struct {
	Today      []model.AttendanceRecord
	OnSite     int
	HoursToday float64
}

func (*AttendancePanel) ID() PageID { return PageAttendance }
func (*AttendancePanel) Title() string { return "Attendance" }
func (p *AttendancePanel) accept(r Renderer) error { return r.Attendance(p) }

func (p *AttendancePanel) load(ctx context.Context, v view) error {
	records, err := v.sources.Attendance.GetAll(ctx)
	if err != nil {
		return err
	}
	admin := v.viewer.Role == role.Admin
	p.Today = utils.Filter(records, func(r model.AttendanceRecord) bool {
		return r.Date == v.today && (admin || r.User == v.viewer.ID)
	})
	p.OnSite = 0
	p.HoursToday = 0
	for _, r := range p.Today {
		if r.IsOpen() {
			p.OnSite++
		}
		p.HoursToday += utils.Deref(r.HoursWorked)
	}
	p.HoursToday = utils.Round2(p.HoursToday)
	return nil
}

type SafetyPanel struct {
	Open       []model.Incident
	Severe     int
	Total      int
	BySeverity map[model.Severity]int
}

func (*SafetyPanel) ID() PageID { return PageSafety }
func (*SafetyPanel) Title() string { return "Safety" }
func (p *SafetyPanel) accept(r Renderer) error { return r.Safety(p) }

func (p *SafetyPanel) load(ctx context.Context, v view) error {
	incidents, err := v.sources.Incidents.GetAll(ctx)
	if err != nil {
		return err
	}
	p.Total = len(incidents)
	p.Open = utils.Filter(incidents, model.Incident.Unresolved)
	sort.SliceStable(p.Open, func(i, j int) bool { return p.Open[i].IncidentDate > p.Open[j].IncidentDate })
	p.BySeverity = utils.CountBy(p.Open, func(i model.Incident) model.Severity { return i.Severity })
	p.Severe = len(utils.Filter(p.Open, func(i model.Incident) bool { return i.Severity.Severe() }))
	return nil
}

type EquipmentPanel struct {
	ByStatus       map[string]int
	MaintenanceDue []model.Equipment
}

func (*EquipmentPanel) ID() PageID { return PageEquipment }
func (*EquipmentPanel) Title() string { return "Equipment" }
func (p *EquipmentPanel) accept(r Renderer) error { return r.Equipment(p) }

func (p *EquipmentPanel) load(ctx context.Context, v view) error {
	equipment, err := v.sources.Equipment.GetAll(ctx)
	if err != nil {
		return err
	}
	p.ByStatus = utils.CountBy(equipment, func(e model.Equipment) string { return e.Status })
	p.MaintenanceDue = utils.Filter(equipment, func(e model.Equipment) bool { return e.MaintenanceDue(v.today) })
	return nil
}

type MaterialsPanel struct {
	Pending  []model.MaterialRequest
	ByStatus map[string]int
}

func (*MaterialsPanel) ID() PageID { return PageMaterials }
func (*MaterialsPanel) Title() string { return "Materials" }
func (p *MaterialsPanel) accept(r Renderer) error { return r.Materials(p) }

func (p *MaterialsPanel) load(ctx context.Context, v view) error {
	requests, err := v.sources.Materials.GetAll(ctx)
	if err != nil {
		return err
	}
	p.ByStatus = utils.CountBy(requests, func(m model.MaterialRequest) string { return m.Status })
	p.Pending = utils.Filter(requests, func(m model.MaterialRequest) bool { return m.Status == model.MaterialPending })
	return nil
}
