package dashboard

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/model/role"
	"sitelink.com/sitelink/utils"
)

type list[T any] struct {
	items []T
	err   error
}

func (l list[T]) GetAll(ctx context.Context) ([]T, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.items, ctx.Err()
}

func sources() Sources {
	return Sources{
		Projects: list[model.Project]{items: []model.Project{
			{ID: 1, Name: "Tower A", Status: model.ProjectActive},
			{ID: 2, Name: "Depot", Status: model.ProjectPlanning},
		}},
		Tasks: list[model.Task]{items: []model.Task{
			{ID: 1, Title: "Formwork", Status: model.TaskInProgress, DueDate: "2024-05-01", AssignedTo: utils.Ptr(7)},
			{ID: 2, Title: "Pour", Status: model.TaskNotStarted, DueDate: "2024-06-01"},
		}},
		Budgets: list[model.Budget]{items: []model.Budget{
			{ID: 1, Category: "Labour", AllocatedAmount: 100, SpentAmount: 150},
			{ID: 2, Category: "Plant", AllocatedAmount: 200, SpentAmount: 50},
		}},
		Attendance: list[model.AttendanceRecord]{items: []model.AttendanceRecord{
			{ID: 1, User: 7, Date: "2024-05-06", CheckInTime: "07:00:00"},
			{ID: 2, User: 8, Date: "2024-05-06", CheckInTime: "06:00:00", CheckOutTime: utils.Ptr("14:30:00"), HoursWorked: utils.Ptr(8.5)},
			{ID: 3, User: 7, Date: "2024-05-05", CheckInTime: "07:00:00", CheckOutTime: utils.Ptr("15:00:00"), HoursWorked: utils.Ptr(8.0)},
		}},
		Incidents: list[model.Incident]{items: []model.Incident{
			{ID: 1, Title: "Fall", Severity: model.SeverityCritical, Status: model.IncidentOpen, IncidentDate: "2024-05-02"},
			{ID: 2, Title: "Cut", Severity: model.SeverityLow, Status: model.IncidentInvestigating, IncidentDate: "2024-05-04"},
			{ID: 3, Title: "Slip", Severity: model.SeverityHigh, Status: model.IncidentClosed, IncidentDate: "2024-04-01"},
		}},
		Equipment: list[model.Equipment]{items: []model.Equipment{
			{ID: 1, Name: "Crane", Status: model.EquipmentInUse, NextMaintenance: utils.Ptr("2024-05-01")},
			{ID: 2, Name: "Excavator", Status: model.EquipmentAvailable},
		}},
		Materials: list[model.MaterialRequest]{items: []model.MaterialRequest{
			{ID: 1, Material: "Rebar", Status: model.MaterialPending},
			{ID: 2, Material: "Cement", Status: model.MaterialDelivered},
		}},
	}
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 6, 12, 0, 0, 0, utils.SiteZone)
}

func TestPanelsFor(t *testing.T) {
	tests := []struct {
		role role.Role
		want []PageID
	}{
		{role.ProjectManager, []PageID{PageProjects, PageTasks, PageBudget, PageAttendance, PageMaterials}},
		{role.SafetyOfficer, []PageID{PageSafety, PageEquipment, PageAttendance, PageProjects}},
		{role.Worker, []PageID{PageAttendance, PageTasks}},
		{"", []PageID{PageAttendance, PageTasks}},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, PanelsFor(tt.role))
		})
	}
	assert.Len(t, PanelsFor(role.Admin), 7)
}

func TestEveryPageHasAPanel(t *testing.T) {
	for _, id := range PanelsFor(role.Admin) {
		p := newPanel(id)
		require.NotNil(t, p, id)
		assert.Equal(t, id, p.ID())
	}
}

func TestProjectManagerDashboard(t *testing.T) {
	d := New(model.User{ID: 7, Role: role.ProjectManager}, sources(), fixedNow)
	require.NoError(t, d.Load(context.Background()))

	budget := d.Panel(PageBudget).(*BudgetPanel)
	assert.Equal(t, 300.0, budget.Totals.Allocated)
	assert.Equal(t, 100.0, budget.Totals.Remaining())
	require.Len(t, budget.Overspent, 1)
	assert.Equal(t, "Labour", budget.Overspent[0].Category)

	tasks := d.Panel(PageTasks).(*TasksPanel)
	assert.Equal(t, 2, tasks.Total)
	assert.Equal(t, 1, tasks.Mine)
	assert.Len(t, tasks.Overdue, 1)

	att := d.Panel(PageAttendance).(*AttendancePanel)
	require.Len(t, att.Today, 1)
	assert.Equal(t, 1, att.OnSite)

	assert.Nil(t, d.Panel(PageSafety))
	assert.Equal(t, 1, d.Panel(PageProjects).(*ProjectsPanel).Active())
}

func TestSafetyOfficerDashboard(t *testing.T) {
	d := New(model.User{ID: 9, Role: role.SafetyOfficer}, sources(), fixedNow)
	require.NoError(t, d.Load(context.Background()))

	safety := d.Panel(PageSafety).(*SafetyPanel)
	assert.Equal(t, 3, safety.Total)
	require.Len(t, safety.Open, 2)
	assert.Equal(t, "Cut", safety.Open[0].Title)
	assert.Equal(t, 1, safety.Severe)

	equipment := d.Panel(PageEquipment).(*EquipmentPanel)
	assert.Len(t, equipment.MaintenanceDue, 1)
}

func TestAdminAttendanceCountsEveryone(t *testing.T) {
	d := New(model.User{ID: 1, Role: role.Admin}, sources(), fixedNow)
	require.NoError(t, d.Load(context.Background()))

	att := d.Panel(PageAttendance).(*AttendancePanel)
	assert.Len(t, att.Today, 2)
	assert.Equal(t, 8.5, att.HoursToday)
}

func TestTodayFollowsConfiguredZone(t *testing.T) {
	eastern := time.FixedZone("EDT", -4*60*60)
	evening := func() time.Time { return time.Date(2024, 5, 6, 20, 0, 0, 0, eastern) }
	admin := model.User{ID: 1, Role: role.Admin}

	d := New(admin, sources(), evening)
	require.NoError(t, d.Load(context.Background()))
	assert.Empty(t, d.Panel(PageAttendance).(*AttendancePanel).Today)

	d = New(admin, sources(), evening, WithLocation(eastern))
	require.NoError(t, d.Load(context.Background()))
	att := d.Panel(PageAttendance).(*AttendancePanel)
	assert.Len(t, att.Today, 2)
	assert.Equal(t, 1, att.OnSite)
}

func TestLoadFailsWhenAnyPanelFails(t *testing.T) {
	src := sources()
	src.Budgets = list[model.Budget]{err: errors.New("boom")}
	d := New(model.User{ID: 7, Role: role.ProjectManager}, src, fixedNow)

	err := d.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load budget panel")
}

type recorder struct {
	seen []PageID
}

func (r *recorder) Projects(p *ProjectsPanel) error     { r.seen = append(r.seen, p.ID()); return nil }
func (r *recorder) Tasks(p *TasksPanel) error           { r.seen = append(r.seen, p.ID()); return nil }
func (r *recorder) Budget(p *BudgetPanel) error         { r.seen = append(r.seen, p.ID()); return nil }
func (r *recorder) Attendance(p *AttendancePanel) error { r.seen = append(r.seen, p.ID()); return nil }
func (r *recorder) Safety(p *SafetyPanel) error         { r.seen = append(r.seen, p.ID()); return nil }
func (r *recorder) Equipment(p *EquipmentPanel) error   { r.seen = append(r.seen, p.ID()); return nil }
func (r *recorder) Materials(p *MaterialsPanel) error   { r.seen = append(r.seen, p.ID()); return nil }

func TestRenderVisitsPanelsInOrder(t *testing.T) {
	d := New(model.User{ID: 9, Role: role.SafetyOfficer}, sources(), fixedNow)
	require.NoError(t, d.Load(context.Background()))

	r := &recorder{}
	require.NoError(t, d.Render(r))
	assert.Equal(t, PanelsFor(role.SafetyOfficer), r.seen)
}

func TestTextRenderer(t *testing.T) {
	d := New(model.User{ID: 1, Role: role.Admin}, sources(), fixedNow)
	require.NoError(t, d.Load(context.Background()))

	var buf bytes.Buffer
	tr := NewTextRenderer(&buf)
	require.NoError(t, d.Render(tr))
	require.NoError(t, tr.Flush())

	out := buf.String()
	assert.Contains(t, out, "== Budget ==")
	assert.Contains(t, out, "$100.00")
	assert.Contains(t, out, "[critical] Fall")
	assert.Contains(t, out, "Pending requests")
}
