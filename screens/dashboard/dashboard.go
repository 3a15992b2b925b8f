// Package dashboard builds the role dashboards: a fixed list of panels per
// role, loaded together and rendered through a Renderer.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	v1 "sitelink.com/sitelink/api/v1"
	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/model/role"
	"sitelink.com/sitelink/utils"
)

type Lister[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
}

// Sources are the collections panels read from.
type Sources struct {
	Projects   Lister[model.Project]
	Tasks      Lister[model.Task]
	Budgets    Lister[model.Budget]
	Attendance Lister[model.AttendanceRecord]
	Incidents  Lister[model.Incident]
	Equipment  Lister[model.Equipment]
	Materials  Lister[model.MaterialRequest]
}

func SourcesFrom(c *v1.Client) Sources {
	return Sources{
		Projects:   c.Projects,
		Tasks:      c.Tasks,
		Budgets:    c.Budgets,
		Attendance: c.Attendance,
		Incidents:  c.Safety.Incidents(),
		Equipment:  c.Equipment,
		Materials:  c.Materials.Requests(),
	}
}

// Renderer draws each kind of panel.
type Renderer interface {
	Projects(*ProjectsPanel) error
	Tasks(*TasksPanel) error
	Budget(*BudgetPanel) error
	Attendance(*AttendancePanel) error
	Safety(*SafetyPanel) error
	Equipment(*EquipmentPanel) error
	Materials(*MaterialsPanel) error
}

// PanelsFor lists the pages shown to r, in display order.
func PanelsFor(r role.Role) []PageID {
	switch r {
	case role.Admin:
		return []PageID{PageProjects, PageTasks, PageBudget, PageAttendance, PageSafety, PageEquipment, PageMaterials}
	case role.ProjectManager:
		return []PageID{PageProjects, PageTasks, PageBudget, PageAttendance, PageMaterials}
	case role.SafetyOfficer:
		return []PageID{PageSafety, PageEquipment, PageAttendance, PageProjects}
	case role.SiteEngineer:
		return []PageID{PageTasks, PageMaterials, PageEquipment, PageAttendance}
	default:
		return []PageID{PageAttendance, PageTasks}
	}
}

func newPanel(id PageID) Panel {
	switch id {
	case PageProjects:
		return &ProjectsPanel{}
	case PageTasks:
		return &TasksPanel{}
	case PageBudget:
		return &BudgetPanel{}
	case PageAttendance:
		return &AttendancePanel{}
	case PageSafety:
		return &SafetyPanel{}
	case PageEquipment:
		return &EquipmentPanel{}
	case PageMaterials:
		return &MaterialsPanel{}
	}
	return nil
}

type Dashboard struct {
	viewer  model.User
	sources Sources
	panels  []Panel
	now     func() time.Time
	loc     *time.Location
}

type Option func(*Dashboard)

// WithLocation sets the zone that decides which date is today.
func WithLocation(loc *time.Location) Option {
	return func(d *Dashboard) { d.loc = loc }
}

func New(viewer model.User, sources Sources, now func() time.Time, opts ...Option) *Dashboard {
	if now == nil {
		now = time.Now
	}
	d := &Dashboard{viewer: viewer, sources: sources, now: now, loc: utils.SiteZone}
	for _, opt := range opts {
		opt(d)
	}
	for _, id := range PanelsFor(viewer.Role) {
		d.panels = append(d.panels, newPanel(id))
	}
	return d
}

func (d *Dashboard) Panels() []Panel {
	return d.panels
}

// Panel returns the panel for id, or nil when the role does not show it.
func (d *Dashboard) Panel(id PageID) Panel {
	for _, p := range d.panels {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

// Load fetches every panel concurrently. The first failure cancels the rest.
func (d *Dashboard) Load(ctx context.Context) error {
	v := view{
		sources: d.sources,
		viewer:  d.viewer,
		today:   d.now().In(d.loc).Format(utils.DateLayout),
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range d.panels {
		g.Go(func() error {
			if err := p.load(gctx, v); err != nil {
				return fmt.Errorf("load %s panel: %w", p.ID(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (d *Dashboard) Render(r Renderer) error {
	for _, p := range d.panels {
		if err := p.accept(r); err != nil {
			return err
		}
	}
	return nil
}
