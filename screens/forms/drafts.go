package forms

import (
	"strconv"
	"strings"

	"sitelink.com/sitelink/model"
)

// Numeric inputs are kept as typed text and converted once valid.
func number(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

type TaskDraft struct {
	Project        int              `json:"project" validate:"gt=0"`
	Title          string           `json:"title" validate:"notblank"`
	Description    string           `json:"description"`
	AssignedTo     *int             `json:"assigned_to"`
	Status         model.TaskStatus `json:"status" validate:"oneof=not_started in_progress completed on_hold"`
	Priority       model.Priority   `json:"priority" validate:"oneof=low medium high critical"`
	StartDate      string           `json:"start_date" validate:"required,datetime=2006-01-02"`
	DueDate        string           `json:"due_date" validate:"required,datetime=2006-01-02"`
	EstimatedHours string           `json:"estimated_hours" validate:"omitempty,numeric"`
}

func NewTaskDraft() TaskDraft {
	return TaskDraft{Status: model.TaskNotStarted, Priority: model.PriorityMedium}
}

func TaskDraftFrom(t model.Task) TaskDraft {
	return TaskDraft{
		Project:        t.Project,
		Title:          t.Title,
		Description:    t.Description,
		AssignedTo:     t.AssignedTo,
		Status:         t.Status,
		Priority:       t.Priority,
		StartDate:      t.StartDate,
		DueDate:        t.DueDate,
		EstimatedHours: strconv.FormatFloat(t.EstimatedHours, 'f', -1, 64),
	}
}

func (d TaskDraft) Payload() any {
	return model.Task{
		Project:        d.Project,
		Title:          strings.TrimSpace(d.Title),
		Description:    d.Description,
		AssignedTo:     d.AssignedTo,
		Status:         d.Status,
		Priority:       d.Priority,
		StartDate:      d.StartDate,
		DueDate:        d.DueDate,
		EstimatedHours: number(d.EstimatedHours),
	}
}

type VendorDraft struct {
	Name          string `json:"name" validate:"notblank"`
	Code          string `json:"code" validate:"notblank"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Category      string `json:"category"`
	Rating        string `json:"rating" validate:"omitempty,numeric"`
}

func (d VendorDraft) Payload() any {
	return model.Vendor{
		Name:          strings.TrimSpace(d.Name),
		Code:          strings.TrimSpace(d.Code),
		ContactPerson: d.ContactPerson,
		Email:         d.Email,
		Phone:         d.Phone,
		Category:      d.Category,
		Rating:        number(d.Rating),
	}
}

type ProjectDraft struct {
	Name      string `json:"name" validate:"notblank"`
	Code      string `json:"code" validate:"notblank"`
	Location  string `json:"location"`
	Status    string `json:"status" validate:"oneof=planning active on_hold completed"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Budget    string `json:"budget" validate:"omitempty,numeric"`
	Manager   *int   `json:"manager"`
}

func NewProjectDraft() ProjectDraft {
	return ProjectDraft{Status: model.ProjectPlanning}
}

func (d ProjectDraft) Payload() any {
	return model.Project{
		Name:      strings.TrimSpace(d.Name),
		Code:      strings.TrimSpace(d.Code),
		Location:  d.Location,
		Status:    d.Status,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		Budget:    number(d.Budget),
		Manager:   d.Manager,
	}
}

type BudgetDraft struct {
	Project         int    `json:"project" validate:"gt=0"`
	Category        string `json:"category" validate:"notblank"`
	AllocatedAmount string `json:"allocated_amount" validate:"required,numeric"`
	SpentAmount     string `json:"spent_amount" validate:"omitempty,numeric"`
	CommittedAmount string `json:"committed_amount" validate:"omitempty,numeric"`
	FiscalYear      int    `json:"fiscal_year" validate:"gte=2000,lte=2100"`
}

func (d BudgetDraft) Payload() any {
	return model.Budget{
		Project:         d.Project,
		Category:        strings.TrimSpace(d.Category),
		AllocatedAmount: number(d.AllocatedAmount),
		SpentAmount:     number(d.SpentAmount),
		CommittedAmount: number(d.CommittedAmount),
		FiscalYear:      d.FiscalYear,
	}
}

type IncidentDraft struct {
	Project      int            `json:"project" validate:"gt=0"`
	Title        string         `json:"title" validate:"notblank"`
	Description  string         `json:"description" validate:"notblank"`
	Severity     model.Severity `json:"severity" validate:"oneof=low medium high critical"`
	IncidentDate string         `json:"incident_date" validate:"required,datetime=2006-01-02"`
	Location     string         `json:"location"`
	ReportedBy   int            `json:"reported_by"`
}

func NewIncidentDraft() IncidentDraft {
	return IncidentDraft{Severity: model.SeverityLow}
}

func (d IncidentDraft) Payload() any {
	return model.Incident{
		Project:      d.Project,
		Title:        strings.TrimSpace(d.Title),
		Description:  d.Description,
		Severity:     d.Severity,
		Status:       model.IncidentOpen,
		IncidentDate: d.IncidentDate,
		Location:     d.Location,
		ReportedBy:   d.ReportedBy,
	}
}
