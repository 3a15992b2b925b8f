package forms

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "sitelink.com/sitelink/api/v1"
	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/screens"
)

type call struct {
	method  string
	id      int
	payload any
}

type fakeSaver[T any] struct {
	calls []call
	err   error
	out   *T
}

func (f *fakeSaver[T]) Create(_ context.Context, payload any) (*T, error) {
	f.calls = append(f.calls, call{method: "create", payload: payload})
	return f.out, f.err
}

func (f *fakeSaver[T]) Update(_ context.Context, id int, partial any) (*T, error) {
	f.calls = append(f.calls, call{method: "update", id: id, payload: partial})
	return f.out, f.err
}

func validTask() TaskDraft {
	d := NewTaskDraft()
	d.Project = 2
	d.Title = "Pour slab level 3"
	d.StartDate = "2024-05-01"
	d.DueDate = "2024-05-10"
	d.EstimatedHours = "12.5"
	return d
}

func TestTaskWithoutTitleNeverReachesNetwork(t *testing.T) {
	api := &fakeSaver[model.Task]{}
	c := NewController[TaskDraft, model.Task](api, NewTaskDraft())

	d := validTask()
	d.Title = "   "
	c.Set(d)

	_, err := c.Submit(context.Background())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "This field is required.", ve.Fields()["title"])
	assert.Empty(t, api.calls)
	assert.Equal(t, "title: This field is required.", c.ErrorText())
	assert.Equal(t, screens.AlertValidation, screens.AlertFor(err).Kind)
}

func TestSubmitCreatesThenUpdates(t *testing.T) {
	api := &fakeSaver[model.Task]{out: &model.Task{ID: 11}}
	c := NewController[TaskDraft, model.Task](api, NewTaskDraft())
	c.Set(validTask())

	saved, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 11, saved.ID)
	require.Len(t, api.calls, 1)
	assert.Equal(t, "create", api.calls[0].method)

	payload := api.calls[0].payload.(model.Task)
	assert.Equal(t, 12.5, payload.EstimatedHours)
	assert.Equal(t, model.TaskNotStarted, payload.Status)

	c.Edit(11, TaskDraftFrom(*saved))
	d := validTask()
	d.Status = model.TaskInProgress
	c.Set(d)
	_, err = c.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, api.calls, 2)
	assert.Equal(t, "update", api.calls[1].method)
	assert.Equal(t, 11, api.calls[1].id)

	c.Reset()
	assert.False(t, c.Editing())
	assert.Equal(t, NewTaskDraft(), c.Draft())
}

func TestServerFieldErrorsAreKept(t *testing.T) {
	api := &fakeSaver[model.Vendor]{err: &v1.APIError{
		StatusCode: 400,
		Body:       []byte(`{"code":["vendor with this code already exists."],"email":"Enter a valid email address."}`),
	}}
	c := NewController[VendorDraft, model.Vendor](api, VendorDraft{})
	c.Set(VendorDraft{Name: "Acme Concrete", Code: "ACME"})

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Len(t, api.calls, 1)
	assert.Equal(t, []string{"vendor with this code already exists."}, c.FieldErrors()["code"])
	assert.Equal(t, "code: vendor with this code already exists.\nemail: Enter a valid email address.", c.ErrorText())

	alert := screens.AlertFor(err)
	assert.Equal(t, screens.AlertValidation, alert.Kind)
	assert.Equal(t, c.ErrorText(), alert.Message)
}

func TestDraftValidation(t *testing.T) {
	tests := []struct {
		name   string
		draft  any
		fields []string
	}{
		{
			name:  "valid task",
			draft: validTask(),
		},
		{
			name: "task bad dates and hours",
			draft: func() TaskDraft {
				d := validTask()
				d.DueDate = "10/05/2024"
				d.EstimatedHours = "twelve"
				return d
			}(),
			fields: []string{"due_date", "estimated_hours"},
		},
		{
			name: "task unknown status",
			draft: func() TaskDraft {
				d := validTask()
				d.Status = "done"
				return d
			}(),
			fields: []string{"status"},
		},
		{
			name:   "vendor missing name and code",
			draft:  VendorDraft{Email: "not-an-email"},
			fields: []string{"code", "email", "name"},
		},
		{
			name:   "project needs start date",
			draft:  ProjectDraft{Name: "Tower A", Code: "TWA", Status: model.ProjectActive, Budget: "1000000"},
			fields: []string{"start_date"},
		},
		{
			name:   "budget amounts must be numbers",
			draft:  BudgetDraft{Project: 1, Category: "Labour", AllocatedAmount: "lots", FiscalYear: 2024},
			fields: []string{"allocated_amount"},
		},
		{
			name:   "budget without project",
			draft:  BudgetDraft{Category: "Labour", AllocatedAmount: "1000", FiscalYear: 24},
			fields: []string{"fiscal_year", "project"},
		},
		{
			name:   "incident severity",
			draft:  IncidentDraft{Project: 1, Title: "Fall", Description: "Scaffold", Severity: "extreme", IncidentDate: "2024-05-06"},
			fields: []string{"severity"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDraft(tt.draft)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			var got []string
			for k := range ve.Fields() {
				got = append(got, k)
			}
			sort.Strings(got)
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestOnSavedRunsAfterSuccess(t *testing.T) {
	api := &fakeSaver[model.Incident]{out: &model.Incident{ID: 4, Severity: model.SeverityCritical}}
	c := NewController[IncidentDraft, model.Incident](api, NewIncidentDraft())

	var notified []int
	c.OnSaved = func(_ context.Context, saved *model.Incident) {
		if saved.Severity.Severe() {
			notified = append(notified, saved.ID)
		}
	}

	c.Set(IncidentDraft{Project: 1, Title: "Crane fault", Description: "Hoist brake slipping", Severity: model.SeverityCritical, IncidentDate: "2024-05-06"})
	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{4}, notified)

	payload := api.calls[0].payload.(model.Incident)
	assert.Equal(t, model.IncidentOpen, payload.Status)
}
