package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/utils"
)

type fakeAPI struct {
	tasks   []model.Task
	updates []statusUpdate
}

func (f *fakeAPI) GetAll(context.Context) ([]model.Task, error) {
	return append([]model.Task(nil), f.tasks...), nil
}

func (f *fakeAPI) Update(_ context.Context, id int, partial any) (*model.Task, error) {
	u := partial.(statusUpdate)
	f.updates = append(f.updates, u)
	t := utils.Find(f.tasks, func(t model.Task) bool { return t.ID == id })
	t.Status = u.Status
	out := *t
	return &out, nil
}

func newBoard(t *testing.T) (*Board, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{tasks: []model.Task{
		{ID: 1, Title: "Excavate", Status: model.TaskCompleted, DueDate: "2024-04-01"},
		{ID: 2, Title: "Formwork", Status: model.TaskInProgress, DueDate: "2024-05-01"},
		{ID: 3, Title: "Pour", Status: model.TaskNotStarted, DueDate: "2024-06-01"},
	}}
	now := func() time.Time { return time.Date(2024, 5, 6, 9, 0, 0, 0, utils.SiteZone) }
	b := NewBoard(api, now)
	require.NoError(t, b.Load(context.Background()))
	return b, api
}

func TestByStatusHasEveryStatus(t *testing.T) {
	b, _ := newBoard(t)
	groups := b.ByStatus()
	assert.Len(t, groups, len(model.TaskStatuses))
	assert.Len(t, groups[model.TaskInProgress], 1)
	assert.Empty(t, groups[model.TaskOnHold])
}

func TestOverdue(t *testing.T) {
	b, _ := newBoard(t)
	overdue := b.Overdue()
	require.Len(t, overdue, 1)
	assert.Equal(t, 2, overdue[0].ID)
}

func TestOverdueUsesConfiguredZone(t *testing.T) {
	api := &fakeAPI{tasks: []model.Task{{ID: 1, Title: "Strip forms", Status: model.TaskInProgress, DueDate: "2024-05-06"}}}
	eastern := time.FixedZone("EDT", -4*60*60)
	now := func() time.Time { return time.Date(2024, 5, 6, 20, 0, 0, 0, eastern) }

	site := NewBoard(api, now)
	require.NoError(t, site.Load(context.Background()))
	assert.Len(t, site.Overdue(), 1)

	local := NewBoard(api, now, WithLocation(eastern))
	require.NoError(t, local.Load(context.Background()))
	assert.Empty(t, local.Overdue())
}

func TestSetStatusAllowsAnyTransition(t *testing.T) {
	b, api := newBoard(t)

	for _, s := range []model.TaskStatus{model.TaskNotStarted, model.TaskOnHold, model.TaskInProgress} {
		updated, err := b.SetStatus(context.Background(), 1, s)
		require.NoError(t, err)
		assert.Equal(t, s, updated.Status)
	}
	assert.Len(t, api.updates, 3)
	assert.Equal(t, model.TaskInProgress, b.Tasks()[0].Status)
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	b, api := newBoard(t)
	_, err := b.SetStatus(context.Background(), 1, "archived")
	assert.Error(t, err)
	assert.Empty(t, api.updates)
}
