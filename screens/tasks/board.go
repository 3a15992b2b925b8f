// Package tasks is the task list grouped by status.
package tasks

import (
	"context"
	"fmt"
	"time"

	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/screens"
	"sitelink.com/sitelink/utils"
)

type API interface {
	GetAll(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, id int, partial any) (*model.Task, error)
}

type statusUpdate struct {
	Status model.TaskStatus `json:"status"`
}

type Board struct {
	api   API
	now   func() time.Time
	loc   *time.Location
	tasks []model.Task
}

type Option func(*Board)

func WithLocation(loc *time.Location) Option {
	return func(b *Board) { b.loc = loc }
}

func NewBoard(api API, now func() time.Time, opts ...Option) *Board {
	if now == nil {
		now = time.Now
	}
	b := &Board{api: api, now: now, loc: utils.SiteZone}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Board) Load(ctx context.Context) error {
	tasks, err := b.api.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	b.tasks = tasks
	return nil
}

func (b *Board) Tasks() []model.Task {
	return append([]model.Task(nil), b.tasks...)
}

// ByStatus groups the loaded tasks. Every known status has an entry.
func (b *Board) ByStatus() map[model.TaskStatus][]model.Task {
	groups := utils.GroupBy(b.tasks, func(t model.Task) model.TaskStatus { return t.Status })
	for _, s := range model.TaskStatuses {
		if _, ok := groups[s]; !ok {
			groups[s] = nil
		}
	}
	return groups
}

func (b *Board) Overdue() []model.Task {
	today := b.now().In(b.loc).Format(utils.DateLayout)
	return utils.Filter(b.tasks, func(t model.Task) bool { return t.Overdue(today) })
}

// SetStatus moves a task to any known status.
func (b *Board) SetStatus(ctx context.Context, id int, status model.TaskStatus) (*model.Task, error) {
	if !status.Valid() {
		return nil, screens.Local(fmt.Errorf("unknown task status %q", status))
	}
	updated, err := b.api.Update(ctx, id, statusUpdate{Status: status})
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	if ctx.Err() != nil {
		return updated, ctx.Err()
	}
	if t := utils.Find(b.tasks, func(t model.Task) bool { return t.ID == id }); t != nil {
		*t = *updated
	}
	return updated, nil
}
