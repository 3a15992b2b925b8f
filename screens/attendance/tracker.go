// Package attendance drives the check-in/check-out workflow for the signed-in
// user.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	v1 "sitelink.com/sitelink/api/v1"
	"sitelink.com/sitelink/location"
	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/screens"
	"sitelink.com/sitelink/session"
	"sitelink.com/sitelink/utils"
)

var (
	ErrAlreadyCheckedIn    = errors.New("already checked in today")
	ErrDayComplete         = errors.New("already checked out today")
	ErrNotCheckedIn        = errors.New("no open check-in for today")
	ErrNoProject           = errors.New("no project available to check in to")
	ErrUnknownProject      = errors.New("unknown project")
	ErrLocationUnavailable = errors.New("location unavailable")
)

type State int

const (
	NotCheckedIn State = iota
	CheckedIn
	CheckedOut
)

func (s State) String() string {
	switch s {
	case CheckedIn:
		return "checked in"
	case CheckedOut:
		return "checked out"
	}
	return "not checked in"
}

// API is the part of the attendance endpoint the tracker uses.
type API interface {
	GetAll(ctx context.Context) ([]model.AttendanceRecord, error)
	CheckIn(ctx context.Context, payload model.CheckInRequest) (*model.AttendanceRecord, error)
	CheckOut(ctx context.Context, id int, payload model.CheckOutRequest) (*model.AttendanceRecord, error)
}

type ProjectLister interface {
	GetAll(ctx context.Context) ([]model.Project, error)
}

// DuplicateCheckInError is returned when a record for today already exists.
// The existing record is left untouched.
type DuplicateCheckInError struct {
	Detail string
}

func (e *DuplicateCheckInError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return ErrAlreadyCheckedIn.Error()
}

func (e *DuplicateCheckInError) Unwrap() error { return ErrAlreadyCheckedIn }

// Prompt offers a reminder action; it does not schedule anything.
func (e *DuplicateCheckInError) Prompt() (string, string, []screens.AlertAction) {
	return "Already checked in",
		"You have already checked in today. Remember to check out at the end of your shift.",
		[]screens.AlertAction{{Label: "OK", Binding: true}, {Label: "Remind me", Binding: false}}
}

type Option func(*Tracker)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) { t.loc = loc }
}

func WithLogger(l *utils.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

type Tracker struct {
	api      API
	projects ProjectLister
	locator  location.Locator
	session  *session.Session
	now      func() time.Time
	loc      *time.Location
	logger   *utils.Logger

	records []model.AttendanceRecord
	open    *model.AttendanceRecord
	onSite  *model.AttendanceRecord
	state   State
}

func NewTracker(api API, projects ProjectLister, locator location.Locator, sess *session.Session, opts ...Option) *Tracker {
	t := &Tracker{
		api:      api,
		projects: projects,
		locator:  locator,
		session:  sess,
		now:      time.Now,
		loc:      utils.SiteZone,
		logger:   utils.DefaultLogger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) today() string {
	return t.now().In(t.loc).Format(utils.DateLayout)
}

func (t *Tracker) State() State { return t.state }

// OpenRecord is the signed-in user's open record for today, or nil.
func (t *Tracker) OpenRecord() *model.AttendanceRecord {
	if t.open == nil {
		return nil
	}
	r := *t.open
	return &r
}

// OnSiteRecord is the first open record dated today among the visible
// records. For administrators it may belong to another user; it is for
// display only and never drives check-in or check-out.
func (t *Tracker) OnSiteRecord() *model.AttendanceRecord {
	if t.onSite == nil {
		return nil
	}
	r := *t.onSite
	return &r
}

// Records are the records visible to the signed-in user from the last load.
func (t *Tracker) Records() []model.AttendanceRecord {
	return append([]model.AttendanceRecord(nil), t.records...)
}

// Load fetches attendance and derives today's state from scratch.
// Administrators see every record; everyone else only their own.
func (t *Tracker) Load(ctx context.Context) error {
	user, err := t.session.User()
	if err != nil {
		return screens.Local(err)
	}

	all, err := t.api.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load attendance: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	admin := t.session.IsAdmin()
	records := all
	if !admin {
		records = utils.Filter(all, func(r model.AttendanceRecord) bool { return r.User == user.ID })
	}

	today := t.today()
	open := model.FindOpenRecord(records, today, &user.ID)
	onSite := open
	if admin {
		onSite = model.FindOpenRecord(records, today, nil)
	}

	state := NotCheckedIn
	switch {
	case open != nil:
		state = CheckedIn
	case utils.Find(records, func(r model.AttendanceRecord) bool {
		return r.User == user.ID && r.Date == today && !r.IsOpen()
	}) != nil:
		state = CheckedOut
	}

	t.records = records
	t.open = open
	t.onSite = onSite
	t.state = state
	return nil
}

// CheckIn records the start of today's shift against projectID, or the first
// project when projectID is zero.
func (t *Tracker) CheckIn(ctx context.Context, projectID int) (*model.AttendanceRecord, error) {
	switch t.state {
	case CheckedIn:
		return nil, &DuplicateCheckInError{}
	case CheckedOut:
		return nil, screens.Local(ErrDayComplete)
	}

	user, err := t.session.User()
	if err != nil {
		return nil, screens.Local(err)
	}

	fix, err := t.locator.Locate(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, screens.Local(fmt.Errorf("%w: %v", ErrLocationUnavailable, err))
	}

	projects, err := t.projects.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	project, err := pickProject(projects, projectID)
	if err != nil {
		return nil, screens.Local(err)
	}

	now := t.now().In(t.loc)
	rec, err := t.api.CheckIn(ctx, model.CheckInRequest{
		User:        user.ID,
		Project:     project.ID,
		Date:        now.Format(utils.DateLayout),
		CheckInTime: now.Format(utils.TimeLayout),
		Latitude:    fix.Latitude,
		Longitude:   fix.Longitude,
	})
	if err != nil {
		if apiErr, ok := v1.AsAPIError(err); ok && apiErr.IsDuplicateCheckIn() {
			return nil, &DuplicateCheckInError{Detail: apiErr.Detail()}
		}
		return nil, fmt.Errorf("check in: %w", err)
	}
	if ctx.Err() != nil {
		return rec, ctx.Err()
	}

	t.logger.Infof("checked in user %d to project %d at %s", user.ID, project.ID, rec.CheckInTime)
	t.state = CheckedIn
	t.open = rec
	t.reload(ctx)
	return rec, nil
}

// CheckOut closes today's open record.
func (t *Tracker) CheckOut(ctx context.Context) (*model.AttendanceRecord, error) {
	if t.state != CheckedIn || t.open == nil {
		return nil, screens.Local(ErrNotCheckedIn)
	}
	open := *t.open

	checkIn, err := open.CheckInAt(t.loc)
	if err != nil {
		return nil, screens.Local(err)
	}
	now := t.now().In(t.loc)
	hours, overtime, err := model.WorkedHours(checkIn, now)
	if err != nil {
		return nil, screens.Local(err)
	}

	rec, err := t.api.CheckOut(ctx, open.ID, model.CheckOutRequest{
		CheckOutTime:  now.Format(utils.TimeLayout),
		HoursWorked:   hours,
		OvertimeHours: overtime,
	})
	if err != nil {
		return nil, fmt.Errorf("check out: %w", err)
	}
	if ctx.Err() != nil {
		return rec, ctx.Err()
	}

	t.logger.Infof("checked out record %d after %.2f hours", open.ID, hours)
	t.state = CheckedOut
	t.open = nil
	t.reload(ctx)
	return rec, nil
}

// reload refreshes after a write. The write already succeeded, so a failed
// reload keeps the new state.
func (t *Tracker) reload(ctx context.Context) {
	state, open := t.state, t.open
	if err := t.Load(ctx); err != nil {
		t.logger.Warnf("reload attendance after write: %v", err)
		t.state, t.open = state, open
	}
}

func pickProject(projects []model.Project, id int) (model.Project, error) {
	if len(projects) == 0 {
		return model.Project{}, ErrNoProject
	}
	if id == 0 {
		return projects[0], nil
	}
	p := utils.Find(projects, func(p model.Project) bool { return p.ID == id })
	if p == nil {
		return model.Project{}, fmt.Errorf("%w: %d", ErrUnknownProject, id)
	}
	return *p, nil
}
